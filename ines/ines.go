// package ines implements a Reader for roms in the iNES file format, used for
// the distribution of NES binary programs.
package ines

import (
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
)

type Rom struct {
	header
	Trainer []byte // Trainer, 512 bytes if present, or empty.
	PRG     []byte // PRG is PRG ROM data (length is multiples of 16k)
	CHR     []byte // CHR is CHR ROM data (length is multiples of 8k), empty for CHR RAM
}

// Open loads a rom from file.
func Open(path string) (*Rom, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rom := new(Rom)
	if _, err := rom.ReadFrom(f); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rom, nil
}

var (
	ErrInvalidMagic = errors.New("invalid magic number")
	ErrTruncated    = errors.New("truncated rom")
)

// ReadFrom implements io.ReaderFrom interface
func (rom *Rom) ReadFrom(r io.Reader) (int64, error) {
	buf, err := io.ReadAll(r)
	if err != nil {
		return 0, err
	}

	// header
	var off int
	if err := rom.decode(buf); err != nil {
		return 0, fmt.Errorf("failed to decode header: %w", err)
	}
	off += 16

	// trainer
	if rom.HasTrainer() {
		if len(buf) < off+512 {
			return 0, fmt.Errorf("incomplete TRAINER section: %w", ErrTruncated)
		}
		rom.Trainer = buf[off : off+512]
		off += 512
	}

	// PRG rom data
	if len(buf) < off+rom.prgsz {
		return 0, fmt.Errorf("incomplete PRG section: %w", ErrTruncated)
	}
	rom.PRG = buf[off : off+rom.prgsz]
	off += rom.prgsz

	// CHR rom data
	if len(buf) < off+rom.chrsz {
		return 0, fmt.Errorf("incomplete CHR section: %w", ErrTruncated)
	}
	rom.CHR = buf[off : off+rom.chrsz]
	off += rom.chrsz

	return int64(len(buf)), nil
}

const Magic = "NES\x1a"

func (hdr *header) decode(p []byte) error {
	if len(p) < 16 {
		return fmt.Errorf("header needs 16 bytes, got %d: %w", len(p), ErrTruncated)
	}
	if string(p[:4]) != Magic {
		return ErrInvalidMagic
	}
	copy(hdr.raw[:], p[:16])

	hdr.prgsz = int(hdr.raw[4]) * 16384
	hdr.chrsz = int(hdr.raw[5]) * 8192
	return nil
}

type header struct {
	raw   [16]byte
	prgsz int
	chrsz int
}

// NTMirroring is the nametable arrangement hardwired by the cartridge.
type NTMirroring uint8

const (
	HorzMirroring NTMirroring = iota
	VertMirroring
	FourScreen
)

func (m NTMirroring) String() string {
	switch m {
	case HorzMirroring:
		return "horizontal"
	case VertMirroring:
		return "vertical"
	case FourScreen:
		return "four-screen"
	}
	return fmt.Sprintf("NTMirroring(%d)", m)
}

// Mirroring returns the nametable mirroring.
func (hdr *header) Mirroring() NTMirroring {
	switch {
	case hdr.raw[6]&0x08 != 0:
		return FourScreen
	case hdr.raw[6]&0x01 != 0:
		return VertMirroring
	}
	return HorzMirroring
}

// Has Trainer indicates the presence of a trainer section in the rom.
func (hdr *header) HasTrainer() bool {
	return hdr.raw[6]&0x04 != 0
}

// HasPersistent indicates the presence of persistent memory in the rom.
func (hdr *header) HasPersistent() bool {
	return hdr.raw[6]&0x02 != 0
}

// IsNES20 reports whether the header is in the NES 2.0 format.
func (hdr *header) IsNES20() bool {
	return hdr.raw[7]&0x0C == 0x08
}

// Mapper returns the mapper number. The upper nibble is ignored for old
// iNES dumps whose bytes 7-15 are garbage (e.g "DiskDude!").
func (hdr *header) Mapper() uint16 {
	lo := uint16(hdr.raw[6] >> 4)
	if !hdr.IsNES20() && string(hdr.raw[12:16]) != "\x00\x00\x00\x00" {
		return lo
	}
	return uint16(hdr.raw[7]&0xF0) | lo
}

// PRGRAMSize returns the size of the PRG RAM, 8KB when unspecified.
func (hdr *header) PRGRAMSize() int {
	if n := int(hdr.raw[8]); n != 0 {
		return n * 8192
	}
	return 8192
}

// PrintInfos writes a human readable description of the rom.
func (rom *Rom) PrintInfos(w io.Writer) error {
	format := "iNES"
	if rom.IsNES20() {
		format = "NES 2.0"
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "format\t%s\n", format)
	fmt.Fprintf(tw, "mapper\t%d\n", rom.Mapper())
	fmt.Fprintf(tw, "mirroring\t%s\n", rom.Mirroring())
	fmt.Fprintf(tw, "PRG ROM\t%d KB\n", len(rom.PRG)/1024)
	if len(rom.CHR) == 0 {
		fmt.Fprintf(tw, "CHR RAM\t8 KB\n")
	} else {
		fmt.Fprintf(tw, "CHR ROM\t%d KB\n", len(rom.CHR)/1024)
	}
	fmt.Fprintf(tw, "PRG RAM\t%d KB\n", rom.PRGRAMSize()/1024)
	fmt.Fprintf(tw, "trainer\t%t\n", rom.HasTrainer())
	fmt.Fprintf(tw, "battery\t%t\n", rom.HasPersistent())
	return tw.Flush()
}
