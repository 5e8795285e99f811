package emu

import (
	"bytes"
	"testing"

	"nescore/emu/log"
	"nescore/ines"
)

func init() {
	log.Disable()
}

// nmiCounter waits for 2 vblanks, enables the vblank NMI, then loops. The NMI
// handler increments $10.
var nmiCounter = map[uint16][]byte{
	0x8000: {
		0x78,             // SEI
		0xD8,             // CLD
		0xA2, 0xFF,       // LDX #$FF
		0x9A,             // TXS
		0x2C, 0x02, 0x20, // BIT $2002
		0x10, 0xFB,       // BPL -5
		0x2C, 0x02, 0x20, // BIT $2002
		0x10, 0xFB,       // BPL -5
		0x2C, 0x02, 0x20, // BIT $2002
		0x10, 0xFB,       // BPL -5
		0xA9, 0x80,       // LDA #$80
		0x8D, 0x00, 0x20, // STA $2000
		0x4C, 0x19, 0x80, // JMP $8019
	},
	0x801C: {
		0xE6, 0x10, // INC $10
		0x40,       // RTI
	},
	0xFFFA: {0x1C, 0x80, 0x00, 0x80},
}

// buildRom returns a 16KB PRG, 8KB CHR NROM cartridge with the given code
// chunks. The reset vector defaults to $8000.
func buildRom(t testing.TB, code map[uint16][]byte) *ines.Rom {
	t.Helper()

	prg := make([]byte, 0x4000)
	prg[0x3FFC], prg[0x3FFD] = 0x00, 0x80
	for addr, buf := range code {
		copy(prg[addr&0x3FFF:], buf)
	}

	raw := []byte{'N', 'E', 'S', 0x1A, 1, 1, 0x01, 0, 0, 0, 0, 0, 0, 0, 0, 0}
	raw = append(raw, prg...)
	raw = append(raw, make([]byte, 0x2000)...)

	rom := new(ines.Rom)
	if _, err := rom.ReadFrom(bytes.NewReader(raw)); err != nil {
		t.Fatal(err)
	}
	return rom
}

func powerUp(t testing.TB, code map[uint16][]byte, cfg Config) *NES {
	t.Helper()

	nes, err := PowerUp(buildRom(t, code), cfg)
	if err != nil {
		t.Fatal(err)
	}
	return nes
}
