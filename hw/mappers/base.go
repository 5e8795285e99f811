package mappers

import (
	"fmt"

	"nescore/hw"
	"nescore/hw/hwio"
	"nescore/ines"
)

type base struct {
	desc MapperDesc

	rom *ines.Rom
	cpu *hw.CPU
	ppu *hw.PPU

	prgram hwio.Mem
	chr    []byte // CHR ROM or RAM
}

func ispow2(n int) bool {
	return n&(n-1) == 0
}

func newbase(desc MapperDesc, rom *ines.Rom, cpu *hw.CPU, ppu *hw.PPU) (*base, error) {
	if len(rom.PRG) == 0 || !ispow2(len(rom.PRG)) {
		return nil, fmt.Errorf("only support PRGROM with power of 2 size, got %d", len(rom.PRG))
	}
	if desc.CHRROMbanksz != 0 && len(rom.CHR)%int(desc.CHRROMbanksz) != 0 {
		return nil, fmt.Errorf("CHRROM size %d is not a multiple of %d", len(rom.CHR), desc.CHRROMbanksz)
	}

	return &base{desc: desc, rom: rom, cpu: cpu, ppu: ppu}, nil
}

func (b *base) load() error {
	return b.desc.Load(b)
}

// mapPRGRAM maps the battery-backed or work RAM at $6000-$7FFF.
func (b *base) mapPRGRAM() {
	b.prgram = hwio.Mem{
		Name:  "PRGRAM",
		Data:  make([]byte, 0x2000),
		VSize: 0x2000,
	}
	b.cpu.Bus.MapMem(0x6000, &b.prgram)
}

// mapCHR maps the pattern tables on the PPU bus. Cartridges without CHR ROM
// have 8KB of CHR RAM instead.
func (b *base) mapCHR() {
	if len(b.rom.CHR) == 0 {
		b.chr = make([]byte, 0x2000)
		b.ppu.Bus.MapMemorySlice(0x0000, 0x1FFF, b.chr, false)
		return
	}
	b.chr = b.rom.CHR[:0x2000]
	b.ppu.Bus.MapMemorySlice(0x0000, 0x1FFF, b.chr, true)
}

func (b *base) setNTMirroring(m ines.NTMirroring) error {
	switch m {
	case ines.HorzMirroring:
		b.ppu.SetMirroring(hw.Horizontal)
	case ines.VertMirroring:
		b.ppu.SetMirroring(hw.Vertical)
	default:
		return fmt.Errorf("unsupported mirroring %s", m)
	}
	return nil
}
