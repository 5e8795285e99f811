package hw

import (
	"nescore/emu/log"
	"nescore/hw/hwio"
)

//go:generate go tool stringer -type Mirroring

// Mirroring is the arrangement of the 4 logical nametables over the 2KB of
// VRAM, as wired by the cartridge.
type Mirroring uint8

const (
	Horizontal Mirroring = iota
	Vertical
	SingleScreenA
	SingleScreenB
)

// SetMirroring maps the nametables on the PPU bus, from $2000 to $3EFF.
func (p *PPU) SetMirroring(m Mirroring) {
	// Unmap all nametables
	p.Bus.Unmap(0x2000, 0x3EFF)

	A := p.Nametables[:0x400]
	B := p.Nametables[0x400:0x800]

	var nt1, nt2, nt3, nt4 []byte

	switch m {
	case Horizontal:
		nt1, nt2 = A, A
		nt3, nt4 = B, B
	case Vertical:
		nt1, nt2 = A, B
		nt3, nt4 = A, B
	case SingleScreenA:
		nt1, nt2 = A, A
		nt3, nt4 = A, A
	case SingleScreenB:
		nt1, nt2 = B, B
		nt3, nt4 = B, B
	default:
		panic("unsupported mirroring " + m.String())
	}

	log.ModPPU.DebugZ("set nametable mirroring").Stringer("mirroring", m).End()

	p.Bus.MapMemorySlice(0x2000, 0x23FF, nt1, false)
	p.Bus.MapMemorySlice(0x2400, 0x27FF, nt2, false)
	p.Bus.MapMemorySlice(0x2800, 0x2BFF, nt3, false)
	p.Bus.MapMemorySlice(0x2C00, 0x2FFF, nt4, false)

	// Mirrors
	p.Bus.MapMemorySlice(0x3000, 0x33FF, nt1, false)
	p.Bus.MapMemorySlice(0x3400, 0x37FF, nt2, false)
	p.Bus.MapMemorySlice(0x3800, 0x3BFF, nt3, false)
	p.Bus.MapMemorySlice(0x3C00, 0x3EFF, nt4, false)
}

// paletteIndex maps a palette address ($3F00-$3FFF) to an index in the
// 32-byte palette RAM. Entries $10/$14/$18/$1C are mirrors of
// $00/$04/$08/$0C.
func paletteIndex(addr uint16) uint16 {
	idx := addr & 0x1F
	if idx&0x13 == 0x10 {
		idx &^= 0x10
	}
	return idx
}

func (p *PPU) initPalette() {
	p.palette = hwio.Device{
		Name: "palette",
		Size: 0x100,
		ReadCb: func(addr uint16) uint8 {
			return p.Palettes[paletteIndex(addr)]
		},
		WriteCb: func(addr uint16, val uint8) {
			p.Palettes[paletteIndex(addr)] = val
		},
	}
}
