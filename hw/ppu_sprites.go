package hw

import (
	"math/bits"

	"nescore/emu/log"
)

const maxSprites = 8 // per scanline

// OAM entry layout
//
//	byte 0: Y position of top of sprite, minus 1
//	byte 1: tile index
//	byte 2: attributes
//	byte 3: X position of left side of sprite
const (
	sprPalette  = 0b11 // palette (4 to 7) of sprite
	sprBehind   = 1 << 5
	sprFlipH    = 1 << 6
	sprFlipV    = 1 << 7
	dummySprite = 0xFF
)

type spriteEntry struct {
	y, tile, attr, x uint8
	row              int  // row of the sprite on the next scanline
	zero             bool // primary OAM entry 0
}

type spriteShifter struct {
	lo, hi uint8 // pattern, already horizontally flipped
	attr   uint8
	x      uint8
	zero   bool
}

// sprites holds the sprites selected for the next scanline (secondary OAM)
// and the ones being drawn on the current one.
type sprites struct {
	secondary  [maxSprites]spriteEntry
	nsecondary int

	next     [maxSprites]spriteShifter
	current  [maxSprites]spriteShifter
	ncurrent int
}

type spritePixel struct {
	pix, pal uint8
	behind   bool
	zero     bool
}

// evaluateSprites fills secondary OAM with the first 8 sprites visible on
// the next scanline and sets the overflow flag if there are more.
func (p *PPU) evaluateSprites() {
	s := &p.spr
	s.nsecondary = 0
	if p.Scanline == preRenderLine {
		// No sprites are drawn on scanline 0.
		return
	}

	h := p.ctrl.spriteHeight()
	for i := 0; i < 64; i++ {
		e := p.OAM[i*4 : i*4+4]
		row := p.Scanline - int(e[0])
		if row < 0 || row >= h {
			continue
		}
		if s.nsecondary == maxSprites {
			if !p.status.has(spriteOverflow) {
				log.ModPPU.DebugZ("sprite overflow").Int("scanline", p.Scanline).End()
			}
			p.status.set(spriteOverflow, true)
			break
		}
		s.secondary[s.nsecondary] = spriteEntry{
			y:    e[0],
			tile: e[1],
			attr: e[2],
			x:    e[3],
			row:  row,
			zero: i == 0,
		}
		s.nsecondary++
	}
}

// fetchSprite loads the pattern of the i-th secondary OAM slot. Empty slots
// fetch tile $FF, which has no visible effect but is seen by the cartridge.
func (p *PPU) fetchSprite(i int) {
	s := &p.spr
	e := spriteEntry{tile: dummySprite, x: 0xFF}
	if i < s.nsecondary {
		e = s.secondary[i]
	}

	var addr uint16
	row := e.row
	if p.ctrl.spriteHeight() == 16 {
		if e.attr&sprFlipV != 0 {
			row = 15 - row
		}
		table := uint16(e.tile&1) * 0x1000
		tile := uint16(e.tile &^ 1)
		if row >= 8 {
			tile++
			row -= 8
		}
		addr = table + tile*16 + uint16(row)
	} else {
		if e.attr&sprFlipV != 0 {
			row = 7 - row
		}
		addr = p.ctrl.spriteTable() + uint16(e.tile)*16 + uint16(row)
	}

	lo := p.Bus.Read8(addr)
	hi := p.Bus.Read8(addr + 8)
	if i >= s.nsecondary {
		s.next[i] = spriteShifter{}
		return
	}
	if e.attr&sprFlipH != 0 {
		lo, hi = bits.Reverse8(lo), bits.Reverse8(hi)
	}
	s.next[i] = spriteShifter{lo: lo, hi: hi, attr: e.attr, x: e.x, zero: e.zero}
}

// swap makes the fetched sprites the ones drawn on the next scanline.
func (s *sprites) swap() {
	s.current = s.next
	s.ncurrent = s.nsecondary
}

// pixel returns the first opaque sprite pixel at x, in OAM order.
func (s *sprites) pixel(x int) spritePixel {
	for i := range s.current[:s.ncurrent] {
		spr := &s.current[i]
		col := x - int(spr.x)
		if col < 0 || col > 7 {
			continue
		}
		bit := 7 - col
		pix := (spr.hi>>bit&1)<<1 | spr.lo>>bit&1
		if pix == 0 {
			continue
		}
		return spritePixel{
			pix:    pix,
			pal:    spr.attr & sprPalette,
			behind: spr.attr&sprBehind != 0,
			zero:   spr.zero,
		}
	}
	return spritePixel{}
}
