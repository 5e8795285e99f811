package hw

// 'Loopy' register, the PPU internal VRAM address.
//
//	yyy NN YYYYY XXXXX
//	||| || ||||| +++++-- coarse X scroll
//	||| || +++++-------- coarse Y scroll
//	||| ++-------------- nametable select
//	+++----------------- fine Y scroll
type loopy uint16

func (l loopy) coarsex() uint8   { return uint8(l & 0x1F) }
func (l loopy) coarsey() uint8   { return uint8(l>>5) & 0x1F }
func (l loopy) nametable() uint8 { return uint8(l>>10) & 0b11 }
func (l loopy) finey() uint16    { return uint16(l>>12) & 0b111 }
func (l loopy) low() uint8       { return uint8(l) }
func (l loopy) high() uint8      { return uint8(l>>8) & 0x7F }
func (l loopy) addr() uint16     { return uint16(l) & 0x3FFF }
func (l loopy) val() uint16      { return uint16(l) & 0x7FFF }

func (l *loopy) setCoarsex(v uint8) {
	*l = *l&^0x1F | loopy(v&0x1F)
}

func (l *loopy) setCoarsey(v uint8) {
	*l = *l&^(0x1F<<5) | loopy(v&0x1F)<<5
}

func (l *loopy) setNametable(v uint8) {
	*l = *l&^(0b11<<10) | loopy(v&0b11)<<10
}

func (l *loopy) setFiney(v uint16) {
	*l = *l&^(0b111<<12) | loopy(v&0b111)<<12
}

func (l *loopy) setLow(v uint8) {
	*l = *l&^0xFF | loopy(v)
}

func (l *loopy) setHigh(v uint8) {
	*l = *l&^(0x7F<<8) | loopy(v&0x7F)<<8
}

// incx increments coarse X, switching horizontal nametable on wrap.
func (l *loopy) incx() {
	if l.coarsex() == 31 {
		l.setCoarsex(0)
		*l ^= 0x0400
	} else {
		*l++
	}
}

// incy increments fine Y, overflowing into coarse Y. Coarse Y wraps at 30
// (the last row of tiles above the attribute table), switching vertical
// nametable. Coarse Y set out of bounds (30 or 31) wraps at 32 without
// switching.
func (l *loopy) incy() {
	if fy := l.finey(); fy < 7 {
		l.setFiney(fy + 1)
		return
	}

	l.setFiney(0)
	switch y := l.coarsey(); y {
	case 29:
		l.setCoarsey(0)
		*l ^= 0x0800
	case 31:
		l.setCoarsey(0)
	default:
		l.setCoarsey(y + 1)
	}
}

// copyx copies the horizontal position bits (coarse X and horizontal
// nametable) from t.
func (l *loopy) copyx(t loopy) {
	*l = *l&^0x041F | t&0x041F
}

// copyy copies the vertical position bits (fine Y, coarse Y and vertical
// nametable) from t.
func (l *loopy) copyy(t loopy) {
	*l = *l&^0x7BE0 | t&0x7BE0
}

// ppuctrl register ($2000)
type ppuctrl uint8

// Nametable selection mask
// (0 = $2000; 1 = $2400; 2 = $2800; 3 = $2C00)
func (c ppuctrl) nametable() uint8 { return uint8(c) & 0b11 }

// VRAM address increment per CPU read/write of PPUDATA
// (0: +1 i.e. horizontal; 1: +32 i.e. vertical)
func (c ppuctrl) incr() uint16 {
	if c&(1<<2) != 0 {
		return 32
	}
	return 1
}

// Sprite pattern table address for 8x8 sprites
// (0: $0000; 1: $1000; ignored in 8x16 mode)
func (c ppuctrl) spriteTable() uint16 { return uint16(c&(1<<3)) << 9 }

// Background pattern table address (0: $0000; 1: $1000)
func (c ppuctrl) bgTable() uint16 { return uint16(c&(1<<4)) << 8 }

// Sprite height (8x8 or 8x16 pixels)
func (c ppuctrl) spriteHeight() int {
	if c&(1<<5) != 0 {
		return 16
	}
	return 8
}

// Generate an NMI at the start of the
// vertical blanking interval (0: off; 1: on)
func (c ppuctrl) nmi() bool { return c&(1<<7) != 0 }

// ppumask register ($2001)
type ppumask uint8

// Grayscale. (0: normal color, 1: produce a greyscale display)
func (m ppumask) gray() bool { return m&(1<<0) != 0 }

// Show background in leftmost 8 pixels of screen
func (m ppumask) bgLeft() bool { return m&(1<<1) != 0 }

// Show sprites in leftmost 8 pixels of screen
func (m ppumask) spriteLeft() bool { return m&(1<<2) != 0 }

func (m ppumask) bg() bool      { return m&(1<<3) != 0 }
func (m ppumask) sprites() bool { return m&(1<<4) != 0 }

func (m ppumask) rendering() bool { return m&(1<<3|1<<4) != 0 }

// ppustatus register ($2002)
type ppustatus uint8

const (
	// The intent was for this flag to be set whenever more than eight sprites
	// appear on a scanline. It is set during sprite evaluation and cleared at
	// dot 1 (the second dot) of the pre-render line.
	spriteOverflow ppustatus = 1 << 5

	// Set when a nonzero pixel of sprite 0 overlaps a nonzero background
	// pixel; cleared at dot 1 of the pre-render line. Used for raster timing.
	spriteHit ppustatus = 1 << 6

	// Vertical blank has started (0: not in vblank; 1: in vblank).
	// Set at dot 1 of line 241 (the line *after* the post-render line);
	// cleared after reading $2002 and at dot 1 of the pre-render line.
	vblank ppustatus = 1 << 7
)

func (s ppustatus) has(flag ppustatus) bool { return s&flag != 0 }

func (s *ppustatus) set(flag ppustatus, v bool) {
	if v {
		*s |= flag
	} else {
		*s &^= flag
	}
}
