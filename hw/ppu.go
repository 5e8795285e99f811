package hw

import (
	"nescore/emu/log"
	"nescore/hw/hwio"
)

const (
	NumScanlines = 262 // Number of scanlines per frame.
	NumCycles    = 341 // Number of PPU cycles per scanline.

	preRenderLine = 261
	vblankLine    = 241
)

// PPU is the 2C02 picture processing unit. It is advanced one dot at a time
// by Tick and never references the CPU: the NMI is reported by Tick's return
// value.
//
// CPU-exposed memory-mapped registers, mapped from $2000 to $2007 and
// mirrored up to $3FFF:
//
//	$2000 PPUCTRL   (write)
//	$2001 PPUMASK   (write)
//	$2002 PPUSTATUS (read)
//	$2003 OAMADDR   (write)
//	$2004 OAMDATA   (read/write)
//	$2005 PPUSCROLL (write x2)
//	$2006 PPUADDR   (write x2)
//	$2007 PPUDATA   (read/write)
type PPU struct {
	// PPU bus
	//	$0000-$1FFF	Pattern tables (cartridge)
	//	$2000-$2FFF	Nametables
	//	$3000-$3EFF	Mirrors of $2000-$2EFF
	//	$3F00-$3F1F	Palette RAM indexes
	//	$3F20-$3FFF	Mirrors of $3F00-$3F1F
	Bus *hwio.Table

	Sink    FrameSink // receives visible pixels, may be nil
	Palette *Palette  // master palette used to convert pixels for Sink

	Cycle      int   // Current cycle/pixel in scanline
	Scanline   int   // Current scanline being drawn
	FrameCount int64 // Number of completed frames

	Nametables [0x800]byte // 2KB of VRAM
	Palettes   [0x20]byte
	OAM        [0x100]byte // primary object attribute memory

	ctrl   ppuctrl
	mask   ppumask
	status ppustatus

	oamAddr uint8
	openbus uint8 // last value written to any port
	readBuf uint8 // PPUDATA read buffer

	// VRAM address registers
	v, t  loopy
	finex uint8
	w     bool

	lockout  bool // post power-up/reset register lockout
	oddFrame bool

	bg  bgPipeline
	spr sprites

	palette hwio.Device
	ports   hwio.Device
}

// bgPipeline holds the background tile fetch latches and shift registers.
type bgPipeline struct {
	nt, at, lo, hi uint8 // latches

	shiftLo, shiftHi uint16
	shiftAt          uint32 // 2 bits per pixel
}

// NewPPU returns a PPU at power-up state: vblank asserted and register
// writes locked out until the end of the first frame. The palette RAM is
// mapped on the PPU bus; the pattern tables are mapped by the cartridge.
func NewPPU() *PPU {
	p := &PPU{
		Bus:     hwio.NewTable("ppu"),
		Palette: &DefaultPalette,
	}
	p.initPalette()
	p.initPorts()
	p.Bus.MapDevice(0x3F00, &p.palette)
	p.status = vblank
	p.Reset()
	return p
}

// Reset puts the PPU back at the start of a frame, with register writes
// locked out until the pre-render scanline.
func (p *PPU) Reset() {
	p.Scanline = 0
	p.Cycle = 0
	p.ctrl = 0
	p.mask = 0
	p.w = false
	p.readBuf = 0
	p.oddFrame = false
	p.lockout = true
	p.spr = sprites{}
	p.bg = bgPipeline{}
}

// Position returns the scanline and dot of the next Tick.
func (p *PPU) Position() (scanline, dot int) {
	return p.Scanline, p.Cycle
}

// Tick runs the PPU for one dot and reports whether an NMI must be
// delivered to the CPU. That only happens at the start of vblank, dot 1 of
// scanline 241, with NMI enabled in PPUCTRL.
func (p *PPU) Tick() bool {
	var nmi bool

	switch {
	case p.Scanline < 240:
		p.renderDot()
	case p.Scanline == vblankLine:
		if p.Cycle == 1 {
			p.status.set(vblank, true)
			if p.ctrl.nmi() {
				log.ModPPU.DebugZ("vblank NMI").Int64("frame", p.FrameCount).End()
				nmi = true
			}
		}
	case p.Scanline == preRenderLine:
		if p.Cycle == 1 {
			p.status.set(vblank|spriteHit|spriteOverflow, false)
			p.lockout = false
		}
		p.renderDot()
	}

	p.advance()
	return nmi
}

func (p *PPU) advance() {
	// Odd frames are one dot shorter when rendering.
	if p.Scanline == preRenderLine && p.Cycle == 339 && p.oddFrame && p.mask.rendering() {
		p.Cycle = 340
	}

	p.Cycle++
	if p.Cycle < NumCycles {
		return
	}
	p.Cycle = 0
	p.Scanline++
	if p.Scanline == NumScanlines {
		p.Scanline = 0
		p.FrameCount++
		p.oddFrame = !p.oddFrame
	}
}

// renderDot runs the fetch, scroll and output logic of a visible or
// pre-render scanline.
func (p *PPU) renderDot() {
	dot := p.Cycle
	visible := p.Scanline < 240

	if p.mask.rendering() {
		if (dot >= 2 && dot <= 257) || (dot >= 322 && dot <= 337) {
			p.bg.shift()
		}
		if (dot >= 1 && dot <= 257) || (dot >= 321 && dot <= 336) {
			p.fetchBackground(dot)
		}

		switch {
		case dot == 256:
			p.v.incy()
		case dot == 257:
			p.v.copyx(p.t)
			p.evaluateSprites()
		case dot >= 280 && dot <= 304 && !visible:
			p.v.copyy(p.t)
		}

		if dot >= 264 && dot <= 320 && dot%8 == 0 {
			p.fetchSprite((dot - 264) / 8)
		}
		if dot == 320 {
			p.spr.swap()
		}
	}

	if visible && dot >= 1 && dot <= 256 {
		p.outputPixel(dot-1, p.Scanline)
	}
}

// fetchBackground performs the 8-dot background fetch cadence: nametable,
// attribute, low then high pattern bytes, then the coarse X increment.
func (p *PPU) fetchBackground(dot int) {
	switch (dot - 1) % 8 {
	case 0:
		p.bg.reload()
		p.bg.nt = p.Bus.Read8(0x2000 | p.v.addr()&0x0FFF)
	case 2:
		cx, cy := uint16(p.v.coarsex()), uint16(p.v.coarsey())
		addr := 0x23C0 | p.v.addr()&0x0C00 | (cy>>2)<<3 | cx>>2
		at := p.Bus.Read8(addr)
		shift := (cy&2)<<1 | cx&2
		p.bg.at = (at >> shift) & 0b11
	case 4:
		p.bg.lo = p.Bus.Read8(p.bgPatternAddr())
	case 6:
		p.bg.hi = p.Bus.Read8(p.bgPatternAddr() + 8)
	case 7:
		p.v.incx()
	}
}

func (p *PPU) bgPatternAddr() uint16 {
	return p.ctrl.bgTable() + uint16(p.bg.nt)*16 + p.v.finey()
}

// reload loads the latched tile into the low half of the shift registers.
func (bg *bgPipeline) reload() {
	bg.shiftLo = bg.shiftLo&0xFF00 | uint16(bg.lo)
	bg.shiftHi = bg.shiftHi&0xFF00 | uint16(bg.hi)

	at := uint32(bg.at)
	at |= at << 2
	at |= at << 4
	at |= at << 8
	bg.shiftAt = bg.shiftAt&0xFFFF0000 | at
}

func (bg *bgPipeline) shift() {
	bg.shiftLo <<= 1
	bg.shiftHi <<= 1
	bg.shiftAt <<= 2
}

// pixel returns the 2-bit pattern value and the 2-bit palette number of the
// background pixel at fine X offset finex.
func (bg *bgPipeline) pixel(finex uint8) (pix, pal uint8) {
	bit := 15 - finex
	pix = uint8(bg.shiftHi>>bit&1)<<1 | uint8(bg.shiftLo>>bit&1)
	pal = uint8(bg.shiftAt>>(30-2*finex)) & 0b11
	return pix, pal
}

// outputPixel composes the background and sprite pixels at (x, y) and emits
// the result to the frame sink.
func (p *PPU) outputPixel(x, y int) {
	var idx uint8 // palette RAM index

	if p.mask.rendering() {
		var bgpix, bgpal uint8
		if p.mask.bg() && (x >= 8 || p.mask.bgLeft()) {
			bgpix, bgpal = p.bg.pixel(p.finex)
		}
		var sp spritePixel
		if p.mask.sprites() && (x >= 8 || p.mask.spriteLeft()) {
			sp = p.spr.pixel(x)
		}

		if sp.pix != 0 && bgpix != 0 && sp.zero && x != 255 && !p.status.has(spriteHit) {
			log.ModPPU.DebugZ("sprite 0 hit").Int("x", x).Int("y", y).End()
			p.status.set(spriteHit, true)
		}

		switch {
		case sp.pix == 0 && bgpix == 0:
			idx = 0
		case sp.pix == 0 || (sp.behind && bgpix != 0):
			idx = bgpal<<2 | bgpix
		default:
			idx = 0x10 | sp.pal<<2 | sp.pix
		}
	}

	if p.Sink == nil {
		return
	}

	color := p.Palettes[paletteIndex(uint16(idx))] & 0x3F
	if p.mask.gray() {
		color &= 0x30
	}
	p.Sink.SetPixel(x, y, p.Palette.RGBA(color))
}
