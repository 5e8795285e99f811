package hw

import (
	"math/bits"
	"testing"

	"nescore/hw/hwio"
)

// newTestPPU returns a PPU past its reset lockout, with 8KB of CHR RAM, vertical
// mirroring and its ports mapped on a CPU bus.
func newTestPPU(t *testing.T) (*PPU, *hwio.Table) {
	t.Helper()

	ppu := NewPPU()
	ppu.lockout = false
	ppu.Bus.MapMemorySlice(0x0000, 0x1FFF, make([]byte, 0x2000), false)
	ppu.SetMirroring(Vertical)

	cpubus := hwio.NewTable("cpu")
	ppu.MapRegisters(cpubus)
	return ppu, cpubus
}

func tickUntil(t *testing.T, ppu *PPU, cond func() bool) {
	t.Helper()

	for range 4 * NumCycles * NumScanlines {
		if cond() {
			return
		}
		ppu.Tick()
	}
	t.Fatalf("condition not reached, ppu at scanline %d dot %d", ppu.Scanline, ppu.Cycle)
}

func setVRAMAddr(bus *hwio.Table, addr uint16) {
	bus.Write8(0x2006, uint8(addr>>8))
	bus.Write8(0x2006, uint8(addr))
}

func TestPPUScroll(t *testing.T) {
	ppu, bus := newTestPPU(t)

	ppu.t = 0xffff

	// Write to PPUCTRL
	bus.Write8(0x2000, 0)
	if got := ppu.t.nametable(); got != 0b00 {
		t.Errorf("t.nametable = 0b%08b, want 0b00", got)
	}

	// Read from PPUSTATUS
	_ = bus.Read8(0x2002)
	if ppu.w {
		t.Errorf("w = %t, want false", ppu.w)
	}

	// First write to PPUSCROLL
	bus.Write8(0x2005, 0b01111_101)
	if got := ppu.t.coarsex(); got != 0b01111 {
		t.Errorf("t.coarsex = 0b%08b, want 0b01111", got)
	}
	if ppu.finex != 0b101 {
		t.Errorf("finex = 0b%08b, want 0b101", ppu.finex)
	}
	if !ppu.w {
		t.Errorf("w = %t, want true", ppu.w)
	}

	// Second write to PPUSCROLL
	bus.Write8(0x2005, 0b01_011_110)
	if got := ppu.t.coarsey(); got != 0b01011 {
		t.Errorf("t.coarsey = 0b%08b, want 0b01011", got)
	}
	if got := ppu.t.finey(); got != 0b110 {
		t.Errorf("t.finey = 0b%08b, want 0b110", got)
	}
	if ppu.w {
		t.Errorf("w = %t, want false", ppu.w)
	}

	// First write to PPUADDR
	bus.Write8(0x2006, 0b00_111101)
	if got := ppu.t.high(); got != 0b111101 {
		t.Errorf("t.high = %08b, want 0b111101", got)
	}
	// Bit 14 (15th bit) of t gets set to zero
	if ppu.t.val() != 0b0111101_01101111 {
		t.Errorf("t.val = %015b, want 0b0111101_01101111", ppu.t.val())
	}

	// Second write to PPUADDR
	bus.Write8(0x2006, 0b11110000)
	if got := ppu.t.low(); got != 0b11110000 {
		t.Errorf("t.low = %08b, want 0b11110000", got)
	}
	if ppu.t.val() != 0b0111101_11110000 {
		t.Errorf("t.val = %015b, want 0b0111101_11110000", ppu.t.val())
	}
	// After t is updated, contents of t copied into v
	if ppu.t.val() != ppu.v.val() {
		t.Errorf("v != t")
	}
}

func TestLoopyIncrements(t *testing.T) {
	tests := []struct {
		name string
		v    loopy
		inc  func(*loopy)
		want loopy
	}{
		{"incx", 0x0005, (*loopy).incx, 0x0006},
		{"incx wrap", 0x001F, (*loopy).incx, 0x0400},
		{"incx wrap back", 0x041F, (*loopy).incx, 0x0000},
		{"incy fine", 0x1000, (*loopy).incy, 0x2000},
		{"incy coarse", 0x7000 | 3<<5, (*loopy).incy, 4 << 5},
		{"incy wrap at 30", 0x7000 | 29<<5, (*loopy).incy, 0x0800},
		{"incy wrap at 30 back", 0x7800 | 29<<5, (*loopy).incy, 0x0000},
		{"incy out of bounds", 0x7000 | 31<<5, (*loopy).incy, 0x0000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := tt.v
			tt.inc(&v)
			if v != tt.want {
				t.Errorf("got %04X, want %04X", uint16(v), uint16(tt.want))
			}
		})
	}

	v, tmp := loopy(0x7FFF), loopy(0)
	v.copyx(tmp)
	if v != 0x7BE0 {
		t.Errorf("copyx: got %04X, want 7BE0", uint16(v))
	}
	v.copyy(tmp)
	if v != 0 {
		t.Errorf("copyy: got %04X, want 0000", uint16(v))
	}
}

func TestTickNMI(t *testing.T) {
	for _, enabled := range []bool{true, false} {
		ppu, bus := newTestPPU(t)
		bus.Read8(0x2002) // ack power-up vblank
		if enabled {
			bus.Write8(0x2000, 0x80)
		}

		var got []int
		for range 2 * NumCycles * NumScanlines {
			sl, dot := ppu.Position()
			if ppu.Tick() {
				got = append(got, sl, dot)
			}
		}

		want := 0
		if enabled {
			want = 2
		}
		if len(got) != 2*want {
			t.Fatalf("nmi=%t: Tick returned true %d times, want %d", enabled, len(got)/2, want)
		}
		for i := 0; i < len(got); i += 2 {
			if got[i] != 241 || got[i+1] != 1 {
				t.Errorf("NMI at scanline %d dot %d, want 241,1", got[i], got[i+1])
			}
		}
	}
}

func TestPPUCTRLNMIEdge(t *testing.T) {
	ppu, bus := newTestPPU(t)
	if !ppu.status.has(vblank) {
		t.Fatalf("vblank should be set at power-up")
	}

	// Enabling NMI while vblank is set doesn't raise an edge: the only
	// edge of the frame is at the start of the next vblank.
	bus.Write8(0x2000, 0x80)
	nmis := 0
	for range NumScanlines * NumCycles {
		sl, dot := ppu.Position()
		if ppu.Tick() {
			nmis++
			if sl != vblankLine || dot != 1 {
				t.Errorf("Tick returned true at scanline %d dot %d", sl, dot)
			}
		}
	}
	if nmis != 1 {
		t.Errorf("got %d NMIs in one frame, want 1", nmis)
	}
}

func TestResetLockout(t *testing.T) {
	ppu := NewPPU()
	bus := hwio.NewTable("cpu")
	ppu.MapRegisters(bus)

	bus.Write8(0x2000, 0x80)
	bus.Write8(0x2001, 0x1E)
	bus.Write8(0x2003, 0x10)
	if ppu.ctrl != 0 || ppu.mask != 0 {
		t.Errorf("writes during lockout should be ignored, got ctrl=%02X mask=%02X", ppu.ctrl, ppu.mask)
	}
	if ppu.oamAddr != 0x10 {
		t.Errorf("OAMADDR should be writable during lockout, got %02X", ppu.oamAddr)
	}

	tickUntil(t, ppu, func() bool { return ppu.Scanline == preRenderLine && ppu.Cycle == 2 })

	bus.Write8(0x2001, 0x1E)
	if ppu.mask != 0x1E {
		t.Errorf("PPUMASK = %02X after lockout, want 1E", ppu.mask)
	}
}

func TestPPUSTATUS(t *testing.T) {
	ppu, bus := newTestPPU(t)

	bus.Write8(0x2005, 0x12) // set w
	bus.Write8(0x2003, 0x1F) // open bus

	if got := bus.Read8(0x2002); got != 0x9F {
		t.Errorf("PPUSTATUS = %02X, want 9F", got)
	}
	if ppu.w {
		t.Errorf("reading PPUSTATUS should clear w")
	}
	if got := bus.Read8(0x2002); got&0x80 != 0 {
		t.Errorf("reading PPUSTATUS should clear vblank, got %02X", got)
	}

	// Mirrored every 8 bytes.
	ppu.status.set(vblank, true)
	if got := bus.Peek8(0x3FFA); got&0x80 == 0 {
		t.Errorf("PPUSTATUS mirror at 3FFA = %02X, want vblank set", got)
	}
	if !ppu.status.has(vblank) {
		t.Errorf("Peek8 should not clear vblank")
	}

	// Write-only ports return the open bus.
	if got := bus.Read8(0x2000); got != 0x1F {
		t.Errorf("PPUCTRL read = %02X, want open bus 1F", got)
	}
}

func TestPPUDATA(t *testing.T) {
	ppu, bus := newTestPPU(t)

	setVRAMAddr(bus, 0x2000)
	bus.Write8(0x2007, 0x11)
	bus.Write8(0x2007, 0x22)
	if ppu.Nametables[0] != 0x11 || ppu.Nametables[1] != 0x22 {
		t.Fatalf("nametable = % X, want 11 22", ppu.Nametables[:2])
	}

	setVRAMAddr(bus, 0x2000)
	bus.Read8(0x2007) // stale buffer
	if got := bus.Read8(0x2007); got != 0x11 {
		t.Errorf("1st buffered read = %02X, want 11", got)
	}
	if got := bus.Read8(0x2007); got != 0x22 {
		t.Errorf("2nd buffered read = %02X, want 22", got)
	}

	// Palette reads are immediate and refill the buffer from the nametable
	// underneath ($2F00, nametable B with vertical mirroring).
	ppu.Nametables[0x700] = 0x77
	ppu.Palettes[0] = 0x0F
	setVRAMAddr(bus, 0x3F00)
	if got := bus.Read8(0x2007); got != 0x0F {
		t.Errorf("palette read = %02X, want 0F", got)
	}
	setVRAMAddr(bus, 0x2400)
	if got := bus.Read8(0x2007); got != 0x77 {
		t.Errorf("buffer after palette read = %02X, want 77", got)
	}

	// Vertical increment.
	bus.Write8(0x2000, 0x04)
	setVRAMAddr(bus, 0x2000)
	bus.Write8(0x2007, 0x33)
	bus.Write8(0x2007, 0x44)
	if ppu.Nametables[0x20] != 0x44 {
		t.Errorf("nametable[20] = %02X, want 44", ppu.Nametables[0x20])
	}
	if ppu.v.val() != 0x2040 {
		t.Errorf("v = %04X, want 2040", ppu.v.val())
	}
}

func TestPaletteRoundTrip(t *testing.T) {
	_, bus := newTestPPU(t)

	write := func(addr uint16, val uint8) {
		setVRAMAddr(bus, addr)
		bus.Write8(0x2007, val)
	}
	read := func(addr uint16) uint8 {
		setVRAMAddr(bus, addr)
		return bus.Read8(0x2007)
	}

	for addr := uint16(0x3F00); addr < 0x3F20; addr++ {
		if paletteIndex(addr) != addr&0x1F {
			continue // mirrored entries
		}
		val := uint8(addr) ^ 0x55
		write(addr, val)
		if got := read(addr); got != val {
			t.Errorf("palette[%04X] = %02X, want %02X", addr, got, val)
		}
	}

	mirrors := []struct{ addr, alias uint16 }{
		{0x3F10, 0x3F00},
		{0x3F14, 0x3F04},
		{0x3F18, 0x3F08},
		{0x3F1C, 0x3F0C},
		{0x3F21, 0x3F01},
		{0x3FFF, 0x3F1F},
	}
	for _, m := range mirrors {
		write(m.addr, 0x2A)
		if got := read(m.alias); got != 0x2A {
			t.Errorf("palette[%04X] = %02X after writing %04X, want 2A", m.alias, got, m.addr)
		}
	}
}

func TestSpriteOverflow(t *testing.T) {
	tests := []struct {
		nsprites     int
		wantSelected int
		wantOverflow bool
	}{
		{nsprites: 7, wantSelected: 7},
		{nsprites: 8, wantSelected: 8},
		{nsprites: 9, wantSelected: 8, wantOverflow: true},
	}
	for _, tt := range tests {
		ppu, bus := newTestPPU(t)
		bus.Write8(0x2001, 0x18)

		for i := range ppu.OAM {
			ppu.OAM[i] = 0xF0 // offscreen
		}
		for i := range tt.nsprites {
			ppu.OAM[i*4] = 10
			ppu.OAM[i*4+3] = uint8(i * 8)
		}

		ppu.Scanline, ppu.Cycle = 12, 257
		ppu.Tick()

		if ppu.spr.nsecondary != tt.wantSelected {
			t.Errorf("%d sprites: selected %d, want %d", tt.nsprites, ppu.spr.nsecondary, tt.wantSelected)
		}
		if got := ppu.status.has(spriteOverflow); got != tt.wantOverflow {
			t.Errorf("%d sprites: overflow = %t, want %t", tt.nsprites, got, tt.wantOverflow)
		}
	}
}

func TestOddFrameSkip(t *testing.T) {
	ppu, bus := newTestPPU(t)
	bus.Write8(0x2001, 0x08)

	var dots [2]int
	for i := range dots {
		start := ppu.FrameCount
		for ppu.FrameCount == start {
			ppu.Tick()
			dots[i]++
		}
	}
	if dots[0] != 89342 || dots[1] != 89341 {
		t.Errorf("dots per frame = %v, want [89342 89341]", dots)
	}
}

// setupSolidBackground fills nametable A with tile 1, whose pixels all use
// color 1 of palette 0.
func setupSolidBackground(ppu *PPU) {
	for i := range 8 {
		ppu.Bus.Write8(0x0010+uint16(i), 0xFF)
	}
	for i := range 0x3C0 {
		ppu.Nametables[i] = 1
	}
	ppu.Palettes[0] = 0x0F
	ppu.Palettes[1] = 0x30
	ppu.Palettes[0x11] = 0x16
}

func TestBackgroundRendering(t *testing.T) {
	ppu, bus := newTestPPU(t)
	frame := NewFrame()
	ppu.Sink = frame
	setupSolidBackground(ppu)

	bus.Write8(0x2001, 0x08) // background, leftmost 8 pixels hidden
	tickUntil(t, ppu, func() bool { return ppu.FrameCount == 2 })

	backdrop := DefaultPalette.RGBA(0x0F)
	fg := DefaultPalette.RGBA(0x30)
	for _, px := range []struct{ x, y int }{{0, 0}, {7, 100}, {8, 0}, {128, 120}, {255, 239}} {
		want := fg
		if px.x < 8 {
			want = backdrop
		}
		if got := frame.Pix[px.y*Width+px.x]; got != want {
			t.Errorf("pixel (%d,%d) = %08X, want %08X", px.x, px.y, got, want)
		}
	}
}

func TestSpriteRendering(t *testing.T) {
	tests := []struct {
		name   string
		attr   uint8
		want   uint8 // palette color at the sprite position
		hit    bool
		bgMask uint8
	}{
		{name: "front", attr: 0x00, want: 0x16, hit: true, bgMask: 0x08},
		{name: "behind", attr: sprBehind, want: 0x30, hit: true, bgMask: 0x08},
		{name: "no background", attr: sprBehind, want: 0x16, hit: false, bgMask: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ppu, bus := newTestPPU(t)
			frame := NewFrame()
			ppu.Sink = frame
			setupSolidBackground(ppu)

			ppu.OAM[0] = 20 // y
			ppu.OAM[1] = 1  // tile
			ppu.OAM[2] = tt.attr
			ppu.OAM[3] = 40 // x
			for i := 4; i < len(ppu.OAM); i++ {
				ppu.OAM[i] = 0xF0
			}

			bus.Write8(0x2001, 0x16|tt.bgMask)
			tickUntil(t, ppu, func() bool { return ppu.FrameCount == 1 && ppu.Scanline == 30 })

			if got := ppu.status.has(spriteHit); got != tt.hit {
				t.Errorf("sprite 0 hit = %t, want %t", got, tt.hit)
			}
			if got, want := frame.Pix[21*Width+40], DefaultPalette.RGBA(tt.want); got != want {
				t.Errorf("pixel (40,21) = %08X, want %08X", got, want)
			}
			// Sprite starts one line below its Y coordinate.
			if tt.bgMask == 0 {
				if got, want := frame.Pix[20*Width+40], DefaultPalette.RGBA(0x0F); got != want {
					t.Errorf("pixel (40,20) = %08X, want backdrop %08X", got, want)
				}
			}
		})
	}
}

func TestSpriteFetch(t *testing.T) {
	// Pattern byte at addr, none of the ones fetched below reads the same
	// flipped.
	pattern := func(addr uint16) uint8 { return uint8(addr) + uint8(addr>>8)*3 }

	tests := []struct {
		name     string
		ctrl     uint8
		tile     uint8
		attr     uint8
		scanline int    // sprite Y is 5
		addr     uint16 // address of the low pattern byte
	}{
		{name: "8x8", tile: 2, scanline: 10, addr: 0x0025},
		{name: "8x8 H", tile: 2, attr: sprFlipH, scanline: 10, addr: 0x0025},
		{name: "8x8 V", tile: 2, attr: sprFlipV, scanline: 10, addr: 0x0022},
		{name: "8x8 HV", tile: 2, attr: sprFlipH | sprFlipV, scanline: 10, addr: 0x0022},
		{name: "8x8 table 1", ctrl: 0x08, tile: 2, scanline: 10, addr: 0x1025},
		{name: "8x16 top", ctrl: 0x20, tile: 3, scanline: 5, addr: 0x1020},
		{name: "8x16 bottom", ctrl: 0x20, tile: 3, scanline: 15, addr: 0x1032},
		{name: "8x16 table 0", ctrl: 0x20, tile: 2, scanline: 15, addr: 0x0032},
		{name: "8x16 V top", ctrl: 0x20, tile: 3, attr: sprFlipV, scanline: 5, addr: 0x1037},
		{name: "8x16 V bottom", ctrl: 0x20, tile: 3, attr: sprFlipV, scanline: 15, addr: 0x1025},
		{name: "8x16 HV", ctrl: 0x20, tile: 3, attr: sprFlipH | sprFlipV, scanline: 15, addr: 0x1025},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ppu, _ := newTestPPU(t)
			for addr := range uint16(0x2000) {
				ppu.Bus.Write8(addr, pattern(addr))
			}

			ppu.ctrl = ppuctrl(tt.ctrl)
			ppu.Scanline = tt.scanline
			copy(ppu.OAM[:4], []uint8{5, tt.tile, tt.attr, 40})
			for i := 4; i < len(ppu.OAM); i++ {
				ppu.OAM[i] = 0xF0
			}

			ppu.evaluateSprites()
			for i := range maxSprites {
				ppu.fetchSprite(i)
			}
			ppu.spr.swap()

			if ppu.spr.ncurrent != 1 {
				t.Fatalf("got %d sprites on the scanline, want 1", ppu.spr.ncurrent)
			}
			wantLo, wantHi := pattern(tt.addr), pattern(tt.addr+8)
			if tt.attr&sprFlipH != 0 {
				wantLo, wantHi = bits.Reverse8(wantLo), bits.Reverse8(wantHi)
			}
			spr := ppu.spr.current[0]
			if spr.lo != wantLo || spr.hi != wantHi {
				t.Errorf("pattern = %08b %08b, want %08b %08b", spr.lo, spr.hi, wantLo, wantHi)
			}
			if spr.x != 40 || spr.attr != tt.attr || !spr.zero {
				t.Errorf("sprite = %+v, want x=40 attr=%02X zero=true", spr, tt.attr)
			}
		})
	}
}

func TestSpriteFlipPixels(t *testing.T) {
	ppu, _ := newTestPPU(t)
	ppu.spr.current[0] = spriteShifter{lo: bits.Reverse8(0b1100_0000), hi: 0, x: 10}
	ppu.spr.ncurrent = 1

	// The pattern was flipped at fetch time, so the opaque pixels are on the
	// right side of the sprite.
	for x := 10; x < 18; x++ {
		want := uint8(0)
		if x >= 16 {
			want = 1
		}
		if got := ppu.spr.pixel(x).pix; got != want {
			t.Errorf("pixel at x=%d = %d, want %d", x, got, want)
		}
	}
}
