package hw

import (
	"fmt"
	"image"
	"io"
)

// Size of the visible picture, in pixels.
const (
	Width  = 256
	Height = 240
)

// A FrameSink receives the pixels produced by the PPU, one per visible dot.
// rgba is packed as 0xRRGGBBAA.
type FrameSink interface {
	SetPixel(x, y int, rgba uint32)
}

// Frame is a FrameSink backed by a caller-owned buffer.
type Frame struct {
	Pix []uint32 // Width*Height packed colors, row by row
}

func NewFrame() *Frame {
	return &Frame{Pix: make([]uint32, Width*Height)}
}

func (f *Frame) SetPixel(x, y int, rgba uint32) {
	f.Pix[y*Width+x] = rgba
}

// Clone returns a deep copy of f.
func (f *Frame) Clone() *Frame {
	return &Frame{Pix: append([]uint32(nil), f.Pix...)}
}

// Image converts the frame into an RGBA image.
func (f *Frame) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, Width, Height))
	for i, c := range f.Pix {
		img.Pix[4*i+0] = uint8(c >> 24)
		img.Pix[4*i+1] = uint8(c >> 16)
		img.Pix[4*i+2] = uint8(c >> 8)
		img.Pix[4*i+3] = uint8(c)
	}
	return img
}

// Palette maps the 64 NES color indices to 0xRRGGBB colors.
type Palette [64]uint32

// DefaultPalette is the 2C02 NTSC palette.
var DefaultPalette = Palette{
	0x666666, 0x002A88, 0x1412A7, 0x3B00A4, 0x5C007E, 0x6E0040, 0x6C0600, 0x561D00,
	0x333500, 0x0B4800, 0x005200, 0x004F08, 0x00404D, 0x000000, 0x000000, 0x000000,
	0xADADAD, 0x155FD9, 0x4240FF, 0x7527FE, 0xA01ACC, 0xB71E7B, 0xB53120, 0x994E00,
	0x6B6D00, 0x388700, 0x0C9300, 0x008F32, 0x007C8D, 0x000000, 0x000000, 0x000000,
	0xFFFEFF, 0x64B0FF, 0x9290FF, 0xC676FF, 0xF36AFF, 0xFE6ECC, 0xFE8170, 0xEA9E22,
	0xBCBE00, 0x88D800, 0x5CE430, 0x45E082, 0x48CDDE, 0x4F4F4F, 0x000000, 0x000000,
	0xFFFEFF, 0xC0DFFF, 0xD3D2FF, 0xE8C8FF, 0xFBC2FF, 0xFEC4EA, 0xFECCC5, 0xF7D8A5,
	0xE4E594, 0xCFEF96, 0xBDF4AB, 0xB3F3CC, 0xB5EBF2, 0xB8B8B8, 0x000000, 0x000000,
}

// RGBA returns the packed 0xRRGGBBAA color of index idx.
func (p *Palette) RGBA(idx uint8) uint32 {
	return p[idx&0x3F]<<8 | 0xFF
}

// ReadPalette reads a palette in the .pal format: 64 RGB triplets. Larger
// files (with emphasis variants) are accepted, only the first 64 colors are
// used.
func ReadPalette(r io.Reader) (*Palette, error) {
	var buf [64 * 3]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return nil, fmt.Errorf("palette: %w", err)
	}

	var pal Palette
	for i := range pal {
		pal[i] = uint32(buf[3*i])<<16 | uint32(buf[3*i+1])<<8 | uint32(buf[3*i+2])
	}
	return &pal, nil
}
