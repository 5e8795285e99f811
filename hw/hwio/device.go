package hwio

import "nescore/emu/log"

// Device maps a block of Size addresses to callbacks, for chips decoding
// their own registers (the PPU ports for example). The callbacks receive the
// absolute bus address, mirroring is up to them.
type Device struct {
	Name  string
	Size  int
	Flags RWFlags

	ReadCb  func(addr uint16) uint8
	PeekCb  func(addr uint16) uint8
	WriteCb func(addr uint16, val uint8)
}

func (d *Device) writeOnly() bool { return d.Flags&WriteOnlyFlag != 0 }

func (d *Device) Read8(addr uint16) uint8 {
	if d.writeOnly() || d.ReadCb == nil {
		return 0
	}
	return d.ReadCb(addr)
}

// Peek8 falls back to ReadCb if the device has no PeekCb, the device must
// then have side-effect free reads.
func (d *Device) Peek8(addr uint16) uint8 {
	switch {
	case d.PeekCb != nil:
		return d.PeekCb(addr)
	case d.ReadCb != nil && !d.writeOnly():
		return d.ReadCb(addr)
	}
	return 0
}

func (d *Device) Write8(addr uint16, val uint8) {
	if d.Flags&ReadOnlyFlag != 0 {
		log.ModHwIo.DebugZ("write to read-only device ignored").
			String("name", d.Name).
			Hex16("addr", addr).
			Hex8("val", val).
			End()
		return
	}
	if d.WriteCb != nil {
		d.WriteCb(addr, val)
	}
}
