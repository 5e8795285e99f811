package hwio

import "nescore/emu/log"

// RWFlags restrict the direction of accesses to a register or device.
type RWFlags uint8

const (
	ReadWriteFlag RWFlags = 0
	ReadOnlyFlag  RWFlags = (1 << iota)
	WriteOnlyFlag
)

// A write-only component does not drive the data bus on reads, the CPU sees
// the open bus value instead. Table checks for it before forwarding a read.
type writeOnly interface {
	writeOnly() bool
}

// Reg8 is a single 8-bit register, mapped at one address.
//
// Bits set in RoMask are not modified by writes. WriteCb receives the value
// before and after the write; ReadCb and PeekCb receive the stored value and
// return the value seen on the bus.
type Reg8 struct {
	Name   string
	Value  uint8
	RoMask uint8

	Flags   RWFlags
	ReadCb  func(val uint8) uint8
	PeekCb  func(val uint8) uint8
	WriteCb func(old uint8, val uint8)
}

func (reg *Reg8) writeOnly() bool { return reg.Flags&WriteOnlyFlag != 0 }

func (reg *Reg8) Write8(addr uint16, val uint8) {
	if reg.Flags&ReadOnlyFlag != 0 {
		log.ModHwIo.DebugZ("write to read-only register ignored").
			String("name", reg.Name).
			Hex16("addr", addr).
			Hex8("val", val).
			End()
		return
	}

	old := reg.Value
	reg.Value = old&reg.RoMask | val&^reg.RoMask
	if reg.WriteCb != nil {
		reg.WriteCb(old, reg.Value)
	}
}

// Read8 returns 0 for write-only registers when accessed directly. Through a
// Table, they read as open bus.
func (reg *Reg8) Read8(addr uint16) uint8 {
	switch {
	case reg.writeOnly():
		return 0
	case reg.ReadCb != nil:
		return reg.ReadCb(reg.Value)
	}
	return reg.Value
}

func (reg *Reg8) Peek8(addr uint16) uint8 {
	if reg.PeekCb != nil {
		return reg.PeekCb(reg.Value)
	}
	return reg.Value
}
