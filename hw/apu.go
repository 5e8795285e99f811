package hw

import (
	"nescore/emu/log"
	"nescore/hw/hwio"
)

// APU is the register sink of the audio processing unit. Nothing is
// synthesized: register writes are latched so that they can be inspected,
// and reads report all channels as silent.
//
//	$4000-$4003	Pulse 1
//	$4004-$4007	Pulse 2
//	$4008-$400B	Triangle
//	$400C-$400F	Noise
//	$4010-$4013	DMC
//	$4015		STATUS
//	$4017		Frame counter (write only, shares the address with
//			controller port 2)
type APU struct {
	Regs   [0x14]uint8
	STATUS hwio.Reg8

	FrameCounter uint8 // last value written to $4017

	regs hwio.Device
}

func NewAPU() *APU {
	a := &APU{}
	a.regs = hwio.Device{
		Name:    "APU",
		Size:    len(a.Regs),
		Flags:   hwio.WriteOnlyFlag,
		WriteCb: a.writeReg,
	}
	a.STATUS = hwio.Reg8{
		Name:    "STATUS",
		ReadCb:  a.ReadSTATUS,
		PeekCb:  func(uint8) uint8 { return 0 },
		WriteCb: a.WriteSTATUS,
	}
	return a
}

func (a *APU) InitBus(bus *hwio.Table) {
	bus.MapDevice(0x4000, &a.regs)
	bus.MapReg8(0x4015, &a.STATUS)
}

func (a *APU) writeReg(addr uint16, val uint8) {
	log.ModSound.DebugZ("write reg").Hex16("addr", addr).Hex8("val", val).End()
	a.Regs[addr-0x4000] = val
}

// STATUS: $4015
func (a *APU) ReadSTATUS(_ uint8) uint8 {
	return 0
}

func (a *APU) WriteSTATUS(old, val uint8) {
	log.ModSound.DebugZ("write status").Hex8("val", val).End()
}

// WriteFRAMECOUNTER handles writes to $4017.
func (a *APU) WriteFRAMECOUNTER(old, val uint8) {
	log.ModSound.DebugZ("write frame counter").Hex8("val", val).End()
	a.FrameCounter = val
}
