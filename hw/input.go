package hw

import (
	"nescore/emu/log"
	"nescore/hw/hwio"
)

// an InputDevice is a generic interface for NES input devices.
type InputDevice interface {
	// LoadState captures the current state of both input devices.
	LoadState() (uint8, uint8)
}

// InputPorts handles I/O with an InputDevice (such as standard NES controller
// for example).
type InputPorts struct {
	In  hwio.Reg8 // $4016
	Out hwio.Reg8 // $4017, writes go to the APU frame counter

	dev InputDevice

	prevStrobe, strobe bool     // to observe strobe falling edge.
	state              [2]uint8 // state shift registers.
}

// NewInputPorts returns the controller ports. frameCounter, if not nil,
// receives the writes to $4017.
func NewInputPorts(frameCounter func(old, val uint8)) *InputPorts {
	ip := &InputPorts{}
	ip.In = hwio.Reg8{
		Name:    "IN",
		ReadCb:  ip.ReadIN,
		PeekCb:  ip.peek(0),
		WriteCb: ip.WriteIN,
	}
	ip.Out = hwio.Reg8{
		Name:    "OUT",
		ReadCb:  ip.ReadOUT,
		PeekCb:  ip.peek(1),
		WriteCb: frameCounter,
	}
	return ip
}

func (ip *InputPorts) InitBus(bus *hwio.Table) {
	bus.MapReg8(0x4016, &ip.In)
	bus.MapReg8(0x4017, &ip.Out)
}

// Connect plugs the input device, nil to unplug.
func (ip *InputPorts) Connect(dev InputDevice) {
	ip.dev = dev
}

func (ip *InputPorts) regval(port uint8) uint8 {
	ret := ip.state[port] & 1
	ip.state[port] >>= 1

	// After 8 bits are read, all subsequent bits will report 1 on a standard
	// NES controller, but third party and other controllers may report other
	// values here
	ip.state[port] |= 0x80

	// Emulate open bus behavior.
	return 0x40 | ret
}

func (ip *InputPorts) peek(port uint8) func(uint8) uint8 {
	return func(uint8) uint8 { return 0x40 | ip.state[port]&1 }
}

// capture state of all connected input devices.
func (ip *InputPorts) loadstate() {
	if ip.dev == nil {
		// No controller is connected.
		ip.state[0] = 0
		ip.state[1] = 0
		return
	}

	ip.state[0], ip.state[1] = ip.dev.LoadState()
}

// In: $4016
func (ip *InputPorts) WriteIN(old, val uint8) {
	ip.prevStrobe = ip.strobe
	ip.strobe = val&1 == 1
	if ip.prevStrobe && !ip.strobe {
		ip.loadstate()
		log.ModInput.DebugZ("controllers latched").
			Hex8("pad1", ip.state[0]).
			Hex8("pad2", ip.state[1]).
			End()
	}
}

func (ip *InputPorts) ReadIN(_ uint8) uint8 {
	if ip.strobe {
		ip.loadstate()
	}
	return ip.regval(0)
}

// Out: $4017
func (ip *InputPorts) ReadOUT(_ uint8) uint8 {
	if ip.strobe {
		ip.loadstate()
	}

	return ip.regval(1)
}
