package hw

import (
	"testing"

	"nescore/hw/hwio"
)

type fixedPads [2]uint8

func (p fixedPads) LoadState() (uint8, uint8) { return p[0], p[1] }

func TestInputPorts(t *testing.T) {
	var fcwrites []uint8
	ip := NewInputPorts(func(_, val uint8) { fcwrites = append(fcwrites, val) })
	bus := hwio.NewTable("cpu")
	ip.InitBus(bus)
	ip.Connect(fixedPads{0b1000_1001, 0b0000_0010}) // A+Start+Right / B

	// Strobe
	bus.Write8(0x4016, 1)
	bus.Write8(0x4016, 0)

	var pad1, pad2 []uint8
	for range 10 {
		pad1 = append(pad1, bus.Read8(0x4016))
		pad2 = append(pad2, bus.Read8(0x4017))
	}

	want1 := []uint8{0x41, 0x40, 0x40, 0x41, 0x40, 0x40, 0x40, 0x41, 0x41, 0x41}
	want2 := []uint8{0x40, 0x41, 0x40, 0x40, 0x40, 0x40, 0x40, 0x40, 0x41, 0x41}
	for i := range want1 {
		if pad1[i] != want1[i] || pad2[i] != want2[i] {
			t.Fatalf("read #%d: pad1=%02X pad2=%02X, want %02X %02X", i, pad1[i], pad2[i], want1[i], want2[i])
		}
	}

	// While strobe is high, the A button is continuously reported.
	bus.Write8(0x4016, 1)
	for range 3 {
		if got := bus.Read8(0x4016); got != 0x41 {
			t.Errorf("strobed read = %02X, want 41", got)
		}
	}

	bus.Write8(0x4017, 0x40)
	if len(fcwrites) != 1 || fcwrites[0] != 0x40 {
		t.Errorf("frame counter writes = %v, want [40]", fcwrites)
	}
}
