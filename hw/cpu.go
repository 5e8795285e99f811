package hw

import (
	"io"

	"nescore/emu/log"
	"nescore/hw/hwio"
)

// Locations reserved for vector pointers.
const (
	NMIVector   = uint16(0xFFFA) // Non-Maskable Interrupt
	ResetVector = uint16(0xFFFC) // Reset
	IRQVector   = uint16(0xFFFE) // Interrupt Request
)

type interrupt uint8

const (
	noInterrupt interrupt = iota
	resetInterrupt
	nmiInterrupt
)

func (i interrupt) String() string {
	switch i {
	case resetInterrupt:
		return "reset"
	case nmiInterrupt:
		return "nmi"
	}
	return "none"
}

// interruptCycles is the cost of entering an interrupt handler.
const interruptCycles = 7

type CPU struct {
	Bus *hwio.Table

	RAM hwio.Mem // 2KB, mirrored up to $1FFF
	dma oamDMA

	// Non-nil when execution tracing is enabled.
	tracer *tracer

	Cycles int64 // CPU cycles

	// cpu registers
	A, X, Y, SP uint8
	PC          uint16
	P           P

	pending interrupt
}

// NewCPU creates a CPU at power-up state, connected to bus. The reset
// interrupt is pending: the first call to Step loads PC from the reset
// vector.
func NewCPU(bus *hwio.Table) *CPU {
	cpu := &CPU{
		Bus:     bus,
		SP:      0xFF,
		pending: resetInterrupt,
		RAM: hwio.Mem{
			Name:  "RAM",
			Data:  make([]byte, 0x800),
			VSize: 0x2000,
		},
	}
	cpu.dma.init()
	return cpu
}

// InitBus maps the CPU internal RAM and the OAM DMA register.
func (c *CPU) InitBus() {
	c.Bus.MapMem(0x0000, &c.RAM)
	c.Bus.MapReg8(OAMDMAAddr, &c.dma.OAMDMA)
}

// Reset makes the next Step jump to the reset handler.
func (c *CPU) Reset() {
	c.pending = resetInterrupt
}

// RequestNMI latches a non-maskable interrupt, serviced at the next Step.
// A pending reset takes precedence.
func (c *CPU) RequestNMI() {
	if c.pending == noInterrupt {
		c.pending = nmiInterrupt
	}
}

// Step runs one unit of CPU work and returns the number of cycles it took.
// In order of precedence, that is: a pending OAM DMA transfer, the entry
// into a pending interrupt handler, or a single instruction.
//
// On error, PC still points at the faulty opcode.
func (c *CPU) Step() (int, error) {
	if c.dma.pending {
		n := c.dma.run(c.Bus, c.Cycles)
		c.Cycles += int64(n)
		return n, c.Bus.Err()
	}

	if c.pending != noInterrupt {
		c.enterInterrupt()
		c.Cycles += interruptCycles
		return interruptCycles, c.Bus.Err()
	}

	pc := c.PC
	opcode := c.Bus.Read8(pc)
	c.traceOp()

	var (
		n   int
		err error
	)
	switch opcode & 0b11 {
	case 0:
		n, err = c.control(opcode)
	case 1:
		n, err = c.alu(opcode)
	case 2:
		n, err = c.rmw(opcode)
	case 3:
		n, err = c.unofficial(opcode)
	}
	if err == nil {
		err = c.Bus.Err()
	}
	if err != nil {
		switch e := err.(type) {
		case *AddressDecodeError:
			e.PC = pc
		case *OpcodeNotImplementedError:
			e.PC = pc
		}
		c.PC = pc
		log.ModCPU.WarnZ("CPU step failed").
			Hex16("PC", pc).
			Hex8("opcode", opcode).
			Error("err", err).
			End()
		return 0, err
	}

	c.Cycles += int64(n)
	return n, nil
}

func (c *CPU) enterInterrupt() {
	vector := NMIVector
	if c.pending == resetInterrupt {
		vector = ResetVector
	}

	log.ModCPU.DebugZ("interrupt").
		Stringer("kind", c.pending).
		Hex16("from", c.PC).
		End()

	c.push16(c.PC)
	c.push8(uint8(c.P.SetB(0)))
	c.PC = hwio.Read16(c.Bus, vector)
	c.P = c.P.SetI(true)
	c.pending = noInterrupt
}

/* operand resolution */

// address returns the effective address of the operand of the instruction at
// PC, and whether indexing crossed a page boundary.
func (c *CPU) address(mode AddrMode) (uint16, bool) {
	switch mode {
	case ModeImmediate:
		return c.PC + 1, false
	case ModeZeroPage:
		return uint16(c.Bus.Read8(c.PC + 1)), false
	case ModeZeroPageX:
		return uint16(c.Bus.Read8(c.PC+1) + c.X), false
	case ModeZeroPageY:
		return uint16(c.Bus.Read8(c.PC+1) + c.Y), false
	case ModeAbsolute:
		return hwio.Read16(c.Bus, c.PC+1), false
	case ModeAbsoluteX:
		return indexed(hwio.Read16(c.Bus, c.PC+1), c.X)
	case ModeAbsoluteY:
		return indexed(hwio.Read16(c.Bus, c.PC+1), c.Y)
	case ModeIndirect:
		return hwio.Read16Bug(c.Bus, hwio.Read16(c.Bus, c.PC+1)), false
	case ModeIndirectX:
		zp := c.Bus.Read8(c.PC+1) + c.X
		return hwio.Read16Bug(c.Bus, uint16(zp)), false
	case ModeIndirectY:
		zp := c.Bus.Read8(c.PC + 1)
		return indexed(hwio.Read16Bug(c.Bus, uint16(zp)), c.Y)
	}
	panic("address of " + mode.String())
}

func indexed(base uint16, idx uint8) (uint16, bool) {
	addr := base + uint16(idx)
	return addr, addr&0xFF00 != base&0xFF00
}

// read returns the operand value.
func (c *CPU) read(mode AddrMode) (uint8, bool) {
	if mode == ModeAccumulator {
		return c.A, false
	}
	addr, cross := c.address(mode)
	return c.Bus.Read8(addr), cross
}

// modify performs the read-modify-write sequence of a shift, rotate,
// increment or decrement, and returns the new value. Like the real CPU, the
// unmodified value is written back first.
func (c *CPU) modify(mode AddrMode, f func(uint8) uint8) uint8 {
	if mode == ModeAccumulator {
		c.A = f(c.A)
		return c.A
	}
	addr, _ := c.address(mode)
	old := c.Bus.Read8(addr)
	c.Bus.Write8(addr, old)
	val := f(old)
	c.Bus.Write8(addr, val)
	return val
}

/* stack operations */

func (c *CPU) push8(val uint8) {
	top := uint16(c.SP) + 0x0100
	c.Bus.Write8(top, val)
	c.SP -= 1
}

func (c *CPU) push16(val uint16) {
	c.push8(uint8(val >> 8))
	c.push8(uint8(val & 0xff))
}

func (c *CPU) pull8() uint8 {
	c.SP++
	top := uint16(c.SP) + 0x0100
	return c.Bus.Read8(top)
}

func (c *CPU) pull16() uint16 {
	lo := c.pull8()
	hi := c.pull8()
	return uint16(hi)<<8 | uint16(lo)
}

/* tracing / debugging */

// SetTraceOutput enables the execution trace. pos, if not nil, reports the
// PPU position (scanline and dot) printed on each line.
func (c *CPU) SetTraceOutput(w io.Writer, pos func() (scanline, dot int)) {
	c.tracer = &tracer{w: w, d: c, pos: pos}
}

func (c *CPU) traceOp() {
	if c.tracer == nil {
		return
	}
	state := cpuState{
		A:     c.A,
		X:     c.X,
		Y:     c.Y,
		P:     c.P,
		SP:    c.SP,
		Clock: c.Cycles,
		PC:    c.PC,
	}
	if c.tracer.pos != nil {
		state.Scanline, state.PPUCycle = c.tracer.pos()
	}
	c.tracer.write(state)
}
