package hw

import "nescore/hw/hwio"

// control runs the opcodes ending in 00: branches, stack and flag
// operations, jumps and subroutines, and the Y register loads, stores and
// compares.
func (c *CPU) control(opcode uint8) (int, error) {
	mode, err := decodeMode(opcode)
	if err != nil {
		return 0, err
	}

	if opcode&0x1F == 0x10 {
		return c.branch(opcode), nil
	}

	switch opcode {
	case 0x00: // BRK
		c.push16(c.PC + 2)
		c.push8(uint8(c.P.SetB(0b11)))
		c.P = c.P.SetI(true)
		c.PC = hwio.Read16(c.Bus, IRQVector)
		return 7, nil
	case 0x20: // JSR
		target := hwio.Read16(c.Bus, c.PC+1)
		c.push16(c.PC + 2)
		c.PC = target
		return 6, nil
	case 0x40: // RTI
		c.P = P(c.pull8()).SetB(0)
		c.PC = c.pull16()
		return 6, nil
	case 0x60: // RTS
		c.PC = c.pull16() + 1
		return 6, nil
	case 0x4C: // JMP $nnnn
		c.PC, _ = c.address(mode)
		return 3, nil
	case 0x6C: // JMP ($nnnn)
		c.PC, _ = c.address(mode)
		return 5, nil

	case 0x08: // PHP
		c.push8(uint8(c.P.SetB(0b11)))
		c.PC++
		return 3, nil
	case 0x28: // PLP
		c.P = P(c.pull8()).SetB(0)
		c.PC++
		return 4, nil
	case 0x48: // PHA
		c.push8(c.A)
		c.PC++
		return 3, nil
	case 0x68: // PLA
		c.A = c.pull8()
		c.P.checkNZ(c.A)
		c.PC++
		return 4, nil

	case 0x18, 0x38, 0x58, 0x78, 0xB8, 0xD8, 0xF8:
		c.flagOp(opcode)
		c.PC++
		return 2, nil

	case 0x88: // DEY
		c.Y--
		c.P.checkNZ(c.Y)
	case 0x98: // TYA
		c.A = c.Y
		c.P.checkNZ(c.A)
	case 0xA8: // TAY
		c.Y = c.A
		c.P.checkNZ(c.Y)
	case 0xC8: // INY
		c.Y++
		c.P.checkNZ(c.Y)
	case 0xE8: // INX
		c.X++
		c.P.checkNZ(c.X)

	case 0x24, 0x2C: // BIT
		val, _ := c.read(mode)
		c.P = c.P.SetZ(c.A&val == 0).SetV(val&0x40 != 0).SetN(val&0x80 != 0)
		c.PC += mode.Len()
		return 1 + mode.Cost(false), nil

	case 0x84, 0x8C, 0x94: // STY
		addr, _ := c.address(mode)
		c.Bus.Write8(addr, c.Y)
		c.PC += mode.Len()
		return 1 + mode.Cost(true), nil
	case 0x9C: // SHY
		c.storeHighAnd(mode, c.Y)
		c.PC += mode.Len()
		return 1 + mode.Cost(true), nil

	case 0xA0, 0xA4, 0xAC, 0xB4, 0xBC: // LDY
		val, cross := c.read(mode)
		c.Y = val
		c.P.checkNZ(c.Y)
		c.PC += mode.Len()
		return 1 + mode.Cost(cross), nil
	case 0xC0, 0xC4, 0xCC: // CPY
		val, _ := c.read(mode)
		c.compare(c.Y, val)
		c.PC += mode.Len()
		return 1 + mode.Cost(false), nil
	case 0xE0, 0xE4, 0xEC: // CPX
		val, _ := c.read(mode)
		c.compare(c.X, val)
		c.PC += mode.Len()
		return 1 + mode.Cost(false), nil

	case 0x04, 0x44, 0x64, 0x0C, 0x14, 0x34, 0x54, 0x74, 0xD4, 0xF4,
		0x1C, 0x3C, 0x5C, 0x7C, 0xDC, 0xFC, 0x80: // NOP with operand
		_, cross := c.read(mode)
		c.PC += mode.Len()
		return 1 + mode.Cost(cross), nil

	default:
		return 0, &OpcodeNotImplementedError{Opcode: opcode}
	}

	// Implied register operations.
	c.PC++
	return 2, nil
}

// branch runs the conditional branches: bits 7-6 select the flag, bit 5 the
// value it must have for the branch to be taken.
func (c *CPU) branch(opcode uint8) int {
	var flag bool
	switch opcode >> 6 {
	case 0:
		flag = c.P.N()
	case 1:
		flag = c.P.V()
	case 2:
		flag = c.P.C()
	case 3:
		flag = c.P.Z()
	}
	if opcode&0x20 == 0 {
		flag = !flag
	}

	off := c.Bus.Read8(c.PC + 1)
	next := c.PC + 2
	if !flag {
		c.PC = next
		return 2
	}

	c.PC = next + uint16(int8(off))
	if c.PC&0xFF00 != next&0xFF00 {
		return 4
	}
	return 3
}

func (c *CPU) flagOp(opcode uint8) {
	switch opcode {
	case 0x18: // CLC
		c.P = c.P.SetC(false)
	case 0x38: // SEC
		c.P = c.P.SetC(true)
	case 0x58: // CLI
		c.P = c.P.SetI(false)
	case 0x78: // SEI
		c.P = c.P.SetI(true)
	case 0xB8: // CLV
		c.P = c.P.SetV(false)
	case 0xD8: // CLD
		c.P = c.P.SetD(false)
	case 0xF8: // SED
		c.P = c.P.SetD(true)
	}
}

// storeHighAnd implements SHX and SHY: store reg & (H+1), where H is the
// high byte of the base address. When indexing crosses a page, the stored
// value also replaces the high byte of the target address.
func (c *CPU) storeHighAnd(mode AddrMode, reg uint8) {
	base := hwio.Read16(c.Bus, c.PC+1)
	addr, cross := c.address(mode)
	val := reg & (uint8(base>>8) + 1)
	if cross {
		addr = uint16(val)<<8 | addr&0xFF
	}
	c.Bus.Write8(addr, val)
}
