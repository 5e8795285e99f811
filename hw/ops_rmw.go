package hw

// rmw runs the opcodes ending in 10: shifts, rotates, increments and
// decrements in memory or accumulator, X register loads, stores and
// transfers.
func (c *CPU) rmw(opcode uint8) (int, error) {
	mode, err := decodeMode(opcode)
	if err != nil {
		return 0, err
	}

	aaa := opcode >> 5
	switch mode {
	case ModeImplied:
		switch opcode {
		case 0x8A: // TXA
			c.A = c.X
			c.P.checkNZ(c.A)
		case 0x9A: // TXS
			c.SP = c.X
		case 0xAA: // TAX
			c.X = c.A
			c.P.checkNZ(c.X)
		case 0xBA: // TSX
			c.X = c.SP
			c.P.checkNZ(c.X)
		case 0xCA: // DEX
			c.X--
			c.P.checkNZ(c.X)
		} // others are NOPs
		c.PC++
		return 2, nil

	case ModeImmediate:
		val, _ := c.read(mode)
		if aaa == 5 { // LDX #imm
			c.X = val
			c.P.checkNZ(c.X)
		} // others are NOPs
		c.PC += mode.Len()
		return 2, nil
	}

	switch aaa {
	case 4:
		if opcode == 0x9E { // SHX
			c.storeHighAnd(mode, c.X)
		} else { // STX
			addr, _ := c.address(mode)
			c.Bus.Write8(addr, c.X)
		}
		c.PC += mode.Len()
		return 1 + mode.Cost(true), nil

	case 5: // LDX
		val, cross := c.read(mode)
		c.X = val
		c.P.checkNZ(c.X)
		c.PC += mode.Len()
		return 1 + mode.Cost(cross), nil
	}

	var f func(uint8) uint8
	switch aaa {
	case 0:
		f = c.asl
	case 1:
		f = c.rol
	case 2:
		f = c.lsr
	case 3:
		f = c.ror
	case 6:
		f = c.dec
	case 7:
		f = c.inc
	}
	c.modify(mode, f)
	c.PC += mode.Len()

	if mode == ModeAccumulator {
		return 2, nil
	}
	return 3 + mode.Cost(true), nil
}

func (c *CPU) asl(v uint8) uint8 {
	c.P = c.P.SetC(v&0x80 != 0)
	v <<= 1
	c.P.checkNZ(v)
	return v
}

func (c *CPU) lsr(v uint8) uint8 {
	c.P = c.P.SetC(v&0x01 != 0)
	v >>= 1
	c.P.checkNZ(v)
	return v
}

func (c *CPU) rol(v uint8) uint8 {
	carry := c.P.carry()
	c.P = c.P.SetC(v&0x80 != 0)
	v = v<<1 | carry
	c.P.checkNZ(v)
	return v
}

func (c *CPU) ror(v uint8) uint8 {
	carry := c.P.carry()
	c.P = c.P.SetC(v&0x01 != 0)
	v = v>>1 | carry<<7
	c.P.checkNZ(v)
	return v
}

func (c *CPU) inc(v uint8) uint8 {
	v++
	c.P.checkNZ(v)
	return v
}

func (c *CPU) dec(v uint8) uint8 {
	v--
	c.P.checkNZ(v)
	return v
}
