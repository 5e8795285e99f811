package hw

// unofficial runs the undocumented opcodes ending in 11. Most of them
// combine the family 01 and family 10 operations sharing the same bits 7-2.
// The unstable ones (XAA, LXA, AHX, TAS) are not implemented.
func (c *CPU) unofficial(opcode uint8) (int, error) {
	mode, err := decodeMode(opcode)
	if err != nil {
		return 0, err
	}

	if mode == ModeImmediate {
		val, _ := c.read(mode)
		switch opcode {
		case 0x0B, 0x2B: // ANC
			c.and(val)
			c.P = c.P.SetC(c.P.N())
		case 0x4B: // ALR
			c.and(val)
			c.A = c.lsr(c.A)
		case 0x6B: // ARR
			c.A = (c.A&val)>>1 | c.P.carry()<<7
			c.P.checkNZ(c.A)
			bit6, bit5 := c.A&0x40 != 0, c.A&0x20 != 0
			c.P = c.P.SetC(bit6).SetV(bit6 != bit5)
		case 0xCB: // AXS
			ax := c.A & c.X
			c.X = ax - val
			c.P = c.P.SetC(ax >= val)
			c.P.checkNZ(c.X)
		case 0xEB: // SBC
			c.sbc(val)
		default:
			return 0, &OpcodeNotImplementedError{Opcode: opcode}
		}
		c.PC += mode.Len()
		return 2, nil
	}

	switch opcode {
	case 0x93, 0x9B, 0x9F:
		return 0, &OpcodeNotImplementedError{Opcode: opcode}
	case 0xBB: // LAS
		val, cross := c.read(mode)
		c.SP &= val
		c.A, c.X = c.SP, c.SP
		c.P.checkNZ(c.A)
		c.PC += mode.Len()
		return 1 + mode.Cost(cross), nil
	}

	switch aaa := opcode >> 5; aaa {
	case 4: // SAX
		addr, _ := c.address(mode)
		c.Bus.Write8(addr, c.A&c.X)
		c.PC += mode.Len()
		return 1 + mode.Cost(true), nil

	case 5: // LAX
		val, cross := c.read(mode)
		c.A, c.X = val, val
		c.P.checkNZ(val)
		c.PC += mode.Len()
		return 1 + mode.Cost(cross), nil

	default:
		var (
			f    func(uint8) uint8
			then func(uint8)
		)
		switch aaa {
		case 0: // SLO
			f, then = c.asl, c.ora
		case 1: // RLA
			f, then = c.rol, c.and
		case 2: // SRE
			f, then = c.lsr, c.eor
		case 3: // RRA
			f, then = c.ror, c.adc
		case 6: // DCP
			f, then = c.dec, func(v uint8) { c.compare(c.A, v) }
		case 7: // ISC
			f, then = c.inc, c.sbc
		}
		then(c.modify(mode, f))
		c.PC += mode.Len()
		return 3 + mode.Cost(true), nil
	}
}
