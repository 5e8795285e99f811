package hw

// alu runs the opcodes ending in 01: ORA AND EOR ADC STA LDA CMP SBC,
// selected by bits 7-5.
func (c *CPU) alu(opcode uint8) (int, error) {
	mode, err := decodeMode(opcode)
	if err != nil {
		return 0, err
	}

	group := opcode >> 5
	if group == 4 { // STA
		if mode != ModeImmediate {
			addr, _ := c.address(mode)
			c.Bus.Write8(addr, c.A)
		} // else 0x89: NOP #imm
		c.PC += mode.Len()
		if mode == ModeImmediate {
			return 1 + mode.Cost(false), nil
		}
		return 1 + mode.Cost(true), nil
	}

	val, cross := c.read(mode)
	switch group {
	case 0:
		c.ora(val)
	case 1:
		c.and(val)
	case 2:
		c.eor(val)
	case 3:
		c.adc(val)
	case 5:
		c.lda(val)
	case 6:
		c.compare(c.A, val)
	case 7:
		c.sbc(val)
	}

	c.PC += mode.Len()
	return 1 + mode.Cost(cross), nil
}

func (c *CPU) ora(val uint8) {
	c.A |= val
	c.P.checkNZ(c.A)
}

func (c *CPU) and(val uint8) {
	c.A &= val
	c.P.checkNZ(c.A)
}

func (c *CPU) eor(val uint8) {
	c.A ^= val
	c.P.checkNZ(c.A)
}

// adc computes A + val + C. Decimal mode is not wired on the NES.
func (c *CPU) adc(val uint8) {
	sum := uint16(c.A) + uint16(val) + uint16(c.P.carry())
	c.P.checkCV(c.A, val, sum)
	c.A = uint8(sum)
	c.P.checkNZ(c.A)
}

// sbc computes A - val - (1-C), which is A + ^val + C.
func (c *CPU) sbc(val uint8) {
	c.adc(^val)
}

func (c *CPU) lda(val uint8) {
	c.A = val
	c.P.checkNZ(c.A)
}

// compare sets the flags of reg - val, as CMP, CPX and CPY do.
func (c *CPU) compare(reg, val uint8) {
	c.P = c.P.SetC(reg >= val)
	c.P.checkNZ(reg - val)
}
