package hw

// P is the processor status register.
//
// Bits 4 and 5 are not real flip-flops: they only exist in the copies of P
// pushed on the stack, where they tell a BRK/PHP (both set) from an hardware
// interrupt (both clear). They are kept at 0 in the live register.
type P uint8

const (
	Carry = 1 << iota
	Zero
	Interrupt
	Decimal
	Break
	Unused
	Overflow
	Negative
)

const breakBits = Break | Unused

func (p P) C() bool { return p&Carry != 0 }
func (p P) Z() bool { return p&Zero != 0 }
func (p P) I() bool { return p&Interrupt != 0 }
func (p P) D() bool { return p&Decimal != 0 }
func (p P) V() bool { return p&Overflow != 0 }
func (p P) N() bool { return p&Negative != 0 }

// B returns the 2-bit break signature.
func (p P) B() uint8 { return uint8(p>>4) & 0b11 }

func (p P) SetC(v bool) P { return p.set(Carry, v) }
func (p P) SetZ(v bool) P { return p.set(Zero, v) }
func (p P) SetI(v bool) P { return p.set(Interrupt, v) }
func (p P) SetD(v bool) P { return p.set(Decimal, v) }
func (p P) SetV(v bool) P { return p.set(Overflow, v) }
func (p P) SetN(v bool) P { return p.set(Negative, v) }

func (p P) SetB(b uint8) P {
	return p&^breakBits | P(b&0b11)<<4
}

func (p P) set(flag P, v bool) P {
	if v {
		return p | flag
	}
	return p &^ flag
}

// carry returns the carry flag as 0 or 1.
func (p P) carry() uint8 {
	return uint8(p & Carry)
}

// checkNZ sets N and Z from v.
func (p *P) checkNZ(v uint8) {
	*p = p.SetN(v&0x80 != 0).SetZ(v == 0)
}

func (p *P) checkCV(x, y uint8, sum uint16) {
	// forward carry or unsigned overflow.
	*p = p.SetC(sum > 0xFF)

	// signed overflow, can only happen if the sign of the sum differs
	// from that of both operands.
	v := (uint16(x) ^ sum) & (uint16(y) ^ sum) & 0x80
	*p = p.SetV(v != 0)
}

func (p P) String() string {
	const bits = "nvubdizcNVUBDIZC"

	s := make([]byte, 8)
	for i := 0; i < 8; i++ {
		ibit := (uint8(p) & (1 << (7 - i))) >> (7 - i)
		s[i] = bits[i+int(8*ibit)]
	}
	return string(s)
}
