package hw

//go:generate go tool stringer -type AddrMode -trimprefix Mode

// AddrMode is a 6502 addressing mode. Relative branches fetch their offset
// as an Immediate operand.
type AddrMode uint8

const (
	modeInvalid AddrMode = iota

	ModeImplied
	ModeAccumulator
	ModeImmediate
	ModeZeroPage
	ModeZeroPageX
	ModeZeroPageY
	ModeAbsolute
	ModeAbsoluteX
	ModeAbsoluteY
	ModeIndirect
	ModeIndirectX
	ModeIndirectY
)

// Cycles spent resolving the operand of each mode, the opcode fetch excluded.
// Indexed reads that cross a page pay one more.
var modeCycles = [...]int{
	ModeImplied:     1,
	ModeAccumulator: 1,
	ModeImmediate:   1,
	ModeZeroPage:    2,
	ModeZeroPageX:   3,
	ModeZeroPageY:   3,
	ModeAbsolute:    3,
	ModeAbsoluteX:   3,
	ModeAbsoluteY:   3,
	ModeIndirect:    4,
	ModeIndirectX:   5,
	ModeIndirectY:   4,
}

// Instruction length, opcode included.
var modeLen = [...]uint16{
	ModeImplied:     1,
	ModeAccumulator: 1,
	ModeImmediate:   2,
	ModeZeroPage:    2,
	ModeZeroPageX:   2,
	ModeZeroPageY:   2,
	ModeAbsolute:    3,
	ModeAbsoluteX:   3,
	ModeAbsoluteY:   3,
	ModeIndirect:    3,
	ModeIndirectX:   2,
	ModeIndirectY:   2,
}

// Cost returns the number of cycles needed to resolve the operand. pageCross
// only matters for indexed modes.
func (m AddrMode) Cost(pageCross bool) int {
	c := modeCycles[m]
	if pageCross {
		switch m {
		case ModeAbsoluteX, ModeAbsoluteY, ModeIndirectY:
			c++
		}
	}
	return c
}

// Len returns the length in bytes of an instruction using this mode.
func (m AddrMode) Len() uint16 { return modeLen[m] }

// Operand-mode lookup tables, indexed by the bbb bits (4-2) of the opcode.
// Entries that depend on the aaa bits as well are fixed up by decodeMode.
var (
	family0Modes = [8]AddrMode{
		ModeImmediate, ModeZeroPage, ModeImplied, ModeAbsolute,
		ModeImmediate, ModeZeroPageX, ModeImplied, ModeAbsoluteX,
	}
	family1Modes = [8]AddrMode{
		ModeIndirectX, ModeZeroPage, ModeImmediate, ModeAbsolute,
		ModeIndirectY, ModeZeroPageX, ModeAbsoluteY, ModeAbsoluteX,
	}
	family2Modes = [8]AddrMode{
		ModeImmediate, ModeZeroPage, ModeAccumulator, ModeAbsolute,
		modeInvalid, ModeZeroPageX, ModeImplied, ModeAbsoluteX,
	}
)

// decodeMode returns the addressing mode of opcode, or an AddressDecodeError
// if the opcode bits do not encode one (the KIL/JAM opcodes).
func decodeMode(opcode uint8) (AddrMode, error) {
	aaa, bbb := opcode>>5, (opcode>>2)&0b111

	var mode AddrMode
	switch opcode & 0b11 {
	case 0:
		mode = family0Modes[bbb]
		switch opcode {
		case 0x00, 0x40, 0x60: // BRK RTI RTS
			mode = ModeImplied
		case 0x20: // JSR
			mode = ModeAbsolute
		case 0x6C: // JMP ($nnnn)
			mode = ModeIndirect
		}
	case 1:
		mode = family1Modes[bbb]
	case 2:
		mode = family2Modes[bbb]
		switch {
		case bbb == 0 && aaa < 4:
			mode = modeInvalid
		case bbb == 2 && aaa >= 4:
			mode = ModeImplied
		case aaa == 4 || aaa == 5: // STX LDX SHX use Y as index
			switch bbb {
			case 5:
				mode = ModeZeroPageY
			case 7:
				mode = ModeAbsoluteY
			}
		}
	case 3:
		mode = family1Modes[bbb]
		switch {
		case bbb == 2:
			mode = ModeImmediate
		case aaa == 4 || aaa == 5: // SAX LAX AHX use Y as index
			switch bbb {
			case 5:
				mode = ModeZeroPageY
			case 7:
				mode = ModeAbsoluteY
			}
		}
	}

	if mode == modeInvalid {
		return modeInvalid, &AddressDecodeError{Opcode: opcode}
	}
	return mode, nil
}
