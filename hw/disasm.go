package hw

import "fmt"

var mnemonics = [256]string{
	"BRK", "ORA", "KIL", "SLO", "NOP", "ORA", "ASL", "SLO", "PHP", "ORA", "ASL", "ANC", "NOP", "ORA", "ASL", "SLO",
	"BPL", "ORA", "KIL", "SLO", "NOP", "ORA", "ASL", "SLO", "CLC", "ORA", "NOP", "SLO", "NOP", "ORA", "ASL", "SLO",
	"JSR", "AND", "KIL", "RLA", "BIT", "AND", "ROL", "RLA", "PLP", "AND", "ROL", "ANC", "BIT", "AND", "ROL", "RLA",
	"BMI", "AND", "KIL", "RLA", "NOP", "AND", "ROL", "RLA", "SEC", "AND", "NOP", "RLA", "NOP", "AND", "ROL", "RLA",
	"RTI", "EOR", "KIL", "SRE", "NOP", "EOR", "LSR", "SRE", "PHA", "EOR", "LSR", "ALR", "JMP", "EOR", "LSR", "SRE",
	"BVC", "EOR", "KIL", "SRE", "NOP", "EOR", "LSR", "SRE", "CLI", "EOR", "NOP", "SRE", "NOP", "EOR", "LSR", "SRE",
	"RTS", "ADC", "KIL", "RRA", "NOP", "ADC", "ROR", "RRA", "PLA", "ADC", "ROR", "ARR", "JMP", "ADC", "ROR", "RRA",
	"BVS", "ADC", "KIL", "RRA", "NOP", "ADC", "ROR", "RRA", "SEI", "ADC", "NOP", "RRA", "NOP", "ADC", "ROR", "RRA",
	"NOP", "STA", "NOP", "SAX", "STY", "STA", "STX", "SAX", "DEY", "NOP", "TXA", "XAA", "STY", "STA", "STX", "SAX",
	"BCC", "STA", "KIL", "AHX", "STY", "STA", "STX", "SAX", "TYA", "STA", "TXS", "TAS", "SHY", "STA", "SHX", "AHX",
	"LDY", "LDA", "LDX", "LAX", "LDY", "LDA", "LDX", "LAX", "TAY", "LDA", "TAX", "LXA", "LDY", "LDA", "LDX", "LAX",
	"BCS", "LDA", "KIL", "LAX", "LDY", "LDA", "LDX", "LAX", "CLV", "LDA", "TSX", "LAS", "LDY", "LDA", "LDX", "LAX",
	"CPY", "CMP", "NOP", "DCP", "CPY", "CMP", "DEC", "DCP", "INY", "CMP", "DEX", "AXS", "CPY", "CMP", "DEC", "DCP",
	"BNE", "CMP", "KIL", "DCP", "NOP", "CMP", "DEC", "DCP", "CLD", "CMP", "NOP", "DCP", "NOP", "CMP", "DEC", "DCP",
	"CPX", "SBC", "NOP", "ISC", "CPX", "SBC", "INC", "ISC", "INX", "SBC", "NOP", "SBC", "CPX", "SBC", "INC", "ISC",
	"BEQ", "SBC", "KIL", "ISC", "NOP", "SBC", "INC", "ISC", "SED", "SBC", "NOP", "ISC", "NOP", "SBC", "INC", "ISC",
}

// Disasm disassembles the instruction at pc. Memory is accessed with Peek8
// so that disassembling has no side effect on the hardware.
func (c *CPU) Disasm(pc uint16) DisasmOp {
	opcode := c.Bus.Peek8(pc)
	op := DisasmOp{
		PC:     pc,
		Opcode: mnemonics[opcode],
		Buf:    []byte{opcode},
	}

	mode, err := decodeMode(opcode)
	if err != nil {
		return op
	}
	for i := uint16(1); i < mode.Len(); i++ {
		op.Buf = append(op.Buf, c.Bus.Peek8(pc+i))
	}

	var (
		b8  uint8
		b16 uint16
	)
	if len(op.Buf) > 1 {
		b8 = op.Buf[1]
		b16 = uint16(b8)
	}
	if len(op.Buf) > 2 {
		b16 |= uint16(op.Buf[2]) << 8
	}

	switch mode {
	case ModeImplied:
	case ModeAccumulator:
		op.Oper = "A"
	case ModeImmediate:
		if opcode&0x1F == 0x10 {
			op.Oper = fmt.Sprintf("$%04X", pc+2+uint16(int8(b8)))
		} else {
			op.Oper = fmt.Sprintf("#$%02X", b8)
		}
	case ModeZeroPage:
		op.Oper = fmt.Sprintf("$%02X", b8)
	case ModeZeroPageX:
		op.Oper = fmt.Sprintf("$%02X,X", b8)
	case ModeZeroPageY:
		op.Oper = fmt.Sprintf("$%02X,Y", b8)
	case ModeAbsolute:
		op.Oper = formatAddr(b16)
	case ModeAbsoluteX:
		op.Oper = formatAddr(b16) + ",X"
	case ModeAbsoluteY:
		op.Oper = formatAddr(b16) + ",Y"
	case ModeIndirect:
		op.Oper = fmt.Sprintf("($%04X)", b16)
	case ModeIndirectX:
		op.Oper = fmt.Sprintf("($%02X,X)", b8)
	case ModeIndirectY:
		op.Oper = fmt.Sprintf("($%02X),Y", b8)
	}
	return op
}

// A DisasmOp is a disassembled instruction.
type DisasmOp struct {
	PC     uint16
	Buf    []byte // instruction bytes
	Opcode string
	Oper   string
}

const (
	opcodeColumn = 16
	disasmWidth  = 48
)

// AppendTo appends the instruction to dst: address, bytes, mnemonic and
// operand, padded to a fixed width.
func (d DisasmOp) AppendTo(dst []byte) []byte {
	start := len(dst)
	dst = appendHex8(dst, uint8(d.PC>>8))
	dst = appendHex8(dst, uint8(d.PC))
	dst = append(dst, "  "...)
	for _, b := range d.Buf {
		dst = append(appendHex8(dst, b), ' ')
	}
	for len(dst)-start < opcodeColumn {
		dst = append(dst, ' ')
	}

	dst = append(dst, d.Opcode...)
	dst = append(dst, ' ')
	dst = append(dst, d.Oper...)
	if len(dst)-start > disasmWidth {
		return append(dst, ' ')
	}
	for len(dst)-start < disasmWidth {
		dst = append(dst, ' ')
	}
	return dst
}

func (d DisasmOp) Bytes() []byte { return d.AppendTo(make([]byte, 0, disasmWidth)) }

func (d DisasmOp) String() string { return string(d.Bytes()) }

// registerNames labels the memory-mapped registers in disassembly.
var registerNames = map[uint16]string{
	0x2000: "PPUCTRL",
	0x2001: "PPUMASK",
	0x2002: "PPUSTATUS",
	0x2003: "OAMADDR",
	0x2004: "OAMDATA",
	0x2005: "PPUSCROLL",
	0x2006: "PPUADDR",
	0x2007: "PPUDATA",
	0x4014: "OAMDMA",
	0x4015: "SNDCHN",
	0x4016: "JOY1",
	0x4017: "JOY2",
}

func formatAddr(addr uint16) string {
	if name, ok := registerNames[addr]; ok {
		return name
	}
	return fmt.Sprintf("$%04X", addr)
}
