package hw

import (
	"io"
	"strconv"
)

// cpuState stores the CPU state for the execution trace.
type cpuState struct {
	A, X, Y uint8
	P       P
	SP      uint8
	PC      uint16

	Clock    int64
	PPUCycle int
	Scanline int
}

type disasmer interface {
	Disasm(pc uint16) DisasmOp
}

// tracer writes one line per executed instruction, in a format close to the
// nestest.log reference:
//
//	C000  4C F5 C5  JMP $C5F5                       A:00 X:00 Y:00 P:24 S:FD PPU:0  ,21  7
type tracer struct {
	d   disasmer
	w   io.Writer
	pos func() (scanline, dot int)
	buf []byte
}

const regsColumn = 49

func appendHex8(dst []byte, v uint8) []byte {
	const hextable = "0123456789ABCDEF"
	return append(dst, hextable[v>>4], hextable[v&0x0F])
}

func appendReg(dst []byte, name string, v uint8) []byte {
	dst = append(dst, name...)
	dst = append(dst, ':')
	return append(appendHex8(dst, v), ' ')
}

// appendPadded appends v left-aligned in a column of width w.
func appendPadded(dst []byte, v int, w int) []byte {
	n := len(dst)
	dst = strconv.AppendInt(dst, int64(v), 10)
	for len(dst)-n < w {
		dst = append(dst, ' ')
	}
	return dst
}

func (t *tracer) write(state cpuState) {
	buf := t.d.Disasm(state.PC).AppendTo(t.buf[:0])
	for len(buf) < regsColumn {
		buf = append(buf, ' ')
	}

	buf = appendReg(buf, "A", state.A)
	buf = appendReg(buf, "X", state.X)
	buf = appendReg(buf, "Y", state.Y)
	buf = appendReg(buf, "P", uint8(state.P))
	buf = appendReg(buf, "S", state.SP)

	// The pre-render line is shown as -1, like Mesen does.
	scanline := state.Scanline
	if scanline == preRenderLine {
		scanline = -1
	}
	buf = append(buf, "PPU:"...)
	buf = appendPadded(buf, scanline, 3)
	buf = append(buf, ',')
	buf = appendPadded(buf, state.PPUCycle, 3)
	buf = append(buf, ' ')
	buf = strconv.AppendInt(buf, state.Clock, 10)
	buf = append(buf, '\n')

	t.w.Write(buf)
	t.buf = buf
}
