package hw

import (
	"fmt"
	"io"
	"strings"

	"github.com/go-faster/jx"
)

// State is a snapshot of the CPU registers.
type State struct {
	PC         uint16
	A, X, Y    uint8
	SP         uint8
	P          P
	Cycles     int64
	Interrupt  string
	DMAPending bool
}

func (c *CPU) State() State {
	return State{
		PC:         c.PC,
		A:          c.A,
		X:          c.X,
		Y:          c.Y,
		SP:         c.SP,
		P:          c.P,
		Cycles:     c.Cycles,
		Interrupt:  c.pending.String(),
		DMAPending: c.dma.pending,
	}
}

// Dump writes the CPU registers and the disassembly of the instruction at PC,
// either as text or as a single JSON object.
func (c *CPU) Dump(w io.Writer, asJSON bool) error {
	st := c.State()
	dis := c.Disasm(st.PC)

	if asJSON {
		var e jx.Encoder
		e.ObjStart()
		e.FieldStart("pc")
		e.UInt16(st.PC)
		e.FieldStart("a")
		e.UInt8(st.A)
		e.FieldStart("x")
		e.UInt8(st.X)
		e.FieldStart("y")
		e.UInt8(st.Y)
		e.FieldStart("sp")
		e.UInt8(st.SP)
		e.FieldStart("p")
		e.UInt8(uint8(st.P))
		e.FieldStart("flags")
		e.Str(st.P.String())
		e.FieldStart("cycles")
		e.Int64(st.Cycles)
		e.FieldStart("interrupt")
		e.Str(st.Interrupt)
		e.FieldStart("dma")
		e.Bool(st.DMAPending)
		e.FieldStart("op")
		e.Str(strings.TrimSpace(dis.String()))
		e.ObjEnd()
		_, err := w.Write(append(e.Bytes(), '\n'))
		return err
	}

	_, err := fmt.Fprintf(w, "PC:%04X A:%02X X:%02X Y:%02X S:%02X P:%02X [%s] cycles:%d interrupt:%s dma:%t\n> %s\n",
		st.PC, st.A, st.X, st.Y, st.SP, uint8(st.P), st.P, st.Cycles, st.Interrupt, st.DMAPending,
		strings.TrimSpace(dis.String()))
	return err
}
