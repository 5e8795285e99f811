package hw

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-faster/jx"

	"nescore/hw/hwio"
	"nescore/tests"
)

// Single instruction vectors, in the format of the ProcessorTests suite:
// initial and final CPU state plus the sparse memory contents, and one
// entry per bus cycle.
const singleStepVectors = `[
{"name": "a9 01", "initial": {"pc": 32768, "s": 253, "a": 0, "x": 0, "y": 0, "p": 2, "ram": [[32768, 169], [32769, 1]]},
 "final": {"pc": 32770, "s": 253, "a": 1, "x": 0, "y": 0, "p": 0, "ram": [[32768, 169], [32769, 1]]},
 "cycles": [[32768, 169, "read"], [32769, 1, "read"]]},
{"name": "69 01", "initial": {"pc": 32768, "s": 253, "a": 127, "x": 0, "y": 0, "p": 0, "ram": [[32768, 105], [32769, 1]]},
 "final": {"pc": 32770, "s": 253, "a": 128, "x": 0, "y": 0, "p": 192, "ram": []},
 "cycles": [[32768, 105, "read"], [32769, 1, "read"]]},
{"name": "6c ff 10", "initial": {"pc": 32768, "s": 253, "a": 0, "x": 0, "y": 0, "p": 0, "ram": [[32768, 108], [32769, 255], [32770, 16], [4351, 52], [4096, 18], [4352, 86]]},
 "final": {"pc": 4660, "s": 253, "a": 0, "x": 0, "y": 0, "p": 0, "ram": []},
 "cycles": [[32768, 108, "read"], [32769, 255, "read"], [32770, 16, "read"], [4351, 52, "read"], [4096, 18, "read"]]},
{"name": "bd ff 20", "initial": {"pc": 32768, "s": 253, "a": 0, "x": 1, "y": 0, "p": 0, "ram": [[32768, 189], [32769, 255], [32770, 32], [8448, 128]]},
 "final": {"pc": 32771, "s": 253, "a": 128, "x": 1, "y": 0, "p": 128, "ram": []},
 "cycles": [[32768, 189, "read"], [32769, 255, "read"], [32770, 32, "read"], [8448, 128, "read"], [8448, 128, "read"]]},
{"name": "e6 10", "initial": {"pc": 32768, "s": 253, "a": 0, "x": 0, "y": 0, "p": 0, "ram": [[32768, 230], [32769, 16], [16, 255]]},
 "final": {"pc": 32770, "s": 253, "a": 0, "x": 0, "y": 0, "p": 2, "ram": [[16, 0]]},
 "cycles": [[32768, 230, "read"], [32769, 16, "read"], [16, 255, "read"], [16, 255, "write"], [16, 0, "write"]]},
{"name": "00 00", "initial": {"pc": 32768, "s": 253, "a": 0, "x": 0, "y": 0, "p": 0, "ram": [[32768, 0], [65534, 0], [65535, 144]]},
 "final": {"pc": 36864, "s": 250, "a": 0, "x": 0, "y": 0, "p": 4, "ram": [[509, 128], [508, 2], [507, 48]]},
 "cycles": [[32768, 0, "read"], [32769, 0, "read"], [509, 128, "write"], [508, 2, "write"], [507, 48, "write"], [65534, 0, "read"], [65535, 144, "read"]]}
]`

type vectorState struct {
	PC         uint16
	S, A, X, Y uint8
	P          uint8
	RAM        [][2]int
}

type vector struct {
	Name           string
	Initial, Final vectorState
	Cycles         int
}

func decodeVectorState(d *jx.Decoder, st *vectorState) error {
	return d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "pc":
			st.PC, err = d.UInt16()
		case "s":
			st.S, err = d.UInt8()
		case "a":
			st.A, err = d.UInt8()
		case "x":
			st.X, err = d.UInt8()
		case "y":
			st.Y, err = d.UInt8()
		case "p":
			st.P, err = d.UInt8()
		case "ram":
			err = d.Arr(func(d *jx.Decoder) error {
				var (
					row [2]int
					i   int
				)
				if err := d.Arr(func(d *jx.Decoder) error {
					n, err := d.Int()
					if i < len(row) {
						row[i] = n
					}
					i++
					return err
				}); err != nil {
					return err
				}
				st.RAM = append(st.RAM, row)
				return nil
			})
		default:
			err = d.Skip()
		}
		return err
	})
}

func decodeVectors(tb testing.TB, data string) []vector {
	tb.Helper()

	var vecs []vector
	d := jx.DecodeStr(data)
	err := d.Arr(func(d *jx.Decoder) error {
		var v vector
		err := d.Obj(func(d *jx.Decoder, key string) error {
			switch key {
			case "name":
				var err error
				v.Name, err = d.Str()
				return err
			case "initial":
				return decodeVectorState(d, &v.Initial)
			case "final":
				return decodeVectorState(d, &v.Final)
			case "cycles":
				return d.Arr(func(d *jx.Decoder) error {
					v.Cycles++
					return d.Skip()
				})
			}
			return d.Skip()
		})
		vecs = append(vecs, v)
		return err
	})
	if err != nil {
		tb.Fatalf("decoding test vectors: %v", err)
	}
	return vecs
}

func TestSingleStepVectors(t *testing.T) {
	for _, tt := range decodeVectors(t, singleStepVectors) {
		t.Run(tt.Name, func(t *testing.T) {
			flat := make([]byte, 0x10000)
			bus := hwio.NewTable("cputest")
			bus.MapMem(0x0000, &hwio.Mem{Name: "flat", Data: flat})

			cpu := NewCPU(bus)
			cpu.pending = noInterrupt
			cpu.PC = tt.Initial.PC
			cpu.SP = tt.Initial.S
			cpu.A = tt.Initial.A
			cpu.X = tt.Initial.X
			cpu.Y = tt.Initial.Y
			cpu.P = P(tt.Initial.P)
			for _, row := range tt.Initial.RAM {
				flat[row[0]] = uint8(row[1])
			}

			runAndCheckState(t, cpu, 1,
				"PC", tt.Final.PC,
				"SP", tt.Final.S,
				"A", tt.Final.A,
				"X", tt.Final.X,
				"Y", tt.Final.Y,
				"P", tt.Final.P,
			)

			if cpu.Cycles != int64(tt.Cycles) {
				t.Errorf("cycles count mismatch: got %d want %d", cpu.Cycles, tt.Cycles)
			}
			for _, row := range tt.Final.RAM {
				if got := flat[row[0]]; got != uint8(row[1]) {
					t.Errorf("ram[0x%04x] = 0x%02x, want 0x%02x", row[0], got, row[1])
				}
			}
		})
	}
}

// runVector runs a single vector and returns the first difference with the
// expected final state. Bits 4 and 5 of P are ignored.
func runVector(cpu *CPU, flat []byte, tt vector) error {
	clear(flat)
	cpu.pending = noInterrupt
	cpu.Cycles = 0
	cpu.PC = tt.Initial.PC
	cpu.SP = tt.Initial.S
	cpu.A = tt.Initial.A
	cpu.X = tt.Initial.X
	cpu.Y = tt.Initial.Y
	cpu.P = P(tt.Initial.P)
	for _, row := range tt.Initial.RAM {
		flat[row[0]] = uint8(row[1])
	}

	if _, err := cpu.Step(); err != nil {
		return err
	}

	want := tt.Final
	if cpu.PC != want.PC || cpu.SP != want.S || cpu.A != want.A || cpu.X != want.X || cpu.Y != want.Y || (uint8(cpu.P)^want.P)&^0x30 != 0 {
		return fmt.Errorf("PC:%04X SP:%02X A:%02X X:%02X Y:%02X P:%02X, want PC:%04X SP:%02X A:%02X X:%02X Y:%02X P:%02X",
			cpu.PC, cpu.SP, cpu.A, cpu.X, cpu.Y, uint8(cpu.P),
			want.PC, want.S, want.A, want.X, want.Y, want.P)
	}
	if cpu.Cycles != int64(tt.Cycles) {
		return fmt.Errorf("cycles = %d, want %d", cpu.Cycles, tt.Cycles)
	}
	for _, row := range tt.Final.RAM {
		if flat[row[0]] != uint8(row[1]) {
			return fmt.Errorf("ram[0x%04x] = 0x%02x, want 0x%02x", row[0], flat[row[0]], row[1])
		}
	}
	return nil
}

func TestProcessorTests(t *testing.T) {
	tests.Require(t)
	dir := tests.ProcessorTestsPath(t)

	for opcode := range 256 {
		name := fmt.Sprintf("%02x", opcode)
		t.Run(name, func(t *testing.T) {
			data, err := os.ReadFile(filepath.Join(dir, name+".json"))
			if err != nil {
				t.Fatal(err)
			}

			flat := make([]byte, 0x10000)
			bus := hwio.NewTable("cputest")
			bus.MapMem(0x0000, &hwio.Mem{Name: "flat", Data: flat})
			cpu := NewCPU(bus)

			nfail := 0
			for _, tt := range decodeVectors(t, string(data)) {
				err := runVector(cpu, flat, tt)
				if errors.Is(err, ErrOpcodeNotImplemented) || errors.Is(err, ErrAddressDecode) {
					t.Skipf("opcode not supported: %v", err)
				}
				if err != nil {
					t.Errorf("%s: %v", tt.Name, err)
					if nfail++; nfail == 10 {
						t.Fatal("too many failures")
					}
				}
			}
		})
	}
}
