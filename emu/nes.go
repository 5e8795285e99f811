package emu

import (
	"context"
	"fmt"
	"os"
	"sync/atomic"

	"nescore/emu/log"
	"nescore/hw"
	"nescore/hw/hwio"
	"nescore/hw/input"
	"nescore/hw/mappers"
	"nescore/ines"
)

// NES wires the CPU, PPU, APU register sink, controller ports and cartridge
// together and drives them, keeping 3 PPU dots per CPU cycle.
type NES struct {
	CPU   *hw.CPU
	PPU   *hw.PPU
	APU   *hw.APU
	Ports *hw.InputPorts
	Input *input.Provider
	Rom   *ines.Rom

	frame *hw.Frame

	dump     func(error)
	frameNum atomic.Int64 // completed frames, readable from any goroutine
}

// PowerUp builds the system with rom inserted, in power-up state.
func PowerUp(rom *ines.Rom, cfg Config) (*NES, error) {
	bus := hwio.NewTable("cpu")
	if cfg.Bus.Strict {
		bus.Policy = hwio.Strict
	}

	cpu := hw.NewCPU(bus)
	ppu := hw.NewPPU()
	apu := hw.NewAPU()
	ports := hw.NewInputPorts(apu.WriteFRAMECOUNTER)

	cpu.InitBus()
	ppu.MapRegisters(bus)
	apu.InitBus(bus)
	ports.InitBus(bus)

	if err := mappers.Load(rom, cpu, ppu); err != nil {
		return nil, err
	}

	if cfg.Video.Palette != "" {
		pal, err := loadPalette(cfg.Video.Palette)
		if err != nil {
			return nil, err
		}
		ppu.Palette = pal
	}

	nes := &NES{
		CPU:   cpu,
		PPU:   ppu,
		APU:   apu,
		Ports: ports,
		Input: input.NewProvider(cfg.Input),
		Rom:   rom,
		frame: hw.NewFrame(),
	}
	ports.Connect(nes.Input)
	ppu.Sink = nes.frame

	// CPU execution trace setup.
	if cfg.TraceOut != nil {
		cpu.SetTraceOutput(cfg.TraceOut, ppu.Position)
	}
	if cfg.DumpOut != nil {
		nes.dump = func(err error) {
			fmt.Fprintf(cfg.DumpOut, "fatal error: %s\n", err)
			if err := cpu.Dump(cfg.DumpOut, cfg.DumpJSON); err != nil {
				log.ModEmu.WarnZ("failed to dump CPU state").Error("err", err).End()
			}
		}
	}

	logBusMap(bus)
	logBusMap(ppu.Bus)

	log.ModEmu.InfoZ("power up").
		Uint16("mapper", rom.Mapper()).
		Stringer("mirroring", rom.Mirroring()).
		Stringer("bus", bus.Policy).
		End()
	return nes, nil
}

func logBusMap(bus *hwio.Table) {
	for _, r := range bus.Regions() {
		log.ModHwIo.DebugZ("mapped").String("bus", bus.Name).Stringer("region", r).End()
	}
}

func loadPalette(path string) (*hw.Palette, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	pal, err := hw.ReadPalette(f)
	if err != nil {
		return nil, fmt.Errorf("palette %s: %w", path, err)
	}
	return pal, nil
}

// Reset presses the reset button.
func (nes *NES) Reset() {
	log.ModEmu.InfoZ("reset").End()
	nes.PPU.Reset()
	nes.CPU.Reset()
}

// Step runs one CPU step, then the PPU for 3 dots per CPU cycle, delivering
// the vblank NMI to the CPU. It returns the number of CPU cycles.
func (nes *NES) Step() (int, error) {
	n, err := nes.CPU.Step()
	if err != nil {
		return 0, err
	}
	for range 3 * n {
		if nes.PPU.Tick() {
			nes.CPU.RequestNMI()
		}
	}
	return n, nil
}

// RunFrame steps the system until the PPU completes a frame. On error, the
// CPU state is dumped and the error is returned with the frame number.
func (nes *NES) RunFrame() error {
	start := nes.PPU.FrameCount
	nes.Input.SetFrame(start)

	for nes.PPU.FrameCount == start {
		if _, err := nes.Step(); err != nil {
			if nes.dump != nil {
				nes.dump(err)
			}
			return fmt.Errorf("frame %d: %w", start, err)
		}
	}
	nes.frameNum.Store(nes.PPU.FrameCount)
	return nil
}

// RunFrames runs n frames, or until ctx is done if n is 0. After each frame,
// out, if not nil, receives the frame number and a copy of the picture.
// Cancellation is checked between frames.
func (nes *NES) RunFrames(ctx context.Context, n int, out func(int64, *hw.Frame) error) error {
	for i := 0; n == 0 || i < n; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		num := nes.PPU.FrameCount
		if err := nes.RunFrame(); err != nil {
			return err
		}
		if out != nil {
			if err := out(num, nes.frame.Clone()); err != nil {
				return err
			}
		}
	}
	return nil
}

// Frame returns the picture being drawn by the PPU.
func (nes *NES) Frame() *hw.Frame { return nes.frame }

// AddLogContext stamps log entries with the number of the last completed frame.
func (nes *NES) AddLogContext(e *log.EntryZ) {
	e.Int64("frame", nes.frameNum.Load())
}
