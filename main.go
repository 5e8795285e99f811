package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime/debug"
	"runtime/pprof"

	"golang.org/x/term"

	"nescore/emu"
	"nescore/emu/log"
	"nescore/ines"
)

func main() {
	cli := parseArgs(os.Args[1:])

	switch cli.mode {
	case romInfosMode:
		rom, err := ines.Open(cli.RomInfos.RomPath)
		checkf(err, "failed to open rom")
		checkf(rom.PrintInfos(os.Stdout), "failed to print rom infos")
	case versionMode:
		printVersion()
	case runMode:
		checkf(run(&cli.Run), "emulation failed")
	}
}

func run(args *Run) error {
	rom, err := ines.Open(args.RomPath)
	if err != nil {
		return err
	}

	cfg, err := emu.LoadConfigOrDefault(args.Config)
	if err != nil {
		return err
	}
	args.apply(&cfg)
	if err := cfg.Check(); err != nil {
		return err
	}

	if args.Trace == nil && cfg.Trace.Output != "" {
		if args.Trace, err = openOutfile(cfg.Trace.Output); err != nil {
			return fmt.Errorf("trace: %w", err)
		}
	}
	if args.Trace != nil {
		cfg.TraceOut = args.Trace
		defer func() {
			if err := args.Trace.Close(); err != nil {
				log.ModEmu.WarnZ("failed to close trace").Error("err", err).End()
			}
		}()
	}

	// The CPU state is dumped as text for humans, JSON otherwise.
	cfg.DumpOut = os.Stderr
	cfg.DumpJSON = !term.IsTerminal(int(os.Stderr.Fd()))

	if args.CPUProfile != "" {
		f, err := os.Create(args.CPUProfile)
		if err != nil {
			return fmt.Errorf("cpu profile: %w", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			return fmt.Errorf("cpu profile: %w", err)
		}
		defer pprof.StopCPUProfile()
	}

	if args.Statsview {
		emu.LaunchStatsview(os.Stderr)
	}

	nes, err := emu.PowerUp(rom, cfg)
	if err != nil {
		return fmt.Errorf("power up: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err = emu.Run(ctx, nes, cfg)
	if errors.Is(err, context.Canceled) {
		log.ModEmu.InfoZ("interrupted").Int64("frames", nes.PPU.FrameCount).End()
		return nil
	}
	return err
}

// apply overrides cfg with the command line flags.
func (args *Run) apply(cfg *emu.Config) {
	if args.Frames != nil {
		cfg.Emulation.Frames = *args.Frames
	}
	if args.Strict {
		cfg.Bus.Strict = true
	}
	if args.Palette != "" {
		cfg.Video.Palette = args.Palette
	}
	if args.Screenshot != "" {
		cfg.Video.Screenshot = args.Screenshot
	}
	if args.ScreenshotEvery != nil {
		cfg.Video.ScreenshotEvery = *args.ScreenshotEvery
	}
	if args.Scale != nil {
		cfg.Video.Scale = *args.Scale
	}
	for _, ev := range args.Press {
		cfg.Input.Plugged[ev.Pad] = true
		cfg.Input.Events = append(cfg.Input.Events, ev)
	}
}

func printVersion() {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		fmt.Println("nescore (unknown version)")
		return
	}
	fmt.Printf("nescore %s (%s)\n", bi.Main.Version, bi.GoVersion)
}
