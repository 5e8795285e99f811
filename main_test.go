package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"nescore/emu"
	"nescore/emu/log"
	"nescore/hw/input"
)

func TestRunFlags(t *testing.T) {
	rom := filepath.Join(t.TempDir(), "game.nes")
	if err := os.WriteFile(rom, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	cli := parseArgs([]string{
		"run", rom,
		"--frames", "10",
		"--strict",
		"--scale", "3",
		"--screenshot", "shot-%d.png",
		"--press", "start@5",
		"--press", "2:a@7+3",
	})
	if cli.mode != runMode {
		t.Fatalf("mode = %d, want runMode", cli.mode)
	}

	cfg := emu.DefaultConfig()
	cli.Run.apply(&cfg)
	if err := cfg.Check(); err != nil {
		t.Fatal(err)
	}

	want := emu.DefaultConfig()
	want.Emulation.Frames = 10
	want.Bus.Strict = true
	want.Video.Scale = 3
	want.Video.Screenshot = "shot-%d.png"
	want.Input.Plugged = [2]bool{true, true}
	want.Input.Events = []input.Event{
		{Pad: 0, Button: input.PadStart, Frame: 5, Frames: 1},
		{Pad: 1, Button: input.PadA, Frame: 7, Frames: 3},
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestRomInfosCommand(t *testing.T) {
	rom := filepath.Join(t.TempDir(), "game.nes")
	if err := os.WriteFile(rom, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	cli := parseArgs([]string{"rom-infos", rom})
	if cli.mode != romInfosMode {
		t.Errorf("mode = %d, want romInfosMode", cli.mode)
	}
	if cli.RomInfos.RomPath != rom {
		t.Errorf("rom path = %q, want %q", cli.RomInfos.RomPath, rom)
	}
}

func TestParseLogModules(t *testing.T) {
	cpu, _ := log.ModuleByName("cpu")
	ppu, _ := log.ModuleByName("ppu")

	tests := []struct {
		list    string
		mask    log.ModuleMask
		disable bool
		wantErr bool
	}{
		{list: "cpu", mask: cpu.Mask()},
		{list: "cpu,ppu", mask: cpu.Mask() | ppu.Mask()},
		{list: "all", mask: log.ModuleMaskAll},
		{list: "no", disable: true},
		{list: "no,cpu", wantErr: true},
		{list: "nope", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.list, func(t *testing.T) {
			mask, disable, err := parseLogModules(tt.list)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %t", err, tt.wantErr)
			}
			if mask != tt.mask || disable != tt.disable {
				t.Errorf("got (%x, %t), want (%x, %t)", mask, disable, tt.mask, tt.disable)
			}
		})
	}
}
