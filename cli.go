package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"nescore/emu"
	"nescore/emu/log"
	"nescore/hw/input"
)

type mode byte

const (
	runMode      mode = iota // Run a ROM
	romInfosMode             // Show ROM infos
	versionMode              // Show nescore version
)

type (
	CLI struct {
		Run      Run      `cmd:"" help:"Run ROM in emulator." default:"withargs"`
		RomInfos RomInfos `cmd:"" help:"Show ROM infos." name:"rom-infos"`
		Version  Version  `cmd:"" help:"Show nescore version."`

		Log logModMask `help:"${log_help}" placeholder:"mod0,mod1,..."`

		mode mode
	}

	Run struct {
		RomPath string `arg:"" name:"/path/to/rom" help:"ROM to run." required:"true" type:"existingfile"`

		Config          string        `name:"config" help:"${config_help}" type:"path"`
		Frames          *int          `name:"frames" help:"Number of frames to run, 0 to run until interrupted."`
		Strict          bool          `name:"strict" help:"${strict_help}"`
		Palette         string        `name:"palette" help:"Master palette file (.pal)." type:"existingfile"`
		Screenshot      string        `name:"screenshot" help:"${screenshot_help}" type:"path"`
		ScreenshotEvery *int          `name:"screenshot-every" help:"Save a screenshot every N frames."`
		Scale           *int          `name:"scale" help:"Screenshot scale factor."`
		Press           []input.Event `name:"press" help:"${press_help}" placeholder:"[PAD:]BUTTON@FRAME[+N]" sep:"none"`
		Trace           *outfile      `name:"trace" help:"Write CPU trace log." placeholder:"FILE|stdout|stderr"`
		CPUProfile      string        `name:"cpuprofile" help:"Write CPU profile to file." type:"path"`
		Statsview       bool          `name:"statsview" help:"Serve runtime statistics on ${statsview_addr}."`
	}

	RomInfos struct {
		RomPath string `arg:"" name:"/path/to/rom" type:"existingfile"`
	}

	Version struct{}
)

var vars = kong.Vars{
	"config_help":     "Configuration file. (default: config.toml in the user config directory)",
	"strict_help":     "Fail on accesses to unmapped CPU addresses instead of reading the open bus.",
	"screenshot_help": "Save screenshots to PNG. The path may contain a %d verb for the frame number.",
	"press_help":      "Hold down a controller button during some frames. Can be repeated.",
	"log_help":        "Enable logging for specified modules.",
	"statsview_addr":  emu.StatsviewAddr,
}

func parseArgs(args []string) CLI {
	var cfg CLI
	parser, err := kong.New(&cfg,
		kong.Name("nescore"),
		kong.Description("Headless NES emulator core."),
		kong.UsageOnError(),
		kong.Help(printHelp),
		vars)
	if err != nil {
		panic(err)
	}

	ctx, err := parser.Parse(args)
	checkf(err, "failed to parse command line")
	checkf(ctx.Error, "failed to parse command line")

	switch ctx.Command() {
	case "rom-infos </path/to/rom>":
		cfg.mode = romInfosMode
	case "version":
		cfg.mode = versionMode
	default:
		cfg.mode = runMode
	}
	return cfg
}

func printHelp(options kong.HelpOptions, ctx *kong.Context) error {
	if err := kong.DefaultHelpPrinter(options, ctx); err != nil {
		return err
	}
	if !strings.HasPrefix(ctx.Command(), "run") {
		return nil
	}

	var sb strings.Builder
	sb.WriteString("\nLog modules:\n")
	sb.WriteString("  --log takes a comma-separated list among:\n")
	for _, m := range log.ModuleNames() {
		fmt.Fprintf(&sb, "    %s\n", m)
	}
	sb.WriteString("  'all' enables all modules, 'no' disables logging entirely.\n")
	sb.WriteString("\nInput events:\n")
	sb.WriteString("  Buttons are a, b, select, start, up, down, left and right. PAD is 1\n")
	sb.WriteString("  (default) or 2. The button is held for N frames, 1 by default.\n")
	_, err := io.WriteString(ctx.Stdout, sb.String())
	return err
}

// parseLogModules parses the value of the --log flag.
func parseLogModules(list string) (mask log.ModuleMask, disable bool, err error) {
	for _, name := range strings.Split(list, ",") {
		switch name {
		case "all":
			mask = log.ModuleMaskAll
		case "no":
			disable = true
		default:
			mod, ok := log.ModuleByName(name)
			if !ok {
				return 0, false, fmt.Errorf("unknown log module %q", name)
			}
			mask |= mod.Mask()
		}
	}
	if disable && mask != 0 {
		return 0, false, fmt.Errorf("'no' cannot be combined with other log modules")
	}
	return mask, disable, nil
}

type logModMask log.ModuleMask

// Decode implements kong.MapperValue.
func (lm *logModMask) Decode(ctx *kong.DecodeContext) error {
	var list string
	if err := ctx.Scan.PopValueInto("modules", &list); err != nil {
		return err
	}
	mask, disable, err := parseLogModules(list)
	if err != nil {
		return err
	}
	if disable {
		log.Disable()
		return nil
	}
	*lm = logModMask(mask)
	log.EnableDebugModules(mask)
	return nil
}

// outfile is a buffered output, either a file or one of the standard
// outputs.
type outfile struct {
	w     *bufio.Writer
	name  string
	close func() error
}

func openOutfile(name string) (*outfile, error) {
	f := &outfile{name: name, close: func() error { return nil }}

	var w io.Writer
	switch name {
	case "stdout":
		w = os.Stdout
	case "stderr":
		w = os.Stderr
	default:
		fd, err := os.Create(name)
		if err != nil {
			return nil, err
		}
		w = fd
		f.close = fd.Close
	}
	f.w = bufio.NewWriterSize(w, 64*1024)
	return f, nil
}

// Decode implements kong.MapperValue.
func (f *outfile) Decode(ctx *kong.DecodeContext) error {
	var name string
	if err := ctx.Scan.PopValueInto("file", &name); err != nil {
		return err
	}
	of, err := openOutfile(name)
	if err != nil {
		return err
	}
	*f = *of
	return nil
}

func (f *outfile) String() string              { return f.name }
func (f *outfile) Write(p []byte) (int, error) { return f.w.Write(p) }

func (f *outfile) Close() error {
	if err := f.w.Flush(); err != nil {
		f.close()
		return err
	}
	return f.close()
}

func checkf(err error, format string, args ...any) {
	if err == nil {
		return
	}
	fatalf(format+".\n\t%s", append(args, err)...)
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "fatal error:")
	fmt.Fprintf(os.Stderr, "\n\t%s\n", fmt.Sprintf(format, args...))
	os.Exit(1)
}
