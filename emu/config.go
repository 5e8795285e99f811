package emu

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"nescore/emu/log"
	"nescore/hw/input"

	"github.com/BurntSushi/toml"
	"github.com/kirsle/configdir"
)

type Config struct {
	Bus       BusConfig       `toml:"bus"`
	Video     VideoConfig     `toml:"video"`
	Trace     TraceConfig     `toml:"trace"`
	Emulation EmulationConfig `toml:"emulation"`
	Input     input.Config    `toml:"input"`

	TraceOut io.WriteCloser `toml:"-"`
	DumpOut  io.Writer      `toml:"-"` // receives the CPU state on fatal errors
	DumpJSON bool           `toml:"-"`
}

type BusConfig struct {
	// Report accesses to unmapped CPU addresses as errors instead of
	// returning the open bus value.
	Strict bool `toml:"strict"`
}

type VideoConfig struct {
	Palette         string `toml:"palette"`          // .pal file, built-in 2C02 palette if empty
	Screenshot      string `toml:"screenshot"`       // PNG path, may contain a %d verb for the frame number
	ScreenshotEvery int    `toml:"screenshot_every"` // 0 for the last frame only
	Scale           int    `toml:"scale"`
}

type TraceConfig struct {
	Output string `toml:"output"` // file path, stdout or stderr
}

type EmulationConfig struct {
	Frames int `toml:"frames"` // 0 to run until interrupted
}

// DefaultConfig returns the configuration used when there's no config file.
func DefaultConfig() Config {
	return Config{
		Video: VideoConfig{
			Scale: 2,
		},
		Emulation: EmulationConfig{
			Frames: 60,
		},
		Input: input.Config{
			Plugged: [2]bool{true, false},
		},
	}
}

// ConfigDir returns the nescore config directory, creating it if needed.
var ConfigDir = sync.OnceValues(func() (string, error) {
	dir := configdir.LocalConfig("nescore")
	if err := configdir.MakePath(dir); err != nil {
		return "", fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return dir, nil
})

const cfgFilename = "config.toml"

func defaultConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, cfgFilename), nil
}

// LoadConfigOrDefault loads the configuration from path, or from the nescore
// config directory if path is empty. A missing file gives the default
// configuration.
func LoadConfigOrDefault(path string) (Config, error) {
	if path == "" {
		var err error
		if path, err = defaultConfigPath(); err != nil {
			log.ModEmu.WarnZ("no config directory").Error("err", err).End()
			return DefaultConfig(), nil
		}
	}

	cfg := DefaultConfig()
	md, err := toml.DecodeFile(path, &cfg)
	if errors.Is(err, fs.ErrNotExist) {
		log.ModEmu.InfoZ("no config file, using defaults").String("path", path).End()
		return DefaultConfig(), nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	for _, key := range md.Undecoded() {
		log.ModEmu.WarnZ("unknown config key").String("key", key.String()).String("path", path).End()
	}
	if err := cfg.Check(); err != nil {
		return Config{}, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// SaveConfig into path, or into the nescore config directory if path is empty.
func SaveConfig(cfg Config, path string) error {
	if path == "" {
		var err error
		if path, err = defaultConfigPath(); err != nil {
			return err
		}
	}

	buf, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(path, buf, 0644)
}

// Check validates the configuration values.
func (cfg *Config) Check() error {
	if cfg.Video.Scale < 1 || cfg.Video.Scale > 8 {
		return fmt.Errorf("video.scale must be in [1, 8], got %d", cfg.Video.Scale)
	}
	if cfg.Video.ScreenshotEvery < 0 {
		return fmt.Errorf("video.screenshot_every must be positive, got %d", cfg.Video.ScreenshotEvery)
	}
	if cfg.Emulation.Frames < 0 {
		return fmt.Errorf("emulation.frames must be positive, got %d", cfg.Emulation.Frames)
	}
	return nil
}
