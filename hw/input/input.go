// Package input provides the state of the standard NES controllers (paddles)
// plugged in the console, driven by a scripted list of button presses.
package input

import (
	"fmt"
	"strings"
	"sync"

	"nescore/emu/log"
)

// A PaddleButton identifies a button of a standard NES controller/paddle.
type PaddleButton byte

const (
	PadA PaddleButton = iota
	PadB
	PadSelect
	PadStart
	PadUp
	PadDown
	PadLeft
	PadRight

	PadButtonCount
)

var buttonNames = [PadButtonCount]string{
	"A", "B",
	"Select", "Start",
	"Up", "Down", "Left", "Right",
}

func (pd PaddleButton) String() string {
	if pd >= PadButtonCount {
		return fmt.Sprintf("PaddleButton(%d)", pd)
	}
	return buttonNames[pd]
}

// ParseButton returns the button with the given name, case insensitive.
func ParseButton(s string) (PaddleButton, error) {
	for i, name := range buttonNames {
		if strings.EqualFold(name, s) {
			return PaddleButton(i), nil
		}
	}
	return 0, fmt.Errorf("unknown button %q", s)
}

// Paddle holds the state of a controller, one bit per button in the order
// they're serially reported: A in bit 0, Right in bit 7.
type Paddle uint8

func (p *Paddle) Press(b PaddleButton)   { *p |= 1 << b }
func (p *Paddle) Release(b PaddleButton) { *p &^= 1 << b }

func (p Paddle) Pressed(b PaddleButton) bool { return p&(1<<b) != 0 }

type Config struct {
	Plugged [2]bool `toml:"plugged"`
	Events  []Event `toml:"events"`
}

// Provider implements hw.InputDevice for 2 paddles. Their state is set by
// replaying the configured events, one frame at a time.
type Provider struct {
	mu    sync.Mutex
	pads  [2]Paddle
	cfg   Config
	frame int64
}

func NewProvider(cfg Config) *Provider {
	return &Provider{cfg: cfg}
}

// SetFrame updates the paddles state to that of the given frame.
func (p *Provider) SetFrame(frame int64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.frame = frame
	p.pads = [2]Paddle{}
	for _, ev := range p.cfg.Events {
		if !ev.Active(frame) {
			continue
		}
		if !p.cfg.Plugged[ev.Pad] {
			log.ModInput.DebugZ("event for unplugged paddle").
				Int("pad", ev.Pad+1).
				Int64("frame", frame).
				End()
			continue
		}
		p.pads[ev.Pad].Press(ev.Button)
	}
}

func (p *Provider) LoadState() (uint8, uint8) {
	p.mu.Lock()
	defer p.mu.Unlock()

	log.ModInput.DebugZ("load state").
		Int64("frame", p.frame).
		Hex8("pad1", uint8(p.pads[0])).
		Hex8("pad2", uint8(p.pads[1])).
		End()
	return uint8(p.pads[0]), uint8(p.pads[1])
}
