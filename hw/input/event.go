package input

import (
	"fmt"
	"strconv"
	"strings"
)

// An Event holds a button down on a paddle for a number of frames.
//
// Its text form, used in the configuration file and on the command line,
// is "[pad:]button@frame[+frames]", for example "start@60" or "2:a@100+30".
// pad defaults to 1 and frames to 1.
type Event struct {
	Pad    int // 0 or 1
	Button PaddleButton
	Frame  int64
	Frames int64
}

// Active reports whether the button is held down during frame.
func (ev Event) Active(frame int64) bool {
	return frame >= ev.Frame && frame < ev.Frame+ev.Frames
}

func (ev Event) MarshalText() ([]byte, error) {
	s := fmt.Sprintf("%d:%s@%d", ev.Pad+1, strings.ToLower(ev.Button.String()), ev.Frame)
	if ev.Frames != 1 {
		s += "+" + strconv.FormatInt(ev.Frames, 10)
	}
	return []byte(s), nil
}

func (ev *Event) UnmarshalText(text []byte) error {
	s := string(text)
	e := Event{Frames: 1}

	if pad, rest, ok := strings.Cut(s, ":"); ok {
		n, err := strconv.Atoi(pad)
		if err != nil || n < 1 || n > 2 {
			return fmt.Errorf("input event %q: invalid paddle %q", s, pad)
		}
		e.Pad = n - 1
		s = rest
	}

	btn, when, ok := strings.Cut(s, "@")
	if !ok {
		return fmt.Errorf("input event %q: missing @frame", text)
	}
	var err error
	if e.Button, err = ParseButton(btn); err != nil {
		return fmt.Errorf("input event %q: %w", text, err)
	}

	if frame, dur, ok := strings.Cut(when, "+"); ok {
		if e.Frames, err = strconv.ParseInt(dur, 10, 64); err != nil || e.Frames < 1 {
			return fmt.Errorf("input event %q: invalid duration %q", text, dur)
		}
		when = frame
	}
	if e.Frame, err = strconv.ParseInt(when, 10, 64); err != nil || e.Frame < 0 {
		return fmt.Errorf("input event %q: invalid frame %q", text, when)
	}

	*ev = e
	return nil
}
