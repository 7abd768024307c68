package session

import "io"

// Alarm plays a completion cue. Implementations must never block and never
// fail loudly; a cue that cannot play is simply lost.
type Alarm interface {
	Play()
}

// Bell rings the terminal bell.
type Bell struct {
	W io.Writer
}

func (b Bell) Play() {
	if b.W == nil {
		return
	}
	_, _ = b.W.Write([]byte("\a"))
}

// NopAlarm discards cues.
type NopAlarm struct{}

func (NopAlarm) Play() {}
