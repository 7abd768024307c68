// Package session holds the countdown state machines that drive the app:
// the focus/break timer and the meditation timer. The machines do no I/O of
// their own; completed intervals are reported through small recorder
// interfaces and the caller supplies the once-per-second ticks.
package session

import "time"

type Mode int

const (
	ModeFocus Mode = iota
	ModeShortBreak
	ModeLongBreak
)

var modeNames = map[Mode]string{
	ModeFocus:      "FOCUS",
	ModeShortBreak: "SHORT BREAK",
	ModeLongBreak:  "LONG BREAK",
}

func (m Mode) String() string { return modeNames[m] }

type Status int

const (
	StatusIdle Status = iota
	StatusRunning
	StatusPaused
	StatusCompleted
)

// Durations configures the countdown length per mode.
type Durations struct {
	Focus      time.Duration
	ShortBreak time.Duration
	LongBreak  time.Duration
}

func (d Durations) For(m Mode) time.Duration {
	switch m {
	case ModeShortBreak:
		return d.ShortBreak
	case ModeLongBreak:
		return d.LongBreak
	default:
		return d.Focus
	}
}

// IntervalRecorder receives completed focus and break intervals.
type IntervalRecorder interface {
	FocusCompleted(minutes int) error
	BreakCompleted(minutes int) error
}

// Timer is the focus/break countdown state machine. It is driven entirely
// by external events: user actions and Tick calls. Every transition that
// stops the countdown bumps a generation token, so a tick scheduled before
// the transition arrives with a stale token and does nothing.
type Timer struct {
	durations Durations
	recorder  IntervalRecorder
	alarm     Alarm
	alarmOn   bool

	mode      Mode
	status    Status
	remaining int // seconds
	armed     int // seconds the current interval was armed with
	gen       uint64
}

func NewTimer(d Durations, rec IntervalRecorder, alarm Alarm) *Timer {
	t := &Timer{durations: d, recorder: rec, alarm: alarm, alarmOn: true}
	t.arm(ModeFocus)
	return t
}

func (t *Timer) Mode() Mode     { return t.mode }
func (t *Timer) Status() Status { return t.status }

// Remaining is the countdown in whole seconds.
func (t *Timer) Remaining() int { return t.remaining }

// Armed is the full length of the current interval in seconds.
func (t *Timer) Armed() int { return t.armed }

// Gen is the current tick token. Ticks carrying an older token are inert.
func (t *Timer) Gen() uint64 { return t.gen }

// SetMode cancels any running countdown and arms the new mode at its full
// duration, status idle. Switching mode mid-run never fires completion.
func (t *Timer) SetMode(m Mode) {
	t.gen++
	t.arm(m)
}

func (t *Timer) arm(m Mode) {
	t.mode = m
	t.status = StatusIdle
	t.armed = int(t.durations.For(m).Seconds())
	t.remaining = t.armed
}

// Start begins (or resumes) the countdown. It reports whether a new tick
// chain should be scheduled: starting an already-running timer is a no-op.
func (t *Timer) Start() bool {
	if t.status == StatusRunning {
		return false
	}
	if t.status == StatusIdle || t.status == StatusCompleted {
		// A fresh run of the armed mode.
		t.armed = int(t.durations.For(t.mode).Seconds())
		t.remaining = t.armed
	}
	t.status = StatusRunning
	t.gen++
	return true
}

// Pause stops the countdown, preserving the remaining time.
func (t *Timer) Pause() {
	if t.status != StatusRunning {
		return
	}
	t.status = StatusPaused
	t.gen++
}

// Reset stops the countdown and restores the full duration for the current
// mode.
func (t *Timer) Reset() {
	t.gen++
	t.arm(t.mode)
}

// SetDurations installs new interval lengths. A countdown already in
// progress keeps the time it was armed with; idle and completed timers are
// re-armed immediately.
func (t *Timer) SetDurations(d Durations) {
	t.durations = d
	if t.status == StatusIdle || t.status == StatusCompleted {
		t.gen++
		t.arm(t.mode)
	}
}

func (t *Timer) SetAlarmEnabled(on bool) { t.alarmOn = on }

// Tick advances the countdown by one second. It is a no-op unless the timer
// is running and gen matches the current token. It reports whether this
// tick completed the interval; on completion the recorder and alarm fire
// synchronously and the mode auto-advances (focus to short break, either
// break back to focus) with status left at completed until the next Start
// or SetMode.
func (t *Timer) Tick(gen uint64) bool {
	if t.status != StatusRunning || gen != t.gen {
		return false
	}
	if t.remaining > 0 {
		t.remaining--
	}
	if t.remaining > 0 {
		return false
	}

	t.status = StatusCompleted
	t.gen++
	t.complete()

	next := ModeFocus
	if t.mode == ModeFocus {
		next = ModeShortBreak
	}
	t.mode = next
	t.armed = int(t.durations.For(next).Seconds())
	t.remaining = t.armed
	return true
}

func (t *Timer) complete() {
	minutes := t.armed / 60
	if t.recorder != nil {
		// Recording failures never interrupt the session.
		if t.mode == ModeFocus {
			_ = t.recorder.FocusCompleted(minutes)
		} else {
			_ = t.recorder.BreakCompleted(minutes)
		}
	}
	if t.alarmOn && t.alarm != nil {
		t.alarm.Play()
	}
}
