package session

import (
	"testing"
	"time"
)

type fakeRecorder struct {
	focus       []int
	breaks      []int
	meditations []int
}

func (f *fakeRecorder) FocusCompleted(minutes int) error {
	f.focus = append(f.focus, minutes)
	return nil
}

func (f *fakeRecorder) BreakCompleted(minutes int) error {
	f.breaks = append(f.breaks, minutes)
	return nil
}

func (f *fakeRecorder) MeditationCompleted(minutes int) error {
	f.meditations = append(f.meditations, minutes)
	return nil
}

type countAlarm struct {
	plays int
}

func (a *countAlarm) Play() { a.plays++ }

func testDurations() Durations {
	return Durations{
		Focus:      25 * time.Minute,
		ShortBreak: 5 * time.Minute,
		LongBreak:  15 * time.Minute,
	}
}

// runTicks drives n seconds of wall-clock time the way the UI does: each
// tick carries the token current at the moment it was scheduled.
func runTicks(t *Timer, n int) {
	for i := 0; i < n; i++ {
		t.Tick(t.Gen())
	}
}

// ============================================================
// Timer state machine
// ============================================================

func TestTimerInitialState(t *testing.T) {
	tm := NewTimer(testDurations(), &fakeRecorder{}, NopAlarm{})
	if tm.Mode() != ModeFocus {
		t.Fatalf("expected focus mode, got %v", tm.Mode())
	}
	if tm.Status() != StatusIdle {
		t.Fatalf("expected idle, got %v", tm.Status())
	}
	if tm.Remaining() != 25*60 {
		t.Fatalf("expected 1500s remaining, got %d", tm.Remaining())
	}
}

func TestTimerFocusCompletion(t *testing.T) {
	rec := &fakeRecorder{}
	alarm := &countAlarm{}
	tm := NewTimer(testDurations(), rec, alarm)

	if !tm.Start() {
		t.Fatal("start should begin the countdown")
	}
	runTicks(tm, 1500)

	if tm.Status() != StatusCompleted {
		t.Fatalf("expected completed, got %v", tm.Status())
	}
	if tm.Mode() != ModeShortBreak {
		t.Fatalf("expected auto-advance to short break, got %v", tm.Mode())
	}
	if tm.Remaining() != 300 {
		t.Fatalf("expected 300s remaining for short break, got %d", tm.Remaining())
	}
	if len(rec.focus) != 1 || rec.focus[0] != 25 {
		t.Fatalf("expected one 25-minute focus record, got %v", rec.focus)
	}
	if len(rec.breaks) != 0 {
		t.Fatalf("break should not be recorded, got %v", rec.breaks)
	}
	if alarm.plays != 1 {
		t.Fatalf("expected one alarm, got %d", alarm.plays)
	}
}

func TestTimerBreakCompletion(t *testing.T) {
	rec := &fakeRecorder{}
	tm := NewTimer(testDurations(), rec, NopAlarm{})

	tm.SetMode(ModeShortBreak)
	tm.Start()
	runTicks(tm, 300)

	if tm.Mode() != ModeFocus {
		t.Fatalf("short break should advance to focus, got %v", tm.Mode())
	}
	if tm.Remaining() != 1500 {
		t.Fatalf("expected 1500s remaining, got %d", tm.Remaining())
	}
	if len(rec.breaks) != 1 || rec.breaks[0] != 5 {
		t.Fatalf("expected one 5-minute break record, got %v", rec.breaks)
	}
}

func TestTimerLongBreakAdvancesToFocus(t *testing.T) {
	rec := &fakeRecorder{}
	tm := NewTimer(testDurations(), rec, NopAlarm{})

	tm.SetMode(ModeLongBreak)
	if tm.Remaining() != 15*60 {
		t.Fatalf("expected 900s remaining, got %d", tm.Remaining())
	}
	tm.Start()
	runTicks(tm, 900)

	if tm.Mode() != ModeFocus {
		t.Fatalf("long break should advance to focus, got %v", tm.Mode())
	}
	if len(rec.breaks) != 1 || rec.breaks[0] != 15 {
		t.Fatalf("expected one 15-minute break record, got %v", rec.breaks)
	}
}

func TestTimerStartIdempotent(t *testing.T) {
	tm := NewTimer(testDurations(), &fakeRecorder{}, NopAlarm{})

	if !tm.Start() {
		t.Fatal("first start should schedule ticks")
	}
	gen := tm.Gen()
	if tm.Start() {
		t.Fatal("second start should be a no-op")
	}
	if tm.Gen() != gen {
		t.Fatal("no-op start must not invalidate the running tick chain")
	}

	// A single second of wall time is one tick, even after double-start.
	tm.Tick(tm.Gen())
	if tm.Remaining() != 1499 {
		t.Fatalf("expected 1499s, got %d", tm.Remaining())
	}
}

func TestTimerPausePreservesRemaining(t *testing.T) {
	tm := NewTimer(testDurations(), &fakeRecorder{}, NopAlarm{})
	tm.Start()
	runTicks(tm, 10)

	gen := tm.Gen()
	tm.Pause()
	if tm.Status() != StatusPaused {
		t.Fatalf("expected paused, got %v", tm.Status())
	}
	if tm.Remaining() != 1490 {
		t.Fatalf("expected 1490s preserved, got %d", tm.Remaining())
	}

	// A tick scheduled before the pause fires afterwards: must be inert.
	tm.Tick(gen)
	if tm.Remaining() != 1490 {
		t.Fatalf("stale tick decremented a paused timer: %d", tm.Remaining())
	}

	// Resume continues from where it left off.
	tm.Start()
	tm.Tick(tm.Gen())
	if tm.Remaining() != 1489 {
		t.Fatalf("expected 1489s after resume, got %d", tm.Remaining())
	}
}

func TestTimerReset(t *testing.T) {
	tm := NewTimer(testDurations(), &fakeRecorder{}, NopAlarm{})
	tm.Start()
	runTicks(tm, 100)

	gen := tm.Gen()
	tm.Reset()
	if tm.Status() != StatusIdle {
		t.Fatalf("expected idle after reset, got %v", tm.Status())
	}
	if tm.Remaining() != 1500 {
		t.Fatalf("expected full duration after reset, got %d", tm.Remaining())
	}

	tm.Tick(gen)
	if tm.Remaining() != 1500 {
		t.Fatal("stale tick decremented a reset timer")
	}
}

func TestTimerSetModeCancelsWithoutCompleting(t *testing.T) {
	rec := &fakeRecorder{}
	tm := NewTimer(testDurations(), rec, NopAlarm{})
	tm.Start()
	runTicks(tm, 1499) // one second short of completion

	tm.SetMode(ModeLongBreak)
	if tm.Status() != StatusIdle {
		t.Fatalf("expected idle, got %v", tm.Status())
	}
	if len(rec.focus) != 0 {
		t.Fatalf("mode switch must not fire completion, got %v", rec.focus)
	}
	if tm.Remaining() != 900 {
		t.Fatalf("expected 900s, got %d", tm.Remaining())
	}
}

func TestTimerRemainingNeverNegative(t *testing.T) {
	tm := NewTimer(Durations{Focus: 2 * time.Second, ShortBreak: 2 * time.Second, LongBreak: 2 * time.Second}, &fakeRecorder{}, NopAlarm{})
	tm.Start()
	runTicks(tm, 50)

	if tm.Remaining() < 0 {
		t.Fatalf("remaining went negative: %d", tm.Remaining())
	}
	if tm.Remaining() > tm.Armed() {
		t.Fatalf("remaining %d exceeds armed %d", tm.Remaining(), tm.Armed())
	}
}

func TestTimerBoundsUnderArbitrarySequences(t *testing.T) {
	tm := NewTimer(testDurations(), &fakeRecorder{}, NopAlarm{})

	steps := []func(){
		func() { tm.Start() },
		func() { runTicks(tm, 7) },
		func() { tm.Pause() },
		func() { tm.Start() },
		func() { runTicks(tm, 31) },
		func() { tm.Reset() },
		func() { runTicks(tm, 3) },
		func() { tm.Start() },
		func() { tm.SetMode(ModeShortBreak) },
		func() { tm.Start() },
		func() { runTicks(tm, 500) },
	}
	for i, step := range steps {
		step()
		if tm.Remaining() < 0 || tm.Remaining() > tm.Armed() {
			t.Fatalf("step %d: remaining %d out of [0, %d]", i, tm.Remaining(), tm.Armed())
		}
	}
}

func TestTimerSettingsChangeMidRun(t *testing.T) {
	rec := &fakeRecorder{}
	tm := NewTimer(testDurations(), rec, NopAlarm{})
	tm.Start()
	runTicks(tm, 100)

	d := testDurations()
	d.Focus = 50 * time.Minute
	tm.SetDurations(d)

	if tm.Remaining() != 1400 {
		t.Fatalf("mid-run settings change altered remaining: %d", tm.Remaining())
	}

	// The interval completes with the length it was armed with.
	runTicks(tm, 1400)
	if len(rec.focus) != 1 || rec.focus[0] != 25 {
		t.Fatalf("expected the armed 25 minutes recorded, got %v", rec.focus)
	}

	// The next focus run picks up the new length.
	tm.SetMode(ModeFocus)
	if tm.Remaining() != 3000 {
		t.Fatalf("expected 3000s for the new focus length, got %d", tm.Remaining())
	}
}

func TestTimerSettingsChangeWhileIdle(t *testing.T) {
	tm := NewTimer(testDurations(), &fakeRecorder{}, NopAlarm{})

	d := testDurations()
	d.Focus = 30 * time.Minute
	tm.SetDurations(d)

	if tm.Remaining() != 1800 {
		t.Fatalf("idle timer should re-arm with new duration, got %d", tm.Remaining())
	}
}

func TestTimerAlarmDisabled(t *testing.T) {
	alarm := &countAlarm{}
	tm := NewTimer(Durations{Focus: time.Second, ShortBreak: time.Second, LongBreak: time.Second}, &fakeRecorder{}, alarm)
	tm.SetAlarmEnabled(false)
	tm.Start()
	runTicks(tm, 1)

	if alarm.plays != 0 {
		t.Fatalf("alarm fired while disabled: %d", alarm.plays)
	}
}

func TestTimerCompletedThenStartRunsNextMode(t *testing.T) {
	tm := NewTimer(testDurations(), &fakeRecorder{}, NopAlarm{})
	tm.Start()
	runTicks(tm, 1500)

	if !tm.Start() {
		t.Fatal("start after completion should begin the break")
	}
	if tm.Status() != StatusRunning || tm.Mode() != ModeShortBreak {
		t.Fatalf("expected running short break, got %v/%v", tm.Status(), tm.Mode())
	}
	runTicks(tm, 1)
	if tm.Remaining() != 299 {
		t.Fatalf("expected 299s, got %d", tm.Remaining())
	}
}
