package session

import "time"

// MeditationRecorder receives completed meditation sessions.
type MeditationRecorder interface {
	MeditationCompleted(minutes int) error
}

// Meditation is an independent countdown with no mode switching: it is
// either running or not. While running it drives a cyclic breathing guide;
// on reaching zero it records the full configured duration.
type Meditation struct {
	duration time.Duration
	cycle    BreathCycle
	recorder MeditationRecorder
	alarm    Alarm
	alarmOn  bool

	running   bool
	remaining int // seconds
	elapsed   int // seconds since start, drives the breathing cycle
	gen       uint64
}

func NewMeditation(duration time.Duration, cycle BreathCycle, rec MeditationRecorder, alarm Alarm) *Meditation {
	return &Meditation{
		duration:  duration,
		cycle:     cycle,
		recorder:  rec,
		alarm:     alarm,
		alarmOn:   true,
		remaining: int(duration.Seconds()),
	}
}

func (m *Meditation) Running() bool      { return m.running }
func (m *Meditation) Remaining() int     { return m.remaining }
func (m *Meditation) Elapsed() int       { return m.elapsed }
func (m *Meditation) Cycle() BreathCycle { return m.cycle }
func (m *Meditation) Gen() uint64        { return m.gen }

// Phase reports the current breathing phase and linear progress within it.
func (m *Meditation) Phase() (BreathPhase, float64) {
	return m.cycle.PhaseAt(float64(m.elapsed))
}

// Start begins or resumes the countdown, reporting whether a tick chain
// should be scheduled.
func (m *Meditation) Start() bool {
	if m.running || m.remaining <= 0 {
		return false
	}
	m.running = true
	m.gen++
	return true
}

// Stop pauses the countdown without recording anything.
func (m *Meditation) Stop() {
	if !m.running {
		return
	}
	m.running = false
	m.gen++
}

// Reset stops the countdown and restores the full duration.
func (m *Meditation) Reset() {
	m.running = false
	m.remaining = int(m.duration.Seconds())
	m.elapsed = 0
	m.gen++
}

// Configure installs a new duration and breathing cycle, resetting the
// session.
func (m *Meditation) Configure(duration time.Duration, cycle BreathCycle) {
	m.duration = duration
	m.cycle = cycle
	m.Reset()
}

func (m *Meditation) SetAlarmEnabled(on bool) { m.alarmOn = on }

// Tick advances the countdown by one second. Stale tokens and stopped
// sessions are no-ops. On reaching zero the session stops, the alarm fires,
// and the full configured duration is recorded as meditation minutes; Tick
// reports whether that happened.
func (m *Meditation) Tick(gen uint64) bool {
	if !m.running || gen != m.gen {
		return false
	}
	if m.remaining > 0 {
		m.remaining--
		m.elapsed++
	}
	if m.remaining > 0 {
		return false
	}

	m.running = false
	m.gen++
	if m.recorder != nil {
		_ = m.recorder.MeditationCompleted(int(m.duration.Minutes()))
	}
	if m.alarmOn && m.alarm != nil {
		m.alarm.Play()
	}
	return true
}
