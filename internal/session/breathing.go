package session

type BreathPhase int

const (
	PhaseBreatheIn BreathPhase = iota
	PhaseHoldIn
	PhaseBreatheOut
	PhaseHoldOut
)

var phaseLabels = map[BreathPhase]string{
	PhaseBreatheIn:  "Breathe in",
	PhaseHoldIn:     "Hold",
	PhaseBreatheOut: "Breathe out",
	PhaseHoldOut:    "Hold",
}

func (p BreathPhase) String() string { return phaseLabels[p] }

// BreathCycle is the fixed-order breathing pattern: inhale, hold, exhale,
// hold. Durations are in seconds; hold phases may be zero.
type BreathCycle struct {
	In      int
	HoldIn  int
	Out     int
	HoldOut int
}

func (c BreathCycle) Total() int {
	return c.In + c.HoldIn + c.Out + c.HoldOut
}

// PhaseAt maps elapsed time (seconds, fractional allowed) to the current
// phase and the linear progress within it, in [0, 1). It is a pure function
// of elapsed mod cycle length: zero-length phases are never returned.
func (c BreathCycle) PhaseAt(elapsed float64) (BreathPhase, float64) {
	total := c.Total()
	if total <= 0 {
		return PhaseBreatheIn, 0
	}

	t := elapsed
	for t >= float64(total) {
		t -= float64(total)
	}
	if t < 0 {
		t = 0
	}

	phases := []struct {
		phase BreathPhase
		secs  int
	}{
		{PhaseBreatheIn, c.In},
		{PhaseHoldIn, c.HoldIn},
		{PhaseBreatheOut, c.Out},
		{PhaseHoldOut, c.HoldOut},
	}
	last := PhaseBreatheIn
	for _, p := range phases {
		if p.secs == 0 {
			continue
		}
		last = p.phase
		if t < float64(p.secs) {
			return p.phase, t / float64(p.secs)
		}
		t -= float64(p.secs)
	}
	// Floating point residue lands in the last non-empty phase.
	return last, 1
}
