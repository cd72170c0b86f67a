package jumptrace

import (
	"gonum.org/v1/gonum/stat"
)

// derivSamples is the trailing span, in samples, over which the local
// derivative of the smoothed descent speed is taken for deployment detection.
const derivSamples = 3

// Transition records one confirmed phase boundary.
type Transition struct {
	From      Phase `json:"from"`
	To        Phase `json:"to"`
	Boundary  int   `json:"boundary"`  // backdated first sample of the new phase
	Confirmed int   `json:"confirmed"` // sample at which the run completed
}

// ProvisionalRun reports a confirmation run that was still in progress when
// the recording ended. It is informational; no transition is emitted for it.
type ProvisionalRun struct {
	To    Phase `json:"to"`
	Start int   `json:"start"`
}

// Classification is the output of the phase state machine: one label per
// input sample plus the confirmed boundaries.
type Classification struct {
	Labels      []Phase         `json:"labels"`
	Transitions []Transition    `json:"transitions"`
	Fallback    bool            `json:"fallback"`
	Provisional *ProvisionalRun `json:"provisional,omitempty"`
}

// ClassifyPhases runs the forward-only state machine over the recording.
// smoothed must be the output of SmoothVerticalVelocity for the same samples.
//
// Transitions are confirmed only after the candidate condition holds for
// cfg.ConfirmationSamples consecutive samples, and the boundary is backdated
// to the first sample of that run (clamped to the sequence start). Once a
// sample is classified at a phase, no later sample is ever classified
// earlier; landing, once entered, persists to the end of the recording.
//
// If no transition is ever confirmed the whole recording becomes a single
// best-effort phase and Fallback is set; data quality is never an error.
func ClassifyPhases(samples []Sample, smoothed []float64, cfg Config, obs *Observer) (*Classification, error) {
	switch {
	case len(samples) == 0:
		return nil, ErrNoSamples
	case len(samples) < 2:
		return nil, ErrTooFewSamples
	case len(smoothed) != len(samples):
		return nil, ErrLengthMismatch
	}
	if cfg.ConfirmationSamples < 1 {
		cfg.ConfirmationSamples = 1
	}

	c := &classifier{
		samples:  samples,
		smoothed: smoothed,
		cfg:      cfg,
		phase:    PhaseAircraft,
		peakAlt:  samples[0].AltitudeMSL,
		runStart: -1,
	}

	labels := make([]Phase, len(samples))
	var transitions []Transition

	for i := range samples {
		if alt := samples[i].AltitudeMSL; alt > c.peakAlt {
			c.peakAlt = alt
		}
		labels[i] = c.phase
		if c.phase == PhaseLanding {
			continue
		}

		if !c.candidate(i) {
			c.runStart = -1
			continue
		}
		if c.runStart < 0 {
			c.runStart = i
		}
		if i-c.runStart+1 < cfg.ConfirmationSamples {
			continue
		}

		boundary := i - cfg.ConfirmationSamples + 1
		if boundary < 0 {
			boundary = 0
		}
		next := c.phase + 1
		for j := boundary; j <= i; j++ {
			labels[j] = next
		}
		transitions = append(transitions, Transition{
			From:      c.phase,
			To:        next,
			Boundary:  boundary,
			Confirmed: i,
		})
		obs.transition(c.phase, next, boundary, i)
		c.phase = next
		c.runStart = -1
	}

	out := &Classification{
		Labels:      labels,
		Transitions: transitions,
	}

	if c.runStart >= 0 && c.phase != PhaseLanding {
		out.Provisional = &ProvisionalRun{To: c.phase + 1, Start: c.runStart}
		obs.provisional(c.phase+1, c.runStart)
	}

	if len(transitions) == 0 {
		best := bestEffortPhase(smoothed, cfg)
		for i := range labels {
			labels[i] = best
		}
		out.Fallback = true
		obs.fallback(best)
	}

	return out, nil
}

type classifier struct {
	samples  []Sample
	smoothed []float64
	cfg      Config
	phase    Phase
	peakAlt  float64
	runStart int
}

// candidate reports whether sample i satisfies the condition for leaving the
// current phase. Only the immediately following phase is ever a candidate.
func (c *classifier) candidate(i int) bool {
	s := c.samples[i]
	sm := c.smoothed[i]
	switch c.phase {
	case PhaseAircraft:
		// Exit: well below the running peak and the smoothed descent speed
		// is picking up from climb/level values.
		if s.AltitudeMSL >= c.peakAlt-c.cfg.ExitAltitudeWindow {
			return false
		}
		if i == 0 {
			return false
		}
		return sm > c.cfg.AircraftClimbRate && sm > c.smoothed[i-1]
	case PhaseExit:
		return sm > c.cfg.MinFreefallSpeed
	case PhaseFreefall:
		// Sustained slowing, independent of the absolute speed reached, so
		// shallow hop-and-pop decelerations register too.
		return c.descentAccel(i) < -c.cfg.DeploymentDeceleration
	case PhaseDeployment:
		return sm >= c.cfg.MinCanopyDescentRate && sm <= c.cfg.MaxCanopyDescentRate
	case PhaseCanopy:
		return sm < c.cfg.LandingDescentSpeed && s.HorizontalSpeed() < c.cfg.LandingHorizontalSpeed
	}
	return false
}

// descentAccel is the local derivative of the smoothed descent speed over a
// short trailing window, in m/s^2. Negative values mean slowing.
func (c *classifier) descentAccel(i int) float64 {
	j := i - derivSamples
	if j < 0 {
		j = 0
	}
	if j == i {
		return 0
	}
	dt := c.samples[i].Time.Sub(c.samples[j].Time).Seconds()
	if dt <= 0 {
		return 0
	}
	return (c.smoothed[i] - c.smoothed[j]) / dt
}

// bestEffortPhase picks the single label used when no transition was ever
// confirmed, from the overall smoothed descent speed.
func bestEffortPhase(smoothed []float64, cfg Config) Phase {
	mean := stat.Mean(smoothed, nil)
	switch {
	case mean >= cfg.MinFreefallSpeed:
		return PhaseFreefall
	case mean >= cfg.MinCanopyDescentRate && mean <= cfg.MaxCanopyDescentRate:
		return PhaseCanopy
	default:
		return PhaseAircraft
	}
}
