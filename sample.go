// Package jumptrace segments a single skydive GPS recording into temporal
// phases and derives per-phase performance metrics.
package jumptrace

import (
	"math"
	"time"
)

// Sample is one validated GPS telemetry fix. The velocity components follow
// the NED convention: VelD is positive toward the ground.
type Sample struct {
	Time        time.Time `json:"time"`
	Lat         float64   `json:"lat"`
	Lon         float64   `json:"lon"`
	AltitudeMSL float64   `json:"alt_msl_m"`
	VelN        float64   `json:"vel_n_mps"`
	VelE        float64   `json:"vel_e_mps"`
	VelD        float64   `json:"vel_d_mps"`
	HAcc        float64   `json:"h_acc_m"`
	VAcc        float64   `json:"v_acc_m"`
	SAcc        float64   `json:"s_acc_mps"`
	NumSV       int       `json:"num_sv"`
}

// HorizontalSpeed is the ground speed in m/s.
func (s Sample) HorizontalSpeed() float64 {
	return math.Hypot(s.VelN, s.VelE)
}

// VerticalSpeed is the magnitude of the vertical velocity in m/s.
func (s Sample) VerticalSpeed() float64 {
	return math.Abs(s.VelD)
}

// GroundTrack is the heading over ground in radians, 0 = north, clockwise
// positive, in (-pi, pi].
func (s Sample) GroundTrack() float64 {
	return math.Atan2(s.VelE, s.VelN)
}

// Phase labels one jump phase. The values are ordered by jump chronology;
// a valid segment list never moves backward through this order.
type Phase int

const (
	PhaseAircraft Phase = iota
	PhaseExit
	PhaseFreefall
	PhaseDeployment
	PhaseCanopy
	PhaseLanding
)

var phaseNames = [...]string{
	PhaseAircraft:   "aircraft",
	PhaseExit:       "exit",
	PhaseFreefall:   "freefall",
	PhaseDeployment: "deployment",
	PhaseCanopy:     "canopy",
	PhaseLanding:    "landing",
}

func (p Phase) String() string {
	if p < PhaseAircraft || int(p) >= len(phaseNames) {
		return "unknown"
	}
	return phaseNames[p]
}

// MarshalText renders the phase as its lowercase name for JSON output.
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText parses a lowercase phase name.
func (p *Phase) UnmarshalText(text []byte) error {
	for i, name := range phaseNames {
		if name == string(text) {
			*p = Phase(i)
			return nil
		}
	}
	return errUnknownPhase(string(text))
}
