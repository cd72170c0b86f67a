package jumptrace

// Config is the complete, immutable parameter bundle for one analysis run.
// Every threshold is independently overridable; DefaultConfig lists every
// default the pipeline uses.
type Config struct {
	// MinFreefallSpeed is the smoothed descent speed in m/s that confirms
	// freefall after exit.
	MinFreefallSpeed float64 `json:"min_freefall_speed_mps"`

	// DeploymentDeceleration is the sustained slowing rate in m/s^2 that
	// marks parachute deployment. It is compared against the derivative of
	// the smoothed descent speed, so shallow hop-and-pop profiles that never
	// reach full freefall speed still register.
	DeploymentDeceleration float64 `json:"deployment_deceleration_mps2"`

	// MinCanopyDescentRate and MaxCanopyDescentRate bound the smoothed
	// descent speed of stable canopy flight, in m/s.
	MinCanopyDescentRate float64 `json:"min_canopy_descent_rate_mps"`
	MaxCanopyDescentRate float64 `json:"max_canopy_descent_rate_mps"`

	// LandingDescentSpeed and LandingHorizontalSpeed must both be satisfied
	// simultaneously (smoothed vertical, raw horizontal) to enter landing.
	LandingDescentSpeed    float64 `json:"landing_descent_speed_mps"`
	LandingHorizontalSpeed float64 `json:"landing_horizontal_speed_mps"`

	// MaxHorizontalAccuracy excludes fixes with a worse horizontal accuracy
	// estimate (meters) from smoothing windows. The fixes stay in the
	// recording and in segments.
	MaxHorizontalAccuracy float64 `json:"max_horizontal_accuracy_m"`

	// SmoothingWindow is the moving-average width, in samples.
	SmoothingWindow int `json:"smoothing_window"`

	// ConfirmationSamples is the number of consecutive samples a transition
	// condition must hold before it is accepted.
	ConfirmationSamples int `json:"confirmation_samples"`

	// AircraftClimbRate is the descent rate in m/s below which the aircraft
	// is considered still climbing (negative = ascending).
	AircraftClimbRate float64 `json:"aircraft_climb_rate_mps"`

	// ExitAltitudeWindow is how far in meters the altitude must drop below
	// the recording's running peak before an exit candidate is considered.
	ExitAltitudeWindow float64 `json:"exit_altitude_window_m"`
}

// DefaultConfig returns the thresholds tuned for typical sport skydives.
func DefaultConfig() Config {
	return Config{
		MinFreefallSpeed:       10.0,
		DeploymentDeceleration: 1.0,
		MinCanopyDescentRate:   2.0,
		MaxCanopyDescentRate:   15.0,
		LandingDescentSpeed:    1.0,
		LandingHorizontalSpeed: 2.0,
		MaxHorizontalAccuracy:  50.0,
		SmoothingWindow:        5,
		ConfirmationSamples:    3,
		AircraftClimbRate:      -2.0,
		ExitAltitudeWindow:     50.0,
	}
}
