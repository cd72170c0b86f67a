package jumptrace

import (
	"math"
	"time"

	"gonum.org/v1/gonum/stat"
)

const earthRadiusM = 6371000.0

// finalApproachWindow is the trailing slice of canopy flight used for the
// landing approach speed.
const finalApproachWindow = 10 * time.Second

// PerformanceMetrics aggregates per-phase statistics. A phase absent from the
// segment list leaves its sub-record nil; values are never fabricated.
type PerformanceMetrics struct {
	Freefall *FreefallMetrics `json:"freefall,omitempty"`
	Canopy   *CanopyMetrics   `json:"canopy,omitempty"`
	Landing  *LandingMetrics  `json:"landing,omitempty"`
}

// FreefallMetrics summarizes the freefall segment.
type FreefallMetrics struct {
	AvgVerticalSpeedMps   float64 `json:"avg_vertical_speed_mps"`
	MaxVerticalSpeedMps   float64 `json:"max_vertical_speed_mps"`
	AvgHorizontalSpeedMps float64 `json:"avg_horizontal_speed_mps"`
	TimeSec               float64 `json:"time_sec"`
	// TrackAngleDeg is the circular mean of the per-sample ground track,
	// degrees clockwise from north in [0, 360).
	TrackAngleDeg float64 `json:"track_angle_deg"`
}

// CanopyMetrics summarizes canopy flight.
type CanopyMetrics struct {
	DeploymentAltitudeM   float64  `json:"deployment_altitude_m"`
	AvgDescentRateMps     float64  `json:"avg_descent_rate_mps"`
	GlideRatio            *float64 `json:"glide_ratio,omitempty"` // nil when no altitude was lost
	MaxHorizontalSpeedMps float64  `json:"max_horizontal_speed_mps"`
	TotalTimeSec          float64  `json:"total_time_sec"`
	// PatternAltitudeM stays nil unless a landing-pattern detector supplies
	// it; none ships with this analyzer.
	PatternAltitudeM *float64 `json:"pattern_altitude_m,omitempty"`
}

// LandingMetrics summarizes the landing.
type LandingMetrics struct {
	FinalApproachSpeedMps     float64 `json:"final_approach_speed_mps"`
	TouchdownVerticalSpeedMps float64 `json:"touchdown_vertical_speed_mps"`
	// AccuracyM needs an external target coordinate and stays nil here.
	AccuracyM *float64 `json:"accuracy_m,omitempty"`
}

// ComputeMetrics derives per-phase statistics from a finished segment list.
// It is independent of classification: a failure here still leaves the
// caller with valid segments.
func ComputeMetrics(samples []Sample, segments []Segment) (*PerformanceMetrics, error) {
	if len(samples) == 0 {
		return nil, ErrNoSamples
	}
	if len(segments) == 0 {
		return nil, ErrNoSegments
	}

	m := &PerformanceMetrics{}
	if seg := FindSegment(segments, PhaseFreefall); seg != nil {
		m.Freefall = freefallMetrics(seg.Samples(samples), *seg)
	}
	if seg := FindSegment(segments, PhaseCanopy); seg != nil {
		m.Canopy = canopyMetrics(samples, segments, *seg)
	}
	if seg := FindSegment(segments, PhaseLanding); seg != nil {
		m.Landing = landingMetrics(samples, segments, *seg)
	}
	return m, nil
}

func freefallMetrics(ss []Sample, seg Segment) *FreefallMetrics {
	vertical := make([]float64, len(ss))
	horizontal := make([]float64, len(ss))
	tracks := make([]float64, len(ss))
	maxVertical := 0.0
	for i, s := range ss {
		vertical[i] = s.VerticalSpeed()
		horizontal[i] = s.HorizontalSpeed()
		tracks[i] = s.GroundTrack()
		if vertical[i] > maxVertical {
			maxVertical = vertical[i]
		}
	}
	return &FreefallMetrics{
		AvgVerticalSpeedMps:   stat.Mean(vertical, nil),
		MaxVerticalSpeedMps:   maxVertical,
		AvgHorizontalSpeedMps: stat.Mean(horizontal, nil),
		TimeSec:               seg.Duration().Seconds(),
		TrackAngleDeg:         trackAngleDegrees(tracks),
	}
}

func canopyMetrics(samples []Sample, segments []Segment, seg Segment) *CanopyMetrics {
	ss := seg.Samples(samples)
	vertical := make([]float64, len(ss))
	maxHorizontal := 0.0
	for i, s := range ss {
		vertical[i] = s.VerticalSpeed()
		if h := s.HorizontalSpeed(); h > maxHorizontal {
			maxHorizontal = h
		}
	}

	deployAlt := seg.StartAltitude
	if dep := FindSegment(segments, PhaseDeployment); dep != nil {
		deployAlt = dep.StartAltitude
	}

	cm := &CanopyMetrics{
		DeploymentAltitudeM:   deployAlt,
		AvgDescentRateMps:     stat.Mean(vertical, nil),
		MaxHorizontalSpeedMps: maxHorizontal,
		TotalTimeSec:          seg.Duration().Seconds(),
	}

	if lost := seg.StartAltitude - seg.EndAltitude; lost > 0 {
		distance := 0.0
		for i := 1; i < len(ss); i++ {
			distance += haversine(ss[i-1], ss[i])
		}
		ratio := distance / lost
		cm.GlideRatio = &ratio
	}
	return cm
}

func landingMetrics(samples []Sample, segments []Segment, seg Segment) *LandingMetrics {
	lm := &LandingMetrics{}

	// Touchdown speed: the last sample before the descent rate first met the
	// landing threshold, which is the sample just ahead of the backdated
	// landing boundary.
	touchdownIdx := seg.StartIndex - 1
	if touchdownIdx < 0 {
		touchdownIdx = seg.StartIndex
	}
	lm.TouchdownVerticalSpeedMps = samples[touchdownIdx].VerticalSpeed()

	if canopy := FindSegment(segments, PhaseCanopy); canopy != nil {
		cutoff := canopy.EndTime.Add(-finalApproachWindow)
		var speeds []float64
		for _, s := range canopy.Samples(samples) {
			if !s.Time.Before(cutoff) {
				speeds = append(speeds, s.HorizontalSpeed())
			}
		}
		if len(speeds) > 0 {
			lm.FinalApproachSpeedMps = stat.Mean(speeds, nil)
		}
	} else {
		lm.FinalApproachSpeedMps = samples[touchdownIdx].HorizontalSpeed()
	}
	return lm
}

// trackAngleDegrees is the circular mean of headings, mapped to compass
// degrees. The mean of unit vectors handles wraparound at +-pi correctly.
func trackAngleDegrees(tracks []float64) float64 {
	if len(tracks) == 0 {
		return 0
	}
	deg := stat.CircularMean(tracks, nil) * 180.0 / math.Pi
	if deg < 0 {
		deg += 360.0
	}
	return deg
}

// haversine is the great-circle ground distance between two fixes in meters.
func haversine(a, b Sample) float64 {
	lat1 := a.Lat * math.Pi / 180.0
	lat2 := b.Lat * math.Pi / 180.0
	dLat := lat2 - lat1
	dLon := (b.Lon - a.Lon) * math.Pi / 180.0

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusM * math.Asin(math.Sqrt(h))
}
