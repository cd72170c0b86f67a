package telemetry

import (
	"errors"
	"fmt"
	"time"

	"github.com/skydive-tools/jumptrace"
)

var (
	// ErrEmptyRecording reports a source with no usable samples.
	ErrEmptyRecording = errors.New("telemetry: recording has no usable samples")
	// ErrTimeRegression reports timestamps that move backwards.
	ErrTimeRegression = errors.New("telemetry: sample timestamps move backwards")
)

// Thresholds for quality findings. These flag suspicious data; they never
// reject it, since phase analysis has its own per-sample accuracy gating.
const (
	minSamplesForAnalysis = 2
	poorFixAccuracyM      = 50.0
	lowSatelliteCount     = 5
	maxSampleGap          = 5 * time.Second
)

// QualityReport summarizes a validation pass over one recording.
type QualityReport struct {
	TotalSamples   int           `json:"total_samples"`
	Duration       time.Duration `json:"-"`
	DurationSec    float64       `json:"duration_sec"`
	PoorAccuracy   int           `json:"poor_accuracy_fixes"`
	LowSatellites  int           `json:"low_satellite_fixes"`
	DuplicateTimes int           `json:"duplicate_timestamps"`
	LargestGap     time.Duration `json:"-"`
	LargestGapSec  float64       `json:"largest_gap_sec"`
	Findings       []string      `json:"findings,omitempty"`
}

// Validate checks a sample series for structural problems and collects
// quality findings. It returns an error only for defects that make phase
// analysis meaningless: too few samples or time running backwards.
func Validate(samples []jumptrace.Sample) (*QualityReport, error) {
	if len(samples) == 0 {
		return nil, ErrEmptyRecording
	}

	report := &QualityReport{TotalSamples: len(samples)}
	if len(samples) < minSamplesForAnalysis {
		return report, fmt.Errorf("%w: got %d, need at least %d",
			ErrEmptyRecording, len(samples), minSamplesForAnalysis)
	}

	for i, s := range samples {
		if s.HAcc > poorFixAccuracyM {
			report.PoorAccuracy++
		}
		if s.NumSV > 0 && s.NumSV < lowSatelliteCount {
			report.LowSatellites++
		}
		if i == 0 {
			continue
		}
		dt := s.Time.Sub(samples[i-1].Time)
		switch {
		case dt < 0:
			return report, fmt.Errorf("%w: sample %d is %s before sample %d",
				ErrTimeRegression, i, -dt, i-1)
		case dt == 0:
			report.DuplicateTimes++
		case dt > report.LargestGap:
			report.LargestGap = dt
		}
	}

	report.Duration = samples[len(samples)-1].Time.Sub(samples[0].Time)
	report.DurationSec = report.Duration.Seconds()
	report.LargestGapSec = report.LargestGap.Seconds()

	if report.PoorAccuracy > 0 {
		report.Findings = append(report.Findings, fmt.Sprintf(
			"%d fixes with horizontal accuracy worse than %.0f m", report.PoorAccuracy, poorFixAccuracyM))
	}
	if report.LowSatellites > 0 {
		report.Findings = append(report.Findings, fmt.Sprintf(
			"%d fixes tracked fewer than %d satellites", report.LowSatellites, lowSatelliteCount))
	}
	if report.DuplicateTimes > 0 {
		report.Findings = append(report.Findings, fmt.Sprintf(
			"%d duplicate timestamps", report.DuplicateTimes))
	}
	if report.LargestGap > maxSampleGap {
		report.Findings = append(report.Findings, fmt.Sprintf(
			"largest gap between fixes is %s", report.LargestGap))
	}
	return report, nil
}
