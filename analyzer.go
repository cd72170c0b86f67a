package jumptrace

import "fmt"

// JumpAnalysis is the complete result for one recording: the segment
// partition, the optional performance metrics, and any soft findings.
type JumpAnalysis struct {
	Config      Config              `json:"config"`
	Segments    []Segment           `json:"segments"`
	Transitions []Transition        `json:"transitions,omitempty"`
	Metrics     *PerformanceMetrics `json:"metrics,omitempty"`
	Fallback    bool                `json:"fallback"`
	Provisional *ProvisionalRun     `json:"provisional,omitempty"`
	Warnings    []string            `json:"warnings,omitempty"`
}

// Analyze runs the full pipeline over one recording: smoothing, phase
// classification, segment assembly, and metrics. The input must be sorted by
// non-decreasing time (the parsing/validation collaborator guarantees this);
// the slice is read but never modified and the returned segments borrow index
// ranges into it.
func Analyze(samples []Sample, cfg Config) (*JumpAnalysis, error) {
	return AnalyzeWithObserver(samples, cfg, nil)
}

// AnalyzeWithObserver is Analyze with classification events forwarded to obs.
//
// Metrics computation and segmentation fail independently: if metrics cannot
// be derived the segments are still returned, with a warning attached.
func AnalyzeWithObserver(samples []Sample, cfg Config, obs *Observer) (*JumpAnalysis, error) {
	smoothed := SmoothVerticalVelocity(samples, cfg)

	classification, err := ClassifyPhases(samples, smoothed, cfg, obs)
	if err != nil {
		return nil, fmt.Errorf("classify phases: %w", err)
	}

	segments, err := BuildSegments(samples, classification.Labels)
	if err != nil {
		return nil, fmt.Errorf("build segments: %w", err)
	}

	analysis := &JumpAnalysis{
		Config:      cfg,
		Segments:    segments,
		Transitions: classification.Transitions,
		Fallback:    classification.Fallback,
		Provisional: classification.Provisional,
	}
	if classification.Fallback {
		analysis.Warnings = append(analysis.Warnings,
			"no phase transition detected; recording labeled as a single best-effort segment")
	}
	if classification.Provisional != nil {
		analysis.Warnings = append(analysis.Warnings, fmt.Sprintf(
			"recording ended during an unconfirmed transition to %s", classification.Provisional.To))
	}

	metrics, err := ComputeMetrics(samples, segments)
	if err != nil {
		analysis.Warnings = append(analysis.Warnings, fmt.Sprintf("metrics unavailable: %v", err))
		return analysis, nil
	}
	analysis.Metrics = metrics
	return analysis, nil
}
