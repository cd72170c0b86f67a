package jumptrace

import "time"

// Segment is one contiguous run of samples sharing a phase label. It borrows
// the half-open index range [StartIndex, EndIndex) of the caller-owned sample
// slice and must not outlive it; no samples are copied.
type Segment struct {
	Phase         Phase     `json:"phase"`
	StartIndex    int       `json:"start_index"`
	EndIndex      int       `json:"end_index"` // exclusive
	StartTime     time.Time `json:"start_time"`
	EndTime       time.Time `json:"end_time"`
	StartAltitude float64   `json:"start_altitude_m"`
	EndAltitude   float64   `json:"end_altitude_m"`
}

// Duration is the time spanned by the segment's samples.
func (s Segment) Duration() time.Duration {
	return s.EndTime.Sub(s.StartTime)
}

// Samples returns the segment's view into the original sample slice.
func (s Segment) Samples(all []Sample) []Sample {
	return all[s.StartIndex:s.EndIndex]
}

// BuildSegments collapses per-sample labels into the ordered segment list.
// Consecutive equal labels merge into one segment; the result partitions the
// input exactly: segments are contiguous, non-overlapping, and concatenating
// their ranges in order reproduces the sample sequence.
func BuildSegments(samples []Sample, labels []Phase) ([]Segment, error) {
	if len(samples) == 0 {
		return nil, ErrNoSamples
	}
	if len(labels) != len(samples) {
		return nil, ErrLengthMismatch
	}

	var segments []Segment
	start := 0
	for i := 1; i <= len(labels); i++ {
		if i < len(labels) && labels[i] == labels[start] {
			continue
		}
		segments = append(segments, Segment{
			Phase:         labels[start],
			StartIndex:    start,
			EndIndex:      i,
			StartTime:     samples[start].Time,
			EndTime:       samples[i-1].Time,
			StartAltitude: samples[start].AltitudeMSL,
			EndAltitude:   samples[i-1].AltitudeMSL,
		})
		start = i
	}
	return segments, nil
}

// FindSegment returns the first segment with the given phase, or nil.
func FindSegment(segments []Segment, phase Phase) *Segment {
	for i := range segments {
		if segments[i].Phase == phase {
			return &segments[i]
		}
	}
	return nil
}
