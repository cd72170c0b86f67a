package jumptrace

import (
	"errors"
	"testing"
)

func TestBuildSegmentsPartitionInvariant(t *testing.T) {
	samples := fullJump()
	c := classify(t, samples, DefaultConfig())

	segments, err := BuildSegments(samples, c.Labels)
	if err != nil {
		t.Fatalf("BuildSegments: %v", err)
	}

	// Concatenating the segment ranges in order must reproduce the input
	// exactly: contiguous, no gap, no overlap.
	next := 0
	for i, seg := range segments {
		if seg.StartIndex != next {
			t.Fatalf("segment %d starts at %d, want %d", i, seg.StartIndex, next)
		}
		if seg.EndIndex <= seg.StartIndex {
			t.Fatalf("segment %d is empty: [%d,%d)", i, seg.StartIndex, seg.EndIndex)
		}
		if got := len(seg.Samples(samples)); got != seg.EndIndex-seg.StartIndex {
			t.Fatalf("segment %d borrows %d samples, want %d", i, got, seg.EndIndex-seg.StartIndex)
		}
		if seg.StartTime != samples[seg.StartIndex].Time || seg.EndTime != samples[seg.EndIndex-1].Time {
			t.Fatalf("segment %d start/end time do not match its samples", i)
		}
		next = seg.EndIndex
	}
	if next != len(samples) {
		t.Fatalf("segments cover %d samples, want %d", next, len(samples))
	}

	for i := 1; i < len(segments); i++ {
		if segments[i].Phase <= segments[i-1].Phase {
			t.Fatalf("segment phases not strictly increasing at %d: %v -> %v",
				i, segments[i-1].Phase, segments[i].Phase)
		}
	}
}

func TestBuildSegmentsMergesEqualRuns(t *testing.T) {
	b := newTrackBuilder(1500)
	b.add(6, 5, 0, 5)

	labels := []Phase{PhaseAircraft, PhaseAircraft, PhaseExit, PhaseExit, PhaseExit, PhaseFreefall}
	segments, err := BuildSegments(b.samples, labels)
	if err != nil {
		t.Fatalf("BuildSegments: %v", err)
	}
	want := []Phase{PhaseAircraft, PhaseExit, PhaseFreefall}
	if got := phaseSequence(segments); !samePhases(got, want) {
		t.Fatalf("segments = %v, want %v", got, want)
	}
	if segments[1].StartIndex != 2 || segments[1].EndIndex != 5 {
		t.Fatalf("exit segment range = [%d,%d), want [2,5)", segments[1].StartIndex, segments[1].EndIndex)
	}
	if segments[1].Duration().Seconds() != 2 {
		t.Fatalf("exit duration = %v, want 2s", segments[1].Duration())
	}
}

func TestBuildSegmentsContractErrors(t *testing.T) {
	if _, err := BuildSegments(nil, nil); !errors.Is(err, ErrNoSamples) {
		t.Fatalf("empty input: err = %v, want ErrNoSamples", err)
	}

	b := newTrackBuilder(1500)
	b.add(3, 0, 0, 0)
	if _, err := BuildSegments(b.samples, []Phase{PhaseAircraft}); !errors.Is(err, ErrLengthMismatch) {
		t.Fatalf("short labels: err = %v, want ErrLengthMismatch", err)
	}
}

func TestFindSegment(t *testing.T) {
	segments := []Segment{
		{Phase: PhaseAircraft},
		{Phase: PhaseFreefall, StartIndex: 10},
	}
	if seg := FindSegment(segments, PhaseFreefall); seg == nil || seg.StartIndex != 10 {
		t.Fatalf("FindSegment(freefall) = %+v", seg)
	}
	if seg := FindSegment(segments, PhaseLanding); seg != nil {
		t.Fatalf("FindSegment(landing) = %+v, want nil", seg)
	}
}
