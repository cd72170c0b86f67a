package jumptrace

import (
	"errors"
	"math"
	"reflect"
	"strings"
	"testing"
)

func TestAnalyzeFullJump(t *testing.T) {
	samples := fullJump()
	got, err := Analyze(samples, DefaultConfig())
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	want := []Phase{PhaseAircraft, PhaseExit, PhaseFreefall, PhaseDeployment, PhaseCanopy, PhaseLanding}
	if !samePhases(phaseSequence(got.Segments), want) {
		t.Fatalf("phases = %v, want %v", phaseSequence(got.Segments), want)
	}
	if got.Fallback {
		t.Fatal("full jump must not be a fallback classification")
	}
	if got.Provisional != nil {
		t.Fatalf("unexpected provisional run: %+v", got.Provisional)
	}

	// The segments partition the samples.
	if got.Segments[0].StartIndex != 0 || got.Segments[len(got.Segments)-1].EndIndex != len(samples) {
		t.Fatalf("segments do not cover the recording: %+v", got.Segments)
	}
	for i := 1; i < len(got.Segments); i++ {
		if got.Segments[i].StartIndex != got.Segments[i-1].EndIndex {
			t.Fatalf("gap between segments %d and %d", i-1, i)
		}
	}

	m := got.Metrics
	if m == nil || m.Freefall == nil || m.Canopy == nil || m.Landing == nil {
		t.Fatalf("expected full metrics, got %+v", m)
	}
	if m.Freefall.MaxVerticalSpeedMps != 50 {
		t.Fatalf("max freefall vertical = %v, want 50", m.Freefall.MaxVerticalSpeedMps)
	}
	if math.Abs(m.Landing.FinalApproachSpeedMps-8.0) > 1e-9 {
		t.Fatalf("final approach = %v, want 8.0", m.Landing.FinalApproachSpeedMps)
	}
	if math.Abs(m.Landing.TouchdownVerticalSpeedMps-1.0) > 1e-9 {
		t.Fatalf("touchdown vertical = %v, want 1.0", m.Landing.TouchdownVerticalSpeedMps)
	}
	if m.Canopy.GlideRatio == nil {
		t.Fatal("expected a canopy glide ratio")
	}
}

func TestAnalyzeTruncatedRecording(t *testing.T) {
	// Cut the recording off mid-canopy: landing never happens, so the landing
	// metrics stay nil while the rest of the analysis is intact.
	samples := fullJump()[:120]
	got, err := Analyze(samples, DefaultConfig())
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	want := []Phase{PhaseAircraft, PhaseExit, PhaseFreefall, PhaseDeployment, PhaseCanopy}
	if !samePhases(phaseSequence(got.Segments), want) {
		t.Fatalf("phases = %v, want %v", phaseSequence(got.Segments), want)
	}
	if got.Metrics == nil {
		t.Fatal("expected metrics")
	}
	if got.Metrics.Landing != nil {
		t.Fatalf("landing metrics = %+v, want nil", got.Metrics.Landing)
	}
	if got.Metrics.Freefall == nil || got.Metrics.Canopy == nil {
		t.Fatal("freefall and canopy metrics must survive truncation")
	}
}

func TestAnalyzeDeterministic(t *testing.T) {
	samples := hopAndPop()
	first, err := Analyze(samples, DefaultConfig())
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	second, err := Analyze(samples, DefaultConfig())
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatal("identical input and config must produce identical analyses")
	}
}

func TestAnalyzeDoesNotModifyInput(t *testing.T) {
	samples := fullJump()
	before := make([]Sample, len(samples))
	copy(before, samples)
	if _, err := Analyze(samples, DefaultConfig()); err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if !reflect.DeepEqual(before, samples) {
		t.Fatal("input samples were modified")
	}
}

func TestAnalyzeContractErrors(t *testing.T) {
	if _, err := Analyze(nil, DefaultConfig()); !errors.Is(err, ErrNoSamples) {
		t.Fatalf("empty input: err = %v, want ErrNoSamples", err)
	}
	b := newTrackBuilder(3000)
	b.step(0, 0, 0)
	if _, err := Analyze(b.samples, DefaultConfig()); !errors.Is(err, ErrTooFewSamples) {
		t.Fatalf("single sample: err = %v, want ErrTooFewSamples", err)
	}
}

func TestAnalyzeFallbackCarriesWarning(t *testing.T) {
	b := newTrackBuilder(3000)
	b.add(40, 40, 0, 0) // level flight, nothing ever confirms
	got, err := Analyze(b.samples, DefaultConfig())
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if !got.Fallback {
		t.Fatal("expected fallback classification")
	}
	if len(got.Warnings) == 0 || !strings.Contains(got.Warnings[0], "best-effort") {
		t.Fatalf("warnings = %v, want a best-effort note", got.Warnings)
	}
}

func TestBuildJumpNotes(t *testing.T) {
	analysis, err := Analyze(fullJump(), DefaultConfig())
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	notes := BuildJumpNotes(analysis)
	for _, want := range []string{"Freefall", "Canopy", "Landing", "Glide ratio"} {
		if !strings.Contains(notes, want) {
			t.Fatalf("notes missing %q:\n%s", want, notes)
		}
	}
}
