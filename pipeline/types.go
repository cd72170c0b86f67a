// Package pipeline turns one GPS recording into an on-disk analysis bundle:
// canonical samples, the segment partition, performance metrics, a manifest,
// and a human-readable summary.
package pipeline

import (
	"time"

	"go.uber.org/zap"

	"github.com/skydive-tools/jumptrace"
	"github.com/skydive-tools/jumptrace/telemetry"
)

// BundleFormatVersion identifies the artifact layout for downstream readers.
const BundleFormatVersion = 1

// Options configures one pipeline run.
type Options struct {
	// InputPath points at a FlySight CSV track or an activity FIT file;
	// the extension decides the parser.
	InputPath string
	// OutDir receives all artifacts. Created if missing.
	OutDir string
	// Format selects the canonical sample encoding: "parquet" (default)
	// or "csv".
	Format string
	// Overwrite permits writing into a non-empty OutDir.
	Overwrite bool
	// CopySource copies the input recording into the bundle.
	CopySource bool
	// LogbookPath, when set, also stores the analysis in a SQLite logbook.
	LogbookPath string
	// Config overrides the phase detection thresholds; zero value means
	// jumptrace.DefaultConfig.
	Config *jumptrace.Config
	// Logger receives progress output. Nil disables logging.
	Logger *zap.SugaredLogger
}

// Result lists everything one run produced.
type Result struct {
	OutputDir      string                   `json:"output_dir"`
	ManifestPath   string                   `json:"manifest_path"`
	SamplesPath    string                   `json:"samples_path"`
	SegmentsPath   string                   `json:"segments_path"`
	MetricsPath    string                   `json:"metrics_path,omitempty"`
	SummaryPath    string                   `json:"summary_path"`
	SourceCopyPath string                   `json:"source_copy_path,omitempty"`
	JumpID         string                   `json:"jump_id,omitempty"`
	SampleCount    int                      `json:"sample_count"`
	Analysis       *jumptrace.JumpAnalysis  `json:"-"`
	Quality        *telemetry.QualityReport `json:"-"`
}

// Manifest is the bundle index written as manifest.json.
type Manifest struct {
	FormatVersion   int                      `json:"format_version"`
	BundleID        string                   `json:"bundle_id"`
	GeneratedAt     time.Time                `json:"generated_at"`
	SourceFile      string                   `json:"source_file"`
	SourceFileName  string                   `json:"source_file_name"`
	SourceSHA256    string                   `json:"source_sha256"`
	SourceSizeBytes int64                    `json:"source_size_bytes"`
	SampleCount     int                      `json:"sample_count"`
	SamplesPath     string                   `json:"samples_path"`
	SegmentsPath    string                   `json:"segments_path"`
	MetricsPath     string                   `json:"metrics_path,omitempty"`
	SummaryPath     string                   `json:"summary_path"`
	Quality         *telemetry.QualityReport `json:"quality,omitempty"`
	Config          jumptrace.Config         `json:"config"`
}

// segmentsFile is the shape of segments.json.
type segmentsFile struct {
	Segments    []jumptrace.Segment       `json:"segments"`
	Transitions []jumptrace.Transition    `json:"transitions,omitempty"`
	Fallback    bool                      `json:"fallback"`
	Provisional *jumptrace.ProvisionalRun `json:"provisional,omitempty"`
	Warnings    []string                  `json:"warnings,omitempty"`
}
