package pipeline

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/skydive-tools/jumptrace"
	"github.com/skydive-tools/jumptrace/jumpdb"
	"github.com/skydive-tools/jumptrace/telemetry"
)

// Run executes the full analysis pipeline and writes all artifacts.
func Run(ctx context.Context, opts Options) (*Result, error) {
	if strings.TrimSpace(opts.InputPath) == "" {
		return nil, fmt.Errorf("input path is required")
	}
	if strings.TrimSpace(opts.OutDir) == "" {
		return nil, fmt.Errorf("output directory is required")
	}
	format := strings.ToLower(strings.TrimSpace(opts.Format))
	if format == "" {
		format = "parquet"
	}
	if format != "parquet" && format != "csv" {
		return nil, fmt.Errorf("unsupported format %q (expected parquet|csv)", format)
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	data, err := os.ReadFile(opts.InputPath)
	if err != nil {
		return nil, fmt.Errorf("read recording: %w", err)
	}
	sum := sha256.Sum256(data)

	samples, err := parseRecording(opts.InputPath)
	if err != nil {
		return nil, err
	}
	log.Infow("recording loaded", "path", opts.InputPath, "samples", len(samples))

	quality, err := telemetry.Validate(samples)
	if err != nil {
		return nil, fmt.Errorf("validate recording: %w", err)
	}
	for _, finding := range quality.Findings {
		log.Warnw("quality finding", "finding", finding)
	}

	cfg := jumptrace.DefaultConfig()
	if opts.Config != nil {
		cfg = *opts.Config
	}
	analysis, err := jumptrace.Analyze(samples, cfg)
	if err != nil {
		return nil, fmt.Errorf("analyze recording: %w", err)
	}
	log.Infow("recording analyzed",
		"segments", len(analysis.Segments),
		"fallback", analysis.Fallback,
		"warnings", len(analysis.Warnings))

	if err := ensureOutputDir(opts.OutDir, opts.Overwrite); err != nil {
		return nil, err
	}

	samplesPath := filepath.Join(opts.OutDir, "samples."+format)
	switch format {
	case "csv":
		err = writeSamplesCSV(samplesPath, samples)
	case "parquet":
		err = writeSamplesParquet(samplesPath, samples)
	}
	if err != nil {
		return nil, fmt.Errorf("write samples.%s: %w", format, err)
	}

	segmentsPath := filepath.Join(opts.OutDir, "segments.json")
	if err := writeJSON(segmentsPath, segmentsFile{
		Segments:    analysis.Segments,
		Transitions: analysis.Transitions,
		Fallback:    analysis.Fallback,
		Provisional: analysis.Provisional,
		Warnings:    analysis.Warnings,
	}); err != nil {
		return nil, fmt.Errorf("write segments.json: %w", err)
	}

	metricsPath := ""
	if analysis.Metrics != nil {
		metricsPath = filepath.Join(opts.OutDir, "metrics.json")
		if err := writeJSON(metricsPath, analysis.Metrics); err != nil {
			return nil, fmt.Errorf("write metrics.json: %w", err)
		}
	}

	summaryPath := filepath.Join(opts.OutDir, "jump_summary.md")
	if err := os.WriteFile(summaryPath, []byte(jumptrace.BuildJumpNotes(analysis)), 0o644); err != nil {
		return nil, fmt.Errorf("write jump_summary.md: %w", err)
	}

	manifest := Manifest{
		FormatVersion:   BundleFormatVersion,
		BundleID:        uuid.NewString(),
		GeneratedAt:     time.Now().UTC(),
		SourceFile:      opts.InputPath,
		SourceFileName:  filepath.Base(opts.InputPath),
		SourceSHA256:    hex.EncodeToString(sum[:]),
		SourceSizeBytes: int64(len(data)),
		SampleCount:     len(samples),
		SamplesPath:     filepath.Base(samplesPath),
		SegmentsPath:    filepath.Base(segmentsPath),
		SummaryPath:     filepath.Base(summaryPath),
		Quality:         quality,
		Config:          cfg,
	}
	if metricsPath != "" {
		manifest.MetricsPath = filepath.Base(metricsPath)
	}
	manifestPath := filepath.Join(opts.OutDir, "manifest.json")
	if err := writeJSON(manifestPath, manifest); err != nil {
		return nil, fmt.Errorf("write manifest.json: %w", err)
	}

	sourceCopyPath := ""
	if opts.CopySource {
		sourceCopyPath = filepath.Join(opts.OutDir, "source"+filepath.Ext(opts.InputPath))
		if err := os.WriteFile(sourceCopyPath, data, 0o644); err != nil {
			return nil, fmt.Errorf("copy source recording: %w", err)
		}
	}

	jumpID := ""
	if opts.LogbookPath != "" {
		jumpID, err = storeInLogbook(ctx, opts.LogbookPath, opts.InputPath, samples, analysis)
		if err != nil {
			return nil, err
		}
		log.Infow("analysis stored", "logbook", opts.LogbookPath, "jump_id", jumpID)
	}

	return &Result{
		OutputDir:      opts.OutDir,
		ManifestPath:   manifestPath,
		SamplesPath:    samplesPath,
		SegmentsPath:   segmentsPath,
		MetricsPath:    metricsPath,
		SummaryPath:    summaryPath,
		SourceCopyPath: sourceCopyPath,
		JumpID:         jumpID,
		SampleCount:    len(samples),
		Analysis:       analysis,
		Quality:        quality,
	}, nil
}

func parseRecording(path string) ([]jumptrace.Sample, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".fit":
		return telemetry.ParseFITFile(path)
	case ".csv":
		return telemetry.ParseFlySightFile(path)
	default:
		return nil, fmt.Errorf("unsupported recording type %q (expected .csv or .fit)", filepath.Ext(path))
	}
}

func storeInLogbook(ctx context.Context, logbookPath, source string, samples []jumptrace.Sample, analysis *jumptrace.JumpAnalysis) (string, error) {
	db, err := jumpdb.Open(logbookPath)
	if err != nil {
		return "", err
	}
	defer db.Close()

	id, err := db.SaveAnalysis(ctx, filepath.Base(source), len(samples), analysis)
	if err != nil {
		return "", fmt.Errorf("store in logbook: %w", err)
	}
	return id, nil
}

func ensureOutputDir(path string, overwrite bool) error {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return fmt.Errorf("read output directory: %w", err)
	}
	if len(entries) > 0 && !overwrite {
		return fmt.Errorf("output directory is not empty: %s (set overwrite=true to allow)", path)
	}
	return nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
