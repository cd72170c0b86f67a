package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/skydive-tools/jumptrace"
	"github.com/skydive-tools/jumptrace/jumpdb"
	"github.com/skydive-tools/jumptrace/pipeline"
)

func main() {
	var (
		inputPath   = flag.String("in", "", "Path to input recording (.csv FlySight track or .fit file)")
		outDir      = flag.String("out", "", "Output directory")
		format      = flag.String("format", "parquet", "Canonical sample format: parquet|csv")
		overwrite   = flag.Bool("overwrite", true, "Allow writing into non-empty output directories")
		logbook     = flag.String("logbook", "", "SQLite logbook path; when set the analysis is stored")
		list        = flag.Bool("list", false, "List recent logbook entries instead of analyzing (requires --logbook)")
		minFreefall = flag.Float64("min-freefall", 0, "Override minimum freefall descent speed in m/s")
		window      = flag.Int("smoothing-window", 0, "Override smoothing window size in samples")
		confirm     = flag.Int("confirm", 0, "Override confirmation sample count")
		verbose     = flag.Bool("v", false, "Verbose logging")
	)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s --in track.csv --out outdir [--format parquet|csv] [--logbook jumps.db]\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.Parse()

	logger, err := zap.NewProduction()
	if *verbose {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger init failed: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	log := logger.Sugar()

	if *list {
		if strings.TrimSpace(*logbook) == "" {
			flag.Usage()
			os.Exit(2)
		}
		if err := listJumps(*logbook); err != nil {
			fmt.Fprintf(os.Stderr, "jump_analyze failed: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if strings.TrimSpace(*inputPath) == "" || strings.TrimSpace(*outDir) == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg := jumptrace.DefaultConfig()
	if *minFreefall > 0 {
		cfg.MinFreefallSpeed = *minFreefall
	}
	if *window > 0 {
		cfg.SmoothingWindow = *window
	}
	if *confirm > 0 {
		cfg.ConfirmationSamples = *confirm
	}

	result, err := pipeline.Run(context.Background(), pipeline.Options{
		InputPath:   *inputPath,
		OutDir:      *outDir,
		Format:      *format,
		Overwrite:   *overwrite,
		CopySource:  true,
		LogbookPath: *logbook,
		Config:      &cfg,
		Logger:      log,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "jump_analyze failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("jump_analyze complete\n")
	fmt.Printf("Output dir:     %s\n", result.OutputDir)
	fmt.Printf("manifest.json:  %s\n", result.ManifestPath)
	fmt.Printf("samples:        %s\n", result.SamplesPath)
	fmt.Printf("segments.json:  %s\n", result.SegmentsPath)
	if result.MetricsPath != "" {
		fmt.Printf("metrics.json:   %s\n", result.MetricsPath)
	}
	fmt.Printf("summary:        %s\n", result.SummaryPath)
	if result.SourceCopyPath != "" {
		fmt.Printf("source copy:    %s\n", result.SourceCopyPath)
	}
	if result.JumpID != "" {
		fmt.Printf("logbook entry:  %s\n", result.JumpID)
	}
	for _, w := range result.Analysis.Warnings {
		fmt.Printf("warning:        %s\n", w)
	}
}

func listJumps(path string) error {
	db, err := jumpdb.Open(path)
	if err != nil {
		return err
	}
	defer db.Close()

	jumps, err := db.Jumps(context.Background(), 50)
	if err != nil {
		return err
	}
	if len(jumps) == 0 {
		fmt.Println("logbook is empty")
		return nil
	}
	for _, j := range jumps {
		line := fmt.Sprintf("%s | %s | %s | %d samples",
			j.ID, j.RecordedAt.Format("2006-01-02 15:04"), j.Source, j.SampleCount)
		if j.Fallback {
			line += " | fallback"
		}
		fmt.Println(line)
	}
	return nil
}
