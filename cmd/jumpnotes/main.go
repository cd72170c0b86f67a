package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/skydive-tools/jumptrace"
	"github.com/skydive-tools/jumptrace/telemetry"
)

func main() {
	var (
		jsonOut     = flag.Bool("json", false, "Emit full analysis as JSON")
		showQuality = flag.Bool("quality", false, "Include recording quality findings in text output")
		minFreefall = flag.Float64("min-freefall", 0, "Override minimum freefall descent speed in m/s")
	)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] <path-to-recording>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(2)
	}

	path := flag.Arg(0)
	samples, err := loadRecording(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load failed: %v\n", err)
		os.Exit(1)
	}

	quality, err := telemetry.Validate(samples)
	if err != nil {
		fmt.Fprintf(os.Stderr, "validation failed: %v\n", err)
		os.Exit(1)
	}

	cfg := jumptrace.DefaultConfig()
	if *minFreefall > 0 {
		cfg.MinFreefallSpeed = *minFreefall
	}
	analysis, err := jumptrace.Analyze(samples, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "analysis failed: %v\n", err)
		os.Exit(1)
	}

	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(analysis); err != nil {
			fmt.Fprintf(os.Stderr, "json encode failed: %v\n", err)
			os.Exit(1)
		}
		return
	}

	fmt.Println(jumptrace.BuildJumpNotes(analysis))
	if *showQuality && len(quality.Findings) > 0 {
		fmt.Println("Recording quality")
		for _, finding := range quality.Findings {
			fmt.Printf("- %s\n", finding)
		}
	}
}

func loadRecording(path string) ([]jumptrace.Sample, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".fit":
		return telemetry.ParseFITFile(path)
	case ".csv":
		return telemetry.ParseFlySightFile(path)
	default:
		return nil, fmt.Errorf("unsupported recording type %q (expected .csv or .fit)", filepath.Ext(path))
	}
}
