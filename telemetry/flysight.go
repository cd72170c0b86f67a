// Package telemetry loads skydiving GPS recordings into sample series:
// FlySight CSV tracks, FIT activity files, and the validation pass that
// runs before analysis.
package telemetry

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/skydive-tools/jumptrace"
)

// FlySight writes ISO 8601 timestamps with centisecond precision.
const flySightTimeLayout = "2006-01-02T15:04:05.00Z"

// flySight column names as they appear in the header row. Lookup is
// case-insensitive because firmware versions disagree on casing.
const (
	colTime  = "time"
	colLat   = "lat"
	colLon   = "lon"
	colHMSL  = "hmsl"
	colVelN  = "veln"
	colVelE  = "vele"
	colVelD  = "veld"
	colHAcc  = "hacc"
	colVAcc  = "vacc"
	colSAcc  = "sacc"
	colNumSV = "numsv"
)

// ParseFlySightFile reads a FlySight track CSV from disk.
func ParseFlySightFile(path string) ([]jumptrace.Sample, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open FlySight file: %w", err)
	}
	defer f.Close()

	samples, err := ParseFlySight(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return samples, nil
}

// ParseFlySight decodes a FlySight CSV track. The first row names the
// columns; FlySight devices emit a second row of units ("(deg)", "(m/s)")
// which is skipped. Rows with unparseable required fields are dropped, not
// fatal: real tracks routinely carry a torn final row from power loss.
func ParseFlySight(r io.Reader) ([]jumptrace.Sample, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read FlySight header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{colTime, colLat, colLon, colHMSL, colVelN, colVelE, colVelD} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("flysight header missing column %q", required)
		}
	}

	var samples []jumptrace.Sample
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read FlySight row: %w", err)
		}
		if isUnitsRow(row) {
			continue
		}

		s, ok := parseFlySightRow(row, cols)
		if !ok {
			continue
		}
		samples = append(samples, s)
	}
	if len(samples) == 0 {
		return nil, fmt.Errorf("flysight track: %w", ErrEmptyRecording)
	}
	return samples, nil
}

func isUnitsRow(row []string) bool {
	for _, field := range row {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		return strings.HasPrefix(field, "(")
	}
	return true
}

func parseFlySightRow(row []string, cols map[string]int) (jumptrace.Sample, bool) {
	var s jumptrace.Sample

	ts, ok := fieldAt(row, cols, colTime)
	if !ok {
		return s, false
	}
	t, err := time.Parse(flySightTimeLayout, ts)
	if err != nil {
		t, err = time.Parse(time.RFC3339, ts)
		if err != nil {
			return s, false
		}
	}
	s.Time = t.UTC()

	required := []struct {
		col string
		dst *float64
	}{
		{colLat, &s.Lat},
		{colLon, &s.Lon},
		{colHMSL, &s.AltitudeMSL},
		{colVelN, &s.VelN},
		{colVelE, &s.VelE},
		{colVelD, &s.VelD},
	}
	for _, f := range required {
		raw, ok := fieldAt(row, cols, f.col)
		if !ok {
			return s, false
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return s, false
		}
		*f.dst = v
	}

	// Accuracy and satellite columns are optional; missing or malformed
	// values leave the zero value, which validation treats as unknown.
	s.HAcc = optionalFloat(row, cols, colHAcc)
	s.VAcc = optionalFloat(row, cols, colVAcc)
	s.SAcc = optionalFloat(row, cols, colSAcc)
	if raw, ok := fieldAt(row, cols, colNumSV); ok {
		if n, err := strconv.Atoi(raw); err == nil && n >= 0 {
			s.NumSV = n
		}
	}
	return s, true
}

func optionalFloat(row []string, cols map[string]int, col string) float64 {
	raw, ok := fieldAt(row, cols, col)
	if !ok {
		return 0
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0
	}
	return v
}

func fieldAt(row []string, cols map[string]int, col string) (string, bool) {
	idx, ok := cols[col]
	if !ok || idx >= len(row) {
		return "", false
	}
	v := strings.TrimSpace(row[idx])
	if v == "" {
		return "", false
	}
	return v, true
}
