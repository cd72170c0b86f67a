package telemetry

import (
	"fmt"
	"math"
	"os"
	"time"

	"github.com/tormoder/fit"

	"github.com/skydive-tools/jumptrace"
)

const earthRadiusM = 6371000.0

// ParseFITFile decodes an activity FIT file into samples. FIT records carry
// position and altitude but no velocity vector, so velN/velE/velD are derived
// from consecutive fixes.
func ParseFITFile(path string) ([]jumptrace.Sample, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open FIT file: %w", err)
	}
	defer f.Close()

	decoded, err := fit.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode FIT file: %w", err)
	}
	activity, err := decoded.Activity()
	if err != nil {
		return nil, fmt.Errorf("activity FIT expected: %w", err)
	}

	points := make([]fitPoint, 0, len(activity.Records))
	for _, rec := range activity.Records {
		if rec == nil {
			continue
		}
		p, ok := pointFromRecord(rec)
		if !ok {
			continue
		}
		points = append(points, p)
	}

	samples := samplesFromPoints(points)
	if len(samples) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrEmptyRecording)
	}
	return samples, nil
}

// fitPoint is one usable fix pulled out of a FIT record message.
type fitPoint struct {
	ts    time.Time
	lat   float64
	lon   float64
	alt   float64
	hAcc  float64
	numSV int
}

func pointFromRecord(rec *fit.RecordMsg) (fitPoint, bool) {
	ts := rec.Timestamp
	if ts.IsZero() || fit.IsBaseTime(ts) {
		return fitPoint{}, false
	}
	lat := rec.PositionLat.Degrees()
	lon := rec.PositionLong.Degrees()
	if math.IsNaN(lat) || math.IsNaN(lon) {
		return fitPoint{}, false
	}

	alt := rec.GetEnhancedAltitudeScaled()
	if math.IsNaN(alt) {
		alt = rec.GetAltitudeScaled()
	}
	if math.IsNaN(alt) {
		return fitPoint{}, false
	}

	p := fitPoint{ts: ts, lat: lat, lon: lon, alt: alt}
	if rec.GpsAccuracy != math.MaxUint8 {
		p.hAcc = float64(rec.GpsAccuracy)
	}
	return p, true
}

// samplesFromPoints converts fixes into samples, deriving the velocity vector
// from position and altitude deltas. The first sample reuses the velocity of
// the second so that the series has no artificial zero-velocity lead-in.
func samplesFromPoints(points []fitPoint) []jumptrace.Sample {
	if len(points) == 0 {
		return nil
	}

	samples := make([]jumptrace.Sample, len(points))
	for i, p := range points {
		samples[i] = jumptrace.Sample{
			Time:        p.ts.UTC(),
			Lat:         p.lat,
			Lon:         p.lon,
			AltitudeMSL: p.alt,
			HAcc:        p.hAcc,
			NumSV:       p.numSV,
		}
	}

	for i := 1; i < len(points); i++ {
		prev, cur := points[i-1], points[i]
		dt := cur.ts.Sub(prev.ts).Seconds()
		if dt <= 0 {
			samples[i].VelN = samples[i-1].VelN
			samples[i].VelE = samples[i-1].VelE
			samples[i].VelD = samples[i-1].VelD
			continue
		}
		midLat := (prev.lat + cur.lat) / 2 * math.Pi / 180.0
		samples[i].VelN = (cur.lat - prev.lat) * math.Pi / 180.0 * earthRadiusM / dt
		samples[i].VelE = (cur.lon - prev.lon) * math.Pi / 180.0 * earthRadiusM * math.Cos(midLat) / dt
		samples[i].VelD = (prev.alt - cur.alt) / dt
	}
	if len(samples) > 1 {
		samples[0].VelN = samples[1].VelN
		samples[0].VelE = samples[1].VelE
		samples[0].VelD = samples[1].VelD
	}
	return samples
}
