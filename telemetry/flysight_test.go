package telemetry

import (
	"errors"
	"math"
	"strings"
	"testing"
	"time"
)

const flySightTrack = `time,lat,lon,hMSL,velN,velE,velD,hAcc,vAcc,sAcc,heading,cAcc,gpsFix,numSV
,(deg),(deg),(m),(m/s),(m/s),(m/s),(m),(m),(m/s),(deg),(deg),,
2025-06-14T13:00:00.00Z,47.250000,11.350000,3000.00,1.20,-0.40,-4.10,4.50,7.20,0.30,340.10,2.50,3,14
2025-06-14T13:00:00.20Z,47.250002,11.349999,3000.80,1.25,-0.38,-4.05,4.40,7.10,0.30,340.30,2.50,3,14
2025-06-14T13:00:00.40Z,47.250004,11.349998,3001.60,1.30,-0.35,-4.00,4.40,7.00,0.30,340.50,2.50,3,14
`

func TestParseFlySight(t *testing.T) {
	samples, err := ParseFlySight(strings.NewReader(flySightTrack))
	if err != nil {
		t.Fatalf("ParseFlySight: %v", err)
	}
	if len(samples) != 3 {
		t.Fatalf("got %d samples, want 3", len(samples))
	}

	first := samples[0]
	wantTime := time.Date(2025, 6, 14, 13, 0, 0, 0, time.UTC)
	if !first.Time.Equal(wantTime) {
		t.Fatalf("time = %v, want %v", first.Time, wantTime)
	}
	if first.Lat != 47.25 || first.Lon != 11.35 {
		t.Fatalf("position = %v,%v", first.Lat, first.Lon)
	}
	if first.VelD != -4.10 {
		t.Fatalf("velD = %v, want -4.10", first.VelD)
	}
	if first.HAcc != 4.5 || first.NumSV != 14 {
		t.Fatalf("quality fields = %v, %d", first.HAcc, first.NumSV)
	}
	if samples[1].Time.Sub(samples[0].Time) != 200*time.Millisecond {
		t.Fatalf("sub-second timestamps lost: %v", samples[1].Time.Sub(samples[0].Time))
	}
}

func TestParseFlySightDropsTornRow(t *testing.T) {
	track := flySightTrack + "2025-06-14T13:00:00.60Z,47.2500\n"
	samples, err := ParseFlySight(strings.NewReader(track))
	if err != nil {
		t.Fatalf("ParseFlySight: %v", err)
	}
	if len(samples) != 3 {
		t.Fatalf("got %d samples, want torn row dropped", len(samples))
	}
}

func TestParseFlySightReorderedColumns(t *testing.T) {
	track := "velD,time,lat,lon,hMSL,velN,velE\n" +
		"(m/s),,(deg),(deg),(m),(m/s),(m/s)\n" +
		"-4.10,2025-06-14T13:00:00.00Z,47.25,11.35,3000.0,1.2,-0.4\n" +
		"-4.05,2025-06-14T13:00:01.00Z,47.25,11.35,3004.0,1.2,-0.4\n"
	samples, err := ParseFlySight(strings.NewReader(track))
	if err != nil {
		t.Fatalf("ParseFlySight: %v", err)
	}
	if samples[0].VelD != -4.10 || samples[0].AltitudeMSL != 3000.0 {
		t.Fatalf("columns mismapped: %+v", samples[0])
	}
}

func TestParseFlySightMissingColumn(t *testing.T) {
	track := "time,lat,lon,hMSL\n2025-06-14T13:00:00.00Z,47.25,11.35,3000.0\n"
	if _, err := ParseFlySight(strings.NewReader(track)); err == nil {
		t.Fatal("expected error for missing velocity columns")
	}
}

func TestParseFlySightEmptyTrack(t *testing.T) {
	track := "time,lat,lon,hMSL,velN,velE,velD\n,(deg),(deg),(m),(m/s),(m/s),(m/s)\n"
	_, err := ParseFlySight(strings.NewReader(track))
	if !errors.Is(err, ErrEmptyRecording) {
		t.Fatalf("err = %v, want ErrEmptyRecording", err)
	}
}

func TestSamplesFromPointsDerivesVelocity(t *testing.T) {
	start := time.Date(2025, 6, 14, 13, 0, 0, 0, time.UTC)
	latStep := 10.0 / earthRadiusM * 180.0 / math.Pi // 10 m north per second
	points := []fitPoint{
		{ts: start, lat: 0, lon: 11.35, alt: 3000},
		{ts: start.Add(time.Second), lat: latStep, lon: 11.35, alt: 2950},
		{ts: start.Add(2 * time.Second), lat: 2 * latStep, lon: 11.35, alt: 2900},
	}

	samples := samplesFromPoints(points)
	if len(samples) != 3 {
		t.Fatalf("got %d samples, want 3", len(samples))
	}
	for i, s := range samples {
		if math.Abs(s.VelN-10) > 1e-6 {
			t.Fatalf("sample %d velN = %v, want 10", i, s.VelN)
		}
		if math.Abs(s.VelE) > 1e-6 {
			t.Fatalf("sample %d velE = %v, want 0", i, s.VelE)
		}
		if math.Abs(s.VelD-50) > 1e-6 {
			t.Fatalf("sample %d velD = %v, want 50 (down positive)", i, s.VelD)
		}
	}
}

func TestSamplesFromPointsDuplicateTimestamp(t *testing.T) {
	start := time.Date(2025, 6, 14, 13, 0, 0, 0, time.UTC)
	points := []fitPoint{
		{ts: start, lat: 47.25, lon: 11.35, alt: 3000},
		{ts: start.Add(time.Second), lat: 47.25, lon: 11.35, alt: 2950},
		{ts: start.Add(time.Second), lat: 47.25, lon: 11.35, alt: 2950},
	}
	samples := samplesFromPoints(points)
	if samples[2].VelD != samples[1].VelD {
		t.Fatalf("duplicate timestamp must carry previous velocity, got %v", samples[2].VelD)
	}
}
