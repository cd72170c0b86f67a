package jumptrace

import (
	"math"
	"time"
)

// trackBuilder synthesizes a 1 Hz GPS recording by integrating velocities.
type trackBuilder struct {
	t       time.Time
	alt     float64
	lat     float64
	lon     float64
	samples []Sample
}

func newTrackBuilder(startAlt float64) *trackBuilder {
	return &trackBuilder{
		t:   time.Date(2025, 6, 14, 13, 0, 0, 0, time.UTC),
		alt: startAlt,
		lat: 47.25,
		lon: 11.35,
	}
}

// add appends n one-second samples with the given NED velocity, integrating
// altitude and position.
func (b *trackBuilder) add(n int, velN, velE, velD float64) *trackBuilder {
	for i := 0; i < n; i++ {
		b.step(velN, velE, velD)
	}
	return b
}

// ramp appends samples stepping velD from from+step to to inclusive.
func (b *trackBuilder) ramp(velN, velE, from, to, step float64) *trackBuilder {
	if step == 0 {
		return b
	}
	for v := from + step; (step > 0 && v <= to+1e-9) || (step < 0 && v >= to-1e-9); v += step {
		b.step(velN, velE, v)
	}
	return b
}

func (b *trackBuilder) step(velN, velE, velD float64) {
	b.alt -= velD
	b.lat += velN / earthRadiusM * 180.0 / math.Pi
	b.lon += velE / (earthRadiusM * math.Cos(b.lat*math.Pi/180.0)) * 180.0 / math.Pi
	b.samples = append(b.samples, Sample{
		Time:        b.t,
		Lat:         b.lat,
		Lon:         b.lon,
		AltitudeMSL: b.alt,
		VelN:        velN,
		VelE:        velE,
		VelD:        velD,
		HAcc:        5,
		VAcc:        8,
		SAcc:        0.5,
		NumSV:       12,
	})
	b.t = b.t.Add(time.Second)
}

// fullJump is a complete synthetic skydive: climb, level flight, exit,
// terminal freefall near 50 m/s, deployment, canopy flight, and landing.
// 152 samples at 1 Hz starting from 3000 m MSL.
func fullJump() []Sample {
	diag := 8.0 / math.Sqrt2 // freefall drift heading 045
	b := newTrackBuilder(3000)
	b.add(30, 40, 0, -4)            // climb to 3120
	b.add(10, 40, 0, 0)             // level at altitude
	b.ramp(diag, diag, 0, 48, 4)    // exit, accelerating
	b.add(18, diag, diag, 50)       // terminal freefall
	b.ramp(8, 0, 50, 10, -5)        // deployment deceleration
	b.add(60, 10, 0, 5)             // canopy flight
	b.step(6, 0, 4)                 // final approach
	b.step(5, 0, 3)
	b.step(4, 0, 2)
	b.step(3, 0, 1)
	b.add(10, 1, 0, 0.3)            // on the ground
	return b.samples
}

// hopAndPop is a shallow jump whose descent speed never exceeds 18 m/s
// before a slow deceleration to canopy flight.
func hopAndPop() []Sample {
	b := newTrackBuilder(3000)
	b.add(20, 40, 0, -4)
	b.add(5, 40, 0, 0)
	b.ramp(5, 0, 0, 18, 2)
	b.add(6, 5, 0, 18)
	b.ramp(8, 0, 18, 8, -1.25)
	b.add(30, 8, 0, 8)
	b.step(5, 0, 6)
	b.step(4, 0, 4)
	b.step(3, 0, 2)
	b.step(2.5, 0, 1)
	b.add(10, 1, 0, 0.5)
	return b.samples
}

func phaseSequence(segments []Segment) []Phase {
	out := make([]Phase, len(segments))
	for i, seg := range segments {
		out[i] = seg.Phase
	}
	return out
}

func samePhases(got []Phase, want []Phase) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}
