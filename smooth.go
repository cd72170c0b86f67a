package jumptrace

// SmoothVerticalVelocity returns a moving average of VelD, one value per
// input sample. The window is centered on the current index and shrinks at
// the sequence boundaries instead of wrapping or padding. Fixes whose
// horizontal accuracy exceeds cfg.MaxHorizontalAccuracy are left out of the
// averages but keep their slot in the output; a slot whose entire window is
// excluded falls back to its own raw VelD.
func SmoothVerticalVelocity(samples []Sample, cfg Config) []float64 {
	values := make([]float64, len(samples))
	usable := make([]bool, len(samples))
	for i, s := range samples {
		values[i] = s.VelD
		usable[i] = s.HAcc <= cfg.MaxHorizontalAccuracy
	}
	return movingAverage(values, usable, cfg.SmoothingWindow)
}

func movingAverage(values []float64, usable []bool, window int) []float64 {
	out := make([]float64, len(values))
	if window < 1 {
		window = 1
	}
	half := window / 2
	for i := range values {
		lo := i - half
		if lo < 0 {
			lo = 0
		}
		hi := i + half
		if hi > len(values)-1 {
			hi = len(values) - 1
		}
		sum := 0.0
		n := 0
		for j := lo; j <= hi; j++ {
			if !usable[j] {
				continue
			}
			sum += values[j]
			n++
		}
		if n == 0 {
			out[i] = values[i]
			continue
		}
		out[i] = sum / float64(n)
	}
	return out
}
