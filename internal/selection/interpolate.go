// internal/selection/interpolate.go
package selection

import "pump-selector/internal/models"

// Sample is one (x, y) pair of a performance series, x being flow.
type Sample struct {
	X float64
	Y float64
}

// Interpolate evaluates a piecewise-linear performance series at targetX.
//
// Samples must be sorted ascending by X with no duplicate X values; the
// function does not sort. Inside the sample span it returns linear
// interpolation between the bracketing pair. Up to extrapolationFrac of the
// span beyond either end it returns a linear extrapolation from the nearest
// segment, tolerating duty points marginally outside tabulated data. Beyond
// that, or with fewer than two samples, it returns ok=false.
//
// Pure and deterministic: identical inputs always yield identical outputs.
func Interpolate(targetX float64, samples []Sample, extrapolationFrac float64) (float64, bool) {
	if len(samples) < 2 {
		return 0, false
	}

	minX := samples[0].X
	maxX := samples[len(samples)-1].X
	span := maxX - minX
	if span <= 0 {
		return 0, false
	}
	reach := span * extrapolationFrac

	switch {
	case targetX < minX-reach || targetX > maxX+reach:
		return 0, false
	case targetX < minX:
		return lerp(samples[0], samples[1], targetX), true
	case targetX > maxX:
		return lerp(samples[len(samples)-2], samples[len(samples)-1], targetX), true
	}

	for i := 1; i < len(samples); i++ {
		if targetX <= samples[i].X {
			return lerp(samples[i-1], samples[i], targetX), true
		}
	}
	// Unreachable: targetX <= maxX guarantees a bracketing segment.
	return samples[len(samples)-1].Y, true
}

func lerp(a, b Sample, x float64) float64 {
	if b.X == a.X {
		return a.Y
	}
	t := (x - a.X) / (b.X - a.X)
	return a.Y + t*(b.Y-a.Y)
}

// headSamples extracts the head series of a curve.
func headSamples(c models.PerformanceCurve) []Sample {
	out := make([]Sample, len(c.Points))
	for i, p := range c.Points {
		out[i] = Sample{X: p.FlowM3Hr, Y: p.HeadM}
	}
	return out
}

// efficiencySamples extracts the efficiency series of a curve.
func efficiencySamples(c models.PerformanceCurve) []Sample {
	out := make([]Sample, len(c.Points))
	for i, p := range c.Points {
		out[i] = Sample{X: p.FlowM3Hr, Y: p.EfficiencyPct}
	}
	return out
}

// powerSamples extracts the power series, skipping points that do not
// tabulate power. The result may be too sparse to interpolate; the caller
// treats that as "power unknown".
func powerSamples(c models.PerformanceCurve) []Sample {
	var out []Sample
	for _, p := range c.Points {
		if p.PowerKw > 0 {
			out = append(out, Sample{X: p.FlowM3Hr, Y: p.PowerKw})
		}
	}
	return out
}

// npshrSamples extracts the NPSHr series, skipping untabulated points.
func npshrSamples(c models.PerformanceCurve) []Sample {
	var out []Sample
	for _, p := range c.Points {
		if p.NPSHrM > 0 {
			out = append(out, Sample{X: p.FlowM3Hr, Y: p.NPSHrM})
		}
	}
	return out
}
