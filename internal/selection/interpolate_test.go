// internal/selection/interpolate_test.go
package selection

import (
	"testing"

	"pump-selector/internal/models"

	"github.com/stretchr/testify/assert"
)

// ==========================
// Test Helper Functions
// ==========================

func headCurveSamples() []Sample {
	return []Sample{
		{X: 500, Y: 40},
		{X: 1000, Y: 35},
		{X: 1500, Y: 25},
		{X: 2000, Y: 10},
	}
}

// ==========================
// Core Functionality Tests
// ==========================

func TestInterpolate_AtTabulatedPoints(t *testing.T) {
	// Interpolation at a tabulated flow must return the tabulated value.
	samples := headCurveSamples()
	for _, s := range samples {
		got, ok := Interpolate(s.X, samples, 0.10)
		assert.True(t, ok, "tabulated X %g must interpolate", s.X)
		assert.InDelta(t, s.Y, got, 1e-9)
	}
}

func TestInterpolate_BetweenPoints(t *testing.T) {
	tests := []struct {
		name     string
		targetX  float64
		expected float64
	}{
		{name: "midpoint of first segment", targetX: 750, expected: 37.5},
		{name: "midpoint of second segment", targetX: 1250, expected: 30},
		{name: "quarter of last segment", targetX: 1625, expected: 21.25},
		{name: "interior point 1781", targetX: 1781, expected: 25 - (1781-1500)/500.0*15},
	}

	samples := headCurveSamples()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Interpolate(tt.targetX, samples, 0.10)
			assert.True(t, ok)
			assert.InDelta(t, tt.expected, got, 1e-9)
		})
	}
}

func TestInterpolate_Extrapolation(t *testing.T) {
	// Span is 1500, so 10% reach allows 150 beyond either end.
	samples := headCurveSamples()

	tests := []struct {
		name     string
		targetX  float64
		wantOK   bool
		expected float64
	}{
		{name: "just below span within reach", targetX: 400, wantOK: true, expected: 41},
		{name: "just above span within reach", targetX: 2100, wantOK: true, expected: 7},
		{name: "at lower reach boundary", targetX: 350, wantOK: true, expected: 41.5},
		{name: "at upper reach boundary", targetX: 2150, wantOK: true, expected: 5.5},
		{name: "below reach", targetX: 349, wantOK: false},
		{name: "above reach", targetX: 2151, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Interpolate(tt.targetX, samples, 0.10)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.InDelta(t, tt.expected, got, 1e-9)
			}
		})
	}
}

func TestInterpolate_ZeroExtrapolationFrac(t *testing.T) {
	samples := headCurveSamples()

	_, ok := Interpolate(499.999, samples, 0)
	assert.False(t, ok, "no reach below the span")
	_, ok = Interpolate(2000.001, samples, 0)
	assert.False(t, ok, "no reach above the span")
	got, ok := Interpolate(500, samples, 0)
	assert.True(t, ok)
	assert.InDelta(t, 40.0, got, 1e-9)
}

// ==========================
// Edge Case Tests
// ==========================

func TestInterpolate_InsufficientSamples(t *testing.T) {
	_, ok := Interpolate(100, nil, 0.10)
	assert.False(t, ok)

	_, ok = Interpolate(100, []Sample{{X: 100, Y: 50}}, 0.10)
	assert.False(t, ok, "a single point cannot define a segment")
}

func TestInterpolate_Deterministic(t *testing.T) {
	// Same inputs, same outputs: the function holds no state.
	samples := headCurveSamples()
	first, ok := Interpolate(1781, samples, 0.10)
	assert.True(t, ok)
	for i := 0; i < 100; i++ {
		again, ok := Interpolate(1781, samples, 0.10)
		assert.True(t, ok)
		assert.Equal(t, first, again)
	}
}

// ==========================
// Series Extraction Tests
// ==========================

func TestSeriesExtractors_SkipUntabulatedValues(t *testing.T) {
	curve := models.PerformanceCurve{
		ID: "219",
		Points: []models.PerformancePoint{
			{FlowM3Hr: 500, HeadM: 40, EfficiencyPct: 60, PowerKw: 55, NPSHrM: 2.1},
			{FlowM3Hr: 1000, HeadM: 35, EfficiencyPct: 75},
			{FlowM3Hr: 1500, HeadM: 25, EfficiencyPct: 80, PowerKw: 102, NPSHrM: 3.4},
		},
	}

	assert.Len(t, headSamples(curve), 3)
	assert.Len(t, efficiencySamples(curve), 3)
	assert.Len(t, powerSamples(curve), 2, "zero power means not tabulated")
	assert.Len(t, npshrSamples(curve), 2, "zero NPSHr means not tabulated")
}
