// internal/selection/scorer_test.go
package selection

import (
	"testing"

	"pump-selector/internal/models"

	"github.com/stretchr/testify/assert"
)

// ==========================
// QBP Tests
// ==========================

func TestScorer_QBP(t *testing.T) {
	scorer := NewScorer(DefaultConfig())

	pump := models.PumpModel{Specs: models.PumpSpecs{BEPFlowM3Hr: 1600}}
	qbp, ok := scorer.QBP(pump, models.Requirement{FlowM3Hr: 1781, HeadM: 24})
	assert.True(t, ok)
	assert.InDelta(t, 111.3125, qbp, 1e-9)

	// No valid BEP flow means QBP is undefined.
	_, ok = scorer.QBP(models.PumpModel{}, models.Requirement{FlowM3Hr: 1781, HeadM: 24})
	assert.False(t, ok)
}

func TestScorer_QBPInBand(t *testing.T) {
	scorer := NewScorer(DefaultConfig()) // band [50, 200]

	assert.True(t, scorer.QBPInBand(50))
	assert.True(t, scorer.QBPInBand(100))
	assert.True(t, scorer.QBPInBand(200))
	assert.False(t, scorer.QBPInBand(49.999))
	assert.False(t, scorer.QBPInBand(200.001))
}

// ==========================
// Band Scoring Tests
// ==========================

func TestScorer_BEPProximityScore(t *testing.T) {
	tests := []struct {
		name     string
		qbp      float64
		expected float64
	}{
		{name: "exactly at BEP", qbp: 100, expected: 100},
		{name: "inner band lower edge", qbp: 95, expected: 100},
		{name: "inner band upper edge", qbp: 105, expected: 100},
		{name: "middle band below", qbp: 90, expected: 85},
		{name: "middle band above", qbp: 110, expected: 85},
		{name: "middle band outer edge", qbp: 115, expected: 70},
		{name: "outer decay", qbp: 130, expected: 40},
		{name: "far from BEP floors at zero", qbp: 200, expected: 0},
	}

	scorer := NewScorer(DefaultConfig())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, scorer.BEPProximityScore(tt.qbp), 1e-9)
		})
	}
}

func TestScorer_EfficiencyScore(t *testing.T) {
	tests := []struct {
		name     string
		effPct   float64
		expected float64
	}{
		{name: "excellent", effPct: 85, expected: 100},
		{name: "above excellent clamps", effPct: 92, expected: 100},
		{name: "good band", effPct: 80, expected: 90},
		{name: "good band lower edge", effPct: 75, expected: 80},
		{name: "fair band", effPct: 70, expected: 70},
		{name: "fair band lower edge", effPct: 65, expected: 60},
		{name: "poor band", effPct: 55, expected: 30},
		{name: "very poor floors at zero", effPct: 20, expected: 0},
	}

	scorer := NewScorer(DefaultConfig())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, scorer.EfficiencyScore(tt.effPct), 1e-9)
		})
	}
}

func TestScorer_HeadMarginScore(t *testing.T) {
	tests := []struct {
		name     string
		marginM  float64
		expected float64
	}{
		{name: "no surplus", marginM: 0, expected: 100},
		{name: "small surplus", marginM: 2, expected: 100},
		{name: "moderate surplus", marginM: 3.5, expected: 75},
		{name: "band edge", marginM: 5, expected: 60},
		{name: "oversized", marginM: 8, expected: 24},
		{name: "grossly oversized floors at zero", marginM: 15, expected: 0},
	}

	scorer := NewScorer(DefaultConfig())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, scorer.HeadMarginScore(tt.marginM), 1e-9)
		})
	}
}

func TestScorer_HeadMarginScore_MonotoneNonIncreasing(t *testing.T) {
	// Larger oversizing must never score better.
	scorer := NewScorer(DefaultConfig())
	prev := scorer.HeadMarginScore(2)
	for m := 2.1; m <= 20; m += 0.1 {
		cur := scorer.HeadMarginScore(m)
		assert.LessOrEqual(t, cur, prev, "margin %g scored higher than a smaller margin", m)
		prev = cur
	}
}

func TestScorer_NPSHMarginScore(t *testing.T) {
	tests := []struct {
		name     string
		npsha    float64
		npshr    float64
		expected float64
	}{
		{name: "comfortable margin", npsha: 8, npshr: 3, expected: 100},
		{name: "adequate margin", npsha: 5, npshr: 3, expected: 70},
		{name: "thin margin", npsha: 3.6, npshr: 3, expected: 40},
		{name: "insufficient", npsha: 3.2, npshr: 3, expected: 0},
		{name: "npsha unknown grants partial credit", npsha: 0, npshr: 3, expected: 50},
		{name: "npshr unknown grants partial credit", npsha: 6, npshr: 0, expected: 50},
	}

	scorer := NewScorer(DefaultConfig())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, scorer.NPSHMarginScore(tt.npsha, tt.npshr), 1e-9)
		})
	}
}

// ==========================
// Weighted Total Tests
// ==========================

func TestScorer_Components_WeightedTotal(t *testing.T) {
	cfg := DefaultConfig() // weights 45/35/20/0
	scorer := NewScorer(cfg)

	req := models.Requirement{FlowM3Hr: 1000, HeadM: 24}
	op := models.OperatingPoint{FlowM3Hr: 1000, HeadM: 25, EfficiencyPct: 80}

	components, total := scorer.Components(100, op, req)

	assert.InDelta(t, 45.0, components[models.ComponentBEPProximity], 1e-9)
	assert.InDelta(t, 35.0*90/100, components[models.ComponentEfficiency], 1e-9)
	assert.InDelta(t, 20.0, components[models.ComponentHeadMargin], 1e-9)
	assert.InDelta(t, 0.0, components[models.ComponentNPSHMargin], 1e-9)

	sum := 0.0
	for _, v := range components {
		sum += v
	}
	assert.InDelta(t, sum, total, 1e-9, "total must equal the component sum")
	assert.LessOrEqual(t, total, cfg.Weights.Total()+1e-9, "total bounded by the point budget")
}

func TestScorer_Components_NPSHWeighted(t *testing.T) {
	cfg := TightConfig() // weights 40/30/15/15
	scorer := NewScorer(cfg)

	req := models.Requirement{FlowM3Hr: 1000, HeadM: 24, NPSHAvailableM: 8}
	op := models.OperatingPoint{FlowM3Hr: 1000, HeadM: 24.5, EfficiencyPct: 85, NPSHrM: 3}

	components, total := scorer.Components(100, op, req)

	assert.InDelta(t, 40.0, components[models.ComponentBEPProximity], 1e-9)
	assert.InDelta(t, 30.0, components[models.ComponentEfficiency], 1e-9)
	assert.InDelta(t, 15.0, components[models.ComponentHeadMargin], 1e-9)
	assert.InDelta(t, 15.0, components[models.ComponentNPSHMargin], 1e-9)
	assert.InDelta(t, 100.0, total, 1e-9)
}

// ==========================
// Penalty Tests
// ==========================

func TestScorer_HeadExcessPenalty(t *testing.T) {
	scorer := NewScorer(DefaultConfig())

	assert.InDelta(t, 0.0, scorer.HeadExcessPenalty(24, 24), 1e-9)
	assert.InDelta(t, 0.0, scorer.HeadExcessPenalty(20, 24), 1e-9, "deficit is not a penalty")
	assert.InDelta(t, 2.5, scorer.HeadExcessPenalty(30, 24), 1e-9)
	assert.InDelta(t, 10.0, scorer.HeadExcessPenalty(48, 24), 1e-9)
}
