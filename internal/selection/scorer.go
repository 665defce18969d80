// internal/selection/scorer.go
package selection

import (
	"math"

	"pump-selector/internal/models"
)

// Scorer turns a resolved duty point into banded component scores and a
// weighted total. All bands are 0–100; the weighted contribution of a
// component is weight × band / 100, so the total is bounded by the point
// budget of the configured weight table. A missing component contributes 0,
// it never propagates as invalid.
type Scorer struct {
	cfg Config
}

// NewScorer builds a scorer over the given configuration.
func NewScorer(cfg Config) *Scorer {
	return &Scorer{cfg: cfg}
}

// QBP returns the percent of BEP flow at which the requirement operates.
// ok is false when the pump has no valid BEP flow.
func (s *Scorer) QBP(pump models.PumpModel, req models.Requirement) (float64, bool) {
	if pump.Specs.BEPFlowM3Hr <= 0 {
		return 0, false
	}
	return req.FlowM3Hr / pump.Specs.BEPFlowM3Hr * 100, true
}

// QBPInBand applies the hard acceptance band.
func (s *Scorer) QBPInBand(qbp float64) bool {
	return qbp >= s.cfg.QBPMin && qbp <= s.cfg.QBPMax
}

// BEPProximityScore bands the QBP: operating at 95–105% of BEP flow is
// ideal, 85–115% decays linearly, anything further decays toward zero.
func (s *Scorer) BEPProximityScore(qbp float64) float64 {
	dist := math.Abs(qbp - 100)
	switch {
	case dist <= 5:
		return 100
	case dist <= 15:
		// 100 at the inner band edge down to 70 at the outer edge.
		return 100 - (dist-5)*3
	default:
		return math.Max(0, 70-(dist-15)*2)
	}
}

// EfficiencyScore bands achieved hydraulic efficiency.
func (s *Scorer) EfficiencyScore(effPct float64) float64 {
	switch {
	case effPct >= 85:
		return 100
	case effPct >= 75:
		return 80 + (effPct-75)*2
	case effPct >= 65:
		return 60 + (effPct-65)*2
	default:
		return math.Max(0, 60-(65-effPct)*3)
	}
}

// HeadMarginScore bands the head surplus (achieved − required, metres).
// Small margins are fine, large ones are oversizing and score steeply worse.
// Monotonically non-increasing beyond 2 m.
func (s *Scorer) HeadMarginScore(marginM float64) float64 {
	switch {
	case marginM <= 2:
		return 100
	case marginM <= 5:
		return 90 - (marginM-2)*10
	default:
		return math.Max(0, 60-(marginM-5)*12)
	}
}

// NPSHMarginScore bands the suction margin (NPSHa − NPSHr, metres). When
// either side is unknown it grants the configured partial credit instead of
// guessing.
func (s *Scorer) NPSHMarginScore(npshAvailableM, npshrM float64) float64 {
	if npshAvailableM <= 0 || npshrM <= 0 {
		return s.cfg.NPSHUnknownCredit
	}
	margin := npshAvailableM - npshrM
	switch {
	case margin >= 3:
		return 100
	case margin >= 1.5:
		return 70
	case margin >= 0.5:
		return 40
	default:
		return 0
	}
}

// HeadExcessPenalty is subtracted from a curve's quality score during duty
// resolution so that, among feasible curves, the one closest to the required
// head wins.
func (s *Scorer) HeadExcessPenalty(achievedHeadM, requiredHeadM float64) float64 {
	if requiredHeadM <= 0 {
		return 0
	}
	return math.Max(0, (achievedHeadM-requiredHeadM)/requiredHeadM*10)
}

// QualityScore is the curve-dependent part of the weighted total: efficiency
// and head margin (plus NPSH margin, if weighted). BEP proximity is a pump
// property and does not discriminate between curves.
func (s *Scorer) QualityScore(op models.OperatingPoint, req models.Requirement) float64 {
	w := s.cfg.Weights
	q := w.Efficiency * s.EfficiencyScore(op.EfficiencyPct) / 100
	q += w.HeadMargin * s.HeadMarginScore(op.HeadM-req.HeadM) / 100
	q += w.NPSHMargin * s.NPSHMarginScore(req.NPSHAvailableM, op.NPSHrM) / 100
	return q
}

// Components computes all weighted score components for a resolved duty
// point and their total.
func (s *Scorer) Components(qbp float64, op models.OperatingPoint, req models.Requirement) (map[string]float64, float64) {
	w := s.cfg.Weights
	components := map[string]float64{
		models.ComponentBEPProximity: w.BEPProximity * s.BEPProximityScore(qbp) / 100,
		models.ComponentEfficiency:   w.Efficiency * s.EfficiencyScore(op.EfficiencyPct) / 100,
		models.ComponentHeadMargin:   w.HeadMargin * s.HeadMarginScore(op.HeadM-req.HeadM) / 100,
		models.ComponentNPSHMargin:   w.NPSHMargin * s.NPSHMarginScore(req.NPSHAvailableM, op.NPSHrM) / 100,
	}
	total := 0.0
	for _, v := range components {
		total += v
	}
	return components, total
}
