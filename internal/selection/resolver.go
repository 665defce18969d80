// internal/selection/resolver.go
package selection

import (
	"math"

	"pump-selector/internal/models"
)

// DutyPointResolver picks, for one pump, the curve and operating point that
// best fit a duty point. Resolution is pure computation over the immutable
// curve data.
type DutyPointResolver struct {
	cfg    Config
	scorer *Scorer
}

// NewDutyPointResolver builds a resolver sharing the scorer's banding.
func NewDutyPointResolver(cfg Config, scorer *Scorer) *DutyPointResolver {
	return &DutyPointResolver{cfg: cfg, scorer: scorer}
}

// DutyPoint is the outcome of resolving one pump against a requirement.
type DutyPoint struct {
	CurveID string
	Point   models.OperatingPoint
	// Quality is the curve-dependent weighted score minus the head-excess
	// penalty; it selected this curve over the pump's alternatives.
	Quality float64
}

// curveState distinguishes "curve could not serve this duty" from "curve
// data is unusable", which map to different exclusion reasons.
type curveState int

const (
	curveInfeasible curveState = iota
	curveUnusable
	curveFeasible
)

// Resolve evaluates every curve at the requirement flow and returns the
// best-fitting one. ok=false means no curve can meet the duty; dataOK=false
// additionally means the pump had no usable curve at all.
func (r *DutyPointResolver) Resolve(pump models.PumpModel, req models.Requirement) (best DutyPoint, ok bool, dataOK bool) {
	bestQuality := math.Inf(-1)
	for _, curve := range pump.Curves {
		op, state := r.resolveCurve(curve, req)
		switch state {
		case curveUnusable:
			continue
		case curveInfeasible:
			dataOK = true
			continue
		}
		dataOK = true

		quality := r.scorer.QualityScore(op, req) - r.scorer.HeadExcessPenalty(op.HeadM, req.HeadM)
		if !ok || quality > bestQuality {
			best = DutyPoint{CurveID: curve.ID, Point: op, Quality: quality}
			bestQuality = quality
			ok = true
		}
	}
	return best, ok, dataOK
}

// resolveCurve attempts to place the duty point on a single curve.
//
// The exact-flow point passes when its interpolated head reaches the required
// head within the configured tolerance. When it does not, but the curve's
// maximum tabulated head would suffice, the curve is searched for tabulated
// points within the flow deadband whose head meets the requirement outright;
// the one closest in flow substitutes as the operating point. That models a
// narrow installation deadband (throttling, minor adjustment), not new pump
// behavior.
func (r *DutyPointResolver) resolveCurve(curve models.PerformanceCurve, req models.Requirement) (models.OperatingPoint, curveState) {
	if !curve.Usable() || !curveDataValid(curve) {
		return models.OperatingPoint{}, curveUnusable
	}

	minAcceptedHead := req.HeadM * (1 - r.cfg.HeadToleranceFrac)

	head, headOK := Interpolate(req.FlowM3Hr, headSamples(curve), r.cfg.ExtrapolationFrac)
	if headOK && head >= minAcceptedHead {
		return r.pointAt(curve, req.FlowM3Hr, head), curveFeasible
	}

	if curve.MaxHead() < req.HeadM {
		return models.OperatingPoint{}, curveInfeasible
	}
	if alt, found := r.deadbandPoint(curve, req); found {
		return alt, curveFeasible
	}
	return models.OperatingPoint{}, curveInfeasible
}

// pointAt builds the operating point at an arbitrary flow by interpolating
// the remaining series. Power and NPSHr stay zero when their series are too
// sparse to evaluate.
func (r *DutyPointResolver) pointAt(curve models.PerformanceCurve, flow, head float64) models.OperatingPoint {
	op := models.OperatingPoint{FlowM3Hr: flow, HeadM: head}
	if eff, ok := Interpolate(flow, efficiencySamples(curve), r.cfg.ExtrapolationFrac); ok {
		op.EfficiencyPct = clamp(eff, 0, 100)
	}
	if power, ok := Interpolate(flow, powerSamples(curve), r.cfg.ExtrapolationFrac); ok {
		op.PowerKw = power
	}
	if npshr, ok := Interpolate(flow, npshrSamples(curve), r.cfg.ExtrapolationFrac); ok {
		op.NPSHrM = npshr
	}
	return op
}

// deadbandPoint searches the curve's own tabulated points within the flow
// deadband for one whose head meets the requirement without tolerance,
// preferring the flow closest to the duty point.
func (r *DutyPointResolver) deadbandPoint(curve models.PerformanceCurve, req models.Requirement) (models.OperatingPoint, bool) {
	window := req.FlowM3Hr * r.cfg.FlowDeadbandFrac
	bestDelta := math.Inf(1)
	var best models.PerformancePoint
	found := false
	for _, p := range curve.Points {
		delta := math.Abs(p.FlowM3Hr - req.FlowM3Hr)
		if delta > window || p.HeadM < req.HeadM {
			continue
		}
		if delta < bestDelta {
			bestDelta = delta
			best = p
			found = true
		}
	}
	if !found {
		return models.OperatingPoint{}, false
	}
	return models.OperatingPoint{
		FlowM3Hr:      best.FlowM3Hr,
		HeadM:         best.HeadM,
		EfficiencyPct: clamp(best.EfficiencyPct, 0, 100),
		PowerKw:       best.PowerKw,
		NPSHrM:        best.NPSHrM,
	}, true
}

// curveDataValid rejects curves carrying out-of-domain values: required keys
// exist structurally, but nonsense values are still invalid performance data.
func curveDataValid(curve models.PerformanceCurve) bool {
	for _, p := range curve.Points {
		if p.HeadM <= 0 || p.EfficiencyPct < 0 || p.EfficiencyPct > 100 {
			return false
		}
	}
	return true
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}
