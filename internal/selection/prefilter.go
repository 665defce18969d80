// internal/selection/prefilter.go
package selection

import (
	"math"

	"pump-selector/internal/models"
)

// PreFilter cheaply reduces the catalog before full evaluation. Its bounds
// are deliberately loose: impeller trimming and speed variation shift a
// pump's effective curve well away from its nameplate BEP, so the filter only
// bounds evaluation cost and never makes a final feasibility decision.
type PreFilter struct {
	cfg Config
}

// NewPreFilter builds a pre-filter over the given configuration.
func NewPreFilter(cfg Config) *PreFilter {
	return &PreFilter{cfg: cfg}
}

// Apply returns the candidates that survive the cheap gates. Every dropped
// pump is recorded on the tracker with its reject reason.
func (f *PreFilter) Apply(pumps []models.PumpModel, req models.Requirement, tracker *ExclusionTracker) []models.PumpModel {
	flowLo := math.Max(f.cfg.PreFlowMinFrac*req.FlowM3Hr, f.cfg.PreFlowFloor)
	flowHi := f.cfg.PreFlowMaxFrac * req.FlowM3Hr
	headLo := f.cfg.PreHeadMinFrac * req.HeadM
	headHi := f.cfg.PreHeadMaxFrac * req.HeadM

	candidates := make([]models.PumpModel, 0, len(pumps))
	for _, pump := range pumps {
		if reason := f.check(pump, req, flowLo, flowHi, headLo, headHi); reason != "" {
			tracker.Record(models.NewExcluded(pump, reason))
			continue
		}
		candidates = append(candidates, pump)
	}
	return candidates
}

// check returns the reject reason, or "" for a pass. Gate order: pump type,
// BEP flow validity, flow window, head window.
func (f *PreFilter) check(pump models.PumpModel, req models.Requirement, flowLo, flowHi, headLo, headHi float64) string {
	if !req.MatchesPumpType(pump.PumpType) {
		return ReasonPumpTypeMismatch
	}

	bepFlow := pump.Specs.BEPFlowM3Hr
	if bepFlow <= 0 {
		// Invalid data, not a range miss: surfaced distinctly so catalog
		// problems stay visible in the exclusion summary.
		return ReasonInvalidBEPFlow
	}
	if bepFlow < flowLo || bepFlow > flowHi {
		return ReasonFlowOutOfRange
	}

	// Unknown head data (0) does not block evaluation.
	if bepHead := pump.Specs.BEPHeadM; bepHead > 0 && (bepHead < headLo || bepHead > headHi) {
		return ReasonHeadOutOfRange
	}
	return ""
}
