// internal/selection/engine.go
package selection

import (
	"context"
	"fmt"
	"sort"
	"time"

	"pump-selector/internal/common/errors"
	"pump-selector/internal/common/logger"
	"pump-selector/internal/common/metrics"
	"pump-selector/internal/models"

	"golang.org/x/sync/errgroup"
)

// CatalogProvider is the read-only catalog collaborator the engine consumes.
// Implementations must serve an immutable snapshot: a refresh must swap the
// whole snapshot, never mutate one mid-flight.
type CatalogProvider interface {
	PumpModels() []models.PumpModel
	PumpByCode(code string) (models.PumpModel, bool)
}

// DutyCriteria is the reduced duty point accepted by RankSubset.
type DutyCriteria struct {
	FlowM3Hr float64 `json:"flowM3hr"`
	HeadM    float64 `json:"headM"`
}

// Engine ranks catalog pumps against a duty point. It is explicitly
// constructed from its catalog collaborator and a versioned configuration;
// there is no hidden global state, and a constructed engine is safe for
// concurrent ranking calls.
type Engine struct {
	catalog   CatalogProvider
	cfg       Config
	prefilter *PreFilter
	resolver  *DutyPointResolver
	scorer    *Scorer
	log       logger.Logger

	// onEvaluate, when set, observes each pump entering full evaluation.
	// Test hook: lets tests assert pre-filtered pumps never reach scoring.
	onEvaluate func(pumpCode string)
}

// NewEngine validates the configuration and wires the pipeline.
func NewEngine(catalog CatalogProvider, cfg Config, log logger.Logger) (*Engine, error) {
	if catalog == nil {
		return nil, fmt.Errorf("catalog provider is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid selection config: %w", err)
	}
	scorer := NewScorer(cfg)
	return &Engine{
		catalog:   catalog,
		cfg:       cfg,
		prefilter: NewPreFilter(cfg),
		resolver:  NewDutyPointResolver(cfg, scorer),
		scorer:    scorer,
		log:       log.WithFields(map[string]interface{}{"component": "selection-engine", "configVersion": cfg.Version}),
	}, nil
}

// Config returns the engine's configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// Rank evaluates the whole catalog against the requirement and returns the
// feasible shortlist plus, when requested, the exclusion trail. An empty or
// unavailable catalog yields an empty result, never an error.
func (e *Engine) Rank(ctx context.Context, req models.Requirement) (*models.RankingResult, error) {
	if err := req.Validate(); err != nil {
		metrics.SelectionsTotal.WithLabelValues("invalid_request").Inc()
		return nil, errors.NewInsufficientRequirementError(err.Error())
	}

	start := time.Now()
	pumps := e.catalog.PumpModels()
	if len(pumps) == 0 {
		e.log.Warn("ranking against empty catalog", map[string]interface{}{
			"flow": req.FlowM3Hr,
			"head": req.HeadM,
		})
		metrics.SelectionsTotal.WithLabelValues("empty_catalog").Inc()
		return &models.RankingResult{RankedPumps: []models.Evaluation{}}, nil
	}

	tracker := NewExclusionTracker(e.cfg.MaxNearMisses)
	candidates := e.prefilter.Apply(pumps, req, tracker)
	evaluations := e.evaluateAll(ctx, candidates, req, tracker)

	feasible := make([]models.Evaluation, 0, len(evaluations))
	for _, eval := range evaluations {
		if eval.Feasible {
			feasible = append(feasible, eval)
		}
	}
	sortRanked(feasible)
	// Diagnostics report feasibility, not shortlist length: count before
	// the max-results truncation.
	feasibleCount := len(feasible)
	if max := req.EffectiveMaxResults(); len(feasible) > max {
		feasible = feasible[:max]
	}

	result := &models.RankingResult{RankedPumps: feasible}
	if req.IncludeExclusions {
		result.ExclusionDetails = tracker.Details(len(pumps), feasibleCount)
	}

	e.observe(req, len(pumps), feasibleCount, tracker, time.Since(start))
	return result, nil
}

// RankSubset evaluates only the named pumps against the criteria, skipping
// the pre-filter. Unknown codes come back as excluded evaluations rather
// than failing the call. The result is ordered feasible-first, then by the
// ranking order.
func (e *Engine) RankSubset(ctx context.Context, pumpCodes []string, criteria DutyCriteria) ([]models.Evaluation, error) {
	req := models.Requirement{FlowM3Hr: criteria.FlowM3Hr, HeadM: criteria.HeadM}
	if err := req.Validate(); err != nil {
		return nil, errors.NewInsufficientRequirementError(err.Error())
	}

	evaluations := make([]models.Evaluation, 0, len(pumpCodes))
	for _, code := range pumpCodes {
		pump, found := e.catalog.PumpByCode(code)
		if !found {
			evaluations = append(evaluations, models.Evaluation{
				PumpCode:         code,
				Feasible:         false,
				ExclusionReasons: []string{ReasonEvaluationError("pump not found in catalog")},
			})
			continue
		}
		evaluations = append(evaluations, e.evaluatePump(pump, req))
	}

	sort.SliceStable(evaluations, func(i, j int) bool {
		a, b := evaluations[i], evaluations[j]
		if a.Feasible != b.Feasible {
			return a.Feasible
		}
		return rankedLess(a, b)
	})
	return evaluations, nil
}

// evaluateAll runs full evaluation over the candidates, recording infeasible
// outcomes on the tracker. With Workers > 1 candidates are dispatched to a
// bounded pool; per-worker trackers are merged afterwards, so results are
// identical to the sequential pass.
func (e *Engine) evaluateAll(ctx context.Context, pumps []models.PumpModel, req models.Requirement, tracker *ExclusionTracker) []models.Evaluation {
	out := make([]models.Evaluation, len(pumps))

	workers := e.cfg.Workers
	if workers <= 1 || len(pumps) <= workers {
		for i, pump := range pumps {
			out[i] = e.evaluatePump(pump, req)
			tracker.Record(out[i])
		}
		return out
	}

	chunk := (len(pumps) + workers - 1) / workers
	partials := make([]*ExclusionTracker, 0, workers)
	g, _ := errgroup.WithContext(ctx)
	for lo := 0; lo < len(pumps); lo += chunk {
		lo := lo
		hi := lo + chunk
		if hi > len(pumps) {
			hi = len(pumps)
		}
		partial := NewExclusionTracker(e.cfg.MaxNearMisses)
		partials = append(partials, partial)
		g.Go(func() error {
			for i := lo; i < hi; i++ {
				out[i] = e.evaluatePump(pumps[i], req)
				partial.Record(out[i])
			}
			return nil
		})
	}
	// Workers never return errors; evaluation failures become exclusions.
	_ = g.Wait()
	for _, partial := range partials {
		tracker.Merge(partial)
	}
	return out
}

// evaluatePump runs the gate sequence for one candidate: QBP, duty-point
// feasibility, scoring, then the explicit external constraints. Any panic
// from malformed data is caught at this boundary and converted into an
// exclusion so one bad pump never aborts the batch.
func (e *Engine) evaluatePump(pump models.PumpModel, req models.Requirement) (eval models.Evaluation) {
	defer func() {
		if r := recover(); r != nil {
			e.log.Error("pump evaluation failed", map[string]interface{}{
				"pumpCode": pump.Code,
				"panic":    r,
			})
			eval = models.NewExcluded(pump, ReasonEvaluationError(fmt.Sprint(r)))
		}
	}()

	if e.onEvaluate != nil {
		e.onEvaluate(pump.Code)
	}

	qbp, ok := e.scorer.QBP(pump, req)
	if !ok {
		return models.NewExcluded(pump, ReasonInvalidBEPFlow)
	}
	if !e.scorer.QBPInBand(qbp) {
		// Hard exclude, short-circuits scoring.
		return models.NewExcluded(pump, ReasonQBPOutsideRange)
	}

	if len(pump.Curves) == 0 {
		return models.NewExcluded(pump, ReasonEvaluationError("pump has no performance curves"))
	}

	duty, feasible, dataOK := e.resolver.Resolve(pump, req)
	if !feasible {
		if !dataOK {
			return models.NewExcluded(pump, ReasonInvalidPerfData)
		}
		eval = models.NewExcluded(pump, ReasonCannotMeetDuty)
		// BEP proximity is known even without a duty point; retaining it
		// keeps near-miss ordering meaningful.
		eval.ScoreComponents = map[string]float64{
			models.ComponentBEPProximity: e.cfg.Weights.BEPProximity * e.scorer.BEPProximityScore(qbp) / 100,
		}
		return eval
	}

	components, total := e.scorer.Components(qbp, duty.Point, req)
	point := duty.Point
	eval = models.Evaluation{
		PumpCode:        pump.Code,
		PumpName:        pump.Name,
		Feasible:        true,
		ScoreComponents: components,
		TotalScore:      total,
		SelectedCurveID: duty.CurveID,
		OperatingPoint:  &point,
	}

	// Post-hoc external constraint gates: violations flip feasibility and
	// append a reason but keep the computed components.
	if req.MaxPowerKw > 0 && point.PowerKw > 0 && point.PowerKw > req.MaxPowerKw {
		eval.AddReason(ReasonPowerExceeded)
	}
	if e.cfg.NPSHGateEnabled && req.NPSHAvailableM > 0 && point.NPSHrM > 0 && req.NPSHAvailableM < point.NPSHrM {
		eval.AddReason(ReasonNPSHInsufficient)
	}
	return eval
}

func (e *Engine) observe(req models.Requirement, total, feasible int, tracker *ExclusionTracker, elapsed time.Duration) {
	metrics.SelectionsTotal.WithLabelValues("ok").Inc()
	metrics.PumpsEvaluated.Add(float64(total))
	for reason, n := range tracker.summary {
		metrics.ExclusionsTotal.WithLabelValues(reason).Add(float64(n))
	}
	metrics.SelectionDuration.Observe(elapsed.Seconds())

	e.log.Info("ranking completed", map[string]interface{}{
		"flow":      req.FlowM3Hr,
		"head":      req.HeadM,
		"evaluated": total,
		"feasible":  feasible,
		"excluded":  tracker.ExcludedCount(),
		"elapsedMs": elapsed.Milliseconds(),
	})
}

// sortRanked orders feasible evaluations for the shortlist. The tie-break is
// explicit and total: total score descending, then achieved efficiency
// descending, then pump code ascending. Pump codes are unique, so output
// order is deterministic regardless of catalog iteration order.
func sortRanked(evals []models.Evaluation) {
	sort.SliceStable(evals, func(i, j int) bool {
		return rankedLess(evals[i], evals[j])
	})
}

func rankedLess(a, b models.Evaluation) bool {
	if a.TotalScore != b.TotalScore {
		return a.TotalScore > b.TotalScore
	}
	if a.AchievedEfficiency() != b.AchievedEfficiency() {
		return a.AchievedEfficiency() > b.AchievedEfficiency()
	}
	return a.PumpCode < b.PumpCode
}
