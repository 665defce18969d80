// internal/selection/tracker.go
package selection

import (
	"sort"

	"pump-selector/internal/models"
)

// ExclusionTracker aggregates diagnostics for infeasible evaluations: a
// reason→count summary (each pump counted once, under its primary reason)
// and a bounded list of near misses, the infeasible candidates with the
// highest partial score components. Purely diagnostic; it never influences
// ranking output.
//
// A tracker is not safe for concurrent use: worker-pool evaluation keeps one
// tracker per worker and merges the partials.
type ExclusionTracker struct {
	summary       map[string]int
	nearMisses    []models.Evaluation
	excludedCount int
	maxNearMisses int
}

// NewExclusionTracker builds a tracker retaining at most maxNearMisses
// candidates.
func NewExclusionTracker(maxNearMisses int) *ExclusionTracker {
	return &ExclusionTracker{
		summary:       make(map[string]int),
		maxNearMisses: maxNearMisses,
	}
}

// Record accumulates one infeasible evaluation. Feasible evaluations are
// ignored.
func (t *ExclusionTracker) Record(eval models.Evaluation) {
	if eval.Feasible || len(eval.ExclusionReasons) == 0 {
		return
	}
	t.excludedCount++
	t.summary[eval.PrimaryReason()]++

	t.nearMisses = append(t.nearMisses, eval)
	t.sortNearMisses()
	if len(t.nearMisses) > t.maxNearMisses {
		t.nearMisses = t.nearMisses[:t.maxNearMisses]
	}
}

// Merge folds another tracker's accumulation into this one. Merging partial
// per-worker trackers yields the same state as sequential recording.
func (t *ExclusionTracker) Merge(other *ExclusionTracker) {
	if other == nil {
		return
	}
	t.excludedCount += other.excludedCount
	for reason, n := range other.summary {
		t.summary[reason] += n
	}
	t.nearMisses = append(t.nearMisses, other.nearMisses...)
	t.sortNearMisses()
	if len(t.nearMisses) > t.maxNearMisses {
		t.nearMisses = t.nearMisses[:t.maxNearMisses]
	}
}

// ExcludedCount returns how many evaluations were recorded.
func (t *ExclusionTracker) ExcludedCount() int {
	return t.excludedCount
}

// Details materializes the diagnostic block of a ranking result.
func (t *ExclusionTracker) Details(totalEvaluated, feasibleCount int) *models.ExclusionDetails {
	summary := make(map[string]int, len(t.summary))
	for reason, n := range t.summary {
		summary[reason] = n
	}
	excluded := make([]models.Evaluation, len(t.nearMisses))
	copy(excluded, t.nearMisses)
	return &models.ExclusionDetails{
		ExcludedPumps:    excluded,
		ExclusionSummary: summary,
		TotalEvaluated:   totalEvaluated,
		FeasibleCount:    feasibleCount,
		ExcludedCount:    t.excludedCount,
	}
}

// sortNearMisses orders by partial score descending, pump code ascending on
// ties, keeping retention deterministic regardless of recording order.
func (t *ExclusionTracker) sortNearMisses() {
	sort.SliceStable(t.nearMisses, func(i, j int) bool {
		a, b := t.nearMisses[i], t.nearMisses[j]
		if a.PartialScore() != b.PartialScore() {
			return a.PartialScore() > b.PartialScore()
		}
		return a.PumpCode < b.PumpCode
	})
}
