// internal/models/evaluation.go
package models

// Score component names, stable keys of Evaluation.ScoreComponents.
const (
	ComponentBEPProximity = "bep_proximity"
	ComponentEfficiency   = "efficiency"
	ComponentHeadMargin   = "head_margin"
	ComponentNPSHMargin   = "npsh_margin"
)

// OperatingPoint is the achieved duty of a pump on its selected curve.
// PowerKw and NPSHrM are zero when the curve does not tabulate them.
type OperatingPoint struct {
	FlowM3Hr      float64 `json:"flowM3hr"`
	HeadM         float64 `json:"headM"`
	EfficiencyPct float64 `json:"efficiencyPct"`
	PowerKw       float64 `json:"powerKw,omitempty"`
	NPSHrM        float64 `json:"npshrM,omitempty"`
}

// Evaluation is the per-pump outcome of one ranking call. It is either
// feasible (enters the ranking pool) or excluded with at least one recorded
// reason. Score components survive post-hoc gate failures so near misses stay
// diagnosable.
type Evaluation struct {
	PumpCode         string             `json:"pumpCode"`
	PumpName         string             `json:"pumpName,omitempty"`
	Feasible         bool               `json:"feasible"`
	ExclusionReasons []string           `json:"exclusionReasons,omitempty"`
	ScoreComponents  map[string]float64 `json:"scoreComponents,omitempty"`
	TotalScore       float64            `json:"totalScore"`
	SelectedCurveID  string             `json:"selectedCurveId,omitempty"`
	OperatingPoint   *OperatingPoint    `json:"operatingPoint,omitempty"`
}

// NewExcluded builds an infeasible evaluation for the given pump with one
// initial reason.
func NewExcluded(pump PumpModel, reason string) Evaluation {
	return Evaluation{
		PumpCode:         pump.Code,
		PumpName:         pump.Name,
		Feasible:         false,
		ExclusionReasons: []string{reason},
	}
}

// AddReason appends a reason, keeping the ordered set unique, and marks the
// evaluation infeasible.
func (e *Evaluation) AddReason(reason string) {
	for _, r := range e.ExclusionReasons {
		if r == reason {
			e.Feasible = false
			return
		}
	}
	e.ExclusionReasons = append(e.ExclusionReasons, reason)
	e.Feasible = false
}

// PrimaryReason returns the first recorded exclusion reason, or "" for a
// feasible evaluation. Exclusion summaries count each pump once, under its
// primary reason.
func (e Evaluation) PrimaryReason() string {
	if len(e.ExclusionReasons) == 0 {
		return ""
	}
	return e.ExclusionReasons[0]
}

// PartialScore sums the computed score components regardless of feasibility.
// Near-miss retention orders infeasible evaluations by this value.
func (e Evaluation) PartialScore() float64 {
	sum := 0.0
	for _, v := range e.ScoreComponents {
		sum += v
	}
	return sum
}

// AchievedEfficiency returns the operating point efficiency, or 0 when no
// duty point was resolved. Used as the secondary ranking key.
func (e Evaluation) AchievedEfficiency() float64 {
	if e.OperatingPoint == nil {
		return 0
	}
	return e.OperatingPoint.EfficiencyPct
}

// ExclusionDetails is the optional diagnostic block of a RankingResult.
type ExclusionDetails struct {
	ExcludedPumps    []Evaluation   `json:"excludedPumps"`
	ExclusionSummary map[string]int `json:"exclusionSummary"`
	TotalEvaluated   int            `json:"totalEvaluated"`
	FeasibleCount    int            `json:"feasibleCount"`
	ExcludedCount    int            `json:"excludedCount"`
}

// RankingResult is the outcome of one ranking call: the feasible shortlist,
// sorted by descending total score, plus optional exclusion diagnostics.
type RankingResult struct {
	RankedPumps      []Evaluation      `json:"rankedPumps"`
	ExclusionDetails *ExclusionDetails `json:"exclusionDetails,omitempty"`
}
