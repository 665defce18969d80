// internal/selection/config.go
package selection

import "fmt"

// Weights is the fixed per-deployment point budget split across score
// components. Contributions are weight × band/100, so totals are directly
// comparable across candidates.
type Weights struct {
	BEPProximity float64 `json:"bepProximity"`
	Efficiency   float64 `json:"efficiency"`
	HeadMargin   float64 `json:"headMargin"`
	NPSHMargin   float64 `json:"npshMargin"`
}

// Total returns the point budget.
func (w Weights) Total() float64 {
	return w.BEPProximity + w.Efficiency + w.HeadMargin + w.NPSHMargin
}

// Config centralizes every threshold of the evaluation pipeline into one
// versioned object. All tuning experiments select or derive a Config; the
// scorer itself is never duplicated.
type Config struct {
	Version string `json:"version"`

	// QBP acceptance band (percent of BEP flow). Outside it a pump is hard
	// excluded before any duty-point work.
	QBPMin float64 `json:"qbpMin"`
	QBPMax float64 `json:"qbpMax"`

	Weights Weights `json:"weights"`

	// NPSHGateEnabled turns the NPSH margin from informational partial
	// credit into a hard feasibility gate (NPSHa < NPSHr excludes).
	NPSHGateEnabled bool `json:"npshGateEnabled"`
	// NPSHUnknownCredit is the band score granted when NPSH data is absent
	// on either side.
	NPSHUnknownCredit float64 `json:"npshUnknownCredit"`

	// Duty-point resolution.
	HeadToleranceFrac float64 `json:"headToleranceFrac"` // exact-flow acceptance, fraction below required head
	FlowDeadbandFrac  float64 `json:"flowDeadbandFrac"`  // alternate-point search window around required flow
	ExtrapolationFrac float64 `json:"extrapolationFrac"` // interpolation reach beyond curve span, fraction of span

	// Pre-filter windows around the requirement.
	PreFlowMinFrac float64 `json:"preFlowMinFrac"`
	PreFlowMaxFrac float64 `json:"preFlowMaxFrac"`
	PreFlowFloor   float64 `json:"preFlowFloor"` // absolute lower bound of the flow window, m3/hr
	PreHeadMinFrac float64 `json:"preHeadMinFrac"`
	PreHeadMaxFrac float64 `json:"preHeadMaxFrac"`

	// Diagnostics.
	MaxNearMisses int `json:"maxNearMisses"`

	// Workers bounds concurrent candidate evaluation; <=1 means sequential.
	// Purely a performance knob, results are identical either way.
	Workers int `json:"workers"`
}

// DefaultConfig is the standard profile: the wide QBP band with NPSH
// informational only.
func DefaultConfig() Config {
	return Config{
		Version:           "standard-v1",
		QBPMin:            50,
		QBPMax:            200,
		Weights:           Weights{BEPProximity: 45, Efficiency: 35, HeadMargin: 20, NPSHMargin: 0},
		NPSHGateEnabled:   false,
		NPSHUnknownCredit: 50,
		HeadToleranceFrac: 0.05,
		FlowDeadbandFrac:  0.10,
		ExtrapolationFrac: 0.10,
		PreFlowMinFrac:    0.4,
		PreFlowMaxFrac:    3.0,
		PreFlowFloor:      5,
		PreHeadMinFrac:    0.3,
		PreHeadMaxFrac:    2.0,
		MaxNearMisses:     20,
		Workers:           1,
	}
}

// TightConfig is the strict profile: narrow QBP band, NPSH weighted and
// gated. Shipped as a preset so both historic tunings stay reproducible.
func TightConfig() Config {
	cfg := DefaultConfig()
	cfg.Version = "tight-v1"
	cfg.QBPMin = 60
	cfg.QBPMax = 130
	cfg.Weights = Weights{BEPProximity: 40, Efficiency: 30, HeadMargin: 15, NPSHMargin: 15}
	cfg.NPSHGateEnabled = true
	return cfg
}

// Validate rejects configurations that would make the pipeline degenerate.
func (c Config) Validate() error {
	if c.QBPMin <= 0 || c.QBPMax <= c.QBPMin {
		return fmt.Errorf("invalid QBP band [%g, %g]", c.QBPMin, c.QBPMax)
	}
	if c.Weights.Total() <= 0 {
		return fmt.Errorf("weights must sum to a positive point budget")
	}
	if c.Weights.BEPProximity < 0 || c.Weights.Efficiency < 0 || c.Weights.HeadMargin < 0 || c.Weights.NPSHMargin < 0 {
		return fmt.Errorf("weights must not be negative")
	}
	if c.HeadToleranceFrac < 0 || c.HeadToleranceFrac >= 1 {
		return fmt.Errorf("head tolerance fraction %g out of range", c.HeadToleranceFrac)
	}
	if c.FlowDeadbandFrac < 0 || c.FlowDeadbandFrac >= 1 {
		return fmt.Errorf("flow deadband fraction %g out of range", c.FlowDeadbandFrac)
	}
	if c.ExtrapolationFrac < 0 || c.ExtrapolationFrac >= 1 {
		return fmt.Errorf("extrapolation fraction %g out of range", c.ExtrapolationFrac)
	}
	if c.PreFlowMinFrac <= 0 || c.PreFlowMaxFrac <= c.PreFlowMinFrac {
		return fmt.Errorf("invalid pre-filter flow window [%g, %g]", c.PreFlowMinFrac, c.PreFlowMaxFrac)
	}
	if c.PreHeadMinFrac <= 0 || c.PreHeadMaxFrac <= c.PreHeadMinFrac {
		return fmt.Errorf("invalid pre-filter head window [%g, %g]", c.PreHeadMinFrac, c.PreHeadMaxFrac)
	}
	if c.MaxNearMisses < 0 {
		return fmt.Errorf("maxNearMisses must not be negative")
	}
	return nil
}
