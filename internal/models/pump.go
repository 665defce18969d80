// internal/models/pump.go
package models

// PumpSpecs holds the nameplate specification fields of a pump model.
// A zero value means the field was not present in the catalog source.
type PumpSpecs struct {
	BEPFlowM3Hr   float64 `json:"bepFlowM3hr"`
	BEPHeadM      float64 `json:"bepHeadM"`
	MaxImpellerMM float64 `json:"maxImpellerMm"`
	MinImpellerMM float64 `json:"minImpellerMm"`
	MaxPowerKw    float64 `json:"maxPowerKw"`
	MaxFlowM3Hr   float64 `json:"maxFlowM3hr"`
	MaxHeadM      float64 `json:"maxHeadM"`
}

// PerformancePoint is one tabulated point of a performance curve.
// PowerKw and NPSHrM are optional in catalog data; zero means "not tabulated".
type PerformancePoint struct {
	FlowM3Hr      float64 `json:"flowM3hr"`
	HeadM         float64 `json:"headM"`
	EfficiencyPct float64 `json:"efficiencyPct"`
	PowerKw       float64 `json:"powerKw,omitempty"`
	NPSHrM        float64 `json:"npshrM,omitempty"`
}

// PerformanceCurve is an ordered-by-flow sequence of performance points for
// one impeller diameter or speed. Flows must be strictly increasing; a curve
// needs at least two points to be usable for interpolation.
type PerformanceCurve struct {
	ID     string             `json:"id"` // impeller diameter or speed label
	Points []PerformancePoint `json:"points"`
}

// Usable reports whether the curve satisfies the interpolation invariants:
// at least two points, flows strictly increasing.
func (c PerformanceCurve) Usable() bool {
	if len(c.Points) < 2 {
		return false
	}
	for i := 1; i < len(c.Points); i++ {
		if c.Points[i].FlowM3Hr <= c.Points[i-1].FlowM3Hr {
			return false
		}
	}
	return true
}

// MaxHead returns the maximum tabulated head across the curve's points.
func (c PerformanceCurve) MaxHead() float64 {
	max := 0.0
	for _, p := range c.Points {
		if p.HeadM > max {
			max = p.HeadM
		}
	}
	return max
}

// PumpModel is one catalog entry. It is owned by the catalog collaborator and
// supplied read-only; the selection engine never mutates it.
type PumpModel struct {
	Code     string             `json:"code"` // unique key
	Name     string             `json:"name"`
	PumpType string             `json:"pumpType"`
	Specs    PumpSpecs          `json:"specs"`
	Curves   []PerformanceCurve `json:"curves"`
}
