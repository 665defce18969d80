// internal/models/requirement.go
package models

import (
	"fmt"
	"strings"
)

// DefaultMaxResults caps the ranked shortlist when the caller does not ask
// for a specific length.
const DefaultMaxResults = 5

// PumpTypeAny is the wildcard sentinel: a requirement carrying it (or an
// empty pump type) matches every pump type.
const PumpTypeAny = "general"

// Requirement is the duty point a caller wants satisfied, plus optional
// constraints. It is immutable for the duration of a ranking call.
// Optional numeric fields use zero to mean "not specified".
type Requirement struct {
	FlowM3Hr          float64 `json:"flowM3hr"`
	HeadM             float64 `json:"headM"`
	NPSHAvailableM    float64 `json:"npshAvailableM,omitempty"`
	MaxPowerKw        float64 `json:"maxPowerKw,omitempty"`
	PumpType          string  `json:"pumpType,omitempty"`
	MaxResults        int     `json:"maxResults,omitempty"`
	IncludeExclusions bool    `json:"includeExclusions,omitempty"`
}

// Validate checks the mandatory duty point fields.
func (r Requirement) Validate() error {
	if r.FlowM3Hr <= 0 {
		return fmt.Errorf("flow must be positive, got %g", r.FlowM3Hr)
	}
	if r.HeadM <= 0 {
		return fmt.Errorf("head must be positive, got %g", r.HeadM)
	}
	if r.MaxResults < 0 {
		return fmt.Errorf("maxResults must not be negative, got %d", r.MaxResults)
	}
	return nil
}

// EffectiveMaxResults resolves the shortlist length, applying the default.
func (r Requirement) EffectiveMaxResults() int {
	if r.MaxResults <= 0 {
		return DefaultMaxResults
	}
	return r.MaxResults
}

// WantsPumpType reports whether the requirement restricts pump type, i.e. the
// field is neither empty nor the wildcard sentinel.
func (r Requirement) WantsPumpType() bool {
	t := strings.TrimSpace(r.PumpType)
	return t != "" && !strings.EqualFold(t, PumpTypeAny)
}

// MatchesPumpType is the case-insensitive type equality test used by the
// pre-filter gate. Always true when the requirement does not restrict type.
func (r Requirement) MatchesPumpType(pumpType string) bool {
	if !r.WantsPumpType() {
		return true
	}
	return strings.EqualFold(strings.TrimSpace(r.PumpType), strings.TrimSpace(pumpType))
}
