// internal/server/models.go
package server

import "pump-selector/internal/selection"

// subsetRequest is the payload of POST /api/v1/selections/subset.
type subsetRequest struct {
	PumpCodes []string               `json:"pumpCodes"`
	Criteria  selection.DutyCriteria `json:"criteria"`
}

// errorResponse is the uniform error body.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// healthResponse reports service and catalog state.
type healthResponse struct {
	Status         string `json:"status"`
	CatalogVersion string `json:"catalogVersion,omitempty"`
	CatalogPumps   int    `json:"catalogPumps"`
	ConfigVersion  string `json:"configVersion"`
}

// selectionRequestSchema validates ranking payloads before they reach the
// engine, so malformed requests fail with field-level messages instead of a
// generic decode error.
const selectionRequestSchema = `{
	"type": "object",
	"required": ["flowM3hr", "headM"],
	"additionalProperties": false,
	"properties": {
		"flowM3hr": {"type": "number", "exclusiveMinimum": 0},
		"headM": {"type": "number", "exclusiveMinimum": 0},
		"npshAvailableM": {"type": "number", "minimum": 0},
		"maxPowerKw": {"type": "number", "minimum": 0},
		"pumpType": {"type": "string"},
		"maxResults": {"type": "integer", "minimum": 1, "maximum": 50},
		"includeExclusions": {"type": "boolean"}
	}
}`

// subsetRequestSchema validates subset ranking payloads.
const subsetRequestSchema = `{
	"type": "object",
	"required": ["pumpCodes", "criteria"],
	"additionalProperties": false,
	"properties": {
		"pumpCodes": {
			"type": "array",
			"minItems": 1,
			"items": {"type": "string", "minLength": 1}
		},
		"criteria": {
			"type": "object",
			"required": ["flowM3hr", "headM"],
			"properties": {
				"flowM3hr": {"type": "number", "exclusiveMinimum": 0},
				"headM": {"type": "number", "exclusiveMinimum": 0}
			}
		}
	}
}`
