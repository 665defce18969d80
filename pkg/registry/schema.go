// pkg/registry/schema.go
package registry

import (
	"strings"

	"pump-selector/internal/common/errors"
	"pump-selector/internal/selection"

	"github.com/xeipuuv/gojsonschema"
)

// presetSchema validates preset documents before they override scoring
// behavior. Every field is optional; omitted fields keep their default.
const presetSchema = `{
	"type": "object",
	"required": ["presets"],
	"properties": {
		"presets": {
			"type": "object",
			"additionalProperties": {
				"type": "object",
				"properties": {
					"version": {"type": "string", "minLength": 1},
					"qbpMin": {"type": "number", "minimum": 0},
					"qbpMax": {"type": "number", "minimum": 0},
					"weights": {
						"type": "object",
						"properties": {
							"bepProximity": {"type": "number", "minimum": 0},
							"efficiency": {"type": "number", "minimum": 0},
							"headMargin": {"type": "number", "minimum": 0},
							"npshMargin": {"type": "number", "minimum": 0}
						}
					},
					"npshGateEnabled": {"type": "boolean"},
					"workers": {"type": "integer", "minimum": 1}
				}
			}
		}
	}
}`

// presetDocument is the on-disk shape of a preset registry file.
type presetDocument struct {
	Presets map[string]preset `json:"presets"`
}

// preset overrides a subset of selection.Config. Pointer fields distinguish
// "absent" from zero.
type preset struct {
	Version         *string            `json:"version"`
	QBPMin          *float64           `json:"qbpMin"`
	QBPMax          *float64           `json:"qbpMax"`
	Weights         *selection.Weights `json:"weights"`
	NPSHGateEnabled *bool              `json:"npshGateEnabled"`
	Workers         *int               `json:"workers"`
}

// apply overlays the preset onto a base configuration.
func (p preset) apply(base selection.Config) selection.Config {
	if p.Version != nil {
		base.Version = *p.Version
	}
	if p.QBPMin != nil {
		base.QBPMin = *p.QBPMin
	}
	if p.QBPMax != nil {
		base.QBPMax = *p.QBPMax
	}
	if p.Weights != nil {
		base.Weights = *p.Weights
	}
	if p.NPSHGateEnabled != nil {
		base.NPSHGateEnabled = *p.NPSHGateEnabled
	}
	if p.Workers != nil {
		base.Workers = *p.Workers
	}
	return base
}

func validateDocument(data []byte) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(presetSchema),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return errors.NewConfigInvalidError(err.Error())
	}
	if !result.Valid() {
		details := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			details = append(details, e.String())
		}
		return errors.NewConfigInvalidError(strings.Join(details, "; "))
	}
	return nil
}
