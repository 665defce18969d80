// internal/catalog/file.go
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"pump-selector/internal/common/errors"
	"pump-selector/internal/models"

	"github.com/xeipuuv/gojsonschema"
)

// catalogSchema validates catalog documents before they are trusted. The
// engine tolerates bad per-pump data, but a structurally broken document
// should fail the load, loudly.
const catalogSchema = `{
	"type": "object",
	"required": ["version", "pumps"],
	"properties": {
		"version": {"type": "string", "minLength": 1},
		"pumps": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["code", "name"],
				"properties": {
					"code": {"type": "string", "minLength": 1},
					"name": {"type": "string"},
					"pumpType": {"type": "string"},
					"specs": {
						"type": "object",
						"properties": {
							"bepFlowM3hr": {"type": "number"},
							"bepHeadM": {"type": "number"},
							"maxImpellerMm": {"type": "number"},
							"minImpellerMm": {"type": "number"},
							"maxPowerKw": {"type": "number"}
						}
					},
					"curves": {
						"type": "array",
						"items": {
							"type": "object",
							"required": ["id", "points"],
							"properties": {
								"id": {"type": "string", "minLength": 1},
								"points": {
									"type": "array",
									"items": {
										"type": "object",
										"required": ["flowM3hr", "headM", "efficiencyPct"],
										"properties": {
											"flowM3hr": {"type": "number"},
											"headM": {"type": "number"},
											"efficiencyPct": {"type": "number", "minimum": 0, "maximum": 100},
											"powerKw": {"type": "number"},
											"npshrM": {"type": "number"}
										}
									}
								}
							}
						}
					}
				}
			}
		}
	}
}`

// catalogDocument is the on-disk shape of a JSON catalog.
type catalogDocument struct {
	Version string             `json:"version"`
	Pumps   []models.PumpModel `json:"pumps"`
}

// LoadFile reads, validates, and materializes a JSON catalog document as a
// snapshot. Used for bootstrap catalogs and test fixtures.
func LoadFile(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewCatalogLoadFailedError(err)
	}
	return LoadJSON(data)
}

// LoadJSON validates and materializes a JSON catalog document.
func LoadJSON(data []byte) (*Snapshot, error) {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(catalogSchema),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return nil, errors.NewCatalogLoadFailedError(err)
	}
	if !result.Valid() {
		details := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			details = append(details, e.String())
		}
		return nil, errors.NewCatalogInvalidError(strings.Join(details, "; "))
	}

	var doc catalogDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.NewCatalogLoadFailedError(err)
	}

	seen := make(map[string]bool, len(doc.Pumps))
	for _, p := range doc.Pumps {
		if seen[p.Code] {
			return nil, errors.NewCatalogInvalidError(fmt.Sprintf("duplicate pump code %q", p.Code))
		}
		seen[p.Code] = true
	}

	return NewSnapshot(doc.Version, doc.Pumps), nil
}
