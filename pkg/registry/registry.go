// pkg/registry/registry.go
package registry

import (
	"encoding/json"
	"os"

	"pump-selector/internal/common/errors"
	"pump-selector/internal/selection"
)

// Registry holds named, versioned scoring configurations. Threshold tuning
// is data loaded here, never a second copy of the scorer.
type Registry struct {
	presets map[string]selection.Config
}

// Builtin returns the registry of compiled-in presets: "standard" (wide QBP
// band, NPSH informational) and "tight" (narrow band, NPSH gated).
func Builtin() *Registry {
	return &Registry{presets: map[string]selection.Config{
		"standard": selection.DefaultConfig(),
		"tight":    selection.TightConfig(),
	}}
}

// Load reads a preset document from disk, validates it, and merges it over
// the builtin presets. File presets with builtin names win.
func Load(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewConfigInvalidError(err.Error())
	}
	return Parse(data)
}

// Parse validates and materializes a preset document, merged over builtins.
func Parse(data []byte) (*Registry, error) {
	if err := validateDocument(data); err != nil {
		return nil, err
	}

	var doc presetDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.NewConfigInvalidError(err.Error())
	}

	reg := Builtin()
	for name, preset := range doc.Presets {
		cfg := preset.apply(selection.DefaultConfig())
		if err := cfg.Validate(); err != nil {
			return nil, errors.NewConfigInvalidError(name + ": " + err.Error())
		}
		reg.presets[name] = cfg
	}
	return reg, nil
}

// Config returns the preset by name.
func (r *Registry) Config(name string) (selection.Config, error) {
	cfg, ok := r.presets[name]
	if !ok {
		return selection.Config{}, errors.NewPresetNotFoundError(name)
	}
	return cfg, nil
}

// Names lists the registered preset names.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.presets))
	for name := range r.presets {
		names = append(names, name)
	}
	return names
}
