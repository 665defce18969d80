// internal/catalog/snapshot.go
package catalog

import (
	"time"

	"pump-selector/internal/models"
)

// Snapshot is an immutable, versioned view of the pump catalog. Ranking
// calls hold one snapshot for their whole pass; a refresh builds a new
// snapshot and swaps it in, so an in-flight call never observes a
// half-updated catalog.
type Snapshot struct {
	version  string
	loadedAt time.Time
	pumps    []models.PumpModel
	byCode   map[string]int
}

// NewSnapshot builds a snapshot over the given pumps. The slice is copied;
// callers may reuse theirs.
func NewSnapshot(version string, pumps []models.PumpModel) *Snapshot {
	owned := make([]models.PumpModel, len(pumps))
	copy(owned, pumps)
	byCode := make(map[string]int, len(owned))
	for i, p := range owned {
		byCode[p.Code] = i
	}
	return &Snapshot{
		version:  version,
		loadedAt: time.Now().UTC(),
		pumps:    owned,
		byCode:   byCode,
	}
}

// Version identifies the snapshot; cache keys embed it so stale entries die
// with their catalog generation.
func (s *Snapshot) Version() string {
	return s.version
}

// LoadedAt reports when the snapshot was materialized.
func (s *Snapshot) LoadedAt() time.Time {
	return s.loadedAt
}

// PumpModels returns the catalog's ordered pump models.
func (s *Snapshot) PumpModels() []models.PumpModel {
	return s.pumps
}

// PumpByCode looks up one pump by its unique code.
func (s *Snapshot) PumpByCode(code string) (models.PumpModel, bool) {
	i, ok := s.byCode[code]
	if !ok {
		return models.PumpModel{}, false
	}
	return s.pumps[i], true
}

// Len returns the number of pump models.
func (s *Snapshot) Len() int {
	return len(s.pumps)
}
