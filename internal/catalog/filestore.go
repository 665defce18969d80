// internal/catalog/filestore.go
package catalog

import (
	"context"
	"sync/atomic"

	"pump-selector/internal/common/logger"
	"pump-selector/internal/common/metrics"
	"pump-selector/internal/models"
)

// FileStore serves catalog snapshots from a JSON document on disk, with the
// same swap-on-refresh semantics as the database-backed Store. Used for
// bootstrap deployments and local development without PostgreSQL.
type FileStore struct {
	path    string
	log     logger.Logger
	current atomic.Pointer[Snapshot]
}

// NewFileStore creates a file-backed store. Call Refresh before serving.
func NewFileStore(path string, log logger.Logger) *FileStore {
	return &FileStore{
		path: path,
		log:  log.WithFields(map[string]interface{}{"component": "catalog-filestore", "path": path}),
	}
}

// Refresh re-reads and validates the document, swapping the snapshot on
// success and keeping the previous one on failure.
func (s *FileStore) Refresh(_ context.Context) error {
	snapshot, err := LoadFile(s.path)
	if err != nil {
		metrics.CatalogRefreshes.WithLabelValues("error").Inc()
		return err
	}
	s.current.Store(snapshot)
	metrics.CatalogRefreshes.WithLabelValues("ok").Inc()
	metrics.CatalogPumps.Set(float64(snapshot.Len()))
	s.log.Info("catalog snapshot refreshed", map[string]interface{}{
		"pumps":   snapshot.Len(),
		"version": snapshot.Version(),
	})
	return nil
}

// PumpModels implements selection.CatalogProvider.
func (s *FileStore) PumpModels() []models.PumpModel {
	snap := s.current.Load()
	if snap == nil {
		return nil
	}
	return snap.PumpModels()
}

// PumpByCode implements selection.CatalogProvider.
func (s *FileStore) PumpByCode(code string) (models.PumpModel, bool) {
	snap := s.current.Load()
	if snap == nil {
		return models.PumpModel{}, false
	}
	return snap.PumpByCode(code)
}

// Version returns the active snapshot version, or "" before the first
// refresh.
func (s *FileStore) Version() string {
	snap := s.current.Load()
	if snap == nil {
		return ""
	}
	return snap.Version()
}
