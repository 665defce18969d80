// internal/catalog/store.go
package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"sync/atomic"
	"time"

	"pump-selector/internal/common/errors"
	"pump-selector/internal/common/logger"
	"pump-selector/internal/common/metrics"
	"pump-selector/internal/models"
)

const (
	queryPumps = `
		SELECT code, name, pump_type,
		       bep_flow_m3hr, bep_head_m,
		       max_impeller_mm, min_impeller_mm,
		       max_power_kw, max_flow_m3hr, max_head_m
		FROM pump_models
		ORDER BY code`

	queryCurvePoints = `
		SELECT c.pump_code, c.curve_id,
		       p.flow_m3hr, p.head_m, p.efficiency_pct,
		       COALESCE(p.power_kw, 0), COALESCE(p.npshr_m, 0)
		FROM performance_curves c
		JOIN performance_points p ON p.curve_pk = c.pk
		ORDER BY c.pump_code, c.position, p.flow_m3hr`
)

// Store serves catalog snapshots loaded from PostgreSQL. Refresh builds a
// complete new snapshot before atomically swapping it in.
type Store struct {
	db      *sql.DB
	log     logger.Logger
	current atomic.Pointer[Snapshot]
}

// NewStore creates a store over an open database handle. Call Refresh before
// serving.
func NewStore(db *sql.DB, log logger.Logger) *Store {
	return &Store{
		db:  db,
		log: log.WithFields(map[string]interface{}{"component": "catalog-store"}),
	}
}

// Refresh loads the whole catalog and swaps the active snapshot.
func (s *Store) Refresh(ctx context.Context) error {
	start := time.Now()
	pumps, err := s.loadPumps(ctx)
	if err != nil {
		metrics.CatalogRefreshes.WithLabelValues("error").Inc()
		return errors.NewCatalogLoadFailedError(err)
	}

	snapshot := NewSnapshot(fmt.Sprintf("pg-%d", time.Now().UnixNano()), pumps)
	s.current.Store(snapshot)

	metrics.CatalogRefreshes.WithLabelValues("ok").Inc()
	metrics.CatalogPumps.Set(float64(snapshot.Len()))
	s.log.Info("catalog snapshot refreshed", map[string]interface{}{
		"pumps":     snapshot.Len(),
		"version":   snapshot.Version(),
		"elapsedMs": time.Since(start).Milliseconds(),
	})
	return nil
}

// Snapshot returns the active snapshot, or nil before the first refresh.
func (s *Store) Snapshot() *Snapshot {
	return s.current.Load()
}

// PumpModels implements selection.CatalogProvider. Before the first refresh
// it returns an empty catalog; the engine treats that as a signal, not an
// error.
func (s *Store) PumpModels() []models.PumpModel {
	snap := s.current.Load()
	if snap == nil {
		return nil
	}
	return snap.PumpModels()
}

// PumpByCode implements selection.CatalogProvider.
func (s *Store) PumpByCode(code string) (models.PumpModel, bool) {
	snap := s.current.Load()
	if snap == nil {
		return models.PumpModel{}, false
	}
	return snap.PumpByCode(code)
}

// Version returns the active snapshot version, or "" before the first
// refresh.
func (s *Store) Version() string {
	snap := s.current.Load()
	if snap == nil {
		return ""
	}
	return snap.Version()
}

func (s *Store) loadPumps(ctx context.Context) ([]models.PumpModel, error) {
	rows, err := s.db.QueryContext(ctx, queryPumps)
	if err != nil {
		return nil, fmt.Errorf("query pump models: %w", err)
	}
	defer rows.Close()

	var pumps []models.PumpModel
	index := make(map[string]int)
	for rows.Next() {
		var p models.PumpModel
		if err := rows.Scan(
			&p.Code, &p.Name, &p.PumpType,
			&p.Specs.BEPFlowM3Hr, &p.Specs.BEPHeadM,
			&p.Specs.MaxImpellerMM, &p.Specs.MinImpellerMM,
			&p.Specs.MaxPowerKw, &p.Specs.MaxFlowM3Hr, &p.Specs.MaxHeadM,
		); err != nil {
			return nil, fmt.Errorf("scan pump model: %w", err)
		}
		index[p.Code] = len(pumps)
		pumps = append(pumps, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pump models: %w", err)
	}

	if err := s.loadCurves(ctx, pumps, index); err != nil {
		return nil, err
	}
	return pumps, nil
}

func (s *Store) loadCurves(ctx context.Context, pumps []models.PumpModel, index map[string]int) error {
	rows, err := s.db.QueryContext(ctx, queryCurvePoints)
	if err != nil {
		return fmt.Errorf("query curve points: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			pumpCode string
			curveID  string
			point    models.PerformancePoint
		)
		if err := rows.Scan(
			&pumpCode, &curveID,
			&point.FlowM3Hr, &point.HeadM, &point.EfficiencyPct,
			&point.PowerKw, &point.NPSHrM,
		); err != nil {
			return fmt.Errorf("scan curve point: %w", err)
		}

		i, ok := index[pumpCode]
		if !ok {
			// Orphaned curve rows are a data problem, not a load failure.
			s.log.Warn("curve point references unknown pump", map[string]interface{}{
				"pumpCode": pumpCode,
				"curveId":  curveID,
			})
			continue
		}

		pump := &pumps[i]
		if n := len(pump.Curves); n == 0 || pump.Curves[n-1].ID != curveID {
			pump.Curves = append(pump.Curves, models.PerformanceCurve{ID: curveID})
		}
		last := &pump.Curves[len(pump.Curves)-1]
		last.Points = append(last.Points, point)
	}
	return rows.Err()
}
