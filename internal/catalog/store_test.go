// internal/catalog/store_test.go
package catalog

import (
	"context"
	"fmt"
	"testing"

	"pump-selector/internal/common/errors"
	"pump-selector/internal/common/logger"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

func pumpColumns() []string {
	return []string{
		"code", "name", "pump_type",
		"bep_flow_m3hr", "bep_head_m",
		"max_impeller_mm", "min_impeller_mm",
		"max_power_kw", "max_flow_m3hr", "max_head_m",
	}
}

func curveColumns() []string {
	return []string{"pump_code", "curve_id", "flow_m3hr", "head_m", "efficiency_pct", "power_kw", "npshr_m"}
}

// ==========================
// Refresh Tests
// ==========================

func TestStore_Refresh(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("FROM pump_models").WillReturnRows(
		sqlmock.NewRows(pumpColumns()).
			AddRow("CP-100-200", "CP 100-200", "centrifugal", 1600.0, 30.0, 219.0, 180.0, 160.0, 2200.0, 42.0).
			AddRow("SP-50-160", "SP 50-160", "submersible", 90.0, 22.0, 160.0, 140.0, 0.0, 140.0, 30.0))

	mock.ExpectQuery("FROM performance_curves").WillReturnRows(
		sqlmock.NewRows(curveColumns()).
			AddRow("CP-100-200", "219", 500.0, 40.0, 55.0, 60.0, 2.0).
			AddRow("CP-100-200", "219", 1000.0, 36.0, 72.0, 95.0, 2.5).
			AddRow("CP-100-200", "200", 500.0, 33.0, 52.0, 0.0, 0.0).
			AddRow("CP-100-200", "200", 1000.0, 29.0, 69.0, 0.0, 0.0).
			AddRow("SP-50-160", "160", 40.0, 28.0, 48.0, 0.0, 0.0).
			AddRow("SP-50-160", "160", 90.0, 22.0, 66.0, 0.0, 0.0))

	store := NewStore(db, logger.NewTestLogger(t))
	require.NoError(t, store.Refresh(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())

	assert.NotEmpty(t, store.Version())
	require.Len(t, store.PumpModels(), 2)

	pump, ok := store.PumpByCode("CP-100-200")
	require.True(t, ok)
	require.Len(t, pump.Curves, 2, "consecutive rows group into curves")
	assert.Equal(t, "219", pump.Curves[0].ID)
	assert.Len(t, pump.Curves[0].Points, 2)
	assert.Equal(t, "200", pump.Curves[1].ID)
	assert.InDelta(t, 2.5, pump.Curves[0].Points[1].NPSHrM, 1e-9)
	assert.Zero(t, pump.Curves[1].Points[0].PowerKw, "COALESCE maps NULL power to zero")
}

func TestStore_Refresh_OrphanedCurveRowsSkipped(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("FROM pump_models").WillReturnRows(
		sqlmock.NewRows(pumpColumns()).
			AddRow("A", "Pump A", "centrifugal", 100.0, 20.0, 0.0, 0.0, 0.0, 0.0, 0.0))

	mock.ExpectQuery("FROM performance_curves").WillReturnRows(
		sqlmock.NewRows(curveColumns()).
			AddRow("GHOST", "x", 10.0, 5.0, 40.0, 0.0, 0.0).
			AddRow("A", "c1", 50.0, 25.0, 55.0, 0.0, 0.0).
			AddRow("A", "c1", 100.0, 20.0, 62.0, 0.0, 0.0))

	store := NewStore(db, logger.NewTestLogger(t))
	require.NoError(t, store.Refresh(context.Background()))

	pump, ok := store.PumpByCode("A")
	require.True(t, ok)
	require.Len(t, pump.Curves, 1)
	assert.Len(t, pump.Curves[0].Points, 2)
}

func TestStore_Refresh_QueryFailure(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("FROM pump_models").WillReturnError(fmt.Errorf("connection reset"))

	store := NewStore(db, logger.NewTestLogger(t))
	err = store.Refresh(context.Background())
	require.Error(t, err)

	selErr := errors.AsSelectionError(err)
	assert.Equal(t, errors.ErrCodeCatalogLoadFailed, selErr.Code)
	assert.True(t, selErr.Retryable)

	// No snapshot was swapped in.
	assert.Empty(t, store.Version())
	assert.Empty(t, store.PumpModels())
}

func TestStore_Refresh_SwapsWholeSnapshot(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("FROM pump_models").WillReturnRows(
		sqlmock.NewRows(pumpColumns()).
			AddRow("A", "Pump A", "centrifugal", 100.0, 20.0, 0.0, 0.0, 0.0, 0.0, 0.0))
	mock.ExpectQuery("FROM performance_curves").WillReturnRows(sqlmock.NewRows(curveColumns()))

	store := NewStore(db, logger.NewTestLogger(t))
	require.NoError(t, store.Refresh(context.Background()))
	firstVersion := store.Version()

	// Second refresh drops pump A and adds pump B.
	mock.ExpectQuery("FROM pump_models").WillReturnRows(
		sqlmock.NewRows(pumpColumns()).
			AddRow("B", "Pump B", "centrifugal", 200.0, 25.0, 0.0, 0.0, 0.0, 0.0, 0.0))
	mock.ExpectQuery("FROM performance_curves").WillReturnRows(sqlmock.NewRows(curveColumns()))

	require.NoError(t, store.Refresh(context.Background()))
	assert.NotEqual(t, firstVersion, store.Version())

	_, ok := store.PumpByCode("A")
	assert.False(t, ok, "replaced snapshot does not leak old pumps")
	_, ok = store.PumpByCode("B")
	assert.True(t, ok)
}
