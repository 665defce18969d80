// test/e2e/e2e_test.go
package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pump-selector/internal/cache"
	"pump-selector/internal/catalog"
	"pump-selector/internal/common/logger"
	"pump-selector/internal/models"
	"pump-selector/internal/selection"
	"pump-selector/internal/server"
	"pump-selector/pkg/registry"
)

// startService wires the full stack the way main does: file-backed catalog
// store, preset registry, engine, ranking cache over miniredis, HTTP surface.
func startService(t *testing.T, preset string) (*httptest.Server, *catalog.FileStore) {
	t.Helper()
	log := logger.NewTestLogger(t)

	store := catalog.NewFileStore("testdata/catalog.json", log)
	require.NoError(t, store.Refresh(context.Background()))

	cfg, err := registry.Builtin().Config(preset)
	require.NoError(t, err)

	engine, err := selection.NewEngine(store, cfg, log)
	require.NoError(t, err)

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	rankingCache := cache.New(client, time.Minute, log)

	mux := http.NewServeMux()
	server.New(engine, store, rankingCache, nil, log).Register(mux)
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts, store
}

func rank(t *testing.T, ts *httptest.Server, payload string) models.RankingResult {
	t.Helper()
	resp, err := http.Post(ts.URL+"/api/v1/selections", "application/json",
		bytes.NewBufferString(payload))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result models.RankingResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	return result
}

func TestEndToEnd_SelectionFlow(t *testing.T) {
	ts, _ := startService(t, "standard")

	result := rank(t, ts, `{"flowM3hr": 1500, "headM": 30, "includeExclusions": true}`)

	// CP-100-200 serves the duty on its full impeller; the submersible and
	// the broken-BEP pump land in exclusions.
	require.Len(t, result.RankedPumps, 1)
	top := result.RankedPumps[0]
	assert.Equal(t, "CP-100-200", top.PumpCode)
	assert.Equal(t, "219", top.SelectedCurveID)
	require.NotNil(t, top.OperatingPoint)
	assert.InDelta(t, 1500.0, top.OperatingPoint.FlowM3Hr, 1e-9)
	assert.InDelta(t, 32.0, top.OperatingPoint.HeadM, 1e-9)
	assert.Positive(t, top.TotalScore)

	require.NotNil(t, result.ExclusionDetails)
	assert.Equal(t, 3, result.ExclusionDetails.TotalEvaluated)
	assert.Equal(t, 1, result.ExclusionDetails.FeasibleCount)
	assert.Equal(t, 2, result.ExclusionDetails.ExcludedCount)
	assert.Equal(t, 1, result.ExclusionDetails.ExclusionSummary["Invalid BEP flow data"])
}

func TestEndToEnd_TypeRestriction(t *testing.T) {
	ts, _ := startService(t, "standard")

	result := rank(t, ts, `{"flowM3hr": 90, "headM": 20, "pumpType": "submersible"}`)
	require.Len(t, result.RankedPumps, 1)
	assert.Equal(t, "SP-50-160", result.RankedPumps[0].PumpCode)
}

func TestEndToEnd_SubsetComparison(t *testing.T) {
	ts, _ := startService(t, "standard")

	resp, err := http.Post(ts.URL+"/api/v1/selections/subset", "application/json",
		bytes.NewBufferString(`{"pumpCodes": ["CP-100-200", "SP-50-160"], "criteria": {"flowM3hr": 1500, "headM": 30}}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var payload struct {
		Evaluations []models.Evaluation `json:"evaluations"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	require.Len(t, payload.Evaluations, 2)
	assert.Equal(t, "CP-100-200", payload.Evaluations[0].PumpCode)
	assert.True(t, payload.Evaluations[0].Feasible)
	assert.False(t, payload.Evaluations[1].Feasible, "small submersible cannot serve 1500 m3/hr")
}

func TestEndToEnd_RepeatRequestServedFromCache(t *testing.T) {
	ts, store := startService(t, "standard")

	first := rank(t, ts, `{"flowM3hr": 1500, "headM": 30}`)
	require.Len(t, first.RankedPumps, 1)

	// File snapshots version by document, so a re-read of the same file
	// keeps cached entries valid and the repeat request hits the cache.
	versionBefore := store.Version()
	require.NoError(t, store.Refresh(context.Background()))
	require.Equal(t, versionBefore, store.Version())

	second := rank(t, ts, `{"flowM3hr": 1500, "headM": 30}`)
	assert.Equal(t, first.RankedPumps, second.RankedPumps)
}

func TestEndToEnd_HealthReflectsCatalog(t *testing.T) {
	ts, _ := startService(t, "standard")

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var health struct {
		Status         string `json:"status"`
		CatalogVersion string `json:"catalogVersion"`
		CatalogPumps   int    `json:"catalogPumps"`
		ConfigVersion  string `json:"configVersion"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, "fixture-v1", health.CatalogVersion)
	assert.Equal(t, 3, health.CatalogPumps)
	assert.Equal(t, "standard-v1", health.ConfigVersion)
}
