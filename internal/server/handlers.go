// internal/server/handlers.go
package server

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"pump-selector/internal/cache"
	"pump-selector/internal/common/errors"
	"pump-selector/internal/models"
)

// maxBodyBytes bounds request payloads; selection requests are tiny.
const maxBodyBytes = 64 << 10

// handleSelections ranks the whole catalog against a duty point.
func (s *Server) handleSelections(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		s.writeError(w, errors.NewInsufficientRequirementError("method not allowed"))
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		s.writeError(w, errors.NewInsufficientRequirementError("failed to read request body"))
		return
	}
	if details, ok := s.validateBody(body, selectionRequestSchema); !ok {
		s.writeError(w, errors.NewInsufficientRequirementError(details))
		return
	}

	var req models.Requirement
	if err := json.Unmarshal(body, &req); err != nil {
		s.writeError(w, errors.NewInsufficientRequirementError(err.Error()))
		return
	}

	if s.cache != nil {
		key := cache.Key(s.catalog.Version(), req)
		if result, hit := s.cache.Get(r.Context(), key); hit {
			s.writeJSON(w, http.StatusOK, result)
			return
		}
		result, err := s.engine.Rank(r.Context(), req)
		if err != nil {
			s.writeError(w, err)
			return
		}
		s.cache.Put(r.Context(), key, result)
		s.writeJSON(w, http.StatusOK, result)
		return
	}

	result, err := s.engine.Rank(r.Context(), req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

// handleSubset ranks only the named pumps, skipping the pre-filter. Results
// are never cached: callers use this for interactive comparisons.
func (s *Server) handleSubset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		s.writeError(w, errors.NewInsufficientRequirementError("method not allowed"))
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		s.writeError(w, errors.NewInsufficientRequirementError("failed to read request body"))
		return
	}
	if details, ok := s.validateBody(body, subsetRequestSchema); !ok {
		s.writeError(w, errors.NewInsufficientRequirementError(details))
		return
	}

	var req subsetRequest
	if err := json.Unmarshal(body, &req); err != nil {
		s.writeError(w, errors.NewInsufficientRequirementError(err.Error()))
		return
	}

	evaluations, err := s.engine.RankSubset(r.Context(), req.PumpCodes, req.Criteria)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{"evaluations": evaluations})
}

// handlePumpLookup returns a single catalog entry by pump code.
func (s *Server) handlePumpLookup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		s.writeError(w, errors.NewInsufficientRequirementError("method not allowed"))
		return
	}

	code := strings.TrimPrefix(r.URL.Path, "/api/v1/pumps/")
	if code == "" || strings.Contains(code, "/") {
		s.writeError(w, errors.NewInsufficientRequirementError("pump code is required"))
		return
	}

	pump, ok := s.catalog.PumpByCode(code)
	if !ok {
		s.writeError(w, errors.NewPumpNotFoundError(code))
		return
	}
	s.writeJSON(w, http.StatusOK, pump)
}

// handleHealth reports service and catalog state.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	version := s.catalog.Version()
	status := "ok"
	if version == "" {
		// Serving with no snapshot: rankings are empty, not failing.
		status = "degraded"
	}
	s.writeJSON(w, http.StatusOK, healthResponse{
		Status:         status,
		CatalogVersion: version,
		CatalogPumps:   len(s.catalog.PumpModels()),
		ConfigVersion:  s.engine.Config().Version,
	})
}
