// internal/server/server.go
package server

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"pump-selector/internal/cache"
	"pump-selector/internal/common/errors"
	"pump-selector/internal/common/logger"
	"pump-selector/internal/common/observability"
	"pump-selector/internal/selection"

	"github.com/google/uuid"
	"github.com/xeipuuv/gojsonschema"
)

// Catalog is the catalog view the HTTP surface needs: the engine's provider
// plus the snapshot version that cache keys embed.
type Catalog interface {
	selection.CatalogProvider
	Version() string
}

// Server is the HTTP surface around the selection engine. The engine itself
// performs no I/O; everything transport-shaped lives here.
type Server struct {
	engine  *selection.Engine
	cache   *cache.RankingCache // nil disables caching
	catalog Catalog
	obs     *observability.Observability
	log     logger.Logger
}

// New wires the HTTP surface.
func New(engine *selection.Engine, catalog Catalog, rankingCache *cache.RankingCache, obs *observability.Observability, log logger.Logger) *Server {
	return &Server{
		engine:  engine,
		cache:   rankingCache,
		catalog: catalog,
		obs:     obs,
		log:     log.WithFields(map[string]interface{}{"component": "http-server"}),
	}
}

// Register mounts the API routes on the mux.
func (s *Server) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/v1/selections", s.instrument("/api/v1/selections", s.handleSelections))
	mux.HandleFunc("/api/v1/selections/subset", s.instrument("/api/v1/selections/subset", s.handleSubset))
	mux.HandleFunc("/api/v1/pumps/", s.instrument("/api/v1/pumps/{code}", s.handlePumpLookup))
	mux.HandleFunc("/health", s.instrument("/health", s.handleHealth))
}

// statusRecorder captures the response status for request logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// instrument wraps a handler with request IDs, logging, and request metrics.
func (s *Server) instrument(route string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", requestID)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next(rec, r)

		elapsed := time.Since(start)
		if s.obs != nil {
			s.obs.RecordRequest(r.Context(), route, rec.status, elapsed)
		}
		s.log.Info("request handled", map[string]interface{}{
			"requestId": requestID,
			"method":    r.Method,
			"route":     route,
			"status":    rec.status,
			"elapsedMs": elapsed.Milliseconds(),
		})
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.log.Error("response encoding failed", map[string]interface{}{"error": err.Error()})
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	se := errors.AsSelectionError(err)
	s.writeJSON(w, se.HTTPStatus(), errorResponse{
		Code:    string(se.Code),
		Message: se.Message,
		Details: se.Details,
	})
}

// validateBody checks the payload against a JSON schema and returns
// field-level messages on failure.
func (s *Server) validateBody(body []byte, schema string) (string, bool) {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(schema),
		gojsonschema.NewBytesLoader(body),
	)
	if err != nil {
		return "request body is not valid JSON", false
	}
	if result.Valid() {
		return "", true
	}
	details := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		details = append(details, e.String())
	}
	return strings.Join(details, "; "), false
}
