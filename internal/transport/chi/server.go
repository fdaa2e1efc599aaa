package chi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/imwes/linkfinder/internal/domain"
	"github.com/imwes/linkfinder/internal/domain/reference"
	"github.com/imwes/linkfinder/internal/domain/selection"
	healthuc "github.com/imwes/linkfinder/internal/usecase/health"
)

// maxBodyBytes bounds the search request body.
const maxBodyBytes = 64 << 10

// searcher is the search use case seen by the API.
type searcher interface {
	Catalog(ctx context.Context) (domain.Catalog, error)
	Search(ctx context.Context, catalog domain.Catalog, sel *selection.State) []reference.Reference
}

// healthChecker aggregates component health.
type healthChecker interface {
	Check(ctx context.Context) healthuc.Report
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error) bool

// Server serves the read-only search API.
type Server struct {
	search        searcher
	health        healthChecker
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(search searcher, health healthChecker, logger *zap.Logger) *Server {
	s := &Server{
		search: search,
		health: health,
		logger: logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrCatalogUnavailable, http.StatusServiceUnavailable, ErrorCodeCatalogUnavailable),
		remoteCallHandler,
	}
	return s
}

// Routes registers the API on r.
func (s *Server) Routes(r chi.Router) {
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/months", s.ListMonths)
		r.Post("/search", s.Search)
	})
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, ErrorCodeBadRequest, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, ErrorCodeBadRequest, "method not allowed")
	})
}

// ListMonths handles GET /api/v1/months.
func (s *Server) ListMonths(w http.ResponseWriter, r *http.Request) {
	catalog, err := s.search.Catalog(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	months := catalog.Months()
	items := make([]MonthItem, len(months))
	for i, m := range months {
		items[i] = MonthItem{Label: m, ID: catalog[m]}
	}
	writeJSON(w, http.StatusOK, MonthListResponse{Items: items, Total: len(items)})
}

// Search handles POST /api/v1/search.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	sel, err := selectionFromRequest(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, err.Error())
		return
	}

	catalog, err := s.search.Catalog(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	refs := s.search.Search(r.Context(), catalog, sel)
	items := make([]ReferenceItem, len(refs))
	for i, ref := range refs {
		items[i] = ReferenceItem{Title: ref.Title, URL: ref.URL, Markdown: ref.String()}
	}
	writeJSON(w, http.StatusOK, SearchResponse{Items: items, Total: len(items)})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}
	writeJSON(w, httpStatus, HealthResponse{Status: string(report.Status), Checks: checks})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func selectionFromRequest(req SearchRequest) (*selection.State, error) {
	sel := selection.New()
	for _, m := range req.Months {
		if strings.TrimSpace(m) == "" {
			return nil, errors.New("month must not be empty")
		}
		sel.Set(domain.MonthCategory, m)
	}
	for category, labels := range req.Tags {
		if category == domain.MonthCategory {
			return nil, fmt.Errorf("%q is reserved, use months", domain.MonthCategory)
		}
		for _, l := range labels {
			sel.Set(category, l)
		}
	}
	return sel, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, sentinel.Error())
		return true
	}
}

// remoteCallHandler maps document store failures to 502 without leaking upstream bodies.
func remoteCallHandler(w http.ResponseWriter, err error) bool {
	var rce *domain.RemoteCallError
	if !errors.As(err, &rce) {
		return false
	}
	msg := fmt.Sprintf("document store %s failed", rce.Operation)
	if rce.Status != 0 {
		msg = fmt.Sprintf("%s with status %d", msg, rce.Status)
	}
	writeError(w, http.StatusBadGateway, ErrorCodeDocumentStoreError, msg)
	return true
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	for _, h := range s.errorHandlers {
		if h(w, err) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, ErrorCodeInternalError, "internal error")
}
