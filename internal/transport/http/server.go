// Package http exposes the pet matching API over chi.
package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/petalert/petmatch/internal/domain"
	"github.com/petalert/petmatch/internal/usecase/analyze"
	healthuc "github.com/petalert/petmatch/internal/usecase/health"
	indexuc "github.com/petalert/petmatch/internal/usecase/index"
	reportuc "github.com/petalert/petmatch/internal/usecase/report"
	searchuc "github.com/petalert/petmatch/internal/usecase/search"
	"github.com/petalert/petmatch/internal/version"
)

// maxUploadBytes caps multipart image uploads.
const maxUploadBytes = 10 << 20

// Error codes returned in the JSON error body.
const (
	codeBadRequest     = "bad_request"
	codeUnauthorized   = "unauthorized"
	codeReportNotFound = "report_not_found"
	codeDimMismatch    = "embedding_dim_mismatch"
	codeVisionError    = "vision_provider_error"
	codeEmbeddingError = "embedding_provider_error"
	codeInternalError  = "internal_error"
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// SearchDefaults carries the configured fallbacks applied when a search
// request omits the corresponding query parameter.
type SearchDefaults struct {
	RadiusKm      float64
	AutoMatchTopK int
	EmbeddingTopK int
}

// Server routes HTTP requests to the usecase services.
type Server struct {
	reports       *reportuc.Service
	search        *searchuc.Service
	analyze       *analyze.Service
	index         *indexuc.Service
	health        *healthuc.Service
	defaults      SearchDefaults
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	reports *reportuc.Service,
	search *searchuc.Service,
	analyzeSvc *analyze.Service,
	index *indexuc.Service,
	health *healthuc.Service,
	defaults SearchDefaults,
	logger *zap.Logger,
) *Server {
	s := &Server{
		reports:  reports,
		search:   search,
		analyze:  analyzeSvc,
		index:    index,
		health:   health,
		defaults: defaults,
		logger:   logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrReportNotFound, http.StatusNotFound, codeReportNotFound),
		sentinelHandler(domain.ErrInvalidRequest, http.StatusBadRequest, codeBadRequest),
		sentinelHandler(domain.ErrEmptyImage, http.StatusBadRequest, codeBadRequest),
		sentinelHandler(domain.ErrReportHasNoLocation, http.StatusBadRequest, codeBadRequest),
		sentinelHandler(domain.ErrEmbeddingDimMismatch, http.StatusBadRequest, codeDimMismatch),
		sentinelHandler(domain.ErrVisionProviderError, http.StatusBadGateway, codeVisionError),
		sentinelHandler(domain.ErrEmbeddingProviderError, http.StatusBadGateway, codeEmbeddingError),
	}
	return s
}

// Mount registers all API routes on the router.
func (s *Server) Mount(r chi.Router) {
	r.Get("/health", s.handleHealth)
	r.Get("/version", s.handleVersion)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Post("/analyze_image", s.handleAnalyzeImage)
	r.Post("/caption", s.handleCaption)

	r.Post("/ai-search", s.handleAISearch)
	r.Post("/ai-search/similarity", s.handleSimilarity)

	r.Route("/reports", func(r chi.Router) {
		r.Post("/", s.handleCreateReport)
		r.Get("/", s.handleListReports)
		r.Get("/nearby", s.handleNearbyReports)
		r.Get("/auto-match", s.handleAutoMatch)
		r.Get("/{id}", s.handleGetReport)
		r.Patch("/{id}", s.handleUpdateReport)
		r.Delete("/{id}", s.handleDeleteReport)
		r.Post("/{id}/resolve", s.handleResolveReport)
		r.Post("/{id}/labels", s.handleSaveLabels)
	})

	r.Route("/embeddings", func(r chi.Router) {
		r.Post("/index/{id}", s.handleIndexEmbedding)
		r.Post("/search_image", s.handleSearchImage)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	rep := s.health.Check(r.Context())

	status := http.StatusOK
	if rep.Status != healthuc.Healthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, map[string]any{
		"status": rep.Status,
		"checks": rep.Checks,
	})
}

func (s *Server) handleVersion(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"version": version.Version,
		"commit":  version.Commit,
		"date":    version.Date,
	})
}

// --- Helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}

func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrReportNotFound,
		domain.ErrInvalidRequest,
		domain.ErrEmptyImage,
		domain.ErrReportHasNoLocation,
		domain.ErrEmbeddingDimMismatch,
		domain.ErrVisionProviderError,
		domain.ErrEmbeddingProviderError,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}

// readImageFile extracts the uploaded "file" part from a multipart form.
func readImageFile(r *http.Request) ([]byte, string, error) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return nil, "", err
	}
	f, header, err := r.FormFile("file")
	if err != nil {
		return nil, "", err
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxUploadBytes))
	if err != nil {
		return nil, "", err
	}
	return data, header.Filename, nil
}

// queryFloat parses a float query parameter, returning def when absent.
func queryFloat(r *http.Request, name string, def float64) (float64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	return strconv.ParseFloat(raw, 64)
}

// queryInt parses an int query parameter, returning def when absent.
func queryInt(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}

// optionalQueryFloat parses an optional float query parameter, reporting
// whether it was present. Present-but-unparseable is an error, not absence.
func optionalQueryFloat(r *http.Request, name string) (float64, bool, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, false, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false, err
	}
	return v, true, nil
}

// requiredQueryFloat parses a required float query parameter.
func requiredQueryFloat(r *http.Request, name string) (float64, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
