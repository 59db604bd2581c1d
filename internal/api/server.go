// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package api serves the JSON search endpoint backed by the knowledge-graph
// store and the summary generator.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/rs/cors"

	"github.com/pdiddy/biokg-search/internal/httputil"
	"github.com/pdiddy/biokg-search/pkg/types"
)

// DefaultMaxTopK caps top_k when the config leaves it unset.
const DefaultMaxTopK = 100

// Engine ranks papers for a query. *kg.Store implements it.
type Engine interface {
	Search(ctx context.Context, query string, topK int) ([]types.SearchResult, error)
}

// Summarizer writes a summary of results. *summary.Generator implements it.
type Summarizer interface {
	Summarize(ctx context.Context, query string, results []types.SearchResult) string
}

// Server handles the search API.
type Server struct {
	engine     Engine
	summarizer Summarizer
	cfg        types.APIConfig
	logger     *slog.Logger
}

// NewServer returns a Server. summarizer may be nil, in which case
// responses carry an empty summary.
func NewServer(engine Engine, summarizer Summarizer, cfg types.APIConfig, logger *slog.Logger) *Server {
	if cfg.MaxTopK <= 0 {
		cfg.MaxTopK = DefaultMaxTopK
	}
	if len(cfg.CORSOrigins) == 0 {
		cfg.CORSOrigins = []string{"*"}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{engine: engine, summarizer: summarizer, cfg: cfg, logger: logger}
}

// Handler returns the routed handler wrapped in recovery, logging, and CORS.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/search", s.handleSearch)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("ok"))
	})

	var h http.Handler = mux
	h = requestLogger(s.logger)(h)
	h = recovery(s.logger)(h)

	c := cors.New(cors.Options{
		AllowedOrigins: s.cfg.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Origin", "Content-Type", "Accept"},
	})
	return c.Handler(h)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req types.SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "Invalid JSON request")
		return
	}
	req.Query = strings.TrimSpace(req.Query)
	if req.TopK == 0 {
		req.TopK = types.DefaultTopK
	}

	if err := s.validate(&req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	s.logger.Info("search request", "query", req.Query, "top_k", req.TopK)

	results, err := s.engine.Search(r.Context(), req.Query, req.TopK)
	if err != nil {
		s.logger.Error("search failed", "query", req.Query, "error", err)
		httputil.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	resp := types.SearchResponse{Results: results}.Normalize()
	if s.summarizer != nil {
		resp.Summary = s.summarizer.Summarize(r.Context(), req.Query, resp.Results)
	}

	s.logger.Info("search completed", "query", req.Query, "results", len(resp.Results))
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (s *Server) validate(req *types.SearchRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Query, validation.Required.Error("Query is required")),
		validation.Field(&req.TopK, validation.Min(1), validation.Max(s.cfg.MaxTopK)),
	)
}

// validationMessage reports the query error alone when there is one, so the
// common case reads "Query is required".
func validationMessage(err error) string {
	var verrs validation.Errors
	if errors.As(err, &verrs) {
		if e, ok := verrs["query"]; ok {
			return e.Error()
		}
		return verrs.Error()
	}
	return err.Error()
}

// recovery turns a handler panic into a 500 response.
func recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.Error("panic recovered", "panic", rec, "method", r.Method, "path", r.URL.Path)
					httputil.WriteError(w, http.StatusInternalServerError, "internal server error")
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)
			logger.Debug("http request",
				"method", r.Method, "path", r.URL.Path,
				"status", rec.status, "duration", time.Since(start))
		})
	}
}
