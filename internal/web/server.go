// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package web serves the search page. Each browser session gets its own
// ui.Controller; the page re-polls while that controller has a search in
// flight.
package web

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"math"
	"net/http"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/pdiddy/biokg-search/internal/ui"
	"github.com/pdiddy/biokg-search/pkg/types"
)

//go:embed assets
var assets embed.FS

// SessionCookie names the cookie that carries the session id.
const SessionCookie = "biokg_session"

// Defaults applied by NewServer.
const (
	DefaultMaxSessions     = 1024
	DefaultRefreshInterval = time.Second
)

// ControllerFactory builds the controller for a new session.
type ControllerFactory func() *ui.Controller

// Server renders the search page.
type Server struct {
	tmpl       *template.Template
	static     fs.FS
	sessions   *lru.Cache[string, *ui.Controller]
	newSession ControllerFactory
	cfg        types.UIConfig
	logger     *slog.Logger
}

// NewServer parses the embedded templates and sets up the session cache.
func NewServer(factory ControllerFactory, cfg types.UIConfig, logger *slog.Logger) (*Server, error) {
	if cfg.MaxSessions <= 0 {
		cfg.MaxSessions = DefaultMaxSessions
	}
	if cfg.RefreshInterval <= 0 {
		cfg.RefreshInterval = DefaultRefreshInterval
	}
	if logger == nil {
		logger = slog.Default()
	}

	tmpl, err := template.ParseFS(assets, "assets/templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}

	static, err := subDir(assets, "assets/static")
	if err != nil {
		return nil, fmt.Errorf("loading static assets: %w", err)
	}

	sessions, err := lru.NewWithEvict(cfg.MaxSessions, func(id string, _ *ui.Controller) {
		logger.Debug("session evicted", "session", id)
	})
	if err != nil {
		return nil, fmt.Errorf("creating session cache: %w", err)
	}

	return &Server{
		tmpl:       tmpl,
		static:     static,
		sessions:   sessions,
		newSession: factory,
		cfg:        cfg,
		logger:     logger,
	}, nil
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("POST /search", s.handleSearch)
	mux.HandleFunc("POST /reset", s.handleReset)
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(s.static)))
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("ok"))
	})
	return mux
}

// subDir returns fsys rooted at dir. Unlike fs.Sub it fails when dir is
// missing or not a directory.
func subDir(fsys fs.FS, dir string) (fs.FS, error) {
	info, err := fs.Stat(fsys, dir)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", dir)
	}
	return fs.Sub(fsys, dir)
}

type pageData struct {
	View    ui.View
	Refresh int
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	c := s.session(w, r)

	var buf bytes.Buffer
	err := s.tmpl.ExecuteTemplate(&buf, "page", pageData{
		View:    c.View(),
		Refresh: int(math.Ceil(s.cfg.RefreshInterval.Seconds())),
	})
	if err != nil {
		s.logger.Error("rendering page", "error", err)
		http.Error(w, "error rendering page", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	buf.WriteTo(w)
}

// handleSearch starts the search and redirects back to the page, which
// shows the loading state until the request settles.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	c := s.session(w, r)
	query := r.FormValue("query")

	s.logger.Info("search submitted", "query", query)
	c.SubmitAsync(context.WithoutCancel(r.Context()), query)

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.session(w, r).Reset()
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// session returns the controller for the request's session, starting a new
// session when the cookie is missing or has been evicted.
func (s *Server) session(w http.ResponseWriter, r *http.Request) *ui.Controller {
	if cookie, err := r.Cookie(SessionCookie); err == nil {
		if c, ok := s.sessions.Get(cookie.Value); ok {
			return c
		}
	}

	id := uuid.NewString()
	c := s.newSession()
	s.sessions.Add(id, c)
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	s.logger.Debug("session started", "session", id)
	return c
}

// Sessions returns the number of live sessions.
func (s *Server) Sessions() int { return s.sessions.Len() }
