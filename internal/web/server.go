// Package web provides the HTTP API for the bulk link importer.
package web

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/zaeemsc/openshortlink-sub000/internal/config"
	"github.com/zaeemsc/openshortlink-sub000/internal/history"
	"github.com/zaeemsc/openshortlink-sub000/internal/importer"
	"github.com/zaeemsc/openshortlink-sub000/internal/metrics"
	"github.com/zaeemsc/openshortlink-sub000/internal/web/middleware"
)

// Server is the HTTP server for the importer API.
type Server struct {
	service     *importer.Service
	history     *history.Store // nil when run history is disabled
	maxFileSize int64
	router      *chi.Mux
	server      *http.Server
}

// NewServer wires routes and middleware. hist may be nil.
func NewServer(service *importer.Service, hist *history.Store, cfg *config.Config) *Server {
	s := &Server{
		service:     service,
		history:     hist,
		maxFileSize: cfg.Import.MaxFileSize,
		router:      chi.NewRouter(),
	}
	s.setupMiddleware()
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      s.router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(chimw.RequestID)
	s.router.Use(chimw.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Metrics)
	s.router.Use(chimw.Recoverer)
	s.router.Use(chimw.Compress(5))
}

func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)
	s.router.Method(http.MethodGet, "/metrics", metrics.Handler())

	s.router.Route("/api", func(r chi.Router) {
		r.Post("/preview", s.handlePreview)
		r.Post("/import", s.handleStartImport)

		r.Route("/import/{runID}", func(r chi.Router) {
			r.Get("/progress", s.handleProgress)
			r.Get("/result", s.handleResult)
			r.Post("/cancel", s.handleCancel)
			r.Get("/failed-rows", s.handleFailedRows)
		})

		if s.history != nil {
			r.Get("/runs", s.handleListRuns)
			r.Get("/runs/{runID}", s.handleGetRun)
		}
	})
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start runs the server until it is shut down.
func (s *Server) Start() error {
	return s.server.ListenAndServe()
}

// Shutdown drains in-flight requests and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}
