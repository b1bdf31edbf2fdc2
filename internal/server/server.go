// Package server exposes the status API and the live progress feed.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	jsoniter "github.com/json-iterator/go"

	"github.com/rickgao/totals-data/internal/enrich"
	"github.com/rickgao/totals-data/internal/progress"
	"github.com/rickgao/totals-data/internal/version"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// StatusSource reports the most recent enrichment run.
type StatusSource interface {
	LastSummary() (enrich.Summary, bool)
}

// Server serves /health, /status and /ws.
type Server struct {
	addr   string
	status StatusSource
	hub    *progress.Hub
	logger *slog.Logger

	router chi.Router
	srv    *http.Server
	wg     sync.WaitGroup
}

// New creates a Server. hub may be nil to disable the progress feed.
func New(addr string, status StatusSource, hub *progress.Hub, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		addr:   addr,
		status: status,
		hub:    hub,
		logger: logger,
	}
	s.router = s.routes()
	return s
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)

	r.Group(func(r chi.Router) {
		r.Use(requestLogger(s.logger))
		r.Use(chimiddleware.Timeout(10 * time.Second))

		r.Get("/health", s.handleHealth)
		r.Get("/status", s.handleStatus)
	})

	if s.hub != nil {
		r.Handle("/ws", s.hub.Handler())
	}

	return r
}

// Start listens on addr and serves in the background.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}

	s.srv = &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("status server failed", "error", err)
		}
	}()

	s.logger.Info("status server started", "addr", ln.Addr().String())
	return nil
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}

	err := s.srv.Shutdown(ctx)
	s.wg.Wait()

	s.logger.Info("status server stopped")
	return err
}

type healthResponse struct {
	Status    string    `json:"status"`
	Version   string    `json:"version"`
	Commit    string    `json:"commit"`
	Timestamp time.Time `json:"timestamp"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, healthResponse{
		Status:    "healthy",
		Version:   version.Version,
		Commit:    version.Commit,
		Timestamp: time.Now().UTC(),
	})
}

type statusResponse struct {
	LastRun  *enrich.Summary    `json:"last_run"`
	Progress *progress.HubStats `json:"progress,omitempty"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	var resp statusResponse

	if s.status != nil {
		if sum, ok := s.status.LastSummary(); ok {
			resp.LastRun = &sum
		}
	}
	if s.hub != nil {
		stats := s.hub.Stats()
		resp.Progress = &stats
	}

	respondJSON(w, http.StatusOK, resp)
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// requestLogger logs each request at debug level.
func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			logger.Debug("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", chimiddleware.GetReqID(r.Context()),
			)
		})
	}
}
