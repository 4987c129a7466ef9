// Package server exposes tornado charts over HTTP.
//
// Two styles of use are supported:
//
//   - one-shot rendering: POST /api/v1/render with data, settings and
//     options returns a single artifact
//   - interactive sessions: POST /api/v1/charts creates a chart session;
//     clicks, resizes and renders then address it by its UUID
//
// Sessions are stored in a [session.Store]. The server rebuilds the Visual
// from the stored state on every request and serializes read-modify-write
// cycles with a mutex.
package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/tornado/pkg/pipeline"
	"github.com/matzehuels/tornado/pkg/session"
	"github.com/matzehuels/tornado/pkg/tornado/text"
)

// Defaults for [Config].
const (
	DefaultAddr        = ":8080"
	DefaultMaxBodySize = 8 << 20
	shutdownTimeout    = 10 * time.Second
)

// Config configures a [Server].
type Config struct {
	Addr        string
	Runner      *pipeline.Runner
	Store       session.Store
	SessionTTL  time.Duration
	MaxBodySize int64
	Logger      *log.Logger

	// Measurer sizes labels of session charts. The default is the
	// embedded face, falling back to [text.Approx].
	Measurer text.Measurer
}

// Server is the HTTP API.
type Server struct {
	cfg      Config
	router   chi.Router
	measurer text.Measurer

	// mu serializes session updates so concurrent clicks on one chart
	// apply in order.
	mu sync.Mutex
}

// New creates a server, filling unset config fields with defaults.
func New(cfg Config) *Server {
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.Logger == nil {
		cfg.Logger = log.New(io.Discard)
	}
	if cfg.Runner == nil {
		cfg.Runner = pipeline.NewRunner(nil, nil, cfg.Logger)
	}
	if cfg.Store == nil {
		cfg.Store = session.NewMemoryStore()
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = session.DefaultTTL
	}
	if cfg.MaxBodySize <= 0 {
		cfg.MaxBodySize = DefaultMaxBodySize
	}
	s := &Server{cfg: cfg, measurer: cfg.Measurer}
	if s.measurer == nil {
		ms, err := pipeline.NewMeasurer(pipeline.MeasurerFace)
		if err != nil {
			cfg.Logger.Warn("font unavailable, approximating label widths", "err", err)
			ms = text.Approx{}
		}
		s.measurer = ms
	}
	s.router = s.routes()
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.observe)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)
	r.Get("/version", s.handleVersion)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/render", s.handleRender)

		r.Route("/charts", func(r chi.Router) {
			r.Post("/", s.handleCreateChart)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetChart)
				r.Delete("/", s.handleDeleteChart)
				r.Post("/click", s.handleClick)
				r.Put("/viewport", s.handleResize)
				r.Get("/settings/{object}", s.handleSettings)
				r.Get("/tooltip/{column}", s.handleTooltip)
				r.Get("/render/{format}", s.handleRenderChart)
			})
		})
	})
	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
// Expired sessions are swept every hour.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go s.sweep(ctx, time.Hour)

	errCh := make(chan error, 1)
	go func() {
		s.cfg.Logger.Info("listening", "addr", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.cfg.Logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) sweep(ctx context.Context, every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if err := s.cfg.Store.Cleanup(ctx); err != nil {
				s.cfg.Logger.Warn("session cleanup failed", "err", err)
			}
		}
	}
}
