// Package server exposes the exam actions as a small JSON API.
package server

import (
	"context"
	"errors"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/abhisek/mockexam/internal/app"
	"github.com/abhisek/mockexam/internal/exam"
)

// Config holds server settings.
type Config struct {
	// AccessPassword, when set, must be presented to /api/login before any
	// other route answers.
	AccessPassword string

	// IdleTimeout drops a visitor and its session after this long without
	// a request. Zero means DefaultIdleTimeout.
	IdleTimeout time.Duration
}

// DefaultIdleTimeout is how long an untouched visitor is kept.
const DefaultIdleTimeout = 30 * time.Minute

// Server routes HTTP requests to the application service. Each visitor owns
// one exam session guarded by its own mutex.
type Server struct {
	svc    *app.Service
	cfg    Config
	router *chi.Mux

	now func() time.Time

	mu       sync.Mutex
	visitors map[string]*visitor
}

type visitor struct {
	mu     sync.Mutex
	id     string
	sess   *exam.Session
	authed bool

	// lastSeen is guarded by Server.mu.
	lastSeen time.Time
}

// New creates a Server.
func New(svc *app.Service, cfg Config) *Server {
	if cfg.IdleTimeout <= 0 {
		cfg.IdleTimeout = DefaultIdleTimeout
	}
	s := &Server{
		svc:      svc,
		cfg:      cfg,
		router:   chi.NewRouter(),
		now:      time.Now,
		visitors: make(map[string]*visitor),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(s.identify)
}

func (s *Server) setupRoutes() {
	s.router.Post("/api/login", s.handleLogin)

	s.router.Group(func(r chi.Router) {
		r.Use(s.requireLogin)

		r.Get("/api/status", s.handleStatus)
		r.Post("/api/batch", s.handleBatch)
		r.Post("/api/answer", s.handleAnswer)
		r.Post("/api/next", s.handleNext)
		r.Post("/api/home", s.handleHome)
		r.Get("/api/notes", s.handleListNotes)
		r.Delete("/api/notes", s.handleDeleteNote)
	})
}

// Handler returns the root http.Handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go s.sweepIdle(ctx, max(s.cfg.IdleTimeout/2, time.Second))

	errCh := make(chan error, 1)
	go func() {
		log.Printf("[Server] listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		log.Printf("[Server] shutting down")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}
