package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/Hamed-de0/conduit-dashboard/pkg/history"
	"github.com/Hamed-de0/conduit-dashboard/pkg/snapshot"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
)

// StatsSource is what the server serves: the poller's published
// snapshot and the reloaded history. Both calls are safe concurrently
// with an in-progress collection cycle.
type StatsSource interface {
	Snapshot() snapshot.Fleet
	History() history.Store
	Ready() bool
}

// Server is the dashboard HTTP server.
type Server struct {
	config      *Config
	source      StatsSource
	httpServer  *http.Server
	rateLimiter *rate.Limiter

	mu    sync.RWMutex
	ready bool
}

// New creates a server over the given stats source.
func New(config *Config, source StatsSource) *Server {
	if config == nil {
		config = NewConfig()
	}

	s := &Server{
		config:      config,
		source:      source,
		rateLimiter: rate.NewLimiter(config.RateLimit, config.RateLimitBurst),
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", config.Address, config.Port),
		Handler:      s.setupRoutes(),
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
		IdleTimeout:  config.IdleTimeout,
	}

	return s
}

// setupRoutes configures all HTTP routes and middleware
func (s *Server) setupRoutes() http.Handler {
	mux := http.NewServeMux()

	// System endpoints (no rate limiting)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/ready", s.handleReady)
	mux.Handle("/metrics", promhttp.Handler())

	// Dashboard API endpoints with middleware
	mux.HandleFunc("/api/stats", s.withMiddleware(s.corsMiddleware(s.handleStats)))
	mux.HandleFunc("/api/history", s.withMiddleware(s.corsMiddleware(s.handleHistory)))

	return mux
}

// SetReady marks the server as ready to serve traffic
func (s *Server) SetReady(ready bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ready = ready
}

// isReady reports whether both the server and the stats source are
// ready; /ready answers 503 until the first collection cycle lands.
func (s *Server) isReady() bool {
	s.mu.RLock()
	ready := s.ready
	s.mu.RUnlock()
	return ready && s.source.Ready()
}

// Start serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	s.SetReady(true)

	slog.Info("starting http server", "addr", s.httpServer.Addr)

	errChan := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		return s.Shutdown(context.Background())
	case err := <-errChan:
		return err
	}
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.SetReady(false)

	shutdownCtx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()

	slog.Info("shutting down http server")
	return s.httpServer.Shutdown(shutdownCtx)
}
