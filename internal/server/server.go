// Package server wires the reference document backend: a passive,
// versioned store of one snapshot document per account.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/iudanet/bakesync/internal/server/handlers"
	"github.com/iudanet/bakesync/internal/server/middleware"
	"github.com/iudanet/bakesync/pkg/api"
)

// Options configure the HTTP handler tree
type Options struct {
	Storage     handlers.DocumentStorage
	DB          handlers.Pinger
	Limiter     *middleware.RateLimiter // nil отключает ограничение
	Version     string
	JWT         handlers.JWTConfig
	MaxBodySize int64
}

// NewRouter builds the handler tree:
//
//	GET  /api/v1/health    (no auth)
//	GET  /api/v1/snapshot  (bearer JWT)
//	PUT  /api/v1/snapshot  (bearer JWT, If-Match / If-None-Match: *)
func NewRouter(logger *slog.Logger, opts Options) http.Handler {
	health := handlers.NewHealthHandler(logger, opts.DB, opts.Version)
	snapshot := handlers.NewSnapshotHandler(logger, opts.Storage, opts.MaxBodySize)

	var protected http.Handler = http.HandlerFunc(snapshot.HandleSnapshot)
	if opts.Limiter != nil {
		protected = middleware.RateLimitMiddleware(opts.Limiter, logger)(protected)
	}
	protected = middleware.RecordAccount(protected)
	protected = middleware.AuthMiddleware(logger, opts.JWT)(protected)

	mux := http.NewServeMux()
	mux.HandleFunc("GET "+api.HealthPath, health.Health)
	mux.Handle(api.SnapshotPath, protected)

	var root http.Handler = mux
	root = middleware.LoggingMiddleware(logger, api.HealthPath)(root)
	root = middleware.RecoveryMiddleware(logger)(root)
	return root
}

// Server is an HTTP server with graceful shutdown
type Server struct {
	httpServer      *http.Server
	logger          *slog.Logger
	shutdownTimeout time.Duration
}

// New creates a server listening on addr
func New(addr string, handler http.Handler, logger *slog.Logger, shutdownTimeout time.Duration) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       time.Minute,
			WriteTimeout:      time.Minute,
			IdleTimeout:       2 * time.Minute,
			ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelWarn),
		},
		logger:          logger,
		shutdownTimeout: shutdownTimeout,
	}
}

// Run serves until ctx is cancelled, then drains in-flight requests
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.httpServer.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	errC := make(chan error, 1)
	go func() {
		s.logger.Info("Server started", "addr", ln.Addr().String())
		errC <- s.httpServer.Serve(ln)
	}()

	select {
	case err := <-errC:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down server", "timeout", s.shutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	<-errC
	return nil
}
