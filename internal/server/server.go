package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/pagelens/pagelens/internal/pipeline"
)

// Server timeouts. The write timeout leaves headroom for both fetch
// tiers plus enrichment on one request.
const (
	readTimeout     = 15 * time.Second
	writeTimeout    = 2 * time.Minute
	idleTimeout     = 60 * time.Second
	shutdownTimeout = 10 * time.Second
)

// PipelineFactory creates a fresh pipeline per request so no per-run
// state leaks between requests.
type PipelineFactory func() *pipeline.Pipeline

// Server is the HTTP front end of the extraction pipeline.
type Server struct {
	httpServer      *http.Server
	pipelineFactory PipelineFactory
	logger          *slog.Logger
	version         string
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithVersion sets the version string reported by the health endpoint.
func WithVersion(version string) Option {
	return func(s *Server) {
		s.version = version
	}
}

// New creates a Server listening on addr.
func New(addr string, factory PipelineFactory, opts ...Option) *Server {
	s := &Server{
		pipelineFactory: factory,
		version:         "dev",
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = slog.Default()
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/extract", s.handleExtract)
	mux.HandleFunc("GET /api/v1/formats", s.handleFormats)
	mux.HandleFunc("GET /healthz", s.handleHealth)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}

	return s
}

// Run starts the server and blocks until the context is cancelled,
// then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		s.logger.Info("server listening", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
