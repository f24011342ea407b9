// Package server exposes the analysis engine over HTTP.
//
// Analyses run one at a time behind a weighted semaphore of size one. A
// request that cannot acquire it before its deadline gets 503 Service
// Unavailable.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/agbru/bigocalc/internal/analysis"
	"github.com/agbru/bigocalc/internal/candidates"
	"github.com/agbru/bigocalc/internal/config"
	"github.com/agbru/bigocalc/internal/logging"
	"github.com/agbru/bigocalc/internal/metrics"
)

// Config holds the server settings.
type Config struct {
	Addr string
	// AnalysisTimeout bounds one analysis, queueing included.
	AnalysisTimeout time.Duration
	// DefaultPlan is used when a request names neither sizes nor a plan.
	DefaultPlan string
	// ConfidenceThreshold gates the lowConfidence response field.
	ConfidenceThreshold int

	ReadHeaderTimeout time.Duration
	ShutdownTimeout   time.Duration
}

// ConfigFrom derives the server settings from the application config.
func ConfigFrom(cfg config.AppConfig) Config {
	return Config{
		Addr:                cfg.Addr,
		AnalysisTimeout:     cfg.Timeout,
		DefaultPlan:         cfg.Sizes,
		ConfidenceThreshold: cfg.ConfidenceThreshold,
		ReadHeaderTimeout:   5 * time.Second,
		ShutdownTimeout:     10 * time.Second,
	}
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger; the default discards everything.
func WithLogger(l logging.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithMetrics sets the metrics registry served on /metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Server) { s.metrics = m }
}

// WithSecurityConfig overrides DefaultSecurityConfig.
func WithSecurityConfig(sc SecurityConfig) Option {
	return func(s *Server) { s.security = sc }
}

// Server serves the analysis API.
type Server struct {
	registry *candidates.Registry
	analyzer *analysis.Analyzer
	cfg      Config
	security SecurityConfig
	sem      *semaphore.Weighted
	metrics  *metrics.Metrics
	logger   logging.Logger
}

// New creates a server for the candidates in registry.
func New(registry *candidates.Registry, analyzer *analysis.Analyzer, cfg Config, opts ...Option) *Server {
	s := &Server{
		registry: registry,
		analyzer: analyzer,
		cfg:      cfg,
		security: DefaultSecurityConfig(),
		sem:      semaphore.NewWeighted(1),
		logger:   logging.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.metrics == nil {
		s.metrics = metrics.New()
	}
	return s
}

// Handler returns the routed handler with every middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/candidates", s.wrap(s.handleCandidates))
	mux.HandleFunc("/api/analyze", s.wrap(s.handleAnalyze))
	mux.HandleFunc("/health", s.wrap(s.handleHealth))
	mux.HandleFunc("/metrics", s.wrap(s.handleMetrics))
	return mux
}

func (s *Server) wrap(h http.HandlerFunc) http.HandlerFunc {
	return SecurityMiddleware(s.security, s.metricsMiddleware(h))
}

// Start serves on the configured address until ctx is done, then shuts
// down gracefully.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.cfg.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Start on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: s.cfg.ReadHeaderTimeout,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("server listening", logging.String("addr", ln.Addr().String()))
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout())
		defer cancel()
		s.logger.Info("server shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func (s *Server) shutdownTimeout() time.Duration {
	if s.cfg.ShutdownTimeout > 0 {
		return s.cfg.ShutdownTimeout
	}
	return 10 * time.Second
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// metricsMiddleware tracks active and total requests.
func (s *Server) metricsMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.metrics.IncrementActiveRequests()
		defer s.metrics.DecrementActiveRequests()

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next(rec, r)
		s.metrics.ObserveRequest(r.URL.Path, rec.status)
	}
}
