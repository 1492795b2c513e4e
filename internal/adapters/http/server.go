// Package http serves the metrics and health endpoints of a long-running
// telectl process.
package http

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bft-labs/telebus/internal/ports"
	"github.com/bft-labs/telebus/pkg/log"
)

const shutdownTimeout = 5 * time.Second

// HealthFunc reports whether the process is healthy and a short status
// word for the response body.
type HealthFunc func() (ok bool, status string)

// Server exposes /metrics and /healthz.
type Server struct {
	srv    *http.Server
	logger ports.Logger
}

// NewServer creates a server for addr. metrics are served from gatherer;
// health may be nil, in which case /healthz always answers 200.
func NewServer(addr string, gatherer prometheus.Gatherer, health HealthFunc, logger ports.Logger) *Server {
	if logger == nil {
		logger = log.NoopLogger{}
	}
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		ok, status := true, "ok"
		if health != nil {
			ok, status = health()
		}
		if !ok {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		fmt.Fprintln(w, status)
	})
	return &Server{
		srv: &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
		logger: logger,
	}
}

// Handler returns the request multiplexer, for tests.
func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}

// Run listens until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.srv.Addr, err)
	}
	s.logger.Info("metrics endpoint listening", log.String("addr", ln.Addr().String()))

	errCh := make(chan error, 1)
	go func() { errCh <- s.srv.Serve(ln) }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
