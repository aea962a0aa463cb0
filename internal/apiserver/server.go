// Package apiserver implements the web front end: an HTML query form
// plus a small JSON API over the pipeline.
package apiserver

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/mfeller/coverbrief/internal/logging"
	"github.com/mfeller/coverbrief/internal/pipeline"
	"github.com/mfeller/coverbrief/internal/report"
)

// Server handles HTTP requests for the web front end. It implements the
// Start/Stop/Name component contract used by the serve command.
type Server struct {
	port         int
	server       *http.Server
	logger       *logging.Logger
	runner       *pipeline.Runner
	reportWriter *report.Writer
	metrics      *Metrics
	router       *http.ServeMux
}

// New creates the web front end server. The prometheus registerer
// receives the run metrics; pass prometheus.DefaultRegisterer outside of
// tests.
func New(port int, runner *pipeline.Runner, reportWriter *report.Writer, reg prometheus.Registerer) *Server {
	s := &Server{
		port:         port,
		logger:       logging.GetLogger("apiserver"),
		runner:       runner,
		reportWriter: reportWriter,
		metrics:      NewMetrics(reg),
		router:       http.NewServeMux(),
	}

	s.registerHandlers()

	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: s.corsMiddleware(s.router),
		// A pipeline run blocks the response for the duration of two
		// model calls; the write timeout must outlast the run timeout.
		ReadTimeout:  1 * time.Minute,
		WriteTimeout: 15 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Start begins listening for requests. It returns once the listener
// goroutine is launched.
func (s *Server) Start(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	s.logger.Info("starting web front end on port %d", s.port)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("HTTP server error: %v", err)
		}
	}()
	return nil
}

// Stop gracefully shuts the server down, honoring the context deadline.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("stopping web front end")

	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	return nil
}

// Name identifies the component in logs.
func (s *Server) Name() string {
	return "apiserver"
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}
