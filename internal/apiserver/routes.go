package apiserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mfeller/coverbrief/internal/pipeline"
)

// runRequest is the JSON body of POST /api/v1/runs.
type runRequest struct {
	Query string `json:"query"`
}

// runResponse is the JSON result of a completed run.
type runResponse struct {
	Query      string                 `json:"query"`
	Facts      map[string]interface{} `json:"facts,omitempty"`
	RawFacts   string                 `json:"raw_facts,omitempty"`
	Parsed     bool                   `json:"parsed"`
	Report     string                 `json:"report"`
	ReportPath string                 `json:"report_path,omitempty"`
	DurationMs int64                  `json:"duration_ms"`
}

func (s *Server) registerHandlers() {
	s.router.HandleFunc("/", s.loggingMiddleware(s.handleIndex))
	s.router.HandleFunc("/run", s.loggingMiddleware(s.withMethod(http.MethodPost, s.handleFormRun)))
	s.router.HandleFunc("/api/v1/runs", s.loggingMiddleware(s.withMethod(http.MethodPost, s.handleAPIRun)))
	s.router.HandleFunc("/healthz", s.handleHealth)
	s.router.Handle("/metrics", promhttp.Handler())
}

// handleIndex serves the query form.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		s.writeError(w, http.StatusNotFound, "not found")
		return
	}
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	s.renderPage(w, http.StatusOK, pageData{})
}

// handleFormRun executes the pipeline for a form submission and renders
// the result page. Errors render inline on the same page.
func (s *Server) handleFormRun(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid form data")
		return
	}
	query := strings.TrimSpace(r.FormValue("query"))
	if query == "" {
		s.renderPage(w, http.StatusBadRequest, pageData{Error: "Please enter a question before submitting."})
		return
	}

	state, runErr := s.executeRun(r.Context(), query)
	data := pageData{Query: query}
	status := http.StatusOK

	if rd, ok := state.ResearchData(); ok {
		data.Research = rd.Text()
	}
	data.Report = state.FinalReport()

	switch {
	case errors.Is(runErr, pipeline.ErrRunInFlight):
		status = http.StatusConflict
		data.Error = "A report is already being generated. Try again in a moment."
	case runErr != nil:
		status = http.StatusBadGateway
		data.Error = runErr.Error()
	default:
		data.ReportPath = s.reportWriter.Path()
	}

	s.renderPage(w, status, data)
}

// handleAPIRun executes the pipeline for a JSON request.
func (s *Server) handleAPIRun(w http.ResponseWriter, r *http.Request) {
	var req runRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	query := strings.TrimSpace(req.Query)
	if query == "" {
		s.writeError(w, http.StatusBadRequest, "query must not be empty")
		return
	}

	start := time.Now()
	state, runErr := s.executeRun(r.Context(), query)

	if errors.Is(runErr, pipeline.ErrRunInFlight) {
		s.writeError(w, http.StatusConflict, runErr.Error())
		return
	}
	if runErr != nil {
		s.writeError(w, http.StatusBadGateway, runErr.Error())
		return
	}

	resp := runResponse{
		Query:      query,
		Report:     state.FinalReport(),
		ReportPath: s.reportWriter.Path(),
		DurationMs: time.Since(start).Milliseconds(),
	}
	if rd, ok := state.ResearchData(); ok {
		resp.Parsed = rd.IsParsed()
		if rd.IsParsed() {
			resp.Facts = rd.Facts()
		} else {
			resp.RawFacts = rd.Raw()
		}
	}

	s.writeJSON(w, http.StatusOK, resp)
}

// executeRun runs the pipeline, saves the report on success and records
// metrics. The state produced so far is returned even on error.
func (s *Server) executeRun(ctx context.Context, query string) (pipeline.State, error) {
	s.metrics.RunsTotal.Inc()

	start := time.Now()
	state, err := s.runner.Run(ctx, query)
	if state == nil {
		state = pipeline.State{}
	}

	if errors.Is(err, pipeline.ErrRunInFlight) {
		s.metrics.RunsRejectedBusy.Inc()
		return state, err
	}
	if err != nil {
		s.metrics.RunFailures.WithLabelValues(failedStage(err)).Inc()
		return state, err
	}

	s.metrics.RunDuration.Observe(time.Since(start).Seconds())
	if rd, ok := state.ResearchData(); ok && !rd.IsParsed() {
		s.metrics.ParseFallbacks.Inc()
	}

	if saveErr := s.reportWriter.Save(state.FinalReport()); saveErr != nil {
		s.logger.Error("failed to save report: %v", saveErr)
	}
	return state, nil
}

// failedStage extracts the stage name from a wrapped run error.
func failedStage(err error) string {
	msg := err.Error()
	if idx := strings.Index(msg, " stage:"); idx > 0 {
		return msg[:idx]
	}
	return "unknown"
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"busy":   s.runner.Busy(),
	})
}
