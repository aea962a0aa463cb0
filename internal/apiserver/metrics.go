package apiserver

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the prometheus metrics for the web front end.
type Metrics struct {
	RunsTotal        prometheus.Counter
	RunFailures      *prometheus.CounterVec
	RunDuration      prometheus.Histogram
	ParseFallbacks   prometheus.Counter
	RunsRejectedBusy prometheus.Counter
}

// NewMetrics creates and registers the front end metrics on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RunsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "coverbrief_runs_total",
			Help: "Number of pipeline runs started via the web front end",
		}),
		RunFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "coverbrief_run_failures_total",
			Help: "Number of failed pipeline runs, by stage",
		}, []string{"stage"}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "coverbrief_run_duration_seconds",
			Help:    "Wall-clock duration of completed pipeline runs",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300},
		}),
		ParseFallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "coverbrief_parse_fallbacks_total",
			Help: "Number of runs where the research output was kept as raw text",
		}),
		RunsRejectedBusy: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "coverbrief_runs_rejected_busy_total",
			Help: "Number of run requests rejected because a run was in flight",
		}),
	}

	if reg != nil {
		reg.MustRegister(
			m.RunsTotal,
			m.RunFailures,
			m.RunDuration,
			m.ParseFallbacks,
			m.RunsRejectedBusy,
		)
	}
	return m
}
