// Package metrics provides Prometheus metrics for invalidation passes.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.trai.ch/sculpt/internal/core/ports"
)

var _ ports.Metrics = (*Metrics)(nil)

// Metrics holds all Prometheus metrics of the engine.
type Metrics struct {
	PassesTotal        *prometheus.CounterVec
	PassDuration       *prometheus.HistogramVec
	FilesTotal         *prometheus.CounterVec
	DirtyTotal         prometheus.Counter
	FailuresTotal      prometheus.Counter
	PendingResolutions prometheus.Gauge
	WorkspacesTotal    prometheus.Gauge

	registry *prometheus.Registry
}

// New creates and registers all metrics on a private registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		PassesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sculpt_passes_total",
				Help: "Total number of invalidation passes by status.",
			},
			[]string{"status"},
		),
		PassDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "sculpt_pass_duration_seconds",
				Help:    "Invalidation pass duration by status.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"status"},
		),
		FilesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sculpt_files_total",
				Help: "Input files seen by invalidation passes, by whether their content was rehashed.",
			},
			[]string{"result"},
		),
		DirtyTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "sculpt_dirty_workspaces_total",
				Help: "Total number of workspaces found dirty.",
			},
		),
		FailuresTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "sculpt_workspace_failures_total",
				Help: "Total number of workspaces whose inputs could not be resolved or fingerprinted.",
			},
		),
		PendingResolutions: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "sculpt_pending_resolutions",
				Help: "Number of input resolutions currently awaited.",
			},
		),
		WorkspacesTotal: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "sculpt_workspaces",
				Help: "Number of workspaces in the project.",
			},
		),
		registry: reg,
	}

	reg.MustRegister(m.PassesTotal)
	reg.MustRegister(m.PassDuration)
	reg.MustRegister(m.FilesTotal)
	reg.MustRegister(m.DirtyTotal)
	reg.MustRegister(m.FailuresTotal)
	reg.MustRegister(m.PendingResolutions)
	reg.MustRegister(m.WorkspacesTotal)

	return m
}

// Handler returns an http.Handler for the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObservePass counts a finished pass and records its duration.
func (m *Metrics) ObservePass(status string, duration time.Duration) {
	m.PassesTotal.WithLabelValues(status).Inc()
	m.PassDuration.WithLabelValues(status).Observe(duration.Seconds())
}

// AddFiles counts rehashed and reused input files.
func (m *Metrics) AddFiles(rehashed, reused int) {
	m.FilesTotal.WithLabelValues("rehashed").Add(float64(rehashed))
	m.FilesTotal.WithLabelValues("reused").Add(float64(reused))
}

// AddDirty counts dirty workspaces.
func (m *Metrics) AddDirty(n int) {
	m.DirtyTotal.Add(float64(n))
}

// AddWorkspaceFailures counts failed workspaces.
func (m *Metrics) AddWorkspaceFailures(n int) {
	m.FailuresTotal.Add(float64(n))
}

// SetPendingResolutions sets the number of awaited resolutions.
func (m *Metrics) SetPendingResolutions(n int) {
	m.PendingResolutions.Set(float64(n))
}

// SetWorkspaces sets the number of workspaces.
func (m *Metrics) SetWorkspaces(n int) {
	m.WorkspacesTotal.Set(float64(n))
}
