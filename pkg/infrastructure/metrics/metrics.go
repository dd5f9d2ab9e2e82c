// Package metrics provides Prometheus metrics for planning runs
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds the planner's collectors, kept apart from the global default registry
var Registry = prometheus.NewRegistry()

var factory = promauto.With(Registry)

var (
	RunsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rawmat_planning_runs_total",
			Help: "Total number of planning runs",
		},
		[]string{"status"},
	)

	StageDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "rawmat_planning_stage_duration_seconds",
			Help:    "Time spent in each planning stage",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
		[]string{"stage"},
	)

	RecommendationsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rawmat_recommendations_total",
			Help: "Total number of purchase recommendations emitted",
		},
		[]string{"mode"},
	)

	WarningsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rawmat_warnings_total",
			Help: "Total number of computation warnings raised",
		},
		[]string{"code"},
	)

	StageFallbacksTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rawmat_stage_fallbacks_total",
			Help: "Total number of optional stage features that failed and fell back",
		},
		[]string{"stage"},
	)

	PlannedSpend = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "rawmat_planned_spend",
			Help: "Total cost of the most recent planning run",
		},
	)
)

// PlanningMetrics provides a convenient interface for recording planning metrics
type PlanningMetrics struct{}

// NewPlanningMetrics creates a new metrics recorder
func NewPlanningMetrics() *PlanningMetrics {
	return &PlanningMetrics{}
}

// RecordStage records how long a stage took
func (m *PlanningMetrics) RecordStage(stage string, duration time.Duration) {
	StageDuration.WithLabelValues(stage).Observe(duration.Seconds())
}

// RecordRun records the outcome of a planning run
func (m *PlanningMetrics) RecordRun(status string, spend float64) {
	RunsTotal.WithLabelValues(status).Inc()
	if status == "success" {
		PlannedSpend.Set(spend)
	}
}

// RecordRecommendation records an emitted recommendation
func (m *PlanningMetrics) RecordRecommendation(mode string) {
	RecommendationsTotal.WithLabelValues(mode).Inc()
}

// RecordWarning records a computation warning
func (m *PlanningMetrics) RecordWarning(code string) {
	WarningsTotal.WithLabelValues(code).Inc()
}

// RecordFallback records an optional stage feature that fell back to its default
func (m *PlanningMetrics) RecordFallback(stage string) {
	StageFallbacksTotal.WithLabelValues(stage).Inc()
}

// WriteTextfile dumps the registry in the node-exporter textfile format
func WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, Registry)
}

// Timer is a helper for measuring duration
type Timer struct {
	start time.Time
}

// NewTimer creates a new timer
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// Duration returns the elapsed time since the timer was created
func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}
