package scrape

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles Prometheus collectors for the scrape pipeline.
type Metrics struct {
	Registry       *prometheus.Registry
	RunsTotal      *prometheus.CounterVec
	RunDuration    prometheus.Histogram
	RecordsFetched prometheus.Counter
	ErrorsTotal    *prometheus.CounterVec
}

// NewMetrics constructs and registers all metrics on a dedicated registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	runs := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ttscraper_runs_total",
			Help: "Total actor runs by terminal status.",
		},
		[]string{"status"},
	)
	runDuration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ttscraper_run_duration_seconds",
			Help:    "End-to-end duration of scrape invocations.",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		},
	)
	recordsFetched := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ttscraper_records_fetched_total",
			Help: "Total number of records fetched from run datasets.",
		},
	)
	errorsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ttscraper_errors_total",
			Help: "Total number of scrape errors by kind.",
		},
		[]string{"error_kind"},
	)

	registry.MustRegister(runs, runDuration, recordsFetched, errorsTotal)

	return &Metrics{
		Registry:       registry,
		RunsTotal:      runs,
		RunDuration:    runDuration,
		RecordsFetched: recordsFetched,
		ErrorsTotal:    errorsTotal,
	}
}

// IncRun increments the runs counter for a terminal status label.
func (m *Metrics) IncRun(status string) {
	if m == nil {
		return
	}
	m.RunsTotal.WithLabelValues(status).Inc()
}

// ObserveRunDuration records the duration of one scrape invocation.
func (m *Metrics) ObserveRunDuration(d time.Duration) {
	if m == nil {
		return
	}
	m.RunDuration.Observe(d.Seconds())
}

// AddRecords adds to the fetched records counter.
func (m *Metrics) AddRecords(n int) {
	if m == nil {
		return
	}
	m.RecordsFetched.Add(float64(n))
}

// IncError increments the errors counter for a kind label.
func (m *Metrics) IncError(kind string) {
	if m == nil {
		return
	}
	m.ErrorsTotal.WithLabelValues(kind).Inc()
}
