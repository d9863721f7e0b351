// Package metrics exposes Prometheus collectors for dashboard refresh runs.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "cashflow_dashboard"

// Run results
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

// Metrics groups the refresh collectors
type Metrics struct {
	Runs          *prometheus.CounterVec
	Duration      prometheus.Histogram
	Rows          *prometheus.GaugeVec
	Diagnostics   *prometheus.CounterVec
	FetchAttempts prometheus.Counter
}

// New registers the collectors on reg
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		Runs: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "refresh_runs_total",
			Help:      "Refresh runs by result.",
		}, []string{"result"}),
		Duration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "refresh_duration_seconds",
			Help:      "Wall time of a refresh run.",
			Buckets:   prometheus.DefBuckets,
		}),
		Rows: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "extracted_rows",
			Help:      "Rows produced per output table by the last successful run.",
		}, []string{"table"}),
		Diagnostics: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "diagnostics_total",
			Help:      "Extraction diagnostics by kind.",
		}, []string{"kind"}),
		FetchAttempts: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetch_attempts_total",
			Help:      "HTTP attempts made to download the workbook.",
		}),
	}
}

// ObserveRun records the outcome and duration of one run
func (m *Metrics) ObserveRun(err error, seconds float64) {
	if m == nil {
		return
	}
	result := ResultSuccess
	if err != nil {
		result = ResultFailure
	}
	m.Runs.WithLabelValues(result).Inc()
	m.Duration.Observe(seconds)
}

// Handler serves the registry in the Prometheus exposition format
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
