// Package metrics exposes Prometheus collectors for batch runs.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Ticker outcomes.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

// Metrics groups the collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	BatchRuns     *prometheus.CounterVec
	BatchDuration prometheus.Histogram
	TickerResults *prometheus.CounterVec
	FetchDuration *prometheus.HistogramVec
	LastSuccesses prometheus.Gauge
	LastFailures  prometheus.Gauge
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		BatchRuns: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "etfscreener_batch_runs_total",
				Help: "Total number of batch runs by final status",
			},
			[]string{"status"},
		),
		BatchDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "etfscreener_batch_duration_seconds",
				Help:    "Wall time of a full batch run in seconds",
				Buckets: []float64{1, 5, 10, 30, 60, 120, 300},
			},
		),
		TickerResults: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "etfscreener_ticker_results_total",
				Help: "Per-ticker outcomes across batch runs",
			},
			[]string{"result"},
		),
		FetchDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "etfscreener_fetch_duration_seconds",
				Help:    "Market-data fetch latency in seconds",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
			},
			[]string{"kind"},
		),
		LastSuccesses: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "etfscreener_last_batch_successes",
				Help: "Records produced by the most recent batch",
			},
		),
		LastFailures: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "etfscreener_last_batch_failures",
				Help: "Tickers dropped by the most recent batch",
			},
		),
	}
	if reg != nil {
		reg.MustRegister(m.BatchRuns, m.BatchDuration, m.TickerResults, m.FetchDuration, m.LastSuccesses, m.LastFailures)
	}
	return m
}

func (m *Metrics) ObserveFetch(kind string, d time.Duration) {
	if m == nil {
		return
	}
	m.FetchDuration.WithLabelValues(kind).Observe(d.Seconds())
}

func (m *Metrics) ObserveTicker(ok bool) {
	if m == nil {
		return
	}
	if ok {
		m.TickerResults.WithLabelValues(ResultSuccess).Inc()
		return
	}
	m.TickerResults.WithLabelValues(ResultFailure).Inc()
}

// ObserveBatch records a finished batch. status is "success" or "error".
func (m *Metrics) ObserveBatch(status string, successes, failures int, d time.Duration) {
	if m == nil {
		return
	}
	m.BatchRuns.WithLabelValues(status).Inc()
	m.BatchDuration.Observe(d.Seconds())
	if status == ResultSuccess {
		m.LastSuccesses.Set(float64(successes))
		m.LastFailures.Set(float64(failures))
	}
}
