package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	barsFetched *prometheus.CounterVec
	trades      *prometheus.CounterVec
	errorsTotal *prometheus.CounterVec
	capital     prometheus.Gauge
	latency     *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		barsFetched: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "trendback_bars_fetched_total",
				Help: "Total number of bars fetched per symbol",
			},
			[]string{"symbol"},
		),
		trades: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "trendback_trades_total",
				Help: "Total number of simulated trades by outcome",
			},
			[]string{"outcome"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "trendback_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		capital: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "trendback_capital",
				Help: "Capital after the most recent simulated trade",
			},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "trendback_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordBarsFetched records bars fetched for a symbol.
func (r *Recorder) RecordBarsFetched(symbol string, n int) {
	r.barsFetched.WithLabelValues(symbol).Add(float64(n))
}

// RecordTrade records a resolved trade by outcome.
func (r *Recorder) RecordTrade(outcome string) {
	r.trades.WithLabelValues(outcome).Inc()
}

// RecordCapital records the running capital after a trade.
func (r *Recorder) RecordCapital(value float64) {
	r.capital.Set(value)
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}
