package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	cycleDuration prometheus.Histogram
	cycleSymbols  prometheus.Gauge
	signalsTotal  *prometheus.CounterVec
	composite     *prometheus.GaugeVec
	lastPrice     *prometheus.GaugeVec
	errorsTotal   *prometheus.CounterVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		cycleDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "coinscout_scan_cycle_duration_seconds",
				Help:    "Duration of a full scan cycle in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),
		cycleSymbols: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "coinscout_scan_cycle_symbols",
				Help: "Number of symbols scored in the last scan cycle",
			},
		),
		signalsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "coinscout_signals_total",
				Help: "Total number of signals emitted by classification",
			},
			[]string{"signal"},
		),
		composite: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "coinscout_composite_score",
				Help: "Latest composite score for a symbol",
			},
			[]string{"symbol"},
		),
		lastPrice: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "coinscout_last_price",
				Help: "Last recorded price for a symbol",
			},
			[]string{"symbol"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "coinscout_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
	}
}

// RecordCycle records the size and duration of a finished scan cycle.
func (r *Recorder) RecordCycle(symbols int, seconds float64) {
	r.cycleSymbols.Set(float64(symbols))
	r.cycleDuration.Observe(seconds)
}

// RecordSignal records an emitted signal by class.
func (r *Recorder) RecordSignal(signal string) {
	r.signalsTotal.WithLabelValues(signal).Inc()
}

// RecordComposite records the latest composite score for a symbol.
func (r *Recorder) RecordComposite(symbol string, score float64) {
	r.composite.WithLabelValues(symbol).Set(score)
}

// RecordLastPrice records the last price for a symbol.
func (r *Recorder) RecordLastPrice(symbol string, price float64) {
	r.lastPrice.WithLabelValues(symbol).Set(price)
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}
