package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Failure reasons used as the "reason" label of SymbolFailures.
const (
	ReasonInsufficientData = "insufficient_data"
	ReasonInvalidSeries    = "invalid_series"
	ReasonFetch            = "fetch"
)

// Metrics holds the Prometheus instruments for universe scans.
type Metrics struct {
	ScansTotal     prometheus.Counter
	SymbolsScanned prometheus.Counter
	SymbolFailures *prometheus.CounterVec // labels: reason
	Breakouts      prometheus.Gauge
	ScanDuration   prometheus.Histogram
	FetchDuration  *prometheus.HistogramVec // labels: source
	RecorderErrors prometheus.Counter
	NotifyFailures prometheus.Counter
}

// NewMetrics creates the scan metrics and registers them on reg.
// A nil reg leaves them unregistered, which is what tests and one-off runs want.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ScansTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "trendsentinel_scans_total",
			Help: "Total universe scans started",
		}),
		SymbolsScanned: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "trendsentinel_symbols_scanned_total",
			Help: "Symbols that produced a trend snapshot",
		}),
		SymbolFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "trendsentinel_symbol_failures_total",
			Help: "Symbols skipped during a scan (by reason)",
		}, []string{"reason"}),
		Breakouts: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "trendsentinel_breakouts",
			Help: "Breakout candidates found by the last scan",
		}),
		ScanDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "trendsentinel_scan_duration_seconds",
			Help:    "Wall time of a full universe scan",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600},
		}),
		FetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "trendsentinel_fetch_duration_seconds",
			Help:    "Latency of a single daily-bar fetch (by data source)",
			Buckets: prometheus.DefBuckets,
		}, []string{"source"}),
		RecorderErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "trendsentinel_recorder_errors_total",
			Help: "Failed snapshot or scan-run writes",
		}),
		NotifyFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "trendsentinel_notify_failures_total",
			Help: "Telegram messages that exhausted their retries",
		}),
	}

	if reg != nil {
		reg.MustRegister(
			m.ScansTotal,
			m.SymbolsScanned,
			m.SymbolFailures,
			m.Breakouts,
			m.ScanDuration,
			m.FetchDuration,
			m.RecorderErrors,
			m.NotifyFailures,
		)
	}
	return m
}
