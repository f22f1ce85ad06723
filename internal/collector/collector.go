package collector

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"TrendSentinel/internal/metrics"
	"TrendSentinel/internal/model"
	"TrendSentinel/internal/trend"
)

const DefaultWorkers = 4

// Settings controls how a Collector fetches and builds snapshots.
type Settings struct {
	Benchmark   string
	HistoryDays int
	Workers     int
	Trend       trend.Options
}

// Failure records a symbol that produced no snapshot.
type Failure struct {
	Symbol string
	Reason string // one of the metrics.Reason* values
	Err    error
}

// ScanResult is the outcome of one universe scan. Snapshots keep universe order.
type ScanResult struct {
	StartedAt time.Time
	Duration  time.Duration
	Snapshots []model.InstrumentSnapshot
	Failures  []Failure
}

// Collector orchestrates data fetching and snapshot computation for a universe.
type Collector struct {
	Fetcher    Fetcher
	Classifier Classifier
	Settings   Settings
	Metrics    *metrics.Metrics
	Logger     *zap.Logger
}

// NewCollector creates a new Collector. Nil metrics or logger are replaced with no-op ones.
func NewCollector(fetcher Fetcher, classifier Classifier, s Settings, m *metrics.Metrics, logger *zap.Logger) *Collector {
	if s.Workers <= 0 {
		s.Workers = DefaultWorkers
	}
	if m == nil {
		m = metrics.NewMetrics(nil)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if classifier == nil {
		classifier = NewStaticClassifier(nil)
	}
	return &Collector{
		Fetcher:    fetcher,
		Classifier: classifier,
		Settings:   s,
		Metrics:    m,
		Logger:     logger.Named("collector"),
	}
}

// Scan fetches the benchmark once, then fetches and builds every symbol on a bounded
// worker pool. Per-symbol failures are collected, never returned. The error is non-nil
// only when ctx is cancelled before the scan finishes.
func (c *Collector) Scan(ctx context.Context, symbols []string) (*ScanResult, error) {
	start := time.Now()
	c.Metrics.ScansTotal.Inc()

	benchmark := c.benchmark(ctx)

	type outcome struct {
		snap *model.TrendSnapshot
		fail *Failure
	}
	outcomes := make([]outcome, len(symbols))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.Settings.Workers)
	for i, sym := range symbols {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			snap, reason, err := c.buildOne(gctx, sym, benchmark)
			if err != nil {
				outcomes[i].fail = &Failure{Symbol: sym, Reason: reason, Err: err}
				return nil
			}
			outcomes[i].snap = snap
			return nil
		})
	}
	_ = g.Wait()

	res := &ScanResult{StartedAt: start}
	for i, sym := range symbols {
		o := outcomes[i]
		switch {
		case o.snap != nil:
			res.Snapshots = append(res.Snapshots, model.InstrumentSnapshot{
				Symbol:         sym,
				Classification: c.Classifier.Classify(sym),
				Snapshot:       o.snap,
			})
			c.Metrics.SymbolsScanned.Inc()
		case o.fail != nil:
			res.Failures = append(res.Failures, *o.fail)
			c.Metrics.SymbolFailures.WithLabelValues(o.fail.Reason).Inc()
			c.Logger.Warn("symbol skipped",
				zap.String("symbol", sym),
				zap.String("reason", o.fail.Reason),
				zap.Error(o.fail.Err))
		}
	}
	res.Duration = time.Since(start)
	c.Metrics.ScanDuration.Observe(res.Duration.Seconds())

	c.Logger.Info("scan finished",
		zap.Int("symbols", len(symbols)),
		zap.Int("snapshots", len(res.Snapshots)),
		zap.Int("failures", len(res.Failures)),
		zap.Duration("duration", res.Duration))

	if err := ctx.Err(); err != nil {
		return res, err
	}
	return res, nil
}

// benchmark fetches the benchmark series. On failure the scan continues with an empty
// benchmark, which leaves relative strength absent.
func (c *Collector) benchmark(ctx context.Context) model.PriceSeries {
	if c.Settings.Benchmark == "" {
		return model.PriceSeries{}
	}
	bars, err := c.fetch(ctx, c.Settings.Benchmark)
	if err != nil {
		c.Logger.Warn("benchmark fetch failed, relative strength unavailable",
			zap.String("benchmark", c.Settings.Benchmark), zap.Error(err))
		return model.PriceSeries{}
	}
	s, err := model.NewPriceSeries(bars)
	if err != nil {
		c.Logger.Warn("benchmark series rejected, relative strength unavailable",
			zap.String("benchmark", c.Settings.Benchmark), zap.Error(err))
		return model.PriceSeries{}
	}
	return s
}

func (c *Collector) buildOne(ctx context.Context, symbol string, benchmark model.PriceSeries) (*model.TrendSnapshot, string, error) {
	bars, err := c.fetch(ctx, symbol)
	if err != nil {
		return nil, metrics.ReasonFetch, err
	}
	daily, err := model.NewPriceSeries(bars)
	if err != nil {
		return nil, metrics.ReasonInvalidSeries, err
	}
	snap, err := trend.Build(daily, benchmark, time.Time{}, c.Settings.Trend)
	if err != nil {
		return nil, classify(err), err
	}
	return snap, "", nil
}

func (c *Collector) fetch(ctx context.Context, symbol string) ([]model.PriceBar, error) {
	start := time.Now()
	bars, err := c.Fetcher.FetchDailyBars(ctx, symbol, c.Settings.HistoryDays)
	c.Metrics.FetchDuration.WithLabelValues(c.Fetcher.Name()).Observe(time.Since(start).Seconds())
	return bars, err
}

func classify(err error) string {
	switch {
	case errors.Is(err, model.ErrInsufficientData):
		return metrics.ReasonInsufficientData
	case errors.Is(err, model.ErrInvalidSeries):
		return metrics.ReasonInvalidSeries
	default:
		return metrics.ReasonFetch
	}
}
