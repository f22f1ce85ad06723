package collector

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"TrendSentinel/internal/metrics"
	"TrendSentinel/internal/model"
	"TrendSentinel/internal/trend"
)

// risingBars returns n weekday bars starting at start with closes base, base+step, ...
func risingBars(start time.Time, n int, base, step float64) []model.PriceBar {
	bars := make([]model.PriceBar, 0, n)
	d := start
	for len(bars) < n {
		if d.Weekday() != time.Saturday && d.Weekday() != time.Sunday {
			c := base + step*float64(len(bars))
			bars = append(bars, model.PriceBar{Time: d, Open: c, High: c + 1, Low: c - 0.5, Close: c, Volume: 1000})
		}
		d = d.AddDate(0, 0, 1)
	}
	return bars
}

func newTestCollector(t *testing.T, f Fetcher, m *metrics.Metrics) *Collector {
	t.Helper()
	cls := NewStaticClassifier(map[string]model.Classification{
		"AAA": {Sector: "Technology", Industry: "Software"},
		"BBB": {Sector: "Energy"},
	})
	return NewCollector(f, cls, Settings{Benchmark: "SPY", HistoryDays: 0, Workers: 2, Trend: trend.DefaultOptions()}, m, zaptest.NewLogger(t))
}

func TestScan_IsolatesFailures(t *testing.T) {
	start := time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)
	dup := risingBars(start, 30, 10, 0.1)
	dup[5].Time = dup[4].Time

	f := &StaticFetcher{
		Bars: map[string][]model.PriceBar{
			"SPY":   risingBars(start, 300, 100, 0.1),
			"AAA":   risingBars(start, 300, 50, 0.2),
			"BBB":   risingBars(start, 300, 20, 0.05),
			"DUPE":  dup,
			"EMPTY": {},
		},
		Errs: map[string]error{"DOWN": errors.New("connection refused")},
	}
	m := metrics.NewMetrics(nil)
	c := newTestCollector(t, f, m)

	res, err := c.Scan(context.Background(), []string{"BBB", "DOWN", "AAA", "DUPE", "EMPTY", "NOPE"})
	require.NoError(t, err)

	require.Len(t, res.Snapshots, 2)
	assert.Equal(t, "BBB", res.Snapshots[0].Symbol)
	assert.Equal(t, "AAA", res.Snapshots[1].Symbol)
	assert.Equal(t, model.Classification{Sector: "Energy", Industry: model.UnknownGroup}, res.Snapshots[0].Classification)
	assert.True(t, res.Snapshots[1].Snapshot.RelativeStrength.Valid())

	reasons := map[string]string{}
	for _, fl := range res.Failures {
		reasons[fl.Symbol] = fl.Reason
	}
	assert.Equal(t, map[string]string{
		"DOWN":  metrics.ReasonFetch,
		"DUPE":  metrics.ReasonInvalidSeries,
		"EMPTY": metrics.ReasonInsufficientData,
		"NOPE":  metrics.ReasonFetch,
	}, reasons)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.ScansTotal))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.SymbolsScanned))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.SymbolFailures.WithLabelValues(metrics.ReasonFetch)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SymbolFailures.WithLabelValues(metrics.ReasonInvalidSeries)))
}

func TestScan_MissingBenchmark(t *testing.T) {
	start := time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)
	f := &StaticFetcher{Bars: map[string][]model.PriceBar{"AAA": risingBars(start, 300, 50, 0.2)}}
	c := newTestCollector(t, f, nil)

	res, err := c.Scan(context.Background(), []string{"AAA"})
	require.NoError(t, err)
	require.Len(t, res.Snapshots, 1)
	snap := res.Snapshots[0].Snapshot
	assert.False(t, snap.RelativeStrength.Valid())
	assert.True(t, snap.SMA200.Valid())
}

func TestScan_Cancelled(t *testing.T) {
	start := time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)
	f := &StaticFetcher{Bars: map[string][]model.PriceBar{"AAA": risingBars(start, 60, 50, 0.2)}}
	c := newTestCollector(t, f, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := c.Scan(ctx, []string{"AAA"})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, res.Snapshots)
}

func TestStaticClassifier(t *testing.T) {
	c := NewStaticClassifier(map[string]model.Classification{"X": {Industry: "Banks"}})
	assert.Equal(t, model.Classification{Sector: model.UnknownGroup, Industry: "Banks"}, c.Classify("X"))
	assert.Equal(t, model.Classification{Sector: model.UnknownGroup, Industry: model.UnknownGroup}, c.Classify("Y"))
}
