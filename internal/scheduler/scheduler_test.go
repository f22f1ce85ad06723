package scheduler

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"TrendSentinel/internal/collector"
	"TrendSentinel/internal/metrics"
	"TrendSentinel/internal/model"
	"TrendSentinel/internal/recorder"
	"TrendSentinel/internal/trend"
)

func weekdayBars(n int, base, step float64) []model.PriceBar {
	bars := make([]model.PriceBar, 0, n)
	d := time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)
	for len(bars) < n {
		if d.Weekday() != time.Saturday && d.Weekday() != time.Sunday {
			c := base + step*float64(len(bars))
			bars = append(bars, model.PriceBar{Time: d, Open: c, High: c, Low: c, Close: c, Volume: 1000})
		}
		d = d.AddDate(0, 0, 1)
	}
	return bars
}

func newTestScheduler(t *testing.T, rec recorder.Recorder) (*Scheduler, *metrics.Metrics) {
	t.Helper()
	logger := zaptest.NewLogger(t)
	m := metrics.NewMetrics(nil)
	f := &collector.StaticFetcher{Bars: map[string][]model.PriceBar{
		"SPY":  weekdayBars(300, 100, 0.05),
		"AAA":  weekdayBars(300, 50, 0.2),
		"BBB":  weekdayBars(300, 80, -0.1),
		"TINY": {},
	}}
	cls := collector.NewStaticClassifier(map[string]model.Classification{
		"AAA": {Sector: "Technology", Industry: "Software"},
		"BBB": {Sector: "Energy", Industry: "Oil & Gas"},
	})
	col := collector.NewCollector(f, cls, collector.Settings{Benchmark: "SPY", Trend: trend.DefaultOptions()}, m, logger)
	return NewScheduler(context.Background(), col, nil, rec, m, logger, []string{"AAA", "BBB", "TINY"}), m
}

func TestScanTask_PersistsAndCaches(t *testing.T) {
	rec, err := recorder.NewSQLiteRecorder(filepath.Join(t.TempDir(), "s.db"), nil)
	require.NoError(t, err)
	defer rec.Close()

	s, m := newTestScheduler(t, rec)
	require.True(t, s.scanTask())

	stored, err := rec.LatestSnapshots()
	require.NoError(t, err)
	require.Len(t, stored, 2)
	assert.Equal(t, "AAA", stored[0].Symbol)

	latest, err := s.Latest()
	require.NoError(t, err)
	assert.Len(t, latest, 2)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SymbolFailures.WithLabelValues(metrics.ReasonInsufficientData)))
}

func TestLatest_FallsBackToRecorder(t *testing.T) {
	rec, err := recorder.NewSQLiteRecorder(filepath.Join(t.TempDir(), "s.db"), nil)
	require.NoError(t, err)
	defer rec.Close()
	require.NoError(t, rec.RecordSnapshot("OLD", model.Classification{}, &model.TrendSnapshot{CurrentPrice: 1}))

	s, _ := newTestScheduler(t, rec)
	latest, err := s.Latest()
	require.NoError(t, err)
	require.Len(t, latest, 1)
	assert.Equal(t, "OLD", latest[0].Symbol)
}

func TestHandleCommand(t *testing.T) {
	s, _ := newTestScheduler(t, recorder.NewNoopRecorder())
	ctx := context.Background()

	assert.Contains(t, s.HandleCommand(ctx, "/sectors"), "/scan")
	assert.Contains(t, s.HandleCommand(ctx, "hello"), "可用命令")
	assert.Contains(t, s.HandleCommand(ctx, "/scan"), "扫描已开始")
	waitScan(s)

	sectors := s.HandleCommand(ctx, "/sectors")
	assert.Contains(t, sectors, "Technology")
	assert.Contains(t, sectors, "Energy")

	industries := s.HandleCommand(ctx, "/industries")
	assert.Contains(t, industries, "Oil &amp; Gas (Energy)")

	assert.Contains(t, s.HandleCommand(ctx, "/breakouts"), "突破候选")
	assert.Contains(t, s.HandleCommand(ctx, "/check aaa"), "<b>AAA</b>")
	assert.Contains(t, s.HandleCommand(ctx, "/check ZZZ"), "未找到 ZZZ")
	assert.Contains(t, s.HandleCommand(ctx, "/check"), "用法")
}

// waitScan blocks until a background scan has released the scan lock.
func waitScan(s *Scheduler) {
	s.scanMu.Lock()
	s.scanMu.Unlock()
}

func TestHandleCommand_AnswersWhileScanning(t *testing.T) {
	s, _ := newTestScheduler(t, recorder.NewNoopRecorder())
	require.True(t, s.scanTask())

	s.scanMu.Lock()
	done := make(chan string, 1)
	go func() { done <- s.HandleCommand(context.Background(), "/sectors") }()
	select {
	case reply := <-done:
		assert.Contains(t, reply, "Technology")
	case <-time.After(5 * time.Second):
		t.Fatal("command blocked behind a running scan")
	}
	s.scanMu.Unlock()
}

func TestHandleCommand_ScanUsesCommandContext(t *testing.T) {
	s, m := newTestScheduler(t, recorder.NewNoopRecorder())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Contains(t, s.HandleCommand(ctx, "/scan"), "扫描已开始")
	waitScan(s)

	latest, err := s.Latest()
	require.NoError(t, err)
	assert.Empty(t, latest, "a cancelled scan caches nothing")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ScansTotal))
}

func TestScanTask_SkipsWhenRunning(t *testing.T) {
	s, _ := newTestScheduler(t, recorder.NewNoopRecorder())
	s.scanMu.Lock()
	defer s.scanMu.Unlock()
	assert.False(t, s.scanTask())
	assert.Contains(t, s.HandleCommand(context.Background(), "/scan"), "扫描进行中")
}

func TestRegisterAll(t *testing.T) {
	s, _ := newTestScheduler(t, recorder.NewNoopRecorder())
	require.NoError(t, s.RegisterAll("0 30 22 * * 1-5", "0 0 8 * * 6"))
	assert.Len(t, s.Cron.Entries(), 2)
	assert.Error(t, s.RegisterAll("not a cron", ""))
}
