package scheduler

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"TrendSentinel/internal/collector"
	"TrendSentinel/internal/metrics"
	"TrendSentinel/internal/model"
	"TrendSentinel/internal/notifier"
	"TrendSentinel/internal/recorder"
	"TrendSentinel/internal/strategy"
)

const sendRetries = 3

// Scheduler manages all cron tasks and serves bot commands.
type Scheduler struct {
	Cron      *cron.Cron
	Collector *collector.Collector
	Notifier  *notifier.TelegramNotifier
	Recorder  recorder.Recorder
	Metrics   *metrics.Metrics
	Logger    *zap.Logger
	Symbols   []string
	Ctx       context.Context

	scanMu sync.Mutex

	mu     sync.RWMutex
	latest []model.InstrumentSnapshot
}

// NewScheduler creates a new Scheduler. tn may be nil or unconfigured, in which case
// reports are only logged.
func NewScheduler(ctx context.Context, col *collector.Collector, tn *notifier.TelegramNotifier,
	rec recorder.Recorder, m *metrics.Metrics, logger *zap.Logger, symbols []string) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if m == nil {
		m = metrics.NewMetrics(nil)
	}
	logger = logger.Named("scheduler")
	cl := cronLogger{logger.Sugar()}
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds(), cron.WithLogger(cl), cron.WithChain(cron.Recover(cl))),
		Collector: col,
		Notifier:  tn,
		Recorder:  rec,
		Metrics:   m,
		Logger:    logger,
		Symbols:   symbols,
		Ctx:       ctx,
	}
}

// RegisterAll registers the scan and report tasks.
func (s *Scheduler) RegisterAll(scanCron, reportCron string) error {
	if _, err := s.Cron.AddFunc(scanCron, func() { s.scanTask() }); err != nil {
		return fmt.Errorf("register scan task: %w", err)
	}
	if reportCron != "" {
		if _, err := s.Cron.AddFunc(reportCron, s.reportTask); err != nil {
			return fmt.Errorf("register report task: %w", err)
		}
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.Logger.Info("scheduler started", zap.Int("entries", len(s.Cron.Entries())))
}

// Stop stops the cron scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.Logger.Info("scheduler stopped")
}

// RunScanNow executes the scan task immediately (for manual trigger / RUN_ON_START).
func (s *Scheduler) RunScanNow() {
	s.scanTask()
}

// scanTask scans the universe, persists the snapshots and sends the report.
// It reports false when another scan was already running.
func (s *Scheduler) scanTask() bool {
	if !s.scanMu.TryLock() {
		s.Logger.Warn("scan already running, skipped")
		return false
	}
	defer s.scanMu.Unlock()
	s.runScan(s.Ctx)
	return true
}

// runScan does the work of one scan. The caller holds scanMu.
func (s *Scheduler) runScan(ctx context.Context) {
	runID := uuid.NewString()
	log := s.Logger.With(zap.String("run_id", runID))
	log.Info("running scan", zap.Int("symbols", len(s.Symbols)))

	res, err := s.Collector.Scan(ctx, s.Symbols)
	if err != nil {
		log.Error("scan interrupted", zap.Error(err))
		return
	}

	for _, in := range res.Snapshots {
		if err := s.Recorder.RecordSnapshot(in.Symbol, in.Classification, in.Snapshot); err != nil {
			s.Metrics.RecorderErrors.Inc()
			log.Error("record snapshot", zap.String("symbol", in.Symbol), zap.Error(err))
		}
	}

	breakouts := strategy.ScreenBreakouts(res.Snapshots)
	sectors := strategy.RankSectors(res.Snapshots)
	s.Metrics.Breakouts.Set(float64(len(breakouts)))

	if err := s.Recorder.RecordScanRun(&recorder.ScanRun{
		ID:        runID,
		StartedAt: res.StartedAt,
		Duration:  res.Duration,
		Symbols:   len(s.Symbols),
		Snapshots: len(res.Snapshots),
		Failures:  len(res.Failures),
		Breakouts: len(breakouts),
	}); err != nil {
		s.Metrics.RecorderErrors.Inc()
		log.Error("record scan run", zap.Error(err))
	}

	s.mu.Lock()
	s.latest = res.Snapshots
	s.mu.Unlock()

	failed := make([]string, len(res.Failures))
	for i, f := range res.Failures {
		failed[i] = f.Symbol
	}
	s.trySend(ctx, notifier.FormatScanReport(notifier.ScanSummary{
		Date:      res.StartedAt,
		Symbols:   len(s.Symbols),
		Snapshots: len(res.Snapshots),
		Failures:  failed,
	}, breakouts, sectors))

	log.Info("scan complete", zap.Int("breakouts", len(breakouts)))
}

// reportTask sends the industry ranking of the latest snapshots.
func (s *Scheduler) reportTask() {
	s.Logger.Info("running ranking report")
	latest, err := s.Latest()
	if err != nil {
		s.Logger.Error("load latest snapshots", zap.Error(err))
		return
	}
	s.trySend(s.Ctx, notifier.FormatRanking("🏭 板块强度排名", strategy.RankSectors(latest), 0) + "\n" +
		notifier.FormatRanking("🔧 行业强度排名", strategy.RankIndustries(latest), 10))
}

// Latest returns the snapshots of the last scan, or the stored ones when this
// process has not scanned yet.
func (s *Scheduler) Latest() ([]model.InstrumentSnapshot, error) {
	s.mu.RLock()
	latest := s.latest
	s.mu.RUnlock()
	if len(latest) > 0 {
		return latest, nil
	}
	return s.Recorder.LatestSnapshots()
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return helpText
	}
	switch fields[0] {
	case "立即扫描", "/scan":
		// Runs in the background; the report is sent when the scan finishes.
		if !s.scanMu.TryLock() {
			return "⏳ 扫描进行中，请稍后"
		}
		go func() {
			defer s.scanMu.Unlock()
			s.runScan(ctx)
		}()
		return "🔄 扫描已开始，完成后推送报告"
	case "突破候选", "/breakouts":
		return s.reply(func(latest []model.InstrumentSnapshot) string {
			return notifier.FormatBreakouts(strategy.ScreenBreakouts(latest))
		})
	case "板块排名", "/sectors":
		return s.reply(func(latest []model.InstrumentSnapshot) string {
			return notifier.FormatRanking("🏭 板块强度排名", strategy.RankSectors(latest), 0)
		})
	case "行业排名", "/industries":
		return s.reply(func(latest []model.InstrumentSnapshot) string {
			return notifier.FormatRanking("🔧 行业强度排名", strategy.RankIndustries(latest), 0)
		})
	case "/check":
		if len(fields) < 2 {
			return "用法: /check SYMBOL"
		}
		sym := strings.ToUpper(fields[1])
		return s.reply(func(latest []model.InstrumentSnapshot) string {
			for _, in := range latest {
				if in.Symbol == sym {
					return notifier.FormatChecks(in)
				}
			}
			return fmt.Sprintf("未找到 %s 的快照", sym)
		})
	default:
		return helpText
	}
}

const helpText = "可用命令:\n• /scan 立即扫描\n• /breakouts 突破候选\n• /sectors 板块排名\n• /industries 行业排名\n• /check SYMBOL 突破条件"

func (s *Scheduler) reply(render func([]model.InstrumentSnapshot) string) string {
	latest, err := s.Latest()
	if err != nil {
		s.Logger.Error("load latest snapshots", zap.Error(err))
		return "❌ 读取快照失败"
	}
	if len(latest) == 0 {
		return "暂无快照，请先执行 /scan"
	}
	return render(latest)
}

func (s *Scheduler) trySend(ctx context.Context, text string) {
	if !s.Notifier.Enabled() {
		s.Logger.Debug("telegram disabled, report not sent", zap.String("text", text))
		return
	}
	if err := s.Notifier.SendWithRetry(ctx, text, sendRetries); err != nil {
		s.Metrics.NotifyFailures.Inc()
		s.Logger.Error("send notification", zap.Error(err))
	}
}
