package recorder

import (
	"time"

	"TrendSentinel/internal/model"
)

// ScanRun summarises one universe scan.
type ScanRun struct {
	ID        string
	StartedAt time.Time
	Duration  time.Duration
	Symbols   int
	Snapshots int
	Failures  int
	Breakouts int
}

// Recorder persists trend snapshots and scan history.
type Recorder interface {
	// RecordSnapshot replaces the stored latest snapshot of symbol.
	RecordSnapshot(symbol string, cls model.Classification, snap *model.TrendSnapshot) error
	// LatestSnapshots returns the latest stored snapshot of every symbol, ordered by symbol.
	LatestSnapshots() ([]model.InstrumentSnapshot, error)
	RecordScanRun(run *ScanRun) error
	Close() error
}
