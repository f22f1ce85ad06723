package recorder

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"TrendSentinel/internal/model"
)

// SQLiteRecorder persists snapshots to a SQLite database.
type SQLiteRecorder struct {
	db     *sql.DB
	mu     sync.Mutex
	logger *zap.Logger
	now    func() time.Time
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string, logger *zap.Logger) (*SQLiteRecorder, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so dashboards can read while scans write.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db, logger: logger.Named("recorder"), now: time.Now}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	r.logger.Info("sqlite recorder opened", zap.String("path", dbPath))
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS latest_snapshots (
			symbol        TEXT PRIMARY KEY,
			sector        TEXT NOT NULL,
			industry      TEXT NOT NULL,
			as_of         INTEGER NOT NULL,
			current_price REAL NOT NULL,
			sma50         REAL,
			sma200        REAL,
			rsi14         REAL,
			wma30_week    REAL,
			sma50_week    REAL,
			sma200_week   REAL,
			rel_strength  REAL,
			new_high      INTEGER NOT NULL,
			new_low       INTEGER NOT NULL,
			volume_spike  INTEGER NOT NULL,
			updated_at    INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_latest_sector ON latest_snapshots(sector, industry)`,

		`CREATE TABLE IF NOT EXISTS snapshot_history (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			symbol        TEXT NOT NULL,
			as_of         INTEGER NOT NULL,
			current_price REAL NOT NULL,
			sma50         REAL,
			sma200        REAL,
			rsi14         REAL,
			rel_strength  REAL,
			recorded_at   INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_history_symbol_ts ON snapshot_history(symbol, as_of)`,

		`CREATE TABLE IF NOT EXISTS scan_runs (
			id          TEXT PRIMARY KEY,
			started_at  INTEGER NOT NULL,
			duration_ms INTEGER NOT NULL,
			symbols     INTEGER NOT NULL,
			snapshots   INTEGER NOT NULL,
			failures    INTEGER NOT NULL,
			breakouts   INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_scan_runs_ts ON scan_runs(started_at)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordSnapshot(symbol string, cls model.Classification, snap *model.TrendSnapshot) error {
	if snap == nil {
		return fmt.Errorf("record %s: nil snapshot", symbol)
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	cls = cls.Normalized()
	now := r.now().Unix()

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`INSERT INTO latest_snapshots
		(symbol, sector, industry, as_of, current_price,
		 sma50, sma200, rsi14, wma30_week, sma50_week, sma200_week, rel_strength,
		 new_high, new_low, volume_spike, updated_at)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)
		ON CONFLICT(symbol) DO UPDATE SET
			sector=excluded.sector, industry=excluded.industry,
			as_of=excluded.as_of, current_price=excluded.current_price,
			sma50=excluded.sma50, sma200=excluded.sma200, rsi14=excluded.rsi14,
			wma30_week=excluded.wma30_week, sma50_week=excluded.sma50_week,
			sma200_week=excluded.sma200_week, rel_strength=excluded.rel_strength,
			new_high=excluded.new_high, new_low=excluded.new_low,
			volume_spike=excluded.volume_spike, updated_at=excluded.updated_at`,
		symbol, cls.Sector, cls.Industry, snap.AsOf.Unix(), snap.CurrentPrice,
		snap.SMA50, snap.SMA200, snap.RSI14, snap.WMA30Week, snap.SMA50Week, snap.SMA200Week,
		snap.RelativeStrength,
		snap.NewHigh, snap.NewLow, snap.VolumeSpike, now,
	); err != nil {
		return fmt.Errorf("upsert latest %s: %w", symbol, err)
	}

	if _, err := tx.Exec(`INSERT INTO snapshot_history
		(symbol, as_of, current_price, sma50, sma200, rsi14, rel_strength, recorded_at)
		VALUES (?,?,?,?,?,?,?,?)`,
		symbol, snap.AsOf.Unix(), snap.CurrentPrice,
		snap.SMA50, snap.SMA200, snap.RSI14, snap.RelativeStrength, now,
	); err != nil {
		return fmt.Errorf("insert history %s: %w", symbol, err)
	}
	return tx.Commit()
}

func (r *SQLiteRecorder) LatestSnapshots() ([]model.InstrumentSnapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows, err := r.db.Query(`SELECT symbol, sector, industry, as_of, current_price,
		sma50, sma200, rsi14, wma30_week, sma50_week, sma200_week, rel_strength,
		new_high, new_low, volume_spike
		FROM latest_snapshots ORDER BY symbol`)
	if err != nil {
		return nil, fmt.Errorf("query latest: %w", err)
	}
	defer rows.Close()

	var out []model.InstrumentSnapshot
	for rows.Next() {
		var (
			is   model.InstrumentSnapshot
			snap model.TrendSnapshot
			asOf int64
		)
		if err := rows.Scan(&is.Symbol, &is.Classification.Sector, &is.Classification.Industry,
			&asOf, &snap.CurrentPrice,
			&snap.SMA50, &snap.SMA200, &snap.RSI14, &snap.WMA30Week, &snap.SMA50Week, &snap.SMA200Week,
			&snap.RelativeStrength,
			&snap.NewHigh, &snap.NewLow, &snap.VolumeSpike,
		); err != nil {
			return nil, fmt.Errorf("scan latest: %w", err)
		}
		snap.AsOf = time.Unix(asOf, 0).UTC()
		is.Snapshot = &snap
		out = append(out, is)
	}
	return out, rows.Err()
}

func (r *SQLiteRecorder) RecordScanRun(run *ScanRun) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO scan_runs
		(id, started_at, duration_ms, symbols, snapshots, failures, breakouts)
		VALUES (?,?,?,?,?,?,?)`,
		run.ID, run.StartedAt.Unix(), run.Duration.Milliseconds(),
		run.Symbols, run.Snapshots, run.Failures, run.Breakouts,
	)
	if err != nil {
		return fmt.Errorf("insert scan run: %w", err)
	}
	return nil
}

func (r *SQLiteRecorder) Close() error {
	r.logger.Info("closing sqlite recorder")
	return r.db.Close()
}
