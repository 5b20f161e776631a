package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"sync"

	_ "modernc.org/sqlite"

	"ETFScreener/internal/model"
)

// SQLiteRecorder persists the batch audit trail to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL lets dashboards read while a run is being written.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS batch_runs (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id        TEXT,
			started_at    INTEGER NOT NULL,
			finished_at   INTEGER NOT NULL,
			status        TEXT NOT NULL,
			universe      INTEGER,
			record_count  INTEGER,
			failure_count INTEGER,
			message       TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_started ON batch_runs(started_at)`,

		`CREATE TABLE IF NOT EXISTS etf_snapshots (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id      TEXT NOT NULL,
			position    INTEGER NOT NULL,
			ticker      TEXT NOT NULL,
			name        TEXT,
			asset       TEXT,
			price       REAL,
			rsi         INTEGER,
			lwowski     INTEGER,
			aum         TEXT,
			expense     REAL,
			near52w_pct REAL,
			trend_ok    INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_snap_run ON etf_snapshots(run_id)`,
		`CREATE INDEX IF NOT EXISTS idx_snap_ticker ON etf_snapshots(ticker)`,

		`CREATE TABLE IF NOT EXISTS ticker_failures (
			id     INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL,
			ticker TEXT NOT NULL,
			error  TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_fail_run ON ticker_failures(run_id)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// RecordBatch writes the run header, every record and every dropped ticker
// in a single transaction.
func (r *SQLiteRecorder) RecordBatch(res *model.BatchResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`INSERT INTO batch_runs
		(run_id, started_at, finished_at, status, universe, record_count, failure_count)
		VALUES (?,?,?,?,?,?,?)`,
		res.RunID, res.StartedAt.Unix(), res.FinishedAt.Unix(), model.StatusSuccess,
		res.Universe, res.Count(), len(res.Failures),
	); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	snap, err := tx.Prepare(`INSERT INTO etf_snapshots
		(run_id, position, ticker, name, asset, price, rsi, lwowski, aum, expense, near52w_pct, trend_ok)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return fmt.Errorf("prepare snapshot: %w", err)
	}
	defer snap.Close()
	for i, rec := range res.Records {
		if _, err := snap.Exec(res.RunID, i, rec.Ticker, rec.Name, string(rec.Asset),
			rec.Price, rec.RSI, rec.Lwowski, rec.AUM, rec.Expense, rec.Near52wPct, rec.InTrend(),
		); err != nil {
			return fmt.Errorf("insert snapshot %s: %w", rec.Ticker, err)
		}
	}

	for _, f := range res.Failures {
		msg := ""
		if f.Err != nil {
			msg = f.Err.Error()
		}
		if _, err := tx.Exec(`INSERT INTO ticker_failures (run_id, ticker, error) VALUES (?,?,?)`,
			res.RunID, f.Ticker, msg); err != nil {
			return fmt.Errorf("insert failure %s: %w", f.Ticker, err)
		}
	}

	return tx.Commit()
}

func (r *SQLiteRecorder) RecordAborted(run *AbortedRun) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	msg := ""
	if run.Err != nil {
		msg = run.Err.Error()
	}
	_, err := r.db.Exec(`INSERT INTO batch_runs
		(started_at, finished_at, status, universe, record_count, failure_count, message)
		VALUES (?,?,?,0,0,0,?)`,
		run.StartedAt.Unix(), run.FinishedAt.Unix(), model.StatusError, msg,
	)
	return err
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}
