package recorder

import (
	"database/sql"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"

	"SurgeScope/internal/model"
)

// SQLiteRecorder persists analysis history to a SQLite database.
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

	// WAL mode so dashboards can read while a watch run writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Info().Str("path", dbPath).Msg("sqlite recorder opened")
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id          TEXT PRIMARY KEY,
			started_at  INTEGER NOT NULL,
			ticker      TEXT NOT NULL,
			mode        TEXT NOT NULL,
			price_usd   REAL,
			supply      REAL,
			event_count INTEGER,
			avg_ph      REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_ticker ON runs(ticker, started_at)`,

		`CREATE TABLE IF NOT EXISTS surge_events (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id        TEXT NOT NULL REFERENCES runs(id),
			kind          TEXT NOT NULL,
			exchange      TEXT,
			trigger_date  TEXT NOT NULL,
			ph_volume     REAL,
			ph_percentage REAL,
			window_days   INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_events_run ON surge_events(run_id)`,

		`CREATE TABLE IF NOT EXISTS schedule_steps (
			id                INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id            TEXT NOT NULL REFERENCES runs(id),
			kind              TEXT NOT NULL,
			step_index        INTEGER NOT NULL,
			price             REAL,
			tokens_sold       REAL,
			cumulative_tokens REAL,
			cumulative_usd    REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_steps_run ON schedule_steps(run_id)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordRun(run *AnalysisRun) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	avgPH := sql.NullFloat64{Float64: run.AvgPH, Valid: run.AvgPHValid}
	_, err := r.db.Exec(`INSERT INTO runs
		(id, started_at, ticker, mode, price_usd, supply, event_count, avg_ph)
		VALUES (?,?,?,?,?,?,?,?)`,
		run.ID, run.StartedAt.Unix(), run.Ticker, run.Mode,
		run.PriceUSD, run.Supply, run.EventCount, avgPH,
	)
	return err
}

func (r *SQLiteRecorder) RecordEvents(runID string, events []model.SurgeEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	for _, ev := range events {
		if _, err := tx.Exec(`INSERT INTO surge_events
			(run_id, kind, exchange, trigger_date, ph_volume, ph_percentage, window_days)
			VALUES (?,?,?,?,?,?,?)`,
			runID, string(ev.Kind), ev.Exchange,
			ev.TriggerDate.Format("2006-01-02"),
			ev.PHVolume, ev.PHPercentage, len(ev.Window),
		); err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

func (r *SQLiteRecorder) RecordSchedule(runID string, kind model.ScheduleKind, steps []model.BuybackStep) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	for _, s := range steps {
		if _, err := tx.Exec(`INSERT INTO schedule_steps
			(run_id, kind, step_index, price, tokens_sold, cumulative_tokens, cumulative_usd)
			VALUES (?,?,?,?,?,?,?)`,
			runID, string(kind), s.StepIndex, s.Price,
			s.TokensSold, s.CumulativeTokens, s.CumulativeUSD,
		); err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

func (r *SQLiteRecorder) Close() error {
	log.Debug().Msg("closing sqlite recorder")
	return r.db.Close()
}
