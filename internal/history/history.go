package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite3 driver

	"github.com/dnaod/thumbnail-generator/internal/logging"
	"github.com/dnaod/thumbnail-generator/internal/report"
)

const defaultTimeout = 5 * time.Second

// Store persists run summaries and per-file outcomes to a SQLite database.
//
// Recording is strictly best-effort: a Store failure is logged and never
// changes a run's outcome or exit code.
type Store struct {
	db   *sql.DB
	root string

	started time.Time
	results []report.Result
}

// Open opens (creating if necessary) the history database at dbPath. The
// parent directory must exist.
func Open(ctx context.Context, dbPath, root string) (*Store, error) {
	connStr := fmt.Sprintf("%s?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000", dbPath)

	db, err := sql.Open("sqlite3", connStr)
	if err != nil {
		return nil, fmt.Errorf("open history database: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			logging.Error("failed to close history database after ping failure: %v", closeErr)
		}
		return nil, fmt.Errorf("connect to history database: %w", err)
	}

	s := &Store{db: db, root: root, started: time.Now()}
	if err := s.initialize(ctx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			logging.Error("failed to close history database after init failure: %v", closeErr)
		}
		return nil, fmt.Errorf("initialize history schema: %w", err)
	}

	logging.Debug("History database ready at %s", dbPath)
	return s, nil
}

func (s *Store) initialize(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		root TEXT NOT NULL,
		started_at INTEGER NOT NULL,
		finished_at INTEGER NOT NULL,
		success_count INTEGER NOT NULL,
		cached_count INTEGER NOT NULL,
		failed_count INTEGER NOT NULL,
		skipped_count INTEGER NOT NULL,
		total_count INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS run_files (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id INTEGER NOT NULL REFERENCES runs(id),
		path TEXT NOT NULL,
		outcome TEXT NOT NULL,
		details TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_run_files_run_id ON run_files(run_id);
	CREATE INDEX IF NOT EXISTS idx_run_files_path ON run_files(path);
	`

	initCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()
	_, err := s.db.ExecContext(initCtx, schema)
	return err
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Candidate implements report.Sink. Dry runs are not recorded.
func (s *Store) Candidate(string) {}

// File implements report.Sink by buffering the result until the summary
// arrives; the whole run is written in one transaction.
func (s *Store) File(r report.Result) {
	s.results = append(s.results, r)
}

// Summary implements report.Sink and writes the buffered run.
func (s *Store) Summary(sum report.Summary) {
	if err := s.record(context.Background(), sum); err != nil {
		logging.Warn("Failed to record run history: %v", err)
	}
}

func (s *Store) record(ctx context.Context, sum report.Summary) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO runs (root, started_at, finished_at, success_count, cached_count, failed_count, skipped_count, total_count)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		s.root, s.started.Unix(), time.Now().Unix(),
		sum.Success, sum.Cached, sum.Failed, sum.Skipped, sum.Total)
	if err != nil {
		return err
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO run_files (run_id, path, outcome, details) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range s.results {
		if _, err := stmt.ExecContext(ctx, runID, r.Path, string(r.Outcome), r.DetailString()); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// LastRun returns the most recently recorded summary for inspection, or
// sql.ErrNoRows if the database is empty.
func (s *Store) LastRun(ctx context.Context) (report.Summary, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var sum report.Summary
	err := s.db.QueryRowContext(ctx,
		`SELECT success_count, cached_count, failed_count, skipped_count, total_count
		 FROM runs ORDER BY id DESC LIMIT 1`).
		Scan(&sum.Success, &sum.Cached, &sum.Failed, &sum.Skipped, &sum.Total)
	return sum, err
}
