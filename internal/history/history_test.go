package history

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/dnaod/thumbnail-generator/internal/report"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "history.db"), "/media")
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("Close() error: %v", err)
		}
	})
	return s
}

func TestStoreRecordsRun(t *testing.T) {
	s := openTestStore(t)

	s.File(report.Result{Path: "/media/a.jpg", Outcome: report.OutcomeSuccess, Details: []string{"normal:ok", "large:ok"}})
	s.File(report.Result{Path: "/media/b.mp4", Outcome: report.OutcomeFailed, Details: []string{"normal:failed", "large:failed"}})
	s.File(report.Result{Path: "/media/c.png", Outcome: report.OutcomeCached, Details: []string{"normal:cached", "large:cached"}})

	want := report.Summary{Success: 1, Cached: 1, Failed: 1, Total: 3}
	s.Summary(want)

	got, err := s.LastRun(context.Background())
	if err != nil {
		t.Fatalf("LastRun() error: %v", err)
	}
	if got != want {
		t.Errorf("LastRun() = %+v, want %+v", got, want)
	}

	var fileCount int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM run_files`).Scan(&fileCount); err != nil {
		t.Fatal(err)
	}
	if fileCount != 3 {
		t.Errorf("run_files has %d rows, want 3", fileCount)
	}

	var outcome, details string
	err = s.db.QueryRow(`SELECT outcome, details FROM run_files WHERE path = ?`, "/media/b.mp4").
		Scan(&outcome, &details)
	if err != nil {
		t.Fatal(err)
	}
	if outcome != string(report.OutcomeFailed) {
		t.Errorf("outcome = %q, want failed", outcome)
	}
	if details != "normal:failed,large:failed" {
		t.Errorf("details = %q", details)
	}
}

func TestLastRunEmpty(t *testing.T) {
	s := openTestStore(t)

	_, err := s.LastRun(context.Background())
	if !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("LastRun() on empty database = %v, want sql.ErrNoRows", err)
	}
}

func TestOpenBadPath(t *testing.T) {
	_, err := Open(context.Background(), filepath.Join(t.TempDir(), "missing", "history.db"), "/media")
	if err == nil {
		t.Error("Open() with missing parent directory succeeded")
	}
}
