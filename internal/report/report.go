package report

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/dnaod/thumbnail-generator/internal/logging"
)

// Outcome is the per-file classification of a unit of work.
type Outcome string

const (
	// OutcomeSuccess means at least one variant was rendered in this run.
	OutcomeSuccess Outcome = "success"
	// OutcomeCached means every variant was already fresh; nothing rendered.
	OutcomeCached Outcome = "cached"
	// OutcomeFailed means renders were attempted and none succeeded.
	OutcomeFailed Outcome = "failed"
	// OutcomeSkipped means the file was not a supported media type.
	OutcomeSkipped Outcome = "skipped"
)

// Result records the outcome for one source file.
type Result struct {
	// Path is the source file path.
	Path string
	// Outcome classifies the unit of work as a whole.
	Outcome Outcome
	// Details holds one "variant:ok|cached|failed" string per variant.
	Details []string
}

// DetailString joins the per-variant details for display.
func (r Result) DetailString() string {
	return strings.Join(r.Details, ",")
}

// Summary aggregates a whole run.
type Summary struct {
	Success int
	Cached  int
	Failed  int
	Skipped int
	Total   int
}

// Sink receives per-file results and the final summary. Implementations are
// driven from the orchestrator's single completion loop and do not need to
// be safe for concurrent use.
type Sink interface {
	// Candidate reports a file that would be processed (dry-run only).
	Candidate(path string)
	// File reports one completed unit of work.
	File(Result)
	// Summary reports the aggregate once all work has completed.
	Summary(Summary)
}

// LogSink writes human-readable per-file lines and the final summary through
// the leveled logger.
type LogSink struct{}

// Candidate implements Sink.
func (LogSink) Candidate(path string) {
	logging.Info("Would process: %s", path)
}

// File implements Sink.
func (LogSink) File(r Result) {
	name := filepath.Base(r.Path)
	switch r.Outcome {
	case OutcomeSuccess:
		logging.Info("✓ %s - %s", name, r.DetailString())
	case OutcomeCached:
		logging.Debug("⊙ %s - %s", name, r.DetailString())
	case OutcomeSkipped:
		logging.Debug("- %s - %s", name, r.DetailString())
	default:
		logging.Warn("✗ %s - %s", name, r.DetailString())
	}
}

// Summary implements Sink.
func (LogSink) Summary(s Summary) {
	logging.Info("============================================================")
	logging.Info("Processing complete!")
	logging.Info("  Successful: %d", s.Success)
	logging.Info("  Cached: %d", s.Cached)
	logging.Info("  Failed: %d", s.Failed)
	logging.Info("  Total: %d", s.Total)
}

// WriterSink emits plain lines to an io.Writer. Used for dry-run output and
// in tests.
type WriterSink struct {
	W io.Writer
}

// Candidate implements Sink.
func (w WriterSink) Candidate(path string) {
	fmt.Fprintf(w.W, "Would process: %s\n", path)
}

// File implements Sink.
func (w WriterSink) File(r Result) {
	fmt.Fprintf(w.W, "%s %s %s\n", r.Outcome, r.Path, r.DetailString())
}

// Summary implements Sink.
func (w WriterSink) Summary(s Summary) {
	fmt.Fprintf(w.W, "success=%d cached=%d failed=%d skipped=%d total=%d\n",
		s.Success, s.Cached, s.Failed, s.Skipped, s.Total)
}

// Multi fans results out to several sinks in order.
func Multi(sinks ...Sink) Sink {
	return multiSink(sinks)
}

type multiSink []Sink

func (m multiSink) Candidate(path string) {
	for _, s := range m {
		s.Candidate(path)
	}
}

func (m multiSink) File(r Result) {
	for _, s := range m {
		s.File(r)
	}
}

func (m multiSink) Summary(sum Summary) {
	for _, s := range m {
		s.Summary(sum)
	}
}
