// Package report defines the output boundary of a run: per-file results,
// the aggregate summary, and the Sink interface they flow through. Keeping
// sinks behind an interface leaves the orchestrator output-agnostic.
package report
