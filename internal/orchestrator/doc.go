// Package orchestrator schedules one end-to-end thumbnail run: it streams
// discovered media files through a bounded worker pool, decides per-variant
// staleness, dispatches rendering, and aggregates completion-ordered results
// into a run summary.
package orchestrator
