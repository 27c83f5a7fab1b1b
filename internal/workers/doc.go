// Package workers determines worker pool sizes. Counts are derived from
// GOMAXPROCS so container CPU limits are respected, and can be overridden
// with the THUMBGEN_WORKERS environment variable.
package workers
