// Package history optionally records run summaries and per-file outcomes in
// a SQLite database, so operators can inspect how batch runs behaved over
// time. It plugs into the run as just another report sink.
package history
