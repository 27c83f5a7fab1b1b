// Package scanner discovers candidate media files beneath a root directory.
//
// The walk is a single lexical pass, so its output order is deterministic
// for an unchanged filesystem. Excluded names (the thumbnail cache, NAS and
// OS sidecar folders) are pruned from descent entirely.
package scanner
