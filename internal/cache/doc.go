// Package cache implements the on-disk thumbnail cache contract: MD5 cache
// keys derived from canonical file URIs, the per-directory
// .thumbnails/{normal,large} layout, and staleness checks against source
// modification times.
//
// The layout and naming scheme follow the freedesktop thumbnail convention
// and are stable: external tools may read the same cache.
package cache
