// Command thumbgen walks a directory tree and generates per-directory
// .thumbnails/{normal,large} caches for every supported image and video
// file, following the freedesktop thumbnail naming convention.
//
// Usage:
//
//	thumbgen [--force] [--workers N] [--dry-run] [--history-db PATH] [--exclude NAME] <directory>
//
// Exit status is 0 when no file failed, 1 on an invalid directory or when
// any thumbnail could not be generated.
package main
