package scanner

import (
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/dnaod/thumbnail-generator/internal/cache"
	"github.com/dnaod/thumbnail-generator/internal/logging"
	"github.com/dnaod/thumbnail-generator/internal/mediatypes"
)

// MediaFile is one discovered candidate for thumbnail generation.
type MediaFile struct {
	// Path is the file's path as discovered under the scan root.
	Path string
	// Ext is the lowercase extension, including the leading dot.
	Ext string
	// Kind classifies the file as image or video.
	Kind mediatypes.Kind
	// ModTime is the file's modification time at discovery.
	ModTime time.Time
}

// DefaultExcludes returns the directory and file names that are never
// descended into or yielded: the thumbnail cache itself plus common NAS and
// OS sidecar names.
func DefaultExcludes() []string {
	return []string{cache.DirName, "@eaDir", ".DS_Store", "Thumbs.db"}
}

// Scanner enumerates media files beneath a root directory.
type Scanner struct {
	root     string
	excluded map[string]bool
}

// New creates a Scanner for root. The excluded names are pruned from the
// walk entirely; extra entries extend DefaultExcludes.
func New(root string, extraExcludes ...string) *Scanner {
	excluded := make(map[string]bool)
	for _, name := range DefaultExcludes() {
		excluded[name] = true
	}
	for _, name := range extraExcludes {
		if name != "" {
			excluded[name] = true
		}
	}
	return &Scanner{root: root, excluded: excluded}
}

// Scan walks the tree once and returns every media file found, in the
// deterministic lexical order of filepath.WalkDir. Excluded directories are
// skipped whole; their contents are never visited. Unreadable entries are
// logged and skipped rather than failing the scan.
func (s *Scanner) Scan() ([]MediaFile, error) {
	var files []MediaFile
	err := s.walk(func(f MediaFile) {
		files = append(files, f)
	})
	return files, err
}

func (s *Scanner) walk(yield func(MediaFile)) error {
	return filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == s.root {
				return err
			}
			logging.Warn("Error accessing path %s: %v", path, err)
			return nil
		}

		if s.excluded[d.Name()] && path != s.root {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			return nil
		}

		ext := strings.ToLower(filepath.Ext(d.Name()))
		kind := mediatypes.KindForExt(ext)
		if kind == mediatypes.KindOther {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			logging.Warn("Error getting info for %s: %v", path, err)
			return nil
		}

		yield(MediaFile{
			Path:    path,
			Ext:     ext,
			Kind:    kind,
			ModTime: info.ModTime(),
		})
		return nil
	})
}
