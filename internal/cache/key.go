package cache

import (
	"crypto/md5" //nolint:gosec // MD5 is the freedesktop thumbnail naming scheme, not a security boundary
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
)

// Key derives the cache key for a source file: the lowercase hex MD5 digest
// of the string "file://<canonical-absolute-path>".
//
// The path does not have to exist; a non-existent path still hashes
// deterministically from its absolute form. Symlinks and relative segments
// are resolved when possible so that every reference to the same file yields
// the same key across runs.
func Key(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %s: %w", path, err)
	}

	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		abs = resolved
	} else if !os.IsNotExist(err) {
		return "", fmt.Errorf("canonicalize %s: %w", path, err)
	}

	sum := md5.Sum([]byte("file://" + abs)) //nolint:gosec // cache key, not security
	return hex.EncodeToString(sum[:]), nil
}

// EntryName returns the thumbnail filename for a source file: "<key>.png".
// The same name is used in every variant directory.
func EntryName(path string) (string, error) {
	key, err := Key(path)
	if err != nil {
		return "", err
	}
	return key + ".png", nil
}
