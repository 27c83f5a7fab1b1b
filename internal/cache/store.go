package cache

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// DirName is the name of the per-directory thumbnail cache folder.
const DirName = ".thumbnails"

// Variant is one fixed thumbnail size tier.
type Variant string

const (
	// VariantNormal is the 128px thumbnail tier.
	VariantNormal Variant = "normal"
	// VariantLarge is the 256px thumbnail tier.
	VariantLarge Variant = "large"
)

// Variants lists all tiers in the order they are built.
var Variants = []Variant{VariantNormal, VariantLarge}

// PixelSize returns the bounding-box edge length for the variant.
func (v Variant) PixelSize() int {
	switch v {
	case VariantLarge:
		return 256
	default:
		return 128
	}
}

// EnsureLayout idempotently creates the thumbnail cache layout under
// parentDir and returns the directory path for each variant:
//
//	<parentDir>/.thumbnails/normal
//	<parentDir>/.thumbnails/large
//
// Safe to call concurrently for the same parent directory; MkdirAll treats
// an existing directory as success, so same-directory races between workers
// cannot fail or duplicate anything.
func EnsureLayout(parentDir string) (map[Variant]string, error) {
	dirs := make(map[Variant]string, len(Variants))
	for _, v := range Variants {
		dir := filepath.Join(parentDir, DirName, string(v))
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create cache dir %s: %w", dir, err)
		}
		dirs[v] = dir
	}
	return dirs, nil
}

// IsStale reports whether the thumbnail at entryPath must be (re)built for a
// source file with the given modification time.
//
// A thumbnail is stale when force is set, when it does not exist, or when
// the source is strictly newer than the entry. Stat failures other than
// not-exist are surfaced to the caller, never swallowed.
func IsStale(sourceModTime time.Time, entryPath string, force bool) (bool, error) {
	if force {
		return true, nil
	}

	info, err := os.Stat(entryPath)
	if os.IsNotExist(err) {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("stat cache entry %s: %w", entryPath, err)
	}

	return sourceModTime.After(info.ModTime()), nil
}
