package workers

import (
	"os"
	"runtime"
	"strconv"
)

// EnvOverride is the environment variable that overrides any configured
// worker count.
const EnvOverride = "THUMBGEN_WORKERS"

// Default is the worker pool size when nothing else is configured.
const Default = 4

// Resolve returns the worker count to use for a run. The THUMBGEN_WORKERS
// environment variable wins over the configured value; a configured value
// of zero or less falls back to a mixed-workload heuristic (thumbnailing is
// part decode CPU, part filesystem I/O). The result is always at least 1.
func Resolve(configured int) int {
	if override := os.Getenv(EnvOverride); override != "" {
		if count, err := strconv.Atoi(override); err == nil && count > 0 {
			return count
		}
	}

	if configured > 0 {
		return configured
	}
	return ForMixed(0)
}

// Count returns a worker count scaled from the available CPUs. GOMAXPROCS
// respects container CPU limits (Go 1.19+), unlike runtime.NumCPU. The
// limit parameter caps the result; use 0 for no cap.
func Count(multiplier float64, limit int) int {
	available := runtime.GOMAXPROCS(0)

	count := int(float64(available) * multiplier)
	if count < 1 {
		count = 1
	}
	if limit > 0 && count > limit {
		count = limit
	}
	return count
}

// ForCPU returns a worker count for CPU-bound tasks (1 per CPU).
func ForCPU(limit int) int {
	return Count(1.0, limit)
}

// ForIO returns a worker count for I/O-bound tasks (2 per CPU).
func ForIO(limit int) int {
	return Count(2.0, limit)
}

// ForMixed returns a worker count for mixed tasks (1.5 per CPU).
func ForMixed(limit int) int {
	return Count(1.5, limit)
}
