package orchestrator

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dnaod/thumbnail-generator/internal/cache"
	"github.com/dnaod/thumbnail-generator/internal/logging"
	"github.com/dnaod/thumbnail-generator/internal/mediatypes"
	"github.com/dnaod/thumbnail-generator/internal/render"
	"github.com/dnaod/thumbnail-generator/internal/report"
	"github.com/dnaod/thumbnail-generator/internal/scanner"
)

// Renderer is the rendering backend contract the orchestrator drives. It is
// satisfied by *render.Renderer and by test fakes.
type Renderer interface {
	Render(ctx context.Context, sourcePath, outputPath string, pixelSize int, kind mediatypes.Kind) render.Outcome
}

// Config holds one run's settings. It is passed in explicitly; there is no
// process-wide configuration state.
type Config struct {
	// Root is the directory tree to scan.
	Root string
	// Workers is the bounded pool size; values below 1 are clamped to 1.
	Workers int
	// Force rebuilds every variant regardless of staleness.
	Force bool
	// DryRun lists candidates without touching cache or renderer.
	DryRun bool
	// ExtraExcludes extends the default directory exclusion set.
	ExtraExcludes []string
}

// Orchestrator drives one end-to-end thumbnail run: discovery, staleness
// checks, bounded-concurrency rendering, and result aggregation.
type Orchestrator struct {
	cfg      Config
	renderer Renderer
	sink     report.Sink
}

// New creates an Orchestrator.
func New(cfg Config, renderer Renderer, sink report.Sink) *Orchestrator {
	return &Orchestrator{cfg: cfg, renderer: renderer, sink: sink}
}

// Run executes one batch run and returns the aggregate summary. Per-file
// failures are recorded in the summary, never returned as errors; the error
// return covers scan failures and cancellation only.
func (o *Orchestrator) Run(ctx context.Context) (report.Summary, error) {
	logging.Info("Scanning for media files in %s...", o.cfg.Root)
	files, err := scanner.New(o.cfg.Root, o.cfg.ExtraExcludes...).Scan()
	if err != nil {
		return report.Summary{}, fmt.Errorf("scan %s: %w", o.cfg.Root, err)
	}
	logging.Info("Found %d media files", len(files))

	if o.cfg.DryRun {
		for _, f := range files {
			o.sink.Candidate(f.Path)
		}
		return report.Summary{Total: len(files)}, nil
	}

	numWorkers := o.cfg.Workers
	if numWorkers < 1 {
		numWorkers = 1
	}
	logging.Info("Processing with %d workers", numWorkers)
	start := time.Now()

	jobs := make(chan scanner.MediaFile)
	results := make(chan report.Result, numWorkers)

	g, gctx := errgroup.WithContext(ctx)

	for i := 0; i < numWorkers; i++ {
		g.Go(func() error {
			for f := range jobs {
				select {
				case <-gctx.Done():
					return gctx.Err()
				default:
				}
				select {
				case results <- o.processFile(gctx, f):
				case <-gctx.Done():
					return gctx.Err()
				}
			}
			return nil
		})
	}

	g.Go(func() error {
		defer close(jobs)
		for _, f := range files {
			// Cancellation stops submitting; in-flight work finishes.
			if err := gctx.Err(); err != nil {
				return err
			}
			select {
			case jobs <- f:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})

	waitErr := make(chan error, 1)
	go func() {
		waitErr <- g.Wait()
		close(results)
	}()

	// Single-threaded consumption keeps aggregation race-free; results
	// arrive in completion order.
	var summary report.Summary
	for r := range results {
		o.sink.File(r)
		summary.Total++
		switch r.Outcome {
		case report.OutcomeSuccess:
			summary.Success++
		case report.OutcomeCached:
			summary.Cached++
		case report.OutcomeSkipped:
			summary.Skipped++
		default:
			summary.Failed++
		}
	}
	err = <-waitErr

	logging.Info("Run finished in %v", time.Since(start))
	o.sink.Summary(summary)
	return summary, err
}

// processFile is one unit of work: it prepares the cache layout for the
// file's directory, derives the cache key once, and renders every stale
// variant. All failures are converted into the result record; nothing
// escapes to abort other workers.
func (o *Orchestrator) processFile(ctx context.Context, f scanner.MediaFile) report.Result {
	if f.Kind == mediatypes.KindOther {
		// Defensive: the scanner already filters these.
		return report.Result{Path: f.Path, Outcome: report.OutcomeSkipped, Details: []string{"unsupported"}}
	}

	dirs, err := cache.EnsureLayout(filepath.Dir(f.Path))
	if err != nil {
		logging.Error("Cache layout for %s: %v", f.Path, err)
		return failAll(f.Path)
	}

	entryName, err := cache.EntryName(f.Path)
	if err != nil {
		logging.Error("Cache key for %s: %v", f.Path, err)
		return failAll(f.Path)
	}

	details := make([]string, 0, len(cache.Variants))
	rendered, attempted := 0, 0

	for _, v := range cache.Variants {
		entryPath := filepath.Join(dirs[v], entryName)

		stale, err := cache.IsStale(f.ModTime, entryPath, o.cfg.Force)
		if err != nil {
			logging.Error("Staleness check for %s: %v", entryPath, err)
			details = append(details, string(v)+":failed")
			attempted++
			continue
		}
		if !stale {
			details = append(details, string(v)+":cached")
			continue
		}

		attempted++
		if oc := o.renderer.Render(ctx, f.Path, entryPath, v.PixelSize(), f.Kind); oc.OK {
			details = append(details, string(v)+":ok")
			rendered++
		} else {
			details = append(details, string(v)+":failed")
		}
	}

	outcome := report.OutcomeFailed
	switch {
	case rendered > 0:
		outcome = report.OutcomeSuccess
	case attempted == 0:
		// Every variant was already fresh; nothing was attempted.
		outcome = report.OutcomeCached
	}

	return report.Result{Path: f.Path, Outcome: outcome, Details: details}
}

func failAll(path string) report.Result {
	details := make([]string, 0, len(cache.Variants))
	for _, v := range cache.Variants {
		details = append(details, string(v)+":failed")
	}
	return report.Result{Path: path, Outcome: report.OutcomeFailed, Details: details}
}
