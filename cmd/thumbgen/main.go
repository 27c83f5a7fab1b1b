package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/dnaod/thumbnail-generator/internal/history"
	"github.com/dnaod/thumbnail-generator/internal/logging"
	"github.com/dnaod/thumbnail-generator/internal/orchestrator"
	"github.com/dnaod/thumbnail-generator/internal/render"
	"github.com/dnaod/thumbnail-generator/internal/report"
	"github.com/dnaod/thumbnail-generator/internal/workers"
)

func main() {
	cmd := &cli.Command{
		Name:      "thumbgen",
		Usage:     "Generate freedesktop-style .thumbnails caches for images and videos in a directory tree",
		ArgsUsage: "<directory>",
		Action:    run,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "force",
				Usage: "Force regeneration of existing thumbnails",
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "Number of parallel workers",
				Value: workers.Default,
			},
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "List files that would be processed without generating thumbnails",
			},
			&cli.StringFlag{
				Name:  "history-db",
				Usage: "Record run results in a SQLite database at this path",
			},
			&cli.StringSliceFlag{
				Name:  "exclude",
				Usage: "Additional directory or file name to exclude (repeatable)",
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		if msg := err.Error(); msg != "" {
			logging.Error("%s", msg)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	root := cmd.Args().First()
	if err := validateRoot(root); err != nil {
		logging.Error("%v", err)
		return cli.Exit("", 1)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	dryRun := cmd.Bool("dry-run")

	var sink report.Sink = report.LogSink{}
	if dryRun {
		sink = report.WriterSink{W: os.Stdout}
	}

	if dbPath := cmd.String("history-db"); dbPath != "" && !dryRun {
		store, err := history.Open(ctx, dbPath, root)
		if err != nil {
			logging.Warn("Run history disabled: %v", err)
		} else {
			defer func() {
				if err := store.Close(); err != nil {
					logging.Warn("Failed to close history database: %v", err)
				}
			}()
			sink = report.Multi(sink, store)
		}
	}

	cfg := orchestrator.Config{
		Root:          root,
		Workers:       workers.Resolve(int(cmd.Int("workers"))),
		Force:         cmd.Bool("force"),
		DryRun:        dryRun,
		ExtraExcludes: cmd.StringSlice("exclude"),
	}

	summary, err := orchestrator.New(cfg, render.New(), sink).Run(ctx)
	if err != nil {
		return cli.Exit(fmt.Sprintf("run aborted: %v", err), 1)
	}
	if summary.Failed > 0 {
		return cli.Exit(fmt.Sprintf("%d of %d files failed", summary.Failed, summary.Total), 1)
	}
	return nil
}

// validateRoot checks that the positional argument names an existing
// directory before anything is scanned.
func validateRoot(root string) error {
	if root == "" {
		return fmt.Errorf("missing required argument: directory to scan")
	}
	info, err := os.Stat(root)
	if os.IsNotExist(err) {
		return fmt.Errorf("directory does not exist: %s", root)
	}
	if err != nil {
		return fmt.Errorf("cannot access %s: %w", root, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("not a directory: %s", root)
	}
	return nil
}
