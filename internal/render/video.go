package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/dnaod/thumbnail-generator/internal/logging"
)

// frameOffset is where the representative frame is taken from. One second in
// avoids black lead-in frames on most clips.
const frameOffset = "00:00:01.000"

// renderVideo extracts a single scaled frame from the source video with
// ffmpeg. The extraction is bounded by the renderer's video timeout; on
// expiry the process is killed and the attempt reported as a timeout.
func (r *Renderer) renderVideo(ctx context.Context, sourcePath, outputPath string, pixelSize int) Outcome {
	ffmpeg := r.ffmpeg()
	if _, err := exec.LookPath(ffmpeg); err != nil {
		return failed(FailureToolMissing, fmt.Errorf("locate %s: %w", ffmpeg, err))
	}

	timeout := r.videoTimeout()
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	// ffmpeg picks the PNG encoder from the output suffix, so the temp file
	// has to keep the .png extension.
	tmp, err := os.CreateTemp(filepath.Dir(outputPath), ".frame-*.png")
	if err != nil {
		return failed(FailureWrite, fmt.Errorf("create temp frame: %w", err))
	}
	tmpPath := tmp.Name()
	if err := tmp.Close(); err != nil {
		discard(tmpPath)
		return failed(FailureWrite, fmt.Errorf("close temp frame: %w", err))
	}

	cmd := exec.CommandContext(ctx, ffmpeg,
		"-i", sourcePath,
		"-ss", frameOffset,
		"-vframes", "1",
		"-vf", fmt.Sprintf("scale=%d:%d:force_original_aspect_ratio=decrease", pixelSize, pixelSize),
		"-y",
		tmpPath,
	)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		discard(tmpPath)
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return failed(FailureTimeout, fmt.Errorf("frame extraction exceeded %s for %s", timeout, sourcePath))
		}
		return failed(FailureDecode, fmt.Errorf("ffmpeg failed for %s: %w - %s", sourcePath, err, stderr.String()))
	}

	info, err := os.Stat(tmpPath)
	if err != nil || info.Size() == 0 {
		discard(tmpPath)
		return failed(FailureDecode, fmt.Errorf("ffmpeg produced no output for %s", sourcePath))
	}

	logging.Debug("Extracted frame for %s: %d bytes", sourcePath, info.Size())

	if err := os.Rename(tmpPath, outputPath); err != nil {
		discard(tmpPath)
		return failed(FailureWrite, fmt.Errorf("rename frame into %s: %w", outputPath, err))
	}
	return succeeded()
}
