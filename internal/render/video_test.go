package render

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/dnaod/thumbnail-generator/internal/mediatypes"
)

// writeStubTool writes an executable shell script standing in for ffmpeg.
func writeStubTool(t *testing.T, dir, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell stub tools require a POSIX shell")
	}
	path := filepath.Join(dir, "ffmpeg-stub")
	script := "#!/bin/sh\n" + body + "\n"
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRenderVideoSuccess(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "clip.mp4")
	out := filepath.Join(dir, "thumb.png")
	if err := os.WriteFile(src, []byte("fake video"), 0o644); err != nil {
		t.Fatal(err)
	}

	// Stub copies a real PNG to its last argument, like ffmpeg writing the
	// requested frame.
	frame := filepath.Join(dir, "frame.png")
	writeTestPNG(t, frame, 64, 48, false)
	stub := writeStubTool(t, dir, fmt.Sprintf(`for last; do :; done
cp %q "$last"`, frame))

	r := New()
	r.FFmpegPath = stub

	oc := r.Render(context.Background(), src, out, 128, mediatypes.KindVideo)
	if !oc.OK {
		t.Fatalf("Render() failed: %v (%s)", oc.Err, oc.Failure)
	}

	b := decodePNG(t, out).Bounds()
	if b.Dx() != 64 || b.Dy() != 48 {
		t.Errorf("thumbnail = %dx%d, want the extracted 64x48 frame", b.Dx(), b.Dy())
	}
	assertNoTempFiles(t, dir)
}

func TestRenderVideoToolMissing(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "clip.mp4")
	if err := os.WriteFile(src, []byte("fake video"), 0o644); err != nil {
		t.Fatal(err)
	}

	r := New()
	r.FFmpegPath = filepath.Join(dir, "definitely-not-installed")

	oc := r.Render(context.Background(), src, filepath.Join(dir, "thumb.png"), 128, mediatypes.KindVideo)
	if oc.OK {
		t.Fatal("Render() succeeded without a video tool")
	}
	if oc.Failure != FailureToolMissing {
		t.Errorf("failure kind = %s, want %s", oc.Failure, FailureToolMissing)
	}
}

func TestRenderVideoTimeout(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "clip.mp4")
	if err := os.WriteFile(src, []byte("fake video"), 0o644); err != nil {
		t.Fatal(err)
	}

	stub := writeStubTool(t, dir, "sleep 10")

	r := New()
	r.FFmpegPath = stub
	r.VideoTimeout = 100 * time.Millisecond

	start := time.Now()
	oc := r.Render(context.Background(), src, filepath.Join(dir, "thumb.png"), 128, mediatypes.KindVideo)
	elapsed := time.Since(start)

	if oc.OK {
		t.Fatal("Render() succeeded despite hung tool")
	}
	if oc.Failure != FailureTimeout {
		t.Errorf("failure kind = %s, want %s", oc.Failure, FailureTimeout)
	}
	if elapsed > 5*time.Second {
		t.Errorf("timeout took %v, hung process was not killed promptly", elapsed)
	}
	assertNoTempFiles(t, dir)
}

func TestRenderVideoToolFailure(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "clip.mp4")
	if err := os.WriteFile(src, []byte("fake video"), 0o644); err != nil {
		t.Fatal(err)
	}

	stub := writeStubTool(t, dir, `echo "unsupported codec" >&2
exit 1`)

	r := New()
	r.FFmpegPath = stub

	oc := r.Render(context.Background(), src, filepath.Join(dir, "thumb.png"), 128, mediatypes.KindVideo)
	if oc.OK {
		t.Fatal("Render() succeeded despite tool failure")
	}
	if oc.Failure != FailureDecode {
		t.Errorf("failure kind = %s, want %s", oc.Failure, FailureDecode)
	}
	if _, err := os.Stat(filepath.Join(dir, "thumb.png")); !os.IsNotExist(err) {
		t.Error("failed extraction left an output file behind")
	}
	assertNoTempFiles(t, dir)
}

func TestRenderVideoEmptyOutput(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "clip.mp4")
	if err := os.WriteFile(src, []byte("fake video"), 0o644); err != nil {
		t.Fatal(err)
	}

	// Tool exits 0 without writing anything useful.
	stub := writeStubTool(t, dir, "exit 0")

	r := New()
	r.FFmpegPath = stub

	oc := r.Render(context.Background(), src, filepath.Join(dir, "thumb.png"), 128, mediatypes.KindVideo)
	if oc.OK {
		t.Fatal("Render() accepted an empty frame")
	}
	if oc.Failure != FailureDecode {
		t.Errorf("failure kind = %s, want %s", oc.Failure, FailureDecode)
	}
}
