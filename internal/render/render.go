package render

import (
	"context"
	"fmt"
	"time"

	"github.com/dnaod/thumbnail-generator/internal/logging"
	"github.com/dnaod/thumbnail-generator/internal/mediatypes"
)

// FailureKind classifies why a render attempt failed.
type FailureKind string

const (
	// FailureNone means the render succeeded.
	FailureNone FailureKind = ""
	// FailureDecode means the source could not be decoded or processed.
	FailureDecode FailureKind = "decode"
	// FailureEncode means the thumbnail could not be encoded.
	FailureEncode FailureKind = "encode"
	// FailureWrite means the thumbnail could not be written to the cache.
	FailureWrite FailureKind = "write"
	// FailureTimeout means the external tool exceeded its wall-clock budget.
	FailureTimeout FailureKind = "timeout"
	// FailureToolMissing means the external video tool is not installed.
	FailureToolMissing FailureKind = "tool-missing"
	// FailureUnsupported means the media kind has no rendering backend.
	FailureUnsupported FailureKind = "unsupported"
)

// Outcome is the typed result of one render attempt. The renderer never
// lets an error escape its boundary; callers only see Outcomes.
type Outcome struct {
	OK      bool
	Failure FailureKind
	Err     error
}

func succeeded() Outcome {
	return Outcome{OK: true}
}

func failed(kind FailureKind, err error) Outcome {
	return Outcome{Failure: kind, Err: err}
}

// DefaultVideoTimeout bounds a single ffmpeg frame extraction.
const DefaultVideoTimeout = 30 * time.Second

// Renderer produces thumbnail PNGs for image and video sources.
type Renderer struct {
	// FFmpegPath is the video tool binary name or path ("ffmpeg" by default).
	FFmpegPath string
	// VideoTimeout is the wall-clock budget per frame extraction.
	VideoTimeout time.Duration
}

// New returns a Renderer with default tool settings.
func New() *Renderer {
	return &Renderer{
		FFmpegPath:   "ffmpeg",
		VideoTimeout: DefaultVideoTimeout,
	}
}

// Render builds one thumbnail for sourcePath at outputPath so that the
// longer edge fits within pixelSize. The source is never upscaled. The
// output is written to a temporary file in the target directory and renamed
// into place, so readers never observe a partial thumbnail.
func (r *Renderer) Render(ctx context.Context, sourcePath, outputPath string, pixelSize int, kind mediatypes.Kind) Outcome {
	var oc Outcome
	switch kind {
	case mediatypes.KindImage:
		oc = r.renderImage(sourcePath, outputPath, pixelSize)
	case mediatypes.KindVideo:
		oc = r.renderVideo(ctx, sourcePath, outputPath, pixelSize)
	default:
		oc = failed(FailureUnsupported, fmt.Errorf("no rendering backend for kind %q", kind))
	}

	if !oc.OK {
		switch oc.Failure {
		case FailureToolMissing:
			logging.Error("%s not found; install it to generate video thumbnails: %v", r.ffmpeg(), oc.Err)
		case FailureTimeout:
			logging.Error("Timeout generating thumbnail for %s: %v", sourcePath, oc.Err)
		default:
			logging.Error("Error generating thumbnail for %s: %v", sourcePath, oc.Err)
		}
	}
	return oc
}

func (r *Renderer) ffmpeg() string {
	if r.FFmpegPath != "" {
		return r.FFmpegPath
	}
	return "ffmpeg"
}

func (r *Renderer) videoTimeout() time.Duration {
	if r.VideoTimeout > 0 {
		return r.VideoTimeout
	}
	return DefaultVideoTimeout
}
