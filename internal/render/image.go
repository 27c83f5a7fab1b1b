package render

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"

	"github.com/dnaod/thumbnail-generator/internal/logging"

	// Image format decoders
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp" // WebP format support
)

// renderImage decodes the source image, fits it into a pixelSize bounding
// box, flattens any transparency onto a white background and writes it as
// PNG. BMP and TIFF decoding come with the imaging library; WebP is
// registered above.
func (r *Renderer) renderImage(sourcePath, outputPath string, pixelSize int) Outcome {
	img, err := imaging.Open(sourcePath, imaging.AutoOrientation(true))
	if err != nil {
		return failed(FailureDecode, fmt.Errorf("decode %s: %w", sourcePath, err))
	}

	// Fit scales down only, matching thumbnail semantics: small sources
	// keep their original dimensions.
	thumb := imaging.Fit(img, pixelSize, pixelSize, imaging.Lanczos)
	flat := flattenOnWhite(thumb)

	return writeThumbnailPNG(outputPath, flat)
}

// flattenOnWhite composites an image onto an opaque white background. The
// output format has no alpha channel, so transparency must be blended in,
// not dropped.
func flattenOnWhite(img image.Image) *image.NRGBA {
	bounds := img.Bounds()
	background := imaging.New(bounds.Dx(), bounds.Dy(), color.White)
	return imaging.Overlay(background, img, image.Point{}, 1.0)
}

// writeThumbnailPNG encodes img as PNG to a temporary file in the target
// directory and renames it into place. The rename keeps concurrent readers
// from ever seeing a half-written thumbnail.
func writeThumbnailPNG(outputPath string, img image.Image) Outcome {
	tmp, err := os.CreateTemp(filepath.Dir(outputPath), ".thumb-*.png")
	if err != nil {
		return failed(FailureWrite, fmt.Errorf("create temp thumbnail: %w", err))
	}
	tmpPath := tmp.Name()

	if err := imaging.Encode(tmp, img, imaging.PNG); err != nil {
		closeAndDiscard(tmp, tmpPath)
		return failed(FailureEncode, fmt.Errorf("encode %s: %w", outputPath, err))
	}
	if err := tmp.Close(); err != nil {
		discard(tmpPath)
		return failed(FailureWrite, fmt.Errorf("close temp thumbnail: %w", err))
	}
	if err := os.Rename(tmpPath, outputPath); err != nil {
		discard(tmpPath)
		return failed(FailureWrite, fmt.Errorf("rename thumbnail into %s: %w", outputPath, err))
	}
	return succeeded()
}

func closeAndDiscard(f *os.File, path string) {
	if err := f.Close(); err != nil {
		logging.Debug("failed to close temp thumbnail %s: %v", path, err)
	}
	discard(path)
}

func discard(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		logging.Warn("failed to remove temp thumbnail %s: %v", path, err)
	}
}
