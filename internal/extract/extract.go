// Package extract runs the full recognition pipeline for one image: build
// preprocessing variants, recognize each variant under its page-segmentation
// modes, fold every batch of parsed lines into the fused set, and reduce the
// result to deduplicated lines in source-image pixel space.
package extract

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"os"

	"github.com/disintegration/imaging"

	"github.com/overlaykit/text-overlay-mcp/internal/fusion"
	"github.com/overlaykit/text-overlay-mcp/internal/ocr"
	"github.com/overlaykit/text-overlay-mcp/internal/preprocess"
)

// recognition DPI hint passed to the engine for every pass.
const recognitionDPI = 300

// Extractor drives recognition passes against a single OCR engine. It holds
// no per-image state, so one Extractor may serve concurrent extractions.
type Extractor struct {
	engine ocr.Engine
}

// New returns an Extractor backed by the given engine.
func New(engine ocr.Engine) *Extractor {
	return &Extractor{engine: engine}
}

// ExtractFile loads and decodes the image at path, then extracts its text
// lines. A file that cannot be read or decoded is reported before any
// recognition is attempted.
func (e *Extractor) ExtractFile(ctx context.Context, path, languages string) (*ocr.Result, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load image %s: %w", path, err)
	}
	return e.ExtractImage(ctx, img, languages)
}

// ExtractImage extracts text lines from a decoded image.
//
// The image is upscaled and cleaned into one or more variants; the primary
// variant is recognized under an automatic-layout mode and a single-column
// mode, later variants under the single-column mode only. Each pass's parsed
// lines are merged into the running set immediately, so a later pass
// deduplicates against everything recognized before it. After all passes the
// set is scaled back to source pixels, filtered, inline-merged, and stripped
// of residual overlaps.
//
// Any engine invocation failure or malformed engine output aborts the whole
// extraction. Zero recognized lines is not an error.
func (e *Extractor) ExtractImage(ctx context.Context, img image.Image, languages string) (*ocr.Result, error) {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	langs, err := ocr.NormalizeLanguages(ctx, e.engine, languages)
	if err != nil {
		return nil, err
	}

	scale := preprocess.ScaleFor(width)
	variants := preprocess.Variants(img, scale)

	var lines []ocr.Line
	for i, variant := range variants {
		modes := []ocr.PageSegMode{ocr.PSMSingleColumn}
		if i == 0 {
			modes = []ocr.PageSegMode{ocr.PSMSingleBlock, ocr.PSMSingleColumn}
		}

		path, err := writeTempPNG(variant)
		if err != nil {
			return nil, err
		}

		for _, mode := range modes {
			batch, err := e.recognizePass(ctx, path, langs, mode)
			if err != nil {
				os.Remove(path)
				return nil, err
			}
			lines = fusion.Merge(lines, batch)
		}
		os.Remove(path)
	}

	lines = fusion.Scale(lines, scale)
	lines = fusion.Filter(lines, width, height)
	lines = fusion.MergeInline(lines)
	lines = fusion.SuppressOverlaps(lines)

	return &ocr.Result{Width: width, Height: height, Lines: lines}, nil
}

// recognizePass runs one (variant, mode) recognition and parses its output.
// The engine's markup output is preferred; when it parses cleanly but yields
// no lines, the tabular output for the same pass is tried before the pass is
// considered empty.
func (e *Extractor) recognizePass(ctx context.Context, path, langs string, mode ocr.PageSegMode) ([]ocr.Line, error) {
	req := ocr.Request{
		ImagePath: path,
		Languages: langs,
		Mode:      mode,
		Format:    ocr.FormatHOCR,
		DPI:       recognitionDPI,
	}
	out, err := e.engine.Recognize(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("ocr invocation failed (psm %d): %w", mode, err)
	}

	lines, err := ocr.ParseHOCRLines([]byte(out))
	if err != nil {
		return nil, err
	}
	if len(lines) > 0 {
		return lines, nil
	}

	req.Format = ocr.FormatTSV
	out, err = e.engine.Recognize(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("ocr invocation failed (psm %d, tsv fallback): %w", mode, err)
	}
	return ocr.ParseTSVLines(out)
}

// writeTempPNG saves a variant to a scratch file for the engine. The caller
// removes the file once its passes complete.
func writeTempPNG(img image.Image) (string, error) {
	tmpFile, err := os.CreateTemp("", "overlay-ocr-*.png")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	if err := png.Encode(tmpFile, img); err != nil {
		tmpFile.Close()
		os.Remove(tmpFile.Name())
		return "", fmt.Errorf("failed to encode temp image: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		os.Remove(tmpFile.Name())
		return "", fmt.Errorf("failed to close temp file: %w", err)
	}
	return tmpFile.Name(), nil
}
