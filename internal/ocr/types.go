package ocr

import (
	"context"

	"github.com/overlaykit/text-overlay-mcp/internal/geometry"
)

// PageSegMode selects how the recognition engine interprets page layout.
// Values match Tesseract's --psm numbering.
type PageSegMode int

const (
	PSMOSDOnly         PageSegMode = 0  // Orientation and script detection only
	PSMAutoOSD         PageSegMode = 1  // Automatic with OSD
	PSMAutoOnly        PageSegMode = 2  // Automatic, no OSD or OCR
	PSMAuto            PageSegMode = 3  // Fully automatic (engine default)
	PSMSingleColumn    PageSegMode = 4  // Single column of variable sizes
	PSMSingleBlockVert PageSegMode = 5  // Single uniform block of vertical text
	PSMSingleBlock     PageSegMode = 6  // Single uniform block of text
	PSMSingleLine      PageSegMode = 7  // Single text line
	PSMSingleWord      PageSegMode = 8  // Single word
	PSMCircleWord      PageSegMode = 9  // Single word in a circle
	PSMSingleChar      PageSegMode = 10 // Single character
	PSMSparseText      PageSegMode = 11 // Find as much text as possible
	PSMSparseTextOSD   PageSegMode = 12 // Sparse text with OSD
	PSMRawLine         PageSegMode = 13 // Treat image as a single raw line
)

// Format identifies the structured output format requested from an engine.
type Format string

const (
	// FormatHOCR is hierarchical HTML markup with per-word positions and
	// confidence (the primary format).
	FormatHOCR Format = "hocr"

	// FormatTSV is the flat tab-separated token table (the resilience
	// fallback when an hOCR pass parses to zero lines).
	FormatTSV Format = "tsv"
)

// Request describes one recognition pass over an image file on local storage.
type Request struct {
	// ImagePath is the path to the (already preprocessed) image.
	ImagePath string

	// Languages is the normalized "+"-joined Tesseract language string,
	// e.g. "eng" or "jpn+eng". Must already be validated against the
	// engine's installed languages.
	Languages string

	// Mode is the page-segmentation mode for this pass.
	Mode PageSegMode

	// Format selects hOCR or TSV output.
	Format Format

	// DPI is passed to the engine as the assumed input resolution; zero
	// means let the engine guess.
	DPI int
}

// Engine is the capability boundary to the external recognition engine.
//
// Recognize returns the raw structured output (hOCR markup or TSV rows) for
// one pass; parsing is the caller's concern so the pipeline can be tested
// with synthetic fixtures. An engine invocation failure is fatal to the whole
// extraction of that image.
type Engine interface {
	Name() string
	Recognize(ctx context.Context, req Request) (string, error)
	AvailableLanguages(ctx context.Context) ([]string, error)
}

// Line is one recognized line of text as seen in a single recognition pass.
// The fusion engine folds lines from redundant passes into a deduplicated
// set.
type Line struct {
	// Text is the recognized line content.
	Text string `json:"text"`

	// Box is the bounding box in the pixel space of the image the pass ran
	// on (fusion rescales upscaled passes back to source space).
	Box geometry.Box `json:"box"`

	// Confidence is the engine's confidence in [0, 100].
	Confidence float64 `json:"confidence"`

	// FontSize is the estimated font size in pixels, derived from the
	// median word height of the line.
	FontSize float64 `json:"font_size"`
}

// Result is the fused output for one image: the deduplicated lines in
// reading order, in source-image pixel space. Read-only once produced.
type Result struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Lines  []Line `json:"lines"`
}
