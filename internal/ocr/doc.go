// Package ocr defines the boundary to the external recognition engine and
// parses its structured output into candidate text lines.
//
// # Engine Boundary
//
// The Engine interface models one recognition pass: an image file on local
// storage plus a page-segmentation mode and output format in, raw structured
// output (hOCR markup or TSV rows) out. Keeping the raw output as the
// interface currency means the fusion pipeline can be exercised entirely
// with synthetic fixtures, with no engine installed.
//
// Two implementations are provided:
//
//   - CommandEngine shells out to the tesseract binary. It is the default:
//     no CGO, and native support for both output formats.
//   - GosseractEngine runs Tesseract in-process via gosseract, avoiding a
//     process spawn per pass. Its TSV output is synthesized from the
//     verbose word-box iterator in the same row layout the CLI emits.
//
// # Prerequisites
//
// Tesseract must be installed together with training data for each language
// used:
//   - Ubuntu/Debian: apt-get install tesseract-ocr tesseract-ocr-<lang>
//   - macOS: brew install tesseract
//
// Requested languages are validated against the installed set with
// NormalizeLanguages; asking only for missing languages fails with
// *UnsupportedLanguageError carrying the available list.
//
// # Output Parsing
//
// ParseHOCRLines and ParseTSVLines share a common path: word tokens are
// filtered for recognition noise, ordered left to right, split into visual
// segments where large gaps indicate separate text pieces, and joined into
// Lines with length-weighted confidence and a font size estimated from the
// median word height. Malformed output is an error (ErrMalformedOutput);
// well-formed output containing no text is an empty, valid result. The
// caller uses that distinction to fall back from hOCR to TSV.
package ocr
