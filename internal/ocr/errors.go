package ocr

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEngineUnavailable indicates that no recognition engine could be invoked
// (e.g. the tesseract binary is not installed).
var ErrEngineUnavailable = errors.New("recognition engine unavailable")

// ErrMalformedOutput wraps parse failures of engine output. Zero recognized
// lines in well-formed output is NOT this error; it is an empty, valid
// result.
var ErrMalformedOutput = errors.New("malformed engine output")

// UnsupportedLanguageError reports that none of the requested OCR languages
// are installed. It carries the engine's available set so callers can surface
// actionable detail.
type UnsupportedLanguageError struct {
	Missing   []string
	Available []string
}

func (e *UnsupportedLanguageError) Error() string {
	return fmt.Sprintf("ocr language(s) not available: %s (available: %s)",
		strings.Join(e.Missing, ", "), strings.Join(e.Available, ", "))
}
