package ocr

import (
	"context"
	"fmt"
	"log"
	"strings"
)

// NormalizeLanguages validates a requested language list against the
// languages the engine actually has installed and returns the "+"-joined
// string Tesseract expects.
//
// The requested string may separate languages with "+", "," or spaces.
// Languages the engine lacks are dropped with a warning; if none survive, an
// *UnsupportedLanguageError carrying the available set is returned. If the
// engine cannot enumerate its languages at all, the request is passed through
// untouched (the recognition pass itself will surface a real failure).
func NormalizeLanguages(ctx context.Context, engine Engine, requested string) (string, error) {
	trimmed := strings.TrimSpace(requested)
	if trimmed == "" {
		return "", fmt.Errorf("ocr languages is empty")
	}

	available, err := engine.AvailableLanguages(ctx)
	if err != nil {
		return trimmed, nil
	}

	var chosen, missing []string
	for _, raw := range strings.FieldsFunc(trimmed, func(r rune) bool {
		return r == '+' || r == ',' || r == ' '
	}) {
		lang := strings.TrimSpace(raw)
		if lang == "" {
			continue
		}
		if containsString(available, lang) {
			chosen = append(chosen, lang)
		} else {
			missing = append(missing, lang)
		}
	}

	if len(chosen) == 0 {
		return "", &UnsupportedLanguageError{Missing: missing, Available: available}
	}
	if len(missing) > 0 {
		log.Printf("warning: ocr language(s) not available: %s (available: %s)",
			strings.Join(missing, ", "), strings.Join(available, ", "))
	}
	return strings.Join(chosen, "+"), nil
}

func containsString(list []string, value string) bool {
	for _, v := range list {
		if v == value {
			return true
		}
	}
	return false
}
