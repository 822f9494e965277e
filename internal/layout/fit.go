package layout

import (
	"sort"
	"strings"
	"unicode"

	"github.com/overlaykit/text-overlay-mcp/internal/textutil"
)

const (
	minFontSize      = 10.0
	lineHeightFactor = 1.1
)

// FitResult is the outcome of fitting one text block into a box.
type FitResult struct {
	FontSize   float64  // chosen size in pixels
	Lines      []string // wrapped text, one entry per rendered line
	LineHeight float64  // vertical advance between lines
}

// FitTextToBox wraps text into the inner width of a box at baseSize and, when
// allowShrink is set, reduces the size until the wrapped block fits the inner
// height within the line-count cap. CJK text tolerates one more line than
// Latin because its glyphs pack taller. The size never drops below a floor,
// so pathologically small boxes yield an overflowing block rather than
// unreadable text.
func FitTextToBox(text string, baseSize, innerW, innerH float64, allowShrink bool) FitResult {
	if !allowShrink {
		size := max(baseSize, minFontSize)
		return FitResult{
			FontSize:   size,
			Lines:      WrapText(text, max(innerW/size, 1)),
			LineHeight: size * lineHeightFactor,
		}
	}

	size := min(baseSize, max(innerH, minFontSize))
	lines := WrapText(text, max(innerW/size, 1))

	maxLines := 3
	if textutil.CJKRatio(text) > 0 {
		maxLines = 4
	}

	lineHeight := size * lineHeightFactor
	for i := 0; i < 8; i++ {
		if len(lines) == 0 {
			lines = []string{strings.TrimSpace(text)}
		}
		lineHeight = size * lineHeightFactor
		blockHeight := float64(len(lines)) * lineHeight
		fitsHeight := blockHeight <= innerH
		if (len(lines) <= maxLines && fitsHeight) || size <= minFontSize {
			break
		}

		shrink := 1.0
		if len(lines) > maxLines {
			shrink = float64(maxLines) / float64(len(lines))
		}
		if !fitsHeight {
			shrink = min(shrink, innerH/blockHeight)
		}
		size = max(size*min(shrink, 0.92), minFontSize)
		lines = WrapText(text, max(innerW/size, 1))
	}

	return FitResult{FontSize: size, Lines: lines, LineHeight: lineHeight}
}

// ChooseFixedFontSize picks one font size for a whole page so the overlay
// looks uniform: the median of the per-line sizes, nudged up slightly and
// clamped to a readable range. With no usable sizes the fallback derives from
// the image height.
func ChooseFixedFontSize(sizes []float64, imageHeight int) float64 {
	usable := make([]float64, 0, len(sizes))
	for _, s := range sizes {
		if s > 0 {
			usable = append(usable, s)
		}
	}

	base := float64(imageHeight) * 0.028
	if len(usable) > 0 {
		sort.Float64s(usable)
		base = usable[len(usable)/2]
	}
	return clamp(base*1.15, 12, 32)
}

// WrapText greedily packs tokens into lines of at most maxUnits estimated
// character units. Explicit newlines force a break; CJK runes are their own
// tokens so wrapping can split anywhere between them.
func WrapText(text string, maxUnits float64) []string {
	tokens := tokenize(text)

	var result []string
	var current strings.Builder
	units := 0.0

	flush := func() {
		line := strings.TrimRight(current.String(), " ")
		if strings.TrimSpace(line) != "" {
			result = append(result, line)
		}
		current.Reset()
		units = 0
	}

	for _, token := range tokens {
		switch token {
		case "\n":
			flush()
		case " ":
			if current.Len() > 0 && !strings.HasSuffix(current.String(), " ") {
				current.WriteByte(' ')
				units += 0.3
			}
		default:
			tokenUnits := estimateTextUnits(token)
			if units+tokenUnits > maxUnits && strings.TrimSpace(current.String()) != "" {
				flush()
			}
			current.WriteString(token)
			units += tokenUnits
		}
	}
	flush()

	if len(result) == 0 {
		result = append(result, strings.TrimSpace(text))
	}
	return result
}

// EstimateTextUnits returns the approximate width of text in character units,
// where an average ASCII glyph is 0.6 units and a full-width CJK glyph is 1.
// Multiplying by the font size gives a pixel estimate without font metrics.
func EstimateTextUnits(text string) float64 {
	return estimateTextUnits(text)
}

func estimateTextUnits(text string) float64 {
	total := 0.0
	for _, r := range text {
		switch {
		case r < 0x80:
			total += 0.6
		case textutil.IsCJK(r):
			total += 1.0
		default:
			total += 0.9
		}
	}
	return total
}

// tokenize splits text into word, single-space, newline, and single-CJK-rune
// tokens.
func tokenize(text string) []string {
	var tokens []string
	var current strings.Builder

	flush := func() {
		if current.Len() > 0 {
			tokens = append(tokens, current.String())
			current.Reset()
		}
	}

	for _, r := range text {
		switch {
		case r == '\n':
			flush()
			tokens = append(tokens, "\n")
		case unicode.IsSpace(r):
			flush()
			tokens = append(tokens, " ")
		case textutil.IsCJK(r):
			flush()
			tokens = append(tokens, string(r))
		default:
			current.WriteRune(r)
		}
	}
	flush()
	return tokens
}
