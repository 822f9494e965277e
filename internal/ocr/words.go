package ocr

import (
	"sort"
	"strings"
	"unicode"

	"github.com/overlaykit/text-overlay-mcp/internal/geometry"
	"github.com/overlaykit/text-overlay-mcp/internal/textutil"
)

// wordToken is a single recognized token before it is grouped into a line.
type wordToken struct {
	text   string
	box    geometry.Box
	conf   float64
	length int
}

// splitWordSegments breaks a left-to-right word run into visual segments.
//
// The engine sometimes reports one "line" spanning two separate pieces of
// text (e.g. labels on opposite ends of a diagram). A horizontal gap much
// larger than the median word height, or a jump in vertical center, starts a
// new segment. Thresholds scale with the median word height and are clamped
// to sane pixel ranges.
func splitWordSegments(words []wordToken) [][]wordToken {
	if len(words) == 0 {
		return nil
	}
	if len(words) == 1 {
		return [][]wordToken{words}
	}

	heights := make([]int, len(words))
	for i, w := range words {
		heights[i] = w.box.H
	}
	sort.Ints(heights)
	medianH := float64(heights[len(heights)/2])
	if medianH < 1 {
		medianH = 1
	}
	gapThreshold := clampFloat(medianH*2.5, 12, 120)
	verticalThreshold := clampFloat(medianH*0.9, 6, 80)

	var segments [][]wordToken
	var current []wordToken
	var lastRight int
	var lastCenterY float64

	for _, word := range words {
		if len(current) == 0 {
			lastRight = word.box.Right()
			lastCenterY = float64(word.box.Y) + float64(word.box.H)*0.5
			current = append(current, word)
			continue
		}
		gap := word.box.X - lastRight
		if gap < 0 {
			gap = 0
		}
		centerY := float64(word.box.Y) + float64(word.box.H)*0.5
		verticalGap := centerY - lastCenterY
		if verticalGap < 0 {
			verticalGap = -verticalGap
		}
		if float64(gap) > gapThreshold || verticalGap > verticalThreshold {
			segments = append(segments, current)
			current = []wordToken{word}
			lastRight = word.box.Right()
			lastCenterY = centerY
		} else {
			if word.box.Right() > lastRight {
				lastRight = word.box.Right()
			}
			lastCenterY = (lastCenterY + centerY) * 0.5
			current = append(current, word)
		}
	}
	if len(current) > 0 {
		segments = append(segments, current)
	}
	return segments
}

// buildLine assembles a Line from one word segment: text joined with the
// needs-space rule, box as the union of word boxes, confidence as the
// length-weighted average, font size from the median word height.
func buildLine(words []wordToken) (Line, bool) {
	if len(words) == 0 {
		return Line{}, false
	}

	var sb strings.Builder
	lastToken := ""
	for _, word := range words {
		if sb.Len() > 0 && textutil.NeedsSpace(lastToken, word.text) {
			sb.WriteByte(' ')
		}
		sb.WriteString(word.text)
		lastToken = word.text
	}
	text := strings.TrimSpace(sb.String())
	if text == "" {
		return Line{}, false
	}

	box := words[0].box
	var confSum, lenSum float64
	heights := make([]int, 0, len(words))
	for i, word := range words {
		if i > 0 {
			box = geometry.Union(box, word.box)
		}
		weight := float64(word.length)
		if weight < 1 {
			weight = 1
		}
		confSum += word.conf * weight
		lenSum += weight
		heights = append(heights, word.box.H)
	}

	conf := 0.0
	if lenSum > 0 {
		conf = confSum / lenSum
	}
	sort.Ints(heights)
	medianH := float64(heights[len(heights)/2])
	if medianH < 1 {
		medianH = 1
	}
	fontSize := clampFloat(medianH*0.9, 8, 96)

	return Line{Text: text, Box: box, Confidence: conf, FontSize: fontSize}, true
}

// shouldKeepWord filters recognition noise at the word level before lines are
// built. Tiny boxes, one-character low-confidence tokens, and low-confidence
// tokens with no word characters at all are dropped.
func shouldKeepWord(text string, conf float64, box geometry.Box) bool {
	if text == "" || box.W == 0 {
		return false
	}
	runeCount := len([]rune(text))
	if box.H < 8 {
		return conf >= 80 && runeCount >= 2
	}
	if conf < 55 && runeCount <= 1 {
		return false
	}
	if conf < 60 && !hasWordRune(text) {
		return false
	}
	return true
}

func hasWordRune(text string) bool {
	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || textutil.IsCJK(r) {
			return true
		}
	}
	return false
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
