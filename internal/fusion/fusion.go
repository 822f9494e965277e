// Package fusion folds the candidate-line batches produced by successive
// recognition passes into a single deduplicated set of text lines in
// source-image pixel space.
//
// A recognition run over several image variants and page-segmentation modes
// reports the same physical line many times, with slightly different boxes,
// text, and confidence. The pipeline folds each batch into the running set as
// it arrives (Merge), then applies four reduction passes once all batches are
// in: Scale, Filter, MergeInline, and SuppressOverlaps. All functions are
// total over well-formed inputs and never return errors.
package fusion

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/overlaykit/text-overlay-mcp/internal/geometry"
	"github.com/overlaykit/text-overlay-mcp/internal/ocr"
	"github.com/overlaykit/text-overlay-mcp/internal/textutil"
)

const (
	// DuplicateIoUThreshold is the intersection-over-union above which two
	// lines from different passes are treated as the same physical line.
	DuplicateIoUThreshold = 0.5

	// InlineVerticalThreshold is the vertical-overlap ratio above which two
	// lines are considered part of the same visual row.
	InlineVerticalThreshold = 0.6

	// boundsTolerance is how far, in pixels, a box may straddle the image
	// boundary before filtering drops it.
	boundsTolerance = 2
)

// Merge folds one batch of incoming lines into the accumulated set. An
// incoming line whose box exceeds DuplicateIoUThreshold against an existing
// line is treated as a re-recognition of that line: the confidences are
// combined length-weighted, and the incoming text and box replace the
// existing ones only when the incoming read looks better (markedly higher
// confidence, or substantially longer text). Everything else is appended.
//
// Merging with an empty batch returns the set unchanged.
func Merge(base, incoming []ocr.Line) []ocr.Line {
	out := base
	for _, line := range incoming {
		idx := -1
		for i := range out {
			if geometry.IoU(out[i].Box, line.Box) > DuplicateIoUThreshold {
				idx = i
				break
			}
		}
		if idx < 0 {
			out = append(out, line)
			continue
		}

		existing := &out[idx]
		conf := textutil.MergeConfidence(
			existing.Confidence, utf8.RuneCountInString(existing.Text),
			line.Confidence, utf8.RuneCountInString(line.Text),
		)
		if preferIncoming(*existing, line) {
			existing.Text = line.Text
			existing.Box = line.Box
			existing.FontSize = line.FontSize
		}
		existing.Confidence = conf
	}
	return out
}

// preferIncoming decides whether a duplicate read should replace the text and
// box already held. Longer text only wins when it is not trading CJK content
// for Latin mojibake, which single-column passes over upscaled variants
// produce regularly.
func preferIncoming(existing, incoming ocr.Line) bool {
	incomingLen := utf8.RuneCountInString(incoming.Text)
	existingLen := utf8.RuneCountInString(existing.Text)

	if incoming.Confidence > existing.Confidence+5 {
		return true
	}
	if incomingLen > existingLen &&
		textutil.CJKRatio(incoming.Text)+0.05 >= textutil.CJKRatio(existing.Text) {
		return true
	}
	return existingLen <= 2 && incomingLen >= 4
}

// Scale divides every box coordinate and font size by the preprocessing
// upscale factor, returning lines to original-image pixel space. Coordinates
// are rounded to the nearest pixel. A scale of 1 or less is a no-op.
func Scale(lines []ocr.Line, scale int) []ocr.Line {
	if scale <= 1 {
		return lines
	}
	f := float64(scale)
	scaled := make([]ocr.Line, 0, len(lines))
	for _, line := range lines {
		line.Box = geometry.Box{
			X: roundDiv(line.Box.X, f),
			Y: roundDiv(line.Box.Y, f),
			W: roundDiv(line.Box.W, f),
			H: roundDiv(line.Box.H, f),
		}
		line.FontSize /= f
		scaled = append(scaled, line)
	}
	return scaled
}

func roundDiv(v int, f float64) int {
	return int(float64(v)/f + 0.5)
}

// Filter drops lines that cannot be real text: empty or degenerate boxes,
// boxes outside the image bounds beyond a small tolerance, and several shapes
// of recognition noise (page-wide slivers, tall narrow smears, low-confidence
// symbol soup). Filtering is idempotent.
func Filter(lines []ocr.Line, width, height int) []ocr.Line {
	kept := make([]ocr.Line, 0, len(lines))
	for _, line := range lines {
		if isLineValid(line, width, height) {
			kept = append(kept, line)
		}
	}
	return kept
}

func isLineValid(line ocr.Line, width, height int) bool {
	text := strings.TrimSpace(line.Text)
	if text == "" {
		return false
	}
	if line.Box.W <= 0 || line.Box.H <= 0 {
		return false
	}
	if line.Box.X < -boundsTolerance || line.Box.Y < -boundsTolerance ||
		line.Box.Right() > width+boundsTolerance ||
		line.Box.Bottom() > height+boundsTolerance {
		return false
	}
	if float64(line.Box.H) > float64(height)*0.25 {
		return false
	}
	if float64(line.Box.W) > float64(width)*0.98 && line.Box.H < 6 {
		return false
	}
	aspect := float64(line.Box.W) / float64(max(line.Box.H, 1))
	if aspect < 0.35 && utf8.RuneCountInString(text) > 3 {
		return false
	}

	stats := textutil.Analyze(text)
	if stats.Total == 0 {
		return false
	}
	wordRatio := float64(stats.Word) / float64(stats.Total)
	digitRatio := float64(stats.Digits) / float64(stats.Total)
	symbolRatio := float64(stats.Symbols) / float64(stats.Total)
	if stats.Total > 4 && wordRatio < 0.35 {
		return false
	}
	if stats.Total > 3 && digitRatio > 0.85 {
		return false
	}
	if stats.Total > 3 && symbolRatio > 0.6 {
		return false
	}
	if line.Confidence < 25 && stats.Total <= 4 {
		return false
	}
	if line.Confidence < 70 {
		asciiRatio := float64(stats.ASCII) / float64(max(stats.Total, 1))
		if asciiRatio > 0.4 {
			return false
		}
	}
	return true
}

// MergeInline rejoins lines the engine split along one visual row. After
// sorting top-to-bottom then left-to-right, a line whose box overlaps the
// previous line vertically above InlineVerticalThreshold and sits within a
// small horizontal gap of it is folded in: text joined with a space where the
// boundary runes require one, box unioned, confidence and font size combined
// length-weighted.
func MergeInline(lines []ocr.Line) []ocr.Line {
	sortReadingOrder(lines)

	merged := make([]ocr.Line, 0, len(lines))
	for _, line := range lines {
		if len(merged) > 0 {
			last := &merged[len(merged)-1]
			if geometry.VerticalOverlap(last.Box, line.Box) > InlineVerticalThreshold &&
				inlineGapOK(last.Box, line.Box) {
				lastLen := utf8.RuneCountInString(last.Text)
				lineLen := utf8.RuneCountInString(line.Text)
				last.Text = textutil.JoinInline(last.Text, line.Text)
				last.Box = geometry.Union(last.Box, line.Box)
				last.Confidence = textutil.MergeConfidence(last.Confidence, lastLen, line.Confidence, lineLen)
				last.FontSize = weightedAverage(last.FontSize, lastLen, line.FontSize, lineLen)
				continue
			}
		}
		merged = append(merged, line)
	}
	return merged
}

// inlineGapOK reports whether b starts close enough after a's right edge to
// be the continuation of the same visual line. The allowance grows with line
// height so large lettering tolerates wider word spacing.
func inlineGapOK(a, b geometry.Box) bool {
	gap := b.X - a.Right()
	if gap < 0 {
		gap = 0
	}
	maxGap := int(max(float64(a.H)*0.8, 6))
	return gap <= maxGap
}

func weightedAverage(a float64, lenA int, b float64, lenB int) float64 {
	total := lenA + lenB
	if total < 1 {
		total = 1
	}
	return (a*float64(lenA) + b*float64(lenB)) / float64(total)
}

// SuppressOverlaps removes residual duplicates that survive the earlier
// passes, typically the same region reported by different variant and mode
// combinations with boxes too far apart for the incremental merge to pair.
// Lines are visited best-first (higher confidence, then longer text, then
// reading order); a line is dropped when it duplicates a kept one, either by
// IoU or by overlapping it strongly on both axes. The result is in reading
// order.
func SuppressOverlaps(lines []ocr.Line) []ocr.Line {
	sorted := make([]ocr.Line, len(lines))
	copy(sorted, lines)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Confidence != sorted[j].Confidence {
			return sorted[i].Confidence > sorted[j].Confidence
		}
		li, lj := utf8.RuneCountInString(sorted[i].Text), utf8.RuneCountInString(sorted[j].Text)
		if li != lj {
			return li > lj
		}
		if sorted[i].Box.Y != sorted[j].Box.Y {
			return sorted[i].Box.Y < sorted[j].Box.Y
		}
		return sorted[i].Box.X < sorted[j].Box.X
	})

	kept := make([]ocr.Line, 0, len(sorted))
outer:
	for _, line := range sorted {
		for _, existing := range kept {
			if geometry.IoU(existing.Box, line.Box) > DuplicateIoUThreshold {
				continue outer
			}
			if geometry.VerticalOverlap(existing.Box, line.Box) > 0.8 &&
				geometry.HorizontalOverlap(existing.Box, line.Box) > 0.8 {
				continue outer
			}
		}
		kept = append(kept, line)
	}

	sortReadingOrder(kept)
	return kept
}

func sortReadingOrder(lines []ocr.Line) {
	sort.SliceStable(lines, func(i, j int) bool {
		if lines[i].Box.Y != lines[j].Box.Y {
			return lines[i].Box.Y < lines[j].Box.Y
		}
		return lines[i].Box.X < lines[j].Box.X
	})
}
