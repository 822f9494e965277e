// Package overlay turns translated lines into a rendered overlay: each line
// gets a styled box placed near the region it replaces without covering other
// recognized text, and the result is serialized as SVG markup over the source
// image.
package overlay

import (
	"strings"

	"github.com/overlaykit/text-overlay-mcp/internal/geometry"
	"github.com/overlaykit/text-overlay-mcp/internal/layout"
)

// ReplacementLine is one translated line to place back onto the image. Box is
// the source region the text replaces, a placement target rather than an
// observation.
type ReplacementLine struct {
	Text     string       `json:"text"`
	Box      geometry.Box `json:"box"`
	FontSize float64      `json:"font_size"`
}

// Placement is the computed layout for one replacement line.
type Placement struct {
	// Rect is the final box in image pixel space.
	Rect layout.PlacedRect `json:"rect"`

	// Lines is the wrapped text, one entry per rendered line.
	Lines []string `json:"lines"`

	FontSize   float64 `json:"font_size"`
	LineHeight float64 `json:"line_height"`
	Padding    float64 `json:"padding"`

	// Placed is false when the resolver exhausted its shift budget and the
	// box may overlap an obstacle.
	Placed bool `json:"placed"`
}

// Plan is the full placement result for one image.
type Plan struct {
	Width      int         `json:"width"`
	Height     int         `json:"height"`
	FontSize   float64     `json:"font_size"`
	Placements []Placement `json:"placements"`
}

// BuildPlan computes a placement for every replacement line on an image of
// the given size.
//
// One font size serves the whole page (the style's, or the median-derived
// default) so the overlay reads uniformly. Each box starts centered under its
// source region; when another recognized region sits closely below, the box
// is pre-positioned beside the region instead and the resolver probes
// horizontal offsets first. Purely numeric labels skip fitting and render as
// a single line.
//
// BuildPlan is total: every line receives a placement, with Placed marking
// the ones the resolver could not fully clear. maxShift bounds how far the
// resolver may move a box in pixels; zero means unrestricted within bounds.
func BuildPlan(lines []ReplacementLine, width, height int, style Style, maxShift float64) *Plan {
	metrics := style.metrics()
	layoutH := float64(height)
	imageW := float64(width)

	fixedFontSize := style.FontSize
	if fixedFontSize > 0 {
		fixedFontSize = clampf(fixedFontSize, 10, layoutH*0.2)
	} else {
		sizes := make([]float64, 0, len(lines))
		for _, line := range lines {
			sizes = append(sizes, line.FontSize)
		}
		fixedFontSize = layout.ChooseFixedFontSize(sizes, height)
	}

	avoid := avoidRects(lines)
	placed := make([]layout.PlacedRect, 0, len(lines))
	placements := make([]Placement, 0, len(lines))

	for _, line := range lines {
		srcW := max(float64(line.Box.W), 1)
		srcH := max(float64(line.Box.H), 1)
		margin := clampf(srcH*0.2, 3, 12)
		maxWidth := min(max(imageW*0.9, srcW*1.4), imageW*0.98)
		padding := clampf(srcH*0.22, 4, 10)
		innerW := max(maxWidth-padding*2, 40)
		innerH := max(layoutH*0.5-padding*2, 20)

		var fit layout.FitResult
		if isNumericLabel(line.Text) {
			fit = layout.FitResult{
				FontSize:   fixedFontSize,
				Lines:      []string{line.Text},
				LineHeight: fixedFontSize * 1.2,
			}
		} else {
			fit = layout.FitTextToBox(line.Text, fixedFontSize, innerW, innerH, false)
		}
		if len(fit.Lines) == 0 {
			fit.Lines = []string{strings.TrimSpace(line.Text)}
		}

		blockHeight := float64(len(fit.Lines)) * fit.LineHeight
		maxHeightCap := max(layoutH*0.5, srcH*2.2)
		if blockHeight+padding*2 > maxHeightCap {
			maxFit := int((maxHeightCap - padding*2) / fit.LineHeight)
			if maxFit < 1 {
				maxFit = 1
			}
			if len(fit.Lines) > maxFit {
				fit.Lines = fit.Lines[:maxFit]
			}
			blockHeight = float64(len(fit.Lines)) * fit.LineHeight
		}
		boxH := min(blockHeight+padding*2, layoutH)

		maxLineWidth := 1.0
		for _, text := range fit.Lines {
			maxLineWidth = max(maxLineWidth, metrics.TextWidth(text, fit.FontSize))
		}
		boxW := clampf(maxLineWidth+padding*2, 40, maxWidth)

		centerX := float64(line.Box.X) + srcW*0.5
		anchorY := float64(line.Box.Y) + srcH - srcH*0.2
		base := layout.PlacedRect{
			X: clampf(centerX-boxW*0.5, 0, max(imageW-boxW, 0)),
			Y: clampf(anchorY, 0, max(layoutH-boxH, 0)),
			W: boxW,
			H: boxH,
		}
		anchor := layout.PlacedRect{
			X: float64(line.Box.X),
			Y: float64(line.Box.Y),
			W: float64(line.Box.W),
			H: float64(line.Box.H),
		}

		gap := max(margin*0.4, 2)
		preferSide := layout.HasObstacleBelow(avoid, anchor, gap)
		if preferSide {
			rightX := anchor.Right() + gap
			leftX := anchor.X - boxW - gap
			if rightX+boxW <= imageW {
				base.X = rightX
			} else if leftX >= 0 {
				base.X = leftX
			}
			base.X = clampf(base.X, 0, max(imageW-boxW, 0))
		}

		cfg := layout.DefaultConfig(imageW, layoutH)
		cfg.Anchor = anchor
		cfg.PreferSide = preferSide
		cfg.Gap = gap
		cfg.MaxShift = maxShift

		rect, ok := layout.ResolveOverlap(base, placed, avoid, cfg)
		placed = append(placed, rect)
		placements = append(placements, Placement{
			Rect:       rect,
			Lines:      fit.Lines,
			FontSize:   fit.FontSize,
			LineHeight: fit.LineHeight,
			Padding:    padding,
			Placed:     ok,
		})
	}

	return &Plan{
		Width:      width,
		Height:     height,
		FontSize:   fixedFontSize,
		Placements: placements,
	}
}

func avoidRects(lines []ReplacementLine) []layout.PlacedRect {
	rects := make([]layout.PlacedRect, 0, len(lines))
	for _, line := range lines {
		rects = append(rects, layout.PlacedRect{
			X: float64(line.Box.X),
			Y: float64(line.Box.Y),
			W: float64(line.Box.W),
			H: float64(line.Box.H),
		})
	}
	return rects
}

// isNumericLabel reports whether the text is a bare number, like a page
// number or panel index, which renders as-is at the page font size.
func isNumericLabel(text string) bool {
	if text == "" {
		return false
	}
	for _, r := range text {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func clampf(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
