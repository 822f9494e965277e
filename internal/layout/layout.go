// Package layout places replacement-text rectangles onto an image without
// colliding with the recognized text regions. The resolver is a deterministic
// local search: candidate positions are probed at growing distances from the
// target box, bounded by a configurable shift budget, and the search never
// fails outright. The fitting half computes a font size at which wrapped text
// fits a target box.
package layout

import (
	"math"

	"github.com/overlaykit/text-overlay-mcp/internal/ocr"
)

// PlacedRect is an axis-aligned rectangle in image pixel space. Placement
// works in floating point so shift steps smaller than a pixel remain
// representable.
type PlacedRect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Right returns the x coordinate of the right edge.
func (r PlacedRect) Right() float64 { return r.X + r.W }

// Bottom returns the y coordinate of the bottom edge.
func (r PlacedRect) Bottom() float64 { return r.Y + r.H }

// Config tunes how aggressively the resolver may move a box to escape
// collisions. Use DefaultConfig for the standard policy and override fields
// as needed.
type Config struct {
	// Anchor is the source region the box being placed belongs to. The
	// candidate may cover a sliver of it (see AnchorOverlapRatio) even
	// though it is part of the obstacle set.
	Anchor PlacedRect

	// AnchorOverlapRatio is the fraction of the anchor's height the
	// candidate may still cover, in [0,1].
	AnchorOverlapRatio float64

	// PreferSide probes horizontal offsets before vertical ones at each
	// radius, for callers that want the box pushed beside its anchor
	// rather than under it.
	PreferSide bool

	// AllowHorizontalShift and AllowVerticalShift restrict the axes the
	// resolver may move along. Diagonal probes need both.
	AllowHorizontalShift bool
	AllowVerticalShift   bool

	// BoundsW and BoundsH clamp every candidate inside the image.
	BoundsW float64
	BoundsH float64

	// Gap is the margin kept between the candidate and every obstacle.
	Gap float64

	// MaxShift bounds the search radius. Zero means the larger image
	// dimension, effectively unbounded.
	MaxShift float64
}

// DefaultConfig returns the standard resolution policy for an image of the
// given size: both axes enabled, a small obstacle margin, and a fifth of the
// anchor height tolerated as residual overlap.
func DefaultConfig(boundsW, boundsH float64) Config {
	return Config{
		AnchorOverlapRatio:   0.2,
		AllowHorizontalShift: true,
		AllowVerticalShift:   true,
		BoundsW:              boundsW,
		BoundsH:              boundsH,
		Gap:                  2,
	}
}

// BuildAvoidRects materializes the obstacle set from fused lines. A
// non-negative exclude index leaves that line out, for placements that must
// not avoid their own source box.
func BuildAvoidRects(lines []ocr.Line, exclude int) []PlacedRect {
	rects := make([]PlacedRect, 0, len(lines))
	for i, line := range lines {
		if i == exclude {
			continue
		}
		rects = append(rects, PlacedRect{
			X: float64(line.Box.X),
			Y: float64(line.Box.Y),
			W: float64(line.Box.W),
			H: float64(line.Box.H),
		})
	}
	return rects
}

// ResolveOverlap searches for a collision-free position for rect, preferring
// minimal displacement from its original position. placed holds boxes already
// committed in this pass; avoid holds the recognized-region obstacles.
//
// Positions are probed at growing radii in steps of max(Gap, 2) up to the
// shift budget, then along a coarse-to-fine diagonal fallback. Candidates are
// clamped to the image bounds before testing. When every probe collides the
// original rect is returned unchanged with ok false: the caller may treat the
// placement as low confidence, but placement itself never fails.
func ResolveOverlap(rect PlacedRect, placed, avoid []PlacedRect, cfg Config) (PlacedRect, bool) {
	step := cfg.Gap
	if step < 2 {
		step = 2
	}
	maxShift := cfg.MaxShift
	if maxShift <= 0 {
		maxShift = cfg.BoundsW
		if cfg.BoundsH > maxShift {
			maxShift = cfg.BoundsH
		}
	}

	for radius := 0.0; radius <= maxShift; radius += step {
		for _, off := range offsetsForRadius(radius, cfg) {
			candidate := clampToBounds(PlacedRect{
				X: rect.X + off.dx,
				Y: rect.Y + off.dy,
				W: rect.W,
				H: rect.H,
			}, cfg)
			if !collides(candidate, placed, avoid, cfg) {
				return candidate, true
			}
		}
	}

	if cfg.AllowHorizontalShift && cfg.AllowVerticalShift {
		for _, s := range []float64{50, 25, 12, 6, 3, 1} {
			for _, sign := range [][2]float64{{1, 1}, {-1, 1}, {-1, -1}, {1, -1}} {
				candidate := clampToBounds(PlacedRect{
					X: rect.X + sign[0]*s,
					Y: rect.Y + sign[1]*s,
					W: rect.W,
					H: rect.H,
				}, cfg)
				if !collides(candidate, placed, avoid, cfg) {
					return candidate, true
				}
			}
		}
	}

	return rect, false
}

type offset struct{ dx, dy float64 }

// offsetsForRadius enumerates the probe positions for one radius. Axis order
// encodes the side preference; disabled axes are skipped entirely.
func offsetsForRadius(radius float64, cfg Config) []offset {
	if radius <= 0 {
		return []offset{{0, 0}}
	}

	var horizontal, vertical, diagonal []offset
	if cfg.AllowHorizontalShift {
		horizontal = []offset{{radius, 0}, {-radius, 0}}
	}
	if cfg.AllowVerticalShift {
		vertical = []offset{{0, radius}, {0, -radius}}
	}
	if cfg.AllowHorizontalShift && cfg.AllowVerticalShift {
		diagonal = []offset{{radius, radius}, {-radius, -radius}, {-radius, radius}, {radius, -radius}}
	}

	var offsets []offset
	if cfg.PreferSide {
		offsets = append(offsets, horizontal...)
		offsets = append(offsets, vertical...)
	} else {
		if cfg.AllowVerticalShift {
			offsets = append(offsets, offset{0, radius})
		}
		offsets = append(offsets, horizontal...)
		if cfg.AllowVerticalShift {
			offsets = append(offsets, offset{0, -radius})
		}
	}
	return append(offsets, diagonal...)
}

func clampToBounds(r PlacedRect, cfg Config) PlacedRect {
	r.X = clamp(r.X, 0, max(cfg.BoundsW-r.W, 0))
	r.Y = clamp(r.Y, 0, max(cfg.BoundsH-r.H, 0))
	return r
}

func collides(rect PlacedRect, placed, avoid []PlacedRect, cfg Config) bool {
	for _, existing := range placed {
		if rectsIntersect(rect, existing, cfg.Gap) {
			return true
		}
	}
	for _, existing := range avoid {
		if !rectsIntersect(rect, existing, cfg.Gap) {
			continue
		}
		if isSameRect(existing, cfg.Anchor) && allowedAnchorOverlap(rect, existing, cfg.AnchorOverlapRatio) {
			continue
		}
		return true
	}
	return false
}

// rectsIntersect reports whether the rects come within gap pixels of each
// other on both axes.
func rectsIntersect(a, b PlacedRect, gap float64) bool {
	return a.X < b.Right()+gap && a.Right()+gap > b.X &&
		a.Y < b.Bottom()+gap && a.Bottom()+gap > b.Y
}

func isSameRect(a, b PlacedRect) bool {
	return math.Abs(a.X-b.X) < 0.5 && math.Abs(a.Y-b.Y) < 0.5 &&
		math.Abs(a.W-b.W) < 0.5 && math.Abs(a.H-b.H) < 0.5
}

// allowedAnchorOverlap permits the candidate to cover the anchor by up to
// ratio of the anchor's height, so a caption can hug the region it replaces.
func allowedAnchorOverlap(rect, anchor PlacedRect, ratio float64) bool {
	overlapY := min(rect.Bottom(), anchor.Bottom()) - max(rect.Y, anchor.Y)
	if overlapY <= 0 {
		return true
	}
	return overlapY <= anchor.H*clamp(ratio, 0, 1)
}

// HasObstacleBelow reports whether another obstacle sits closely under the
// anchor with meaningful horizontal overlap. Callers use it to decide whether
// a caption placed under the anchor would immediately collide, in which case
// the resolver should prefer a side placement instead.
func HasObstacleBelow(avoid []PlacedRect, anchor PlacedRect, gap float64) bool {
	anchorBottom := anchor.Bottom()
	maxGap := max(anchor.H*2.5, 48) + gap
	for _, rect := range avoid {
		if isSameRect(rect, anchor) {
			continue
		}
		if rect.Y < anchorBottom-gap {
			continue
		}
		if horizontalOverlapRatio(anchor, rect) < 0.3 {
			continue
		}
		if rect.Y-anchorBottom <= maxGap {
			return true
		}
	}
	return false
}

func horizontalOverlapRatio(a, b PlacedRect) float64 {
	inter := min(a.Right(), b.Right()) - max(a.X, b.X)
	if inter <= 0 {
		return 0
	}
	return inter / max(min(a.W, b.W), 1)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
