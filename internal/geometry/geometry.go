// Package geometry provides pure functions over axis-aligned pixel rectangles.
//
// All functions are total: degenerate boxes never cause division by zero
// (denominators are floored at 1), and no function mutates its inputs. Boxes
// are value types; derived boxes are always new values.
package geometry

// Box is an axis-aligned rectangle in source-image pixel space.
//
// X and Y locate the top-left corner; W and H are the extent. A box entering
// the fusion pipeline always has W > 0 and H > 0 (degenerate boxes are
// discarded by the recognition parsers).
type Box struct {
	X int `json:"x"` // Left edge
	Y int `json:"y"` // Top edge
	W int `json:"w"` // Width in pixels
	H int `json:"h"` // Height in pixels
}

// Area returns the box area in square pixels.
func (b Box) Area() int { return b.W * b.H }

// Right returns the exclusive right edge (X + W).
func (b Box) Right() int { return b.X + b.W }

// Bottom returns the exclusive bottom edge (Y + H).
func (b Box) Bottom() int { return b.Y + b.H }

// IoU computes intersection-over-union of two boxes.
//
// Returns a value in [0, 1]: 0 when the boxes do not overlap, 1 when they are
// identical. The union area is floored at 1 so degenerate inputs stay defined.
func IoU(a, b Box) float64 {
	ix1 := max(a.X, b.X)
	iy1 := max(a.Y, b.Y)
	ix2 := min(a.Right(), b.Right())
	iy2 := min(a.Bottom(), b.Bottom())

	if ix2 <= ix1 || iy2 <= iy1 {
		return 0
	}
	inter := float64(ix2-ix1) * float64(iy2-iy1)
	union := float64(a.Area()) + float64(b.Area()) - inter
	if union < 1 {
		union = 1
	}
	return inter / union
}

// HorizontalOverlap returns the horizontal intersection length divided by the
// smaller box's width.
//
// Unlike plain IoU this captures "is one box horizontally contained in the
// other's span": a narrow box fully inside a wide one scores 1.0. The
// denominator is floored at 1.
func HorizontalOverlap(a, b Box) float64 {
	ix1 := max(a.X, b.X)
	ix2 := min(a.Right(), b.Right())
	if ix2 <= ix1 {
		return 0
	}
	smaller := min(a.W, b.W)
	if smaller < 1 {
		smaller = 1
	}
	return float64(ix2-ix1) / float64(smaller)
}

// VerticalOverlap is the vertical counterpart of HorizontalOverlap, using
// heights instead of widths.
func VerticalOverlap(a, b Box) float64 {
	iy1 := max(a.Y, b.Y)
	iy2 := min(a.Bottom(), b.Bottom())
	if iy2 <= iy1 {
		return 0
	}
	smaller := min(a.H, b.H)
	if smaller < 1 {
		smaller = 1
	}
	return float64(iy2-iy1) / float64(smaller)
}

// Union returns the smallest box containing both inputs.
func Union(a, b Box) Box {
	x1 := min(a.X, b.X)
	y1 := min(a.Y, b.Y)
	x2 := max(a.Right(), b.Right())
	y2 := max(a.Bottom(), b.Bottom())
	return Box{X: x1, Y: y1, W: x2 - x1, H: y2 - y1}
}

// Contains reports whether b lies entirely inside a.
func Contains(a, b Box) bool {
	return b.X >= a.X && b.Y >= a.Y && b.Right() <= a.Right() && b.Bottom() <= a.Bottom()
}
