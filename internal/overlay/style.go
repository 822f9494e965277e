package overlay

import (
	"github.com/lucasb-eyer/go-colorful"

	"github.com/overlaykit/text-overlay-mcp/internal/layout"
)

// Style holds the cosmetic rendering parameters for an overlay. The zero
// value is not useful; start from DefaultStyle.
type Style struct {
	// TextColor is the text fill. Empty means pick black or white
	// automatically against FillColor.
	TextColor string `json:"text_color,omitempty" yaml:"text_color"`

	// StrokeColor outlines each overlay box.
	StrokeColor string `json:"stroke_color,omitempty" yaml:"stroke_color"`

	// FillColor is the overlay box background.
	FillColor string `json:"fill_color,omitempty" yaml:"fill_color"`

	// FontSize forces one size for the whole page. Zero derives the size
	// from the recognized lines.
	FontSize float64 `json:"font_size,omitempty" yaml:"font_size"`

	// FontFamily names the family in the rendered markup.
	FontFamily string `json:"font_family,omitempty" yaml:"font_family"`

	// Metrics measures text width for box sizing. Nil falls back to the
	// per-script unit heuristic.
	Metrics layout.Metrics `json:"-" yaml:"-"`
}

// DefaultStyle returns a white box with a dark outline and automatic text
// color.
func DefaultStyle() Style {
	return Style{
		StrokeColor: "#333333",
		FillColor:   "#ffffff",
	}
}

func (s Style) metrics() layout.Metrics {
	if s.Metrics != nil {
		return s.Metrics
	}
	return layout.UnitMetrics{}
}

// textColor resolves the effective text color, contrasting against the box
// fill when none is set.
func (s Style) textColor() string {
	if s.TextColor != "" {
		return s.TextColor
	}
	return ContrastingTextColor(s.FillColor)
}

// ContrastingTextColor picks black or white for text over the given hex
// background, whichever contrasts more. Unparseable input gets black, the
// safe choice over the default light fill.
func ContrastingTextColor(backgroundHex string) string {
	bg, err := colorful.Hex(backgroundHex)
	if err != nil {
		return "#000000"
	}
	if _, _, l := bg.Hsl(); l < 0.45 {
		return "#ffffff"
	}
	return "#000000"
}
