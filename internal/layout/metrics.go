package layout

import (
	"fmt"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// Metrics measures rendered text width in pixels at a font size. The two
// implementations are FontMetrics, backed by a parsed font file, and
// UnitMetrics, a per-script width heuristic used when no font is available.
type Metrics interface {
	TextWidth(text string, size float64) float64
}

// FontMetrics measures text with the horizontal glyph advances of a parsed
// TrueType or OpenType font. Methods are not safe for concurrent use; each
// goroutine should parse its own copy.
type FontMetrics struct {
	font         *sfnt.Font
	buf          sfnt.Buffer
	unitsPerEm   float64
	spaceAdvance float64
}

// ParseFont builds FontMetrics from raw font file data.
func ParseFont(data []byte) (*FontMetrics, error) {
	f, err := sfnt.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}

	m := &FontMetrics{font: f, unitsPerEm: float64(f.UnitsPerEm())}
	if m.unitsPerEm < 1 {
		m.unitsPerEm = 1000
	}

	// Advance of the space glyph doubles as the fallback for runes the
	// font lacks.
	m.spaceAdvance = m.unitsPerEm * 0.25
	if gid, err := f.GlyphIndex(&m.buf, ' '); err == nil && gid != 0 {
		if adv, err := f.GlyphAdvance(&m.buf, gid, fixed.I(int(m.unitsPerEm)), font.HintingNone); err == nil {
			m.spaceAdvance = float64(adv) / 64
		}
	}
	return m, nil
}

// LoadFont reads and parses the font file at path.
func LoadFont(path string) (*FontMetrics, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read font file: %w", err)
	}
	return ParseFont(data)
}

// TextWidth sums glyph advances in font units and scales to pixels at size.
func (m *FontMetrics) TextWidth(text string, size float64) float64 {
	ppem := fixed.I(int(m.unitsPerEm))
	advance := 0.0
	for _, r := range text {
		if r == ' ' {
			advance += m.spaceAdvance
			continue
		}
		gid, err := m.font.GlyphIndex(&m.buf, r)
		if err != nil || gid == 0 {
			advance += m.spaceAdvance
			continue
		}
		adv, err := m.font.GlyphAdvance(&m.buf, gid, ppem, font.HintingNone)
		if err != nil {
			advance += m.spaceAdvance
			continue
		}
		advance += float64(adv) / 64
	}
	return advance * size / m.unitsPerEm
}

// UnitMetrics estimates width from per-script character units with no font
// data at all. It overestimates narrow glyphs slightly, which errs on the
// side of wrapping earlier rather than overflowing the box.
type UnitMetrics struct{}

// TextWidth implements Metrics.
func (UnitMetrics) TextWidth(text string, size float64) float64 {
	return estimateTextUnits(text) * size
}
