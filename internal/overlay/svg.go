package overlay

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/overlaykit/text-overlay-mcp/internal/layout"
)

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

// RenderSVG serializes a placement plan as an SVG document: the source image
// embedded as a data URI, one styled rect per placement with its wrapped text
// clipped inside, and an optional footer block appended under the image.
func RenderSVG(imageData []byte, imageMIME string, plan *Plan, style Style, footer []string) string {
	width := float64(plan.Width)
	layoutH := float64(plan.Height)

	footerFontSize := max(style.FontSize, 14)
	footerPadding := clampf(footerFontSize*0.7, 6, 16)
	footerWrapped, footerHeight := layoutFooter(footer, footerFontSize, max(width-footerPadding*2, 40), footerPadding)

	textColor := style.textColor()

	var svg strings.Builder
	fmt.Fprintf(&svg,
		`<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" width="%g" height="%g" viewBox="0 0 %g %g">`,
		width, layoutH+footerHeight, width, layoutH+footerHeight)

	uri := fmt.Sprintf("data:%s;base64,%s", imageMIME, base64.StdEncoding.EncodeToString(imageData))
	fmt.Fprintf(&svg,
		`<image href="%s" xlink:href="%s" x="0" y="0" width="%g" height="%g" preserveAspectRatio="none"/>`,
		uri, uri, width, layoutH)

	for i, p := range plan.Placements {
		fmt.Fprintf(&svg,
			`<rect x="%g" y="%g" width="%g" height="%g" fill="%s" stroke="%s" stroke-width="2"/>`,
			p.Rect.X, p.Rect.Y, p.Rect.W, p.Rect.H, style.FillColor, style.StrokeColor)

		clipID := fmt.Sprintf("clip-%d", i)
		fmt.Fprintf(&svg,
			`<clipPath id="%s"><rect x="%g" y="%g" width="%g" height="%g"/></clipPath>`,
			clipID, p.Rect.X, p.Rect.Y, p.Rect.W, p.Rect.H)

		textX := p.Rect.X + p.Padding
		fmt.Fprintf(&svg, `<text x="%g" y="%g" font-size="%g" fill="%s"`,
			textX, p.Rect.Y+p.Padding+p.FontSize, p.FontSize, textColor)
		if style.FontFamily != "" {
			fmt.Fprintf(&svg, ` font-family="%s"`, xmlEscaper.Replace(style.FontFamily))
		}
		fmt.Fprintf(&svg, ` clip-path="url(#%s)">`, clipID)

		for j, line := range p.Lines {
			dy := 0.0
			if j > 0 {
				dy = p.LineHeight
			}
			fmt.Fprintf(&svg, `<tspan x="%g" dy="%g">%s</tspan>`, textX, dy, xmlEscaper.Replace(line))
		}
		svg.WriteString(`</text>`)
	}

	if len(footerWrapped) > 0 {
		fmt.Fprintf(&svg, `<rect x="0" y="%g" width="%g" height="%g" fill="%s"/>`,
			layoutH, width, footerHeight, style.FillColor)

		textY := layoutH + footerPadding + footerFontSize
		for _, line := range footerWrapped {
			fmt.Fprintf(&svg, `<text x="%g" y="%g" font-size="%g" fill="%s"`,
				footerPadding, textY, footerFontSize, textColor)
			if style.FontFamily != "" {
				fmt.Fprintf(&svg, ` font-family="%s"`, xmlEscaper.Replace(style.FontFamily))
			}
			fmt.Fprintf(&svg, `>%s</text>`, xmlEscaper.Replace(line))
			textY += footerFontSize * 1.1
		}
	}

	svg.WriteString(`</svg>`)
	return svg.String()
}

// layoutFooter wraps the footer lines to the available width and returns them
// with the total footer block height, zero when there is no footer.
func layoutFooter(footer []string, fontSize, innerW, padding float64) ([]string, float64) {
	var wrapped []string
	height := 0.0
	for _, line := range footer {
		fit := layout.FitTextToBox(line, fontSize, innerW, 10000, false)
		if len(fit.Lines) == 0 {
			fit.Lines = []string{line}
		}
		wrapped = append(wrapped, fit.Lines...)
		height += fit.LineHeight * float64(len(fit.Lines))
	}
	if len(wrapped) > 0 {
		height += padding * 2
	}
	return wrapped, height
}
