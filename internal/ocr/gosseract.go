package ocr

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/otiai10/gosseract/v2"
)

// GosseractEngine runs Tesseract in-process through the gosseract bindings.
//
// It avoids a process spawn per pass, at the cost of requiring CGO and the
// libtesseract headers at build time. hOCR comes straight from the library;
// TSV is synthesized from the verbose word boxes in the same row layout the
// command-line engine emits, so both engines feed the same parsers.
type GosseractEngine struct {
	clientFactory func() *gosseract.Client
}

// NewGosseractEngine constructs an in-process Tesseract engine.
func NewGosseractEngine() *GosseractEngine {
	return &GosseractEngine{clientFactory: gosseract.NewClient}
}

func (e *GosseractEngine) Name() string { return "gosseract" }

// Recognize performs one recognition pass and returns raw hOCR or TSV text.
func (e *GosseractEngine) Recognize(ctx context.Context, req Request) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}

	client := e.clientFactory()
	defer client.Close()

	if err := client.SetImage(req.ImagePath); err != nil {
		return "", fmt.Errorf("set image: %w", err)
	}
	if req.Languages != "" {
		if err := client.SetLanguage(strings.Split(req.Languages, "+")...); err != nil {
			return "", fmt.Errorf("set languages: %w", err)
		}
	}
	if err := client.SetPageSegMode(gosseract.PageSegMode(req.Mode)); err != nil {
		return "", fmt.Errorf("set page segmentation mode: %w", err)
	}
	dpi := req.DPI
	if dpi <= 0 {
		dpi = 300
	}
	if err := client.SetVariable(gosseract.SettableVariable("user_defined_dpi"), strconv.Itoa(dpi)); err != nil {
		return "", fmt.Errorf("set dpi: %w", err)
	}

	switch req.Format {
	case FormatHOCR:
		out, err := client.HOCRText()
		if err != nil {
			return "", fmt.Errorf("recognize hocr: %w", err)
		}
		return out, nil
	case FormatTSV:
		boxes, err := client.GetBoundingBoxesVerbose()
		if err != nil {
			return "", fmt.Errorf("recognize word boxes: %w", err)
		}
		return buildTSV(boxes), nil
	default:
		return "", fmt.Errorf("unknown output format %q", req.Format)
	}
}

// AvailableLanguages returns the installed training data languages.
func (e *GosseractEngine) AvailableLanguages(ctx context.Context) ([]string, error) {
	langs, err := gosseract.GetAvailableLanguages()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEngineUnavailable, err)
	}
	return langs, nil
}

// buildTSV serializes verbose word boxes into Tesseract's TSV row format
// (level 5 word rows under a header), matching the command-line output so
// ParseTSVLines accepts either source.
func buildTSV(boxes []gosseract.BoundingBox) string {
	var sb strings.Builder
	sb.WriteString("level\tpage_num\tblock_num\tpar_num\tline_num\tword_num\tleft\ttop\twidth\theight\tconf\ttext\n")
	for _, b := range boxes {
		word := strings.TrimSpace(b.Word)
		if word == "" {
			continue
		}
		fmt.Fprintf(&sb, "5\t1\t%d\t%d\t%d\t%d\t%d\t%d\t%d\t%d\t%.2f\t%s\n",
			b.BlockNum, b.ParNum, b.LineNum, b.WordNum,
			b.Box.Min.X, b.Box.Min.Y, b.Box.Dx(), b.Box.Dy(),
			b.Confidence, word)
	}
	return sb.String()
}
