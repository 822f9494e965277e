package server

import (
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/overlaykit/text-overlay-mcp/internal/extract"
	"github.com/overlaykit/text-overlay-mcp/internal/ocr"
	"github.com/overlaykit/text-overlay-mcp/internal/overlay"
)

// scriptedEngine returns one canned hOCR document for every recognition pass.
type scriptedEngine struct {
	hocr  string
	langs []string
}

func (e *scriptedEngine) Name() string { return "scripted" }

func (e *scriptedEngine) Recognize(_ context.Context, req ocr.Request) (string, error) {
	if req.Format == ocr.FormatTSV {
		return "", nil
	}
	return e.hocr, nil
}

func (e *scriptedEngine) AvailableLanguages(context.Context) ([]string, error) {
	return e.langs, nil
}

// stubTestEngine swaps the server's engine for a scripted one that reports a
// single recognized line.
func stubTestEngine(s *Server) {
	engine := &scriptedEngine{
		hocr: `<html><body><div class='ocr_page'>
<span class='ocr_line' title='bbox 30 30 180 90'>
 <span class='ocrx_word' title='bbox 30 30 180 90; x_wconf 91'>sample</span>
</span></div></body></html>`,
		langs: []string{"eng", "jpn"},
	}
	s.engine = engine
	s.extractor = extract.New(engine)
}

func createTestImageFile(t *testing.T, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.White)
		}
	}
	path := filepath.Join(t.TempDir(), "test.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create test image: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("failed to encode test image: %v", err)
	}
	return path
}

func TestHandleTextExtract(t *testing.T) {
	s := newTestServer()
	imgPath := createTestImageFile(t, 200, 100)

	args := fmt.Sprintf(`{"path": %q}`, imgPath)
	result, err := s.executeTool(context.Background(), "text_extract", json.RawMessage(args))
	if err != nil {
		t.Fatalf("text_extract failed: %v", err)
	}

	res, ok := result.(*ocr.Result)
	if !ok {
		t.Fatalf("result is %T", result)
	}
	if res.Width != 200 || res.Height != 100 {
		t.Errorf("dimensions = %dx%d", res.Width, res.Height)
	}
	if len(res.Lines) != 1 || res.Lines[0].Text != "sample" {
		t.Errorf("lines = %+v", res.Lines)
	}
}

func TestHandleTextExtract_MissingFile(t *testing.T) {
	s := newTestServer()

	_, err := s.executeTool(context.Background(), "text_extract",
		json.RawMessage(`{"path": "/nonexistent/image.png"}`))
	if err == nil {
		t.Error("expected an error")
	}
}

func TestHandleTextExtractBatch(t *testing.T) {
	s := newTestServer()
	good := createTestImageFile(t, 200, 100)

	args := fmt.Sprintf(`{"paths": [%q, "/nonexistent/image.png"]}`, good)
	result, err := s.executeTool(context.Background(), "text_extract_batch", json.RawMessage(args))
	if err != nil {
		t.Fatalf("text_extract_batch failed: %v", err)
	}

	wrapped, ok := result.(map[string]interface{})
	if !ok {
		t.Fatalf("result is %T", result)
	}
	entries, ok := wrapped["items"].([]batchEntry)
	if !ok {
		t.Fatalf("items is %T", wrapped["items"])
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Error != "" || entries[0].Result == nil {
		t.Errorf("entry 0 should have succeeded: %+v", entries[0])
	}
	if entries[1].Error == "" || entries[1].Result != nil {
		t.Errorf("entry 1 should have failed: %+v", entries[1])
	}
}

func TestHandleTextExtractBatch_NoPaths(t *testing.T) {
	s := newTestServer()
	if _, err := s.executeTool(context.Background(), "text_extract_batch", json.RawMessage(`{"paths": []}`)); err == nil {
		t.Error("expected an error")
	}
}

func TestHandleTextLanguages(t *testing.T) {
	s := newTestServer()

	result, err := s.executeTool(context.Background(), "text_languages", nil)
	if err != nil {
		t.Fatalf("text_languages failed: %v", err)
	}
	wrapped, ok := result.(map[string]interface{})
	if !ok {
		t.Fatalf("result is %T", result)
	}
	langs, ok := wrapped["languages"].([]string)
	if !ok || len(langs) != 2 {
		t.Errorf("languages = %v", wrapped["languages"])
	}
}

func TestHandleOverlayPlace(t *testing.T) {
	s := newTestServer()

	args := `{
		"width": 400,
		"height": 300,
		"lines": [{"text": "Hello", "box": {"x": 50, "y": 50, "w": 100, "h": 20}, "font_size": 16}]
	}`
	result, err := s.executeTool(context.Background(), "overlay_place", json.RawMessage(args))
	if err != nil {
		t.Fatalf("overlay_place failed: %v", err)
	}

	plan, ok := result.(*overlay.Plan)
	if !ok {
		t.Fatalf("result is %T", result)
	}
	if len(plan.Placements) != 1 {
		t.Fatalf("expected 1 placement, got %d", len(plan.Placements))
	}
	if !plan.Placements[0].Placed {
		t.Error("expected a clean placement")
	}
}

func TestHandleOverlayPlace_BadDimensions(t *testing.T) {
	s := newTestServer()
	if _, err := s.executeTool(context.Background(), "overlay_place",
		json.RawMessage(`{"width": 0, "height": 300, "lines": []}`)); err == nil {
		t.Error("expected an error")
	}
}

func TestHandleOverlayRender(t *testing.T) {
	s := newTestServer()
	imgPath := createTestImageFile(t, 400, 300)

	args := fmt.Sprintf(`{
		"path": %q,
		"lines": [{"text": "Hello", "box": {"x": 50, "y": 50, "w": 100, "h": 20}, "font_size": 16}],
		"style": {"fill_color": "#123456"}
	}`, imgPath)
	result, err := s.executeTool(context.Background(), "overlay_render", json.RawMessage(args))
	if err != nil {
		t.Fatalf("overlay_render failed: %v", err)
	}

	render, ok := result.(overlayRenderResult)
	if !ok {
		t.Fatalf("result is %T", result)
	}
	if !strings.Contains(render.SVG, "data:image/png;base64,") {
		t.Error("missing embedded image")
	}
	if !strings.Contains(render.SVG, `fill="#123456"`) {
		t.Error("style override not applied")
	}
	if len(render.Placed) != 1 || !render.Placed[0] {
		t.Errorf("placed flags = %v", render.Placed)
	}
}

func TestHandleOverlayRender_WriteFile(t *testing.T) {
	s := newTestServer()
	imgPath := createTestImageFile(t, 400, 300)
	outPath := filepath.Join(t.TempDir(), "overlay.svg")

	args := fmt.Sprintf(`{"path": %q, "lines": [], "output": %q}`, imgPath, outPath)
	result, err := s.executeTool(context.Background(), "overlay_render", json.RawMessage(args))
	if err != nil {
		t.Fatalf("overlay_render failed: %v", err)
	}

	render := result.(overlayRenderResult)
	if render.SVG != "" {
		t.Error("inline SVG returned alongside the output file")
	}
	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("output file not written: %v", err)
	}
	if !strings.HasPrefix(string(data), "<svg ") {
		t.Errorf("output is not svg: %.40s", data)
	}
}

func TestEffectiveStyle(t *testing.T) {
	s := newTestServer()

	base := s.effectiveStyle(nil)
	if base.FillColor != s.cfg.Style.FillColor {
		t.Errorf("nil override changed the fill: %q", base.FillColor)
	}

	got := s.effectiveStyle(&overlay.Style{TextColor: "#111111", FontSize: 18})
	if got.TextColor != "#111111" || got.FontSize != 18 {
		t.Errorf("overrides not applied: %+v", got)
	}
	if got.StrokeColor != s.cfg.Style.StrokeColor {
		t.Errorf("unset field lost its default: %q", got.StrokeColor)
	}
}
