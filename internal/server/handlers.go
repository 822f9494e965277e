package server

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/overlaykit/text-overlay-mcp/internal/ocr"
	"github.com/overlaykit/text-overlay-mcp/internal/overlay"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "text_extract").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(ctx context.Context, req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(ctx, params.Name, params.Arguments)
	if err != nil {
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(ctx context.Context, name string, args json.RawMessage) (interface{}, error) {
	switch name {
	case "text_extract":
		return s.handleTextExtract(ctx, args)
	case "text_extract_batch":
		return s.handleTextExtractBatch(ctx, args)
	case "text_languages":
		return s.handleTextLanguages(ctx)
	case "overlay_place":
		return s.handleOverlayPlace(args)
	case "overlay_render":
		return s.handleOverlayRender(args)
	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// === Text Extraction Handlers ===

type textExtractArgs struct {
	Path      string `json:"path"`
	Languages string `json:"languages"`
}

func (s *Server) handleTextExtract(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a textExtractArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Languages == "" {
		a.Languages = s.cfg.Languages
	}
	return s.extractor.ExtractFile(ctx, a.Path, a.Languages)
}

type textExtractBatchArgs struct {
	Paths     []string `json:"paths"`
	Languages string   `json:"languages"`
	Workers   int      `json:"workers"`
}

// batchEntry mirrors extract.BatchItem with the error flattened to a string
// for JSON transport.
type batchEntry struct {
	Path   string      `json:"path"`
	Result *ocr.Result `json:"result,omitempty"`
	Error  string      `json:"error,omitempty"`
}

func (s *Server) handleTextExtractBatch(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a textExtractBatchArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if len(a.Paths) == 0 {
		return nil, fmt.Errorf("paths must not be empty")
	}
	if a.Languages == "" {
		a.Languages = s.cfg.Languages
	}
	if a.Workers == 0 {
		a.Workers = s.cfg.Workers
	}

	items := s.extractor.ExtractBatch(ctx, a.Paths, a.Languages, a.Workers)
	entries := make([]batchEntry, 0, len(items))
	for _, item := range items {
		entry := batchEntry{Path: item.Path, Result: item.Result}
		if item.Err != nil {
			entry.Error = item.Err.Error()
		}
		entries = append(entries, entry)
	}
	return map[string]interface{}{"items": entries}, nil
}

func (s *Server) handleTextLanguages(ctx context.Context) (interface{}, error) {
	langs, err := s.engine.AvailableLanguages(ctx)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"engine":    s.engine.Name(),
		"languages": langs,
	}, nil
}

// === Overlay Handlers ===

type overlayPlaceArgs struct {
	Lines  []overlay.ReplacementLine `json:"lines"`
	Width  int                       `json:"width"`
	Height int                       `json:"height"`
	Style  *overlay.Style            `json:"style,omitempty"`
}

func (s *Server) handleOverlayPlace(args json.RawMessage) (interface{}, error) {
	var a overlayPlaceArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Width <= 0 || a.Height <= 0 {
		return nil, fmt.Errorf("width and height must be positive")
	}
	return overlay.BuildPlan(a.Lines, a.Width, a.Height, s.effectiveStyle(a.Style), s.cfg.MaxShift), nil
}

type overlayRenderArgs struct {
	Path   string                    `json:"path"`
	Lines  []overlay.ReplacementLine `json:"lines"`
	Style  *overlay.Style            `json:"style,omitempty"`
	Footer []string                  `json:"footer,omitempty"`
	Output string                    `json:"output,omitempty"`
}

type overlayRenderResult struct {
	SVG    string `json:"svg,omitempty"`
	Output string `json:"output,omitempty"`
	Placed []bool `json:"placed"`
}

func (s *Server) handleOverlayRender(args json.RawMessage) (interface{}, error) {
	var a overlayRenderArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	img, err := s.images.Load(a.Path)
	if err != nil {
		return nil, err
	}

	style := s.effectiveStyle(a.Style)
	plan := overlay.BuildPlan(a.Lines, img.Width, img.Height, style, s.cfg.MaxShift)
	svg := overlay.RenderSVG(img.Data, img.MIME, plan, style, a.Footer)

	placed := make([]bool, 0, len(plan.Placements))
	for _, p := range plan.Placements {
		placed = append(placed, p.Placed)
	}

	if a.Output != "" {
		if err := os.WriteFile(a.Output, []byte(svg), 0o644); err != nil {
			return nil, fmt.Errorf("failed to write output: %w", err)
		}
		return overlayRenderResult{Output: a.Output, Placed: placed}, nil
	}
	return overlayRenderResult{SVG: svg, Placed: placed}, nil
}

// effectiveStyle overlays request style fields on the configured defaults.
// The configured font metrics always carry over; a request cannot supply
// metrics of its own.
func (s *Server) effectiveStyle(req *overlay.Style) overlay.Style {
	style := s.cfg.Style
	if req == nil {
		return style
	}
	if req.TextColor != "" {
		style.TextColor = req.TextColor
	}
	if req.StrokeColor != "" {
		style.StrokeColor = req.StrokeColor
	}
	if req.FillColor != "" {
		style.FillColor = req.FillColor
	}
	if req.FontSize > 0 {
		style.FontSize = req.FontSize
	}
	if req.FontFamily != "" {
		style.FontFamily = req.FontFamily
	}
	return style
}
