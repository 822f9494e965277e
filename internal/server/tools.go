package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	lineSchema := map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"text": map[string]interface{}{
				"type":        "string",
				"description": "Replacement text to place",
			},
			"box": map[string]interface{}{
				"type":        "object",
				"description": "Source region the text replaces, {x, y, w, h} in pixels",
				"properties": map[string]interface{}{
					"x": map[string]interface{}{"type": "integer"},
					"y": map[string]interface{}{"type": "integer"},
					"w": map[string]interface{}{"type": "integer"},
					"h": map[string]interface{}{"type": "integer"},
				},
				"required": []string{"x", "y", "w", "h"},
			},
			"font_size": map[string]interface{}{
				"type":        "number",
				"description": "Font size observed for the source line, in pixels",
			},
		},
		"required": []string{"text", "box"},
	}

	styleSchema := map[string]interface{}{
		"type":        "object",
		"description": "Optional style overrides for the overlay boxes",
		"properties": map[string]interface{}{
			"text_color":   map[string]interface{}{"type": "string"},
			"stroke_color": map[string]interface{}{"type": "string"},
			"fill_color":   map[string]interface{}{"type": "string"},
			"font_size":    map[string]interface{}{"type": "number"},
			"font_family":  map[string]interface{}{"type": "string"},
		},
	}

	return []Tool{
		// Text Extraction
		{
			Name:        "text_extract",
			Description: "Run OCR over an image and return deduplicated text lines with pixel bounding boxes, confidence, and estimated font size.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
					"languages": map[string]interface{}{
						"type":        "string",
						"description": "OCR languages, e.g. \"eng\" or \"eng+jpn\". Defaults to the configured language list.",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "text_extract_batch",
			Description: "Run OCR over several images concurrently. Each image succeeds or fails independently.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"paths": map[string]interface{}{
						"type":        "array",
						"items":       map[string]interface{}{"type": "string"},
						"description": "Absolute paths to the image files",
					},
					"languages": map[string]interface{}{
						"type":        "string",
						"description": "OCR languages, e.g. \"eng+jpn\"",
					},
					"workers": map[string]interface{}{
						"type":        "integer",
						"description": "Maximum concurrent extractions. Default one per CPU.",
					},
				},
				"required": []string{"paths"},
			},
		},
		{
			Name:        "text_languages",
			Description: "List the OCR languages the installed engine supports.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},

		// Overlay Placement
		{
			Name:        "overlay_place",
			Description: "Compute non-overlapping placement rectangles and wrapped text for replacement lines on an image of the given size, without rendering.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"lines": map[string]interface{}{
						"type":        "array",
						"items":       lineSchema,
						"description": "Replacement lines with their source boxes",
					},
					"width": map[string]interface{}{
						"type":        "integer",
						"description": "Image width in pixels",
					},
					"height": map[string]interface{}{
						"type":        "integer",
						"description": "Image height in pixels",
					},
					"style": styleSchema,
				},
				"required": []string{"lines", "width", "height"},
			},
		},
		{
			Name:        "overlay_render",
			Description: "Place replacement lines on an image and render the result as an SVG overlay (source image embedded, one styled text box per line).",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
					"lines": map[string]interface{}{
						"type":        "array",
						"items":       lineSchema,
						"description": "Replacement lines with their source boxes",
					},
					"style": styleSchema,
					"footer": map[string]interface{}{
						"type":        "array",
						"items":       map[string]interface{}{"type": "string"},
						"description": "Optional footer lines appended under the image",
					},
					"output": map[string]interface{}{
						"type":        "string",
						"description": "Write the SVG to this path instead of returning it inline",
					},
				},
				"required": []string{"path", "lines"},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
