package server

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/overlaykit/text-overlay-mcp/internal/config"
	"github.com/overlaykit/text-overlay-mcp/internal/extract"
	"github.com/overlaykit/text-overlay-mcp/internal/imagecache"
	"github.com/overlaykit/text-overlay-mcp/internal/layout"
	"github.com/overlaykit/text-overlay-mcp/internal/ocr"
)

// Server handles MCP protocol communication
type Server struct {
	cfg       config.Config
	engine    ocr.Engine
	extractor *extract.Extractor
	images    *imagecache.Cache
}

// MCPRequest represents an incoming JSON-RPC request
type MCPRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      interface{}     `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// MCPResponse represents an outgoing JSON-RPC response
type MCPResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   *MCPError   `json:"error,omitempty"`
}

// MCPError represents a JSON-RPC error
type MCPError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// New creates a new MCP server instance from the given configuration. The
// configured font file, when present, is loaded once so every overlay request
// measures text with real glyph metrics.
func New(cfg config.Config) *Server {
	var engine ocr.Engine
	switch cfg.Engine {
	case config.EngineLibrary:
		engine = ocr.NewGosseractEngine()
	default:
		engine = ocr.NewCommandEngine(cfg.TesseractPath)
	}

	if cfg.Style.Metrics == nil && cfg.FontPath != "" {
		metrics, err := layout.LoadFont(cfg.FontPath)
		if err != nil {
			log.Printf("warning: %v, falling back to heuristic text metrics", err)
		} else {
			cfg.Style.Metrics = metrics
		}
	}

	return &Server{
		cfg:       cfg,
		engine:    engine,
		extractor: extract.New(engine),
		images:    imagecache.New(),
	}
}

// Run starts the MCP server, reading from stdin and writing to stdout
func (s *Server) Run() error {
	scanner := bufio.NewScanner(os.Stdin)
	// Increase buffer size for large requests
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 16*1024*1024)

	encoder := json.NewEncoder(os.Stdout)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req MCPRequest
		if err := json.Unmarshal(line, &req); err != nil {
			log.Printf("Failed to parse request: %v", err)
			continue
		}

		resp := s.handleRequest(context.Background(), &req)
		if resp != nil {
			if err := encoder.Encode(resp); err != nil {
				log.Printf("Failed to encode response: %v", err)
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scanner error: %w", err)
	}

	return nil
}

// handleRequest routes requests to appropriate handlers
func (s *Server) handleRequest(ctx context.Context, req *MCPRequest) *MCPResponse {
	switch req.Method {
	case "initialize":
		return s.handleInitialize(req)
	case "notifications/initialized":
		// Client acknowledgment, no response needed
		return nil
	case "tools/list":
		return s.handleToolsList(req)
	case "tools/call":
		return s.handleToolsCall(ctx, req)
	case "ping":
		return &MCPResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Result:  map[string]interface{}{},
		}
	default:
		return &MCPResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Error: &MCPError{
				Code:    -32601,
				Message: fmt.Sprintf("Method not found: %s", req.Method),
			},
		}
	}
}

// handleInitialize responds to the initialize request
func (s *Server) handleInitialize(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"protocolVersion": "2024-11-05",
			"capabilities": map[string]interface{}{
				"tools": map[string]interface{}{},
			},
			"serverInfo": map[string]interface{}{
				"name":    "text-overlay-mcp",
				"version": "0.1.0",
			},
		},
	}
}
