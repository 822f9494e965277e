package server

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/overlaykit/text-overlay-mcp/internal/config"
)

func newTestServer() *Server {
	s := New(config.Default())
	stubTestEngine(s)
	return s
}

func TestHandleInitialize(t *testing.T) {
	s := newTestServer()
	req := &MCPRequest{JSONRPC: "2.0", ID: 1, Method: "initialize"}

	resp := s.handleRequest(context.Background(), req)
	if resp == nil {
		t.Fatal("no response")
	}
	if resp.Error != nil {
		t.Fatalf("unexpected error: %+v", resp.Error)
	}

	result, ok := resp.Result.(map[string]interface{})
	if !ok {
		t.Fatalf("result is %T", resp.Result)
	}
	info, ok := result["serverInfo"].(map[string]interface{})
	if !ok {
		t.Fatal("missing serverInfo")
	}
	if info["name"] != "text-overlay-mcp" {
		t.Errorf("server name = %v", info["name"])
	}
}

func TestHandleNotificationHasNoResponse(t *testing.T) {
	s := newTestServer()
	req := &MCPRequest{JSONRPC: "2.0", Method: "notifications/initialized"}

	if resp := s.handleRequest(context.Background(), req); resp != nil {
		t.Errorf("notification produced a response: %+v", resp)
	}
}

func TestHandlePing(t *testing.T) {
	s := newTestServer()
	req := &MCPRequest{JSONRPC: "2.0", ID: 7, Method: "ping"}

	resp := s.handleRequest(context.Background(), req)
	if resp == nil || resp.Error != nil {
		t.Fatalf("ping failed: %+v", resp)
	}
	if resp.ID != 7 {
		t.Errorf("ID = %v, want 7", resp.ID)
	}
}

func TestHandleUnknownMethod(t *testing.T) {
	s := newTestServer()
	req := &MCPRequest{JSONRPC: "2.0", ID: 1, Method: "bogus/method"}

	resp := s.handleRequest(context.Background(), req)
	if resp == nil || resp.Error == nil {
		t.Fatal("expected an error response")
	}
	if resp.Error.Code != -32601 {
		t.Errorf("code = %d, want -32601", resp.Error.Code)
	}
}

func TestHandleToolsList(t *testing.T) {
	s := newTestServer()
	req := &MCPRequest{JSONRPC: "2.0", ID: 2, Method: "tools/list"}

	resp := s.handleToolsList(req)
	if resp == nil {
		t.Fatal("handleToolsList returned nil")
	}

	result, ok := resp.Result.(map[string]interface{})
	if !ok {
		t.Fatalf("result is %T", resp.Result)
	}
	tools, ok := result["tools"].([]Tool)
	if !ok {
		t.Fatalf("tools is %T", result["tools"])
	}

	want := map[string]bool{
		"text_extract":       false,
		"text_extract_batch": false,
		"text_languages":     false,
		"overlay_place":      false,
		"overlay_render":     false,
	}
	for _, tool := range tools {
		if _, known := want[tool.Name]; !known {
			t.Errorf("unexpected tool %q", tool.Name)
			continue
		}
		want[tool.Name] = true
		if tool.Description == "" {
			t.Errorf("tool %q has no description", tool.Name)
		}
		if tool.InputSchema["type"] != "object" {
			t.Errorf("tool %q schema type = %v", tool.Name, tool.InputSchema["type"])
		}
	}
	for name, seen := range want {
		if !seen {
			t.Errorf("tool %q not listed", name)
		}
	}
}

func TestHandleToolsCall_InvalidParams(t *testing.T) {
	s := newTestServer()
	req := &MCPRequest{JSONRPC: "2.0", ID: 1, Method: "tools/call", Params: json.RawMessage(`{`)}

	resp := s.handleRequest(context.Background(), req)
	if resp == nil || resp.Error == nil {
		t.Fatal("expected an error response")
	}
	if resp.Error.Code != -32602 {
		t.Errorf("code = %d, want -32602", resp.Error.Code)
	}
}

func TestExecuteTool_Unknown(t *testing.T) {
	s := newTestServer()
	if _, err := s.executeTool(context.Background(), "nope", nil); err == nil {
		t.Error("expected an error")
	}
}
