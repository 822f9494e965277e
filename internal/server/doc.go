// Package server implements the MCP (Model Context Protocol) server for the
// text extraction and overlay placement tools.
//
// This package provides a JSON-RPC 2.0 server that exposes the OCR fusion
// pipeline and the overlay placement engine through the MCP protocol, for use
// by MCP-compatible clients.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Text extraction:
//   - text_extract: OCR one image into fused text lines
//   - text_extract_batch: OCR several images concurrently
//   - text_languages: List installed OCR languages
//
// Overlay placement:
//   - overlay_place: Compute placement rectangles for replacement lines
//   - overlay_render: Place lines and render the SVG overlay
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: Additional error details (typically the Go error string)
//
// # Usage
//
// The server is typically started by an MCP client:
//
//	srv := server.New(config.Default())
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
