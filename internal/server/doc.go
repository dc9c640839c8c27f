// Package server implements the MCP (Model Context Protocol) server for image
// compression tools.
//
// This package provides a JSON-RPC 2.0 server that lets MCP clients shrink
// images before handling them: large photos are downscaled to a pixel
// ceiling and re-encoded as low-quality JPEGs.
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
// Basic Image Information:
//   - image_load: Load image and get metadata plus the default compression plan
//   - image_dimensions: Get width and height
//
// Compression:
//   - image_compress: Compress to a file or to inline base64
//   - image_compress_plan: Dimension math only, no encoding
//
// Remote images:
//   - image_fetch: Download a file, optionally compressing it
//
// # Image Caching
//
// The server maintains an in-memory cache of loaded images. Images are cached
// by path and reused across multiple tool calls, avoiding redundant disk I/O.
// The cache persists for the lifetime of the server process.
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
// The server is typically started by an MCP client through the serve
// command:
//
//	cfg, err := config.Load("")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	srv := server.New(cfg, version)
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
