package server

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"github.com/ironsheep/image-compress-mcp/internal/download"
	"github.com/ironsheep/image-compress-mcp/internal/imaging"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "image_compress").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// errMissingPath is returned by tools whose path argument is empty.
var errMissingPath = errors.New("path is required")

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		s.debugf("Tool %s failed: %v", params.Name, err)
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return s.toolResponse(req.ID, result)
}

// toolResponse wraps a tool result as pretty-printed JSON text content.
// A result that cannot be marshalled is an internal error.
func (s *Server) toolResponse(id interface{}, result interface{}) *MCPResponse {
	text, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		log.Printf("Failed to marshal tool result: %v", err)
		return s.errorResponse(id, -32603, "Internal error", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": string(text),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
//
// Each tool handler:
//  1. Unmarshals arguments from JSON
//  2. Applies configured defaults for optional parameters
//  3. Loads images from cache as needed
//  4. Calls the appropriate imaging/download function
//  5. Returns the result or error
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Basic Image Information
	case "image_load":
		return s.handleImageLoad(args)
	case "image_dimensions":
		return s.handleImageDimensions(args)

	// Compression
	case "image_compress":
		return s.handleImageCompress(args)
	case "image_compress_plan":
		return s.handleImageCompressPlan(args)

	// Remote images
	case "image_fetch":
		return s.handleImageFetch(args)

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

// compressionArgs are the per-call overrides of the configured options.
type compressionArgs struct {
	MaxPixels  int     `json:"max_pixels"`
	TilePixels int     `json:"tile_pixels"`
	Quality    float64 `json:"quality"`
	Background string  `json:"background"`
}

func (s *Server) options(a compressionArgs) imaging.Options {
	opts := s.cfg.Compression
	if a.MaxPixels > 0 {
		opts.MaxPixels = a.MaxPixels
	}
	if a.TilePixels > 0 {
		opts.TilePixels = a.TilePixels
	}
	if a.Quality > 0 {
		opts.Quality = a.Quality
	}
	if a.Background != "" {
		opts.Background = a.Background
	}
	return opts
}

// === Basic Image Information Handlers ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

func (s *Server) handleImageDimensions(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.GetDimensions(s.cache, a.Path)
}

// === Compression Handlers ===

type imageCompressArgs struct {
	Path string `json:"path"`
	// Output is a file path, "auto" for the configured output location, or
	// empty to return the JPEG inline as base64.
	Output string `json:"output"`
	compressionArgs
}

// CompressResult is the image_compress tool result.
type CompressResult struct {
	*imaging.Report

	// Output is the written file, empty when the JPEG is returned inline.
	Output string `json:"output,omitempty"`

	// Base64 holds the JPEG when no output file was requested.
	Base64 string `json:"base64,omitempty"`
}

func (s *Server) handleImageCompress(args json.RawMessage) (interface{}, error) {
	var a imageCompressArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, errMissingPath
	}

	report, err := imaging.CompressFile(s.cache, a.Path, s.options(a.compressionArgs))
	if err != nil {
		return nil, err
	}
	s.debugf("Compressed %s: %dx%d -> %dx%d, %d -> %d bytes (tiles %d)",
		a.Path, report.Plan.SourceWidth, report.Plan.SourceHeight, report.Plan.Width, report.Plan.Height,
		report.OriginalBytes, report.CompressedBytes, report.Plan.Count)

	result := &CompressResult{Report: report}
	switch a.Output {
	case "":
		result.Base64 = base64.StdEncoding.EncodeToString(report.Data)
		return result, nil
	case "auto":
		result.Output = imaging.OutputPath(a.Path, s.cfg.Output.Dir, s.cfg.Output.Suffix)
	default:
		result.Output = a.Output
	}

	if err := report.WriteFile(result.Output); err != nil {
		return nil, err
	}
	return result, nil
}

type imageCompressPlanArgs struct {
	Path   string `json:"path"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	compressionArgs
}

func (s *Server) handleImageCompressPlan(args json.RawMessage) (interface{}, error) {
	var a imageCompressPlanArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	if a.Path != "" {
		dims, err := imaging.GetDimensions(s.cache, a.Path)
		if err != nil {
			return nil, err
		}
		a.Width, a.Height = dims.Width, dims.Height
	}
	return imaging.NewPlan(a.Width, a.Height, s.options(a.compressionArgs))
}

// === Remote Image Handlers ===

type imageFetchArgs struct {
	URL    string         `json:"url"`
	Params map[string]any `json:"params"`
	Dir    string         `json:"dir"`
	Name   string         `json:"name"`
	// Compress stores the compressed JPEG instead of the fetched bytes.
	Compress bool `json:"compress"`
	compressionArgs
}

// FetchResult is the image_fetch tool result.
type FetchResult struct {
	Path        string          `json:"path"`
	ContentType string          `json:"content_type"`
	Bytes       int             `json:"bytes"`
	Report      *imaging.Report `json:"report,omitempty"`
}

func (s *Server) handleImageFetch(args json.RawMessage) (interface{}, error) {
	var a imageFetchArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.URL == "" {
		return nil, errors.New("url is required")
	}
	if a.Dir == "" {
		a.Dir = s.cfg.Download.Dir
	}

	ctx := context.Background()
	if t := s.cfg.Download.Timeout; t > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t)
		defer cancel()
	}

	blob, err := download.Fetch(ctx, s.client, a.URL, a.Params)
	if err != nil {
		return nil, err
	}
	name := blob.FileName(a.Name)
	result := &FetchResult{ContentType: blob.ContentType, Bytes: len(blob.Data)}

	data := blob.Data
	if a.Compress {
		img, err := imaging.DecodeBytes(blob.Data)
		if err != nil {
			return nil, err
		}
		res, err := imaging.CompressWithOptions(img, s.options(a.compressionArgs))
		if err != nil {
			return nil, err
		}
		result.Report = imaging.NewReport(a.URL, int64(len(blob.Data)), res)
		data = res.Data
		name = strings.TrimSuffix(name, filepath.Ext(name)) + s.cfg.Output.Suffix + ".jpg"
	}

	path, err := download.Save(a.Dir, name, data)
	if err != nil {
		return nil, err
	}
	result.Path = path
	s.debugf("Fetched %s (%d bytes) to %s", a.URL, len(blob.Data), path)
	return result, nil
}
