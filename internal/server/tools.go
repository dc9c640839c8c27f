package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// compressionProperties are the optional per-call compression overrides
// shared by image_compress, image_compress_plan and image_fetch.
func compressionProperties() map[string]interface{} {
	return map[string]interface{}{
		"max_pixels": map[string]interface{}{
			"type":        "integer",
			"description": "Pixel ceiling of the output. Default 4000000",
			"default":     4000000,
		},
		"tile_pixels": map[string]interface{}{
			"type":        "integer",
			"description": "Output pixel count above which the image is redrawn in tiles. Default 1000000",
			"default":     1000000,
		},
		"quality": map[string]interface{}{
			"type":        "number",
			"description": "JPEG quality factor from 0.0 to 1.0. Default 0.1",
			"default":     0.1,
		},
		"background": map[string]interface{}{
			"type":        "string",
			"description": "Hex colour painted under transparent areas (#rgb or #rrggbb). Default #ffffff",
			"default":     "#ffffff",
		},
	}
}

func withCompression(props map[string]interface{}) map[string]interface{} {
	for k, v := range compressionProperties() {
		props[k] = v
	}
	return props
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Basic Image Information
		{
			Name:        "image_load",
			Description: "Load an image file and return its dimensions, format, file size and the plan for compressing it with default settings.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_dimensions",
			Description: "Get the width and height of an image file.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
				},
				"required": []string{"path"},
			},
		},

		// Compression
		{
			Name:        "image_compress",
			Description: "Downscale an image to at most 4 megapixels and re-encode it as a small JPEG. Writes the JPEG to output, or returns it as base64 when output is omitted.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": withCompression(map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
					"output": map[string]interface{}{
						"type":        "string",
						"description": "Path of the JPEG to write, or \"auto\" for <name>_compressed.jpg in the configured output directory",
					},
				}),
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_compress_plan",
			Description: "Show how an image would be compressed (output size, downscale ratio, tile grid) without encoding it. Give either a path or a width and height.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": withCompression(map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
					"width": map[string]interface{}{
						"type":        "integer",
						"description": "Source width in pixels, used when path is omitted",
					},
					"height": map[string]interface{}{
						"type":        "integer",
						"description": "Source height in pixels, used when path is omitted",
					},
				}),
			},
		},

		// Remote images
		{
			Name:        "image_fetch",
			Description: "Download a file over HTTP(S) and save it, optionally compressing it as a JPEG first.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": withCompression(map[string]interface{}{
					"url": map[string]interface{}{
						"type":        "string",
						"description": "http or https URL to download",
					},
					"params": map[string]interface{}{
						"type":        "object",
						"description": "Query parameters appended to the URL; array values are written as key[]=v",
					},
					"dir": map[string]interface{}{
						"type":        "string",
						"description": "Directory to save into. Defaults to the configured download directory",
					},
					"name": map[string]interface{}{
						"type":        "string",
						"description": "File name. Defaults to the server-suggested name or the last URL path element",
					},
					"compress": map[string]interface{}{
						"type":        "boolean",
						"description": "Compress the downloaded image and save the JPEG instead",
						"default":     false,
					},
				}),
				"required": []string{"url"},
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
