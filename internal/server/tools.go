package server

// Tool represents an MCP tool definition.
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// regionSchema is the shared schema for a rectangular selection in
// native pixel units.
func regionSchema(description string) map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"x":      map[string]interface{}{"type": "integer"},
			"y":      map[string]interface{}{"type": "integer"},
			"width":  map[string]interface{}{"type": "integer"},
			"height": map[string]interface{}{"type": "integer"},
		},
		"required":    []string{"x", "y", "width", "height"},
		"description": description,
	}
}

// strategySchema is the shared schema for selecting a detection strategy.
func strategySchema() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"enum":        []string{"red-line", "dark-region"},
		"description": "Detection strategy. Defaults to the configured strategy.",
	}
}

// paramsSchema is the shared schema for per-call detector parameter
// overrides. Fields left out keep their configured values.
func paramsSchema() map[string]interface{} {
	return map[string]interface{}{
		"type":                 "object",
		"additionalProperties": map[string]interface{}{"type": "number"},
		"description":          "Detector parameter overrides by snake_case name (e.g. edge_margin, background_mean). Omitted fields keep the configured values.",
	}
}

// GetToolDefinitions returns all available tools.
func GetToolDefinitions() []Tool {
	return []Tool{
		// Image loading
		{
			Name:        "strip_load",
			Description: "Load a strip photo and return its dimensions, format and file size. The image stays cached for subsequent operations.",
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
			Name:        "strip_dimensions",
			Description: "Get the width and height of a strip photo.",
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

		// Region selection
		{
			Name:        "strip_select_region",
			Description: "Reduce a painted selection mask to its bounding rectangle in native image coordinates. Mask points are in display (canvas) coordinates and are scaled back by the native/display ratio.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"mask": map[string]interface{}{
						"type": "array",
						"items": map[string]interface{}{
							"type": "object",
							"properties": map[string]interface{}{
								"x": map[string]interface{}{"type": "integer"},
								"y": map[string]interface{}{"type": "integer"},
							},
							"required": []string{"x", "y"},
						},
						"description": "Painted points in display coordinates",
					},
					"display_width":  map[string]interface{}{"type": "integer", "description": "Canvas width the mask was painted on"},
					"display_height": map[string]interface{}{"type": "integer", "description": "Canvas height the mask was painted on"},
					"native_width":   map[string]interface{}{"type": "integer", "description": "Native image width in pixels"},
					"native_height":  map[string]interface{}{"type": "integer", "description": "Native image height in pixels"},
				},
				"required": []string{"mask", "display_width", "display_height", "native_width", "native_height"},
			},
		},
		{
			Name:        "strip_crop",
			Description: "Crop a rectangular region from a strip photo and return it as base64 PNG.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
					"region": regionSchema("Rectangle to crop, in native pixel units"),
					"scale": map[string]interface{}{
						"type":        "number",
						"description": "Optional scale factor for the returned image. Default 1.0",
						"default":     1.0,
					},
				},
				"required": []string{"path", "region"},
			},
		},

		// Detection and quantification
		{
			Name:        "strip_detect_line",
			Description: "Detect the indicator line's pixels in a strip photo (or a region of it). Returns pixel count, bounding box and optionally the coordinates.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
					"region":   regionSchema("Optional sub-rectangle to analyze. Omit to analyze the whole image."),
					"strategy": strategySchema(),
					"include_coordinates": map[string]interface{}{
						"type":        "boolean",
						"description": "Whether to return every accepted coordinate (can be large)",
						"default":     false,
					},
					"denoise_sigma": map[string]interface{}{
						"type":        "number",
						"description": "Optional Gaussian pre-blur sigma for noisy photos. Default from config (off)",
					},
					"params": paramsSchema(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "strip_quantify",
			Description: "Detect the indicator line and reduce it to mean R/G/B and a grayscale intensity scalar. An all-zero summary means nothing was detected.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
					"region":   regionSchema("Optional sub-rectangle to analyze. Omit to analyze the whole image."),
					"strategy": strategySchema(),
					"denoise_sigma": map[string]interface{}{
						"type":        "number",
						"description": "Optional Gaussian pre-blur sigma for noisy photos",
					},
					"params": paramsSchema(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "strip_quantify_batch",
			Description: "Quantify several strip photos in parallel and reduce them into a trend ordered by day offset, with per-entry and total grayscale rates of change.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"items": map[string]interface{}{
						"type": "array",
						"items": map[string]interface{}{
							"type": "object",
							"properties": map[string]interface{}{
								"path":       map[string]interface{}{"type": "string"},
								"day_offset": map[string]interface{}{"type": "integer", "description": "Days past event for this photo"},
								"label":      map[string]interface{}{"type": "string", "description": "Optional tag carried into the trend entry"},
								"region":     regionSchema("Optional sub-rectangle for this photo"),
							},
							"required": []string{"path", "day_offset"},
						},
					},
					"strategy": strategySchema(),
				},
				"required": []string{"items"},
			},
		},
		{
			Name:        "strip_trend",
			Description: "Compute a trend from caller-supplied grayscale summaries: entries sorted by day offset, per-entry rate of change and total rate of change.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"samples": map[string]interface{}{
						"type": "array",
						"items": map[string]interface{}{
							"type": "object",
							"properties": map[string]interface{}{
								"day_offset": map[string]interface{}{"type": "integer"},
								"label":      map[string]interface{}{"type": "string"},
								"summary": map[string]interface{}{
									"type": "object",
									"properties": map[string]interface{}{
										"r":         map[string]interface{}{"type": "number"},
										"g":         map[string]interface{}{"type": "number"},
										"b":         map[string]interface{}{"type": "number"},
										"grayscale": map[string]interface{}{"type": "number"},
									},
									"required": []string{"r", "g", "b", "grayscale"},
								},
							},
							"required": []string{"day_offset", "summary"},
						},
					},
				},
				"required": []string{"samples"},
			},
		},

		// Verification helpers
		{
			Name:        "strip_overlay",
			Description: "Render the detected line pixels highlighted over the analyzed image as base64 PNG, for visually verifying a detection run.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
					"region":   regionSchema("Optional sub-rectangle to analyze. Omit to analyze the whole image."),
					"strategy": strategySchema(),
					"highlight": map[string]interface{}{
						"type":        "string",
						"description": "Highlight color as hex, e.g. #00FF0080 (default: semi-transparent green)",
						"default":     "#00FF0080",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "strip_label_ocr",
			Description: "Read the text printed on the strip cassette (lot number, expiry, test name) via OCR, optionally restricted to a label region.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
					"region": regionSchema("Optional label region to read. Omit to OCR the whole image."),
					"language": map[string]interface{}{
						"type":        "string",
						"description": "Tesseract language code (default from config, usually 'eng')",
					},
				},
				"required": []string{"path"},
			},
		},
	}
}

// handleToolsList returns the list of available tools.
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
