package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func pathProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to the image file",
	}
}

func regionProperty(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "object",
		"description": description,
		"properties": map[string]interface{}{
			"x1": map[string]interface{}{"type": "integer"},
			"y1": map[string]interface{}{"type": "integer"},
			"x2": map[string]interface{}{"type": "integer"},
			"y2": map[string]interface{}{"type": "integer"},
		},
		"required": []string{"x1", "y1", "x2", "y2"},
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Geometry
		{
			Name:        "plate_estimate_angle",
			Description: "Estimate the in-plane rotation of a plate crop from its edge segments. Returns the correction angle in degrees (positive when the plate descends to the right), clamped to ±15, with the segments and buckets it was derived from.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":   pathProperty(),
					"region": regionProperty("Optional plate region; the whole image is used when omitted"),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "plate_align",
			Description: "Rotate a plate crop upright and return it as base64-encoded PNG with the same dimensions as the input.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":   pathProperty(),
					"region": regionProperty("Optional plate region; the whole image is used when omitted"),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "plate_edges",
			Description: "Run Canny edge detection (5x5 Gaussian pre-blur, hysteresis thresholds) and return the edge map as base64-encoded PNG.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"threshold_low": map[string]interface{}{
						"type":        "integer",
						"description": "Lower hysteresis threshold. Default 50",
						"default":     50,
					},
					"threshold_high": map[string]interface{}{
						"type":        "integer",
						"description": "Upper hysteresis threshold. Default 150",
						"default":     150,
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "plate_remap",
			Description: "Map a box detected on the resized working image back into frame coordinates of the plate region.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"box": map[string]interface{}{
						"type":        "object",
						"description": "Box in working image coordinates",
						"properties": map[string]interface{}{
							"x1": map[string]interface{}{"type": "number"},
							"y1": map[string]interface{}{"type": "number"},
							"x2": map[string]interface{}{"type": "number"},
							"y2": map[string]interface{}{"type": "number"},
						},
						"required": []string{"x1", "y1", "x2", "y2"},
					},
					"region": regionProperty("Plate region in frame coordinates"),
					"working_size": map[string]interface{}{
						"type":        "integer",
						"description": "Side of the square working image. Default 640",
						"default":     640,
					},
				},
				"required": []string{"box", "region"},
			},
		},

		// Text
		{
			Name:        "plate_layout",
			Description: "Group character boxes into rows and reading order and assemble the plate text. Rows are separated by a space.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"characters": map[string]interface{}{
						"type":        "array",
						"description": "Character boxes with their labels",
						"items": map[string]interface{}{
							"type": "object",
							"properties": map[string]interface{}{
								"x1":    map[string]interface{}{"type": "integer"},
								"y1":    map[string]interface{}{"type": "integer"},
								"x2":    map[string]interface{}{"type": "integer"},
								"y2":    map[string]interface{}{"type": "integer"},
								"label": map[string]interface{}{"type": "string"},
							},
							"required": []string{"x1", "y1", "label"},
						},
					},
					"row_gap": map[string]interface{}{
						"type":        "integer",
						"description": "Largest top-edge distance within a row. Default 50",
						"default":     50,
					},
				},
				"required": []string{"characters"},
			},
		},
		{
			Name:        "plate_read",
			Description: "Detect and read every plate in an image using the configured detectors. Optionally returns the annotated image.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"annotate": map[string]interface{}{
						"type":        "boolean",
						"description": "Include the annotated image as base64-encoded PNG",
						"default":     false,
					},
				},
				"required": []string{"path"},
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
