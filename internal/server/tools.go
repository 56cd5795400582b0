package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Segmentation
		{
			Name:        "snic_example",
			Description: "Run the SNIC superpixel example: load a NAIP image near Las Vegas, segment it with SNIC (size 30, compactness 0.1, 8-connectivity) and publish three map layers (raw RGB, cluster ids, per-cluster RGB means). Returns the viewport and tile URLs. The published map becomes the active map for map_preview.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},
		{
			Name:        "snic_segment",
			Description: "Segment any image asset with SNIC and publish the same three layers as snic_example, centered on the given coordinate. Parameters are validated before anything is sent to Earth Engine.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"asset_id": map[string]interface{}{
						"type":        "string",
						"description": "Earth Engine image asset id, e.g. USDA/NAIP/DOQQ/m_3611554_sw_11_1_20170613",
					},
					"lon": map[string]interface{}{
						"type":        "number",
						"description": "Viewport center longitude in degrees",
					},
					"lat": map[string]interface{}{
						"type":        "number",
						"description": "Viewport center latitude in degrees",
					},
					"zoom": map[string]interface{}{
						"type":        "integer",
						"description": "Viewport zoom level (0-24)",
					},
					"size": map[string]interface{}{
						"type":        "integer",
						"description": "Superpixel seed spacing in pixels. Default 30",
						"default":     30,
					},
					"compactness": map[string]interface{}{
						"type":        "number",
						"description": "Spatial regularity weight; 0 disables it. Default 0.1",
						"default":     0.1,
					},
					"connectivity": map[string]interface{}{
						"type":        "integer",
						"enum":        []int{4, 8},
						"description": "Pixel adjacency model. Default 8",
						"default":     8,
					},
					"neighborhood_size": map[string]interface{}{
						"type":        "integer",
						"description": "Tile neighborhood in pixels used to avoid tile boundary artifacts. Default: platform choice",
					},
					"bands": map[string]interface{}{
						"type":        "array",
						"items":       map[string]interface{}{"type": "string"},
						"description": "Three input bands whose cluster means form the composite layer. Default [R, G, B]",
					},
				},
				"required": []string{"asset_id", "lon", "lat", "zoom"},
			},
		},
		{
			Name:        "snic_expression",
			Description: "Return the serialized Earth Engine expression graph of each example layer, exactly as it would be sent to the platform. Makes no request.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"layer": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"NAIP RGB", "Clusters", "RGB cluster means"},
						"description": "Only return this layer. Default: all layers",
					},
				},
			},
		},
		{
			Name:        "image_band_names",
			Description: "List the band names of an image asset, or of its SNIC segmentation (clusters plus one <band>_mean per input band).",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"asset_id": map[string]interface{}{
						"type":        "string",
						"description": "Earth Engine image asset id",
					},
					"segmented": map[string]interface{}{
						"type":        "boolean",
						"description": "List the bands of the SNIC result instead of the asset. Default false",
						"default":     false,
					},
				},
				"required": []string{"asset_id"},
			},
		},

		// Rendering
		{
			Name:        "map_preview",
			Description: "Render the active map's viewport as a base64-encoded PNG by fetching and compositing its layer tiles.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"width": map[string]interface{}{
						"type":        "integer",
						"description": "Preview width in pixels. Default from server config",
					},
					"height": map[string]interface{}{
						"type":        "integer",
						"description": "Preview height in pixels. Default from server config",
					},
					"layers": map[string]interface{}{
						"type":        "array",
						"items":       map[string]interface{}{"type": "string"},
						"description": "Names of the layers to draw. Default: all layers",
					},
					"outline_layer": map[string]interface{}{
						"type":        "string",
						"description": "Draw superpixel boundaries of this layer (e.g. Clusters) on top, even if it is not in layers",
					},
					"show_tile_grid": map[string]interface{}{
						"type":        "boolean",
						"description": "Overlay tile boundaries labeled with their x,y indices. Default false",
						"default":     false,
					},
				},
			},
		},
		{
			Name:        "palette_legend",
			Description: "Render a color ramp for a palette as a base64-encoded PNG, interpolated the way Earth Engine stretches palettes.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"palette": map[string]interface{}{
						"type":        "array",
						"items":       map[string]interface{}{"type": "string"},
						"description": "Hex colors, with or without '#'. Default: the example's cluster palette",
					},
					"width": map[string]interface{}{
						"type":        "integer",
						"description": "Legend width in pixels. Default 256",
						"default":     256,
					},
					"height": map[string]interface{}{
						"type":        "integer",
						"description": "Legend height in pixels. Default 16",
						"default":     16,
					},
				},
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
