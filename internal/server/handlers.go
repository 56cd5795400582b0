package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/ironsheep/ee-snic-mcp/internal/ee"
	"github.com/ironsheep/ee-snic-mcp/internal/imaging"
	"github.com/ironsheep/ee-snic-mcp/internal/mapview"
	"github.com/ironsheep/ee-snic-mcp/internal/snic"
)

var (
	errNotConfigured = errors.New("earth engine is not configured: set ee.project or SNIC_MCP_EE_PROJECT")
	errNoActiveMap   = errors.New("no map published yet: call snic_example or snic_segment first")
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "snic_example", "map_preview").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(ctx context.Context, req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(ctx, params.Name, params.Arguments)
	if err != nil {
		s.logger.Warn("tool failed", zap.String("tool", params.Name), zap.Error(err))
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(ctx context.Context, name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Segmentation
	case "snic_example":
		return s.handleSNICExample(ctx)
	case "snic_segment":
		return s.handleSNICSegment(ctx, args)
	case "snic_expression":
		return s.handleSNICExpression(args)
	case "image_band_names":
		return s.handleImageBandNames(ctx, args)

	// Rendering
	case "map_preview":
		return s.handleMapPreview(ctx, args)
	case "palette_legend":
		return s.handlePaletteLegend(args)

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

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// decodeArgs unmarshals tool arguments. Missing or null arguments leave v
// at its zero value.
func decodeArgs(args json.RawMessage, v interface{}) error {
	trimmed := bytes.TrimSpace(args)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}
	return json.Unmarshal(trimmed, v)
}

// publish registers m with the platform and makes it the active map.
func (s *Server) publish(ctx context.Context, m *mapview.Map) (*mapview.View, error) {
	if s.renderer == nil {
		return nil, errNotConfigured
	}
	view, err := s.renderer.Publish(ctx, m)
	if err != nil {
		return nil, err
	}
	s.setView(view)
	return view, nil
}

// === Segmentation Handlers ===

func (s *Server) handleSNICExample(ctx context.Context) (interface{}, error) {
	m := mapview.New()
	snic.Run(ee.Builder{}, m)
	return s.publish(ctx, m)
}

type snicSegmentArgs struct {
	AssetID          string   `json:"asset_id"`
	Lon              *float64 `json:"lon"`
	Lat              *float64 `json:"lat"`
	Zoom             *int     `json:"zoom"`
	Size             int      `json:"size"`
	Compactness      *float64 `json:"compactness"`
	Connectivity     int      `json:"connectivity"`
	NeighborhoodSize int      `json:"neighborhood_size"`
	Bands            []string `json:"bands"`
}

// Layer labels of snic_segment maps.
const (
	labelImage = "Image"
	labelMeans = "Cluster means"
)

func (s *Server) handleSNICSegment(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a snicSegmentArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if strings.TrimSpace(a.AssetID) == "" {
		return nil, fmt.Errorf("asset_id is required")
	}
	if a.Lon == nil || a.Lat == nil || a.Zoom == nil {
		return nil, fmt.Errorf("lon, lat and zoom are required")
	}
	if a.Size == 0 {
		a.Size = snic.Size
	}
	if a.Compactness == nil {
		a.Compactness = ee.Float(snic.Compactness)
	}
	if a.Connectivity == 0 {
		a.Connectivity = int(snic.Connectivity)
	}
	if a.Bands == nil {
		a.Bands = []string{"R", "G", "B"}
	}
	if len(a.Bands) != 3 {
		return nil, fmt.Errorf("bands must name 3 input bands, got %d", len(a.Bands))
	}

	center := mapview.Center{Lon: *a.Lon, Lat: *a.Lat, Zoom: *a.Zoom}
	if err := center.Validate(); err != nil {
		return nil, err
	}

	img := ee.Load(a.AssetID)
	cfg := ee.SegmentationConfig{
		Image:            img,
		Size:             a.Size,
		Compactness:      *a.Compactness,
		Connectivity:     ee.Connectivity(a.Connectivity),
		NeighborhoodSize: a.NeighborhoodSize,
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	means := make([]string, len(a.Bands))
	for i, band := range a.Bands {
		if strings.TrimSpace(band) == "" {
			return nil, fmt.Errorf("band %d is blank", i)
		}
		means[i] = ee.MeanBand(band)
	}
	clustersVis := &ee.VisParams{
		Bands:   []string{ee.ClusterBand},
		Palette: append([]string(nil), snic.ClusterPalette...),
	}
	meansVis := &ee.VisParams{Bands: means, Min: ee.Float(0), Max: ee.Float(255)}
	for _, vis := range []*ee.VisParams{clustersVis, meansVis} {
		if err := vis.Validate(); err != nil {
			return nil, err
		}
	}

	segmented := ee.SNIC(cfg)
	m := mapview.New()
	m.SetCenter(center.Lon, center.Lat, center.Zoom)
	m.AddLayer(img, nil, labelImage)
	m.AddLayer(segmented, clustersVis, snic.LabelClusters)
	m.AddLayer(segmented, meansVis, labelMeans)
	return s.publish(ctx, m)
}

type snicExpressionArgs struct {
	Layer string `json:"layer"`
}

type layerExpression struct {
	Name       string                  `json:"name"`
	Expression *ee.Expression `json:"expression"`
}

func (s *Server) handleSNICExpression(args json.RawMessage) (interface{}, error) {
	var a snicExpressionArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}

	m := mapview.New()
	snic.Run(ee.Builder{}, m)

	var out []layerExpression
	for _, l := range m.Layers() {
		if a.Layer != "" && l.Name != a.Layer {
			continue
		}
		expr, err := ee.Encode(l.Output())
		if err != nil {
			return nil, fmt.Errorf("encode layer %q: %w", l.Name, err)
		}
		out = append(out, layerExpression{Name: l.Name, Expression: expr})
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("unknown layer: %s", a.Layer)
	}
	return out, nil
}

type imageBandNamesArgs struct {
	AssetID   string `json:"asset_id"`
	Segmented bool   `json:"segmented"`
}

type imageBandNamesResult struct {
	AssetID   string   `json:"asset_id"`
	Segmented bool     `json:"segmented"`
	Bands     []string `json:"bands"`
}

func (s *Server) handleImageBandNames(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a imageBandNamesArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if strings.TrimSpace(a.AssetID) == "" {
		return nil, fmt.Errorf("asset_id is required")
	}
	if s.bands == nil {
		return nil, errNotConfigured
	}

	img := ee.Load(a.AssetID)
	if a.Segmented {
		img = ee.SNIC(ee.SegmentationConfig{
			Image:        img,
			Size:         snic.Size,
			Compactness:  snic.Compactness,
			Connectivity: snic.Connectivity,
		})
	}
	bands, err := s.bands.BandNames(ctx, img)
	if err != nil {
		return nil, err
	}
	return &imageBandNamesResult{AssetID: a.AssetID, Segmented: a.Segmented, Bands: bands}, nil
}

// === Rendering Handlers ===

type mapPreviewArgs struct {
	Width        int      `json:"width"`
	Height       int      `json:"height"`
	Layers       []string `json:"layers"`
	OutlineLayer string   `json:"outline_layer"`
	ShowTileGrid bool     `json:"show_tile_grid"`
}

type mapPreviewResult struct {
	imaging.ImageResult
	Center         mapview.Center `json:"center"`
	MetersPerPixel float64        `json:"meters_per_pixel"`
	Layers         []string       `json:"layers"`
}

func (s *Server) handleMapPreview(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a mapPreviewArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if s.renderer == nil {
		return nil, errNotConfigured
	}
	view := s.activeView()
	if view == nil {
		return nil, errNoActiveMap
	}
	if a.Width == 0 {
		a.Width = s.width
	}
	if a.Height == 0 {
		a.Height = s.height
	}

	known := make(map[string]bool, len(view.Layers))
	for _, l := range view.Layers {
		known[l.Name] = true
	}
	for _, name := range a.Layers {
		if !known[name] {
			return nil, fmt.Errorf("unknown layer: %s", name)
		}
	}
	if a.OutlineLayer != "" && !known[a.OutlineLayer] {
		return nil, fmt.Errorf("unknown layer: %s", a.OutlineLayer)
	}

	img, err := s.renderer.Preview(ctx, view, a.Width, a.Height, mapview.PreviewOptions{
		Layers:       a.Layers,
		OutlineLayer: a.OutlineLayer,
		ShowTileGrid: a.ShowTileGrid,
	})
	if err != nil {
		return nil, err
	}
	encoded, err := imaging.EncodePNG(img)
	if err != nil {
		return nil, err
	}

	drawn := a.Layers
	if len(drawn) == 0 {
		for _, l := range view.Layers {
			if l.Map != nil {
				drawn = append(drawn, l.Name)
			}
		}
	}
	return &mapPreviewResult{
		ImageResult:    *encoded,
		Center:         view.Center,
		MetersPerPixel: view.MetersPerPixel,
		Layers:         drawn,
	}, nil
}

type paletteLegendArgs struct {
	Palette []string `json:"palette"`
	Width   int      `json:"width"`
	Height  int      `json:"height"`
}

func (s *Server) handlePaletteLegend(args json.RawMessage) (interface{}, error) {
	var a paletteLegendArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Palette == nil {
		a.Palette = snic.ClusterPalette
	}
	if a.Width == 0 {
		a.Width = 256
	}
	if a.Height == 0 {
		a.Height = 16
	}
	if a.Width > mapview.MaxPreviewSize || a.Height > mapview.MaxPreviewSize {
		return nil, fmt.Errorf("legend size %dx%d exceeds %d", a.Width, a.Height, mapview.MaxPreviewSize)
	}

	colors, err := imaging.ParsePalette(a.Palette)
	if err != nil {
		return nil, err
	}
	ramp, err := imaging.Ramp(colors, a.Width, a.Height)
	if err != nil {
		return nil, err
	}
	return imaging.EncodePNG(ramp)
}
