// Package server implements the MCP (Model Context Protocol) server for the
// SNIC segmentation tools.
//
// The server exposes Earth Engine's SNIC superpixel segmentation to MCP
// clients: it builds the segmentation as a deferred computation, publishes
// the resulting layers as Earth Engine maps and renders previews of them from
// the map tiles.
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
// Segmentation:
//   - snic_example: Run the documented SNIC example and publish its layers
//   - snic_segment: Segment any asset with custom SNIC parameters
//   - snic_expression: Show the expression graph sent for each example layer
//   - image_band_names: List the bands of an asset or its segmentation
//
// Rendering:
//   - map_preview: Composite the active map's tiles into a PNG
//   - palette_legend: Draw a palette color ramp
//
// # Active Map
//
// snic_example and snic_segment replace the active map. map_preview renders
// whichever map was published last. Publishing registers the layers with
// Earth Engine but computes nothing; pixels are evaluated when tiles are
// fetched.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: Additional error details (typically the Go error string)
//
// Tools that need Earth Engine fail with a configuration error when the
// server was started without a project. snic_expression and palette_legend
// work offline.
//
// # Usage
//
//	client, err := ee.NewClient(ctx, ee.Options{Project: project})
//	...
//	srv := server.New(server.Options{
//	    Renderer: mapview.NewRenderer(client, imaging.NewTileCache(256), logger),
//	    Bands:    client,
//	    Logger:   logger,
//	})
//	if err := srv.Run(ctx); err != nil {
//	    logger.Fatal("server error", zap.Error(err))
//	}
package server
