package server

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"

	"go.uber.org/zap"

	"github.com/ironsheep/ee-snic-mcp/internal/ee"
	"github.com/ironsheep/ee-snic-mcp/internal/mapview"
)

const (
	defaultPreviewWidth  = 512
	defaultPreviewHeight = 512
)

// BandLister resolves band names on the platform. *ee.Client implements it.
type BandLister interface {
	BandNames(ctx context.Context, img *ee.Image) ([]string, error)
}

// Options configures a Server.
type Options struct {
	// Renderer publishes maps and renders previews. Without it the tools
	// that talk to Earth Engine fail with a configuration error.
	Renderer *mapview.Renderer

	// Bands backs image_band_names. Optional.
	Bands BandLister

	// Version is reported in serverInfo.
	Version string

	// PreviewWidth and PreviewHeight are the map_preview defaults.
	PreviewWidth  int
	PreviewHeight int

	Logger *zap.Logger
}

// Server handles MCP protocol communication
type Server struct {
	renderer *mapview.Renderer
	bands    BandLister
	version  string
	width    int
	height   int
	logger   *zap.Logger

	mu   sync.Mutex
	view *mapview.View // last published map
}

// MCPRequest represents an incoming JSON-RPC request
type MCPRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      interface{}     `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// MCPResponse represents an outgoing JSON-RPC response
type MCPResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   *MCPError   `json:"error,omitempty"`
}

// MCPError represents a JSON-RPC error
type MCPError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// New creates a new MCP server instance
func New(opts Options) *Server {
	s := &Server{
		renderer: opts.Renderer,
		bands:    opts.Bands,
		version:  opts.Version,
		width:    opts.PreviewWidth,
		height:   opts.PreviewHeight,
		logger:   opts.Logger,
	}
	if s.version == "" {
		s.version = "dev"
	}
	if s.width <= 0 {
		s.width = defaultPreviewWidth
	}
	if s.height <= 0 {
		s.height = defaultPreviewHeight
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	return s
}

// Run serves MCP on stdin and stdout until stdin closes or ctx is done.
func (s *Server) Run(ctx context.Context) error {
	return s.Serve(ctx, os.Stdin, os.Stdout)
}

// Serve reads one JSON-RPC request per line from r and writes responses to w.
func (s *Server) Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	// Increase buffer size for large requests
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	encoder := json.NewEncoder(w)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}

		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req MCPRequest
		if err := json.Unmarshal(line, &req); err != nil {
			s.logger.Warn("failed to parse request", zap.Error(err))
			continue
		}

		resp := s.handleRequest(ctx, &req)
		if resp != nil {
			if err := encoder.Encode(resp); err != nil {
				s.logger.Error("failed to encode response", zap.Error(err))
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scanner error: %w", err)
	}

	return nil
}

// handleRequest routes requests to appropriate handlers
func (s *Server) handleRequest(ctx context.Context, req *MCPRequest) *MCPResponse {
	s.logger.Debug("request", zap.String("method", req.Method), zap.Any("id", req.ID))

	switch req.Method {
	case "initialize":
		return s.handleInitialize(req)
	case "notifications/initialized":
		// Client acknowledgment, no response needed
		return nil
	case "tools/list":
		return s.handleToolsList(req)
	case "tools/call":
		return s.handleToolsCall(ctx, req)
	case "ping":
		return &MCPResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Result:  map[string]interface{}{},
		}
	default:
		return &MCPResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Error: &MCPError{
				Code:    -32601,
				Message: fmt.Sprintf("Method not found: %s", req.Method),
			},
		}
	}
}

// handleInitialize responds to the initialize request
func (s *Server) handleInitialize(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"protocolVersion": "2024-11-05",
			"capabilities": map[string]interface{}{
				"tools": map[string]interface{}{},
			},
			"serverInfo": map[string]interface{}{
				"name":    "ee-snic-mcp",
				"version": s.version,
			},
		},
	}
}

func (s *Server) setView(v *mapview.View) {
	s.mu.Lock()
	s.view = v
	s.mu.Unlock()
}

func (s *Server) activeView() *mapview.View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view
}
