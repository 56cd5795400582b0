package ee

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg" // Register JPEG decoder for AUTO_JPEG_PNG tiles
	_ "image/png"  // Register PNG decoder for AUTO_JPEG_PNG tiles
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	htransport "google.golang.org/api/transport/http"
)

const (
	// DefaultEndpoint is the public REST base URL.
	DefaultEndpoint = "https://earthengine.googleapis.com/"

	// Scope grants read and write access to Earth Engine.
	Scope = "https://www.googleapis.com/auth/earthengine"

	// tileFormat lets the platform pick JPEG for opaque tiles and PNG otherwise.
	tileFormat = "AUTO_JPEG_PNG"
)

// Options configures NewClient.
type Options struct {
	// Project is the Cloud project that owns requests. Required.
	Project string

	// CredentialsFile is a service account or user credentials JSON file.
	// Empty uses Application Default Credentials.
	CredentialsFile string

	// Endpoint overrides DefaultEndpoint, e.g. for a test server.
	Endpoint string

	// HTTPClient, when set, is used as-is for every request and
	// CredentialsFile is ignored.
	HTTPClient *http.Client

	Logger *zap.Logger
}

// Client publishes computations to Earth Engine and fetches their tiles.
//
// It performs no retries and keeps no cache; each call is exactly one
// request. Client is safe for concurrent use.
type Client struct {
	hc      *http.Client
	baseURL string
	project string
	logger  *zap.Logger
}

// MapID identifies a published map.
type MapID struct {
	// Name is the resource name, "projects/{project}/maps/{id}".
	Name string `json:"name"`

	// TileURL is an XYZ template with {z}, {x} and {y} placeholders.
	TileURL string `json:"tile_url"`
}

// TileFor fills the tile URL template.
func (m *MapID) TileFor(z, x, y int) string {
	return strings.NewReplacer(
		"{z}", strconv.Itoa(z),
		"{x}", strconv.Itoa(x),
		"{y}", strconv.Itoa(y),
	).Replace(m.TileURL)
}

// NewClient builds a Client from opts.
func NewClient(ctx context.Context, opts Options) (*Client, error) {
	project := strings.TrimSpace(opts.Project)
	if project == "" {
		return nil, errors.New("ee: project is required")
	}

	hc := opts.HTTPClient
	if hc == nil {
		authOpts := []option.ClientOption{option.WithScopes(Scope)}
		if opts.CredentialsFile != "" {
			authOpts = append(authOpts, option.WithCredentialsFile(opts.CredentialsFile))
		}
		var err error
		hc, _, err = htransport.NewClient(ctx, authOpts...)
		if err != nil {
			return nil, fmt.Errorf("ee: failed to build authorized HTTP client: %w", err)
		}
	}

	baseURL := strings.TrimSpace(opts.Endpoint)
	if baseURL == "" {
		baseURL = DefaultEndpoint
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{hc: hc, baseURL: baseURL, project: project, logger: logger}, nil
}

func (c *Client) parent() string {
	return "projects/" + c.project
}

// CreateMap publishes img as a tiled map.
//
// Publishing does not evaluate the image. Errors in the computation itself,
// such as an unknown asset id, usually surface from Tile instead.
func (c *Client) CreateMap(ctx context.Context, img *Image) (*MapID, error) {
	expr, err := Encode(img)
	if err != nil {
		return nil, err
	}
	req := createMapRequest{Expression: expr, FileFormat: tileFormat}
	var m createMapResponse
	if err := c.post(ctx, c.parent()+"/maps", req, &m); err != nil {
		return nil, fmt.Errorf("ee: create map: %w", err)
	}
	if m.Name == "" {
		return nil, errors.New("ee: create map: response has no map name")
	}
	id := &MapID{
		Name:    m.Name,
		TileURL: c.baseURL + "v1/" + m.Name + "/tiles/{z}/{x}/{y}",
	}
	c.logger.Debug("map created", zap.String("name", id.Name), zap.String("function", img.Function()))
	return id, nil
}

// Tile fetches and decodes one XYZ tile of a published map.
func (c *Client) Tile(ctx context.Context, id *MapID, z, x, y int) (image.Image, error) {
	url := id.TileFor(z, x, y)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("ee: tile request: %w", err)
	}
	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ee: fetch tile %d/%d/%d: %w", z, x, y, err)
	}
	defer resp.Body.Close()

	if err := googleapi.CheckResponse(resp); err != nil {
		return nil, fmt.Errorf("ee: fetch tile %d/%d/%d: %w", z, x, y, err)
	}

	img, _, err := image.Decode(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("ee: decode tile %d/%d/%d: %w", z, x, y, err)
	}
	return img, nil
}

// ComputeValue evaluates expr synchronously and returns the decoded JSON result.
func (c *Client) ComputeValue(ctx context.Context, expr *Expression) (any, error) {
	var resp computeValueResponse
	if err := c.post(ctx, c.parent()+"/value:compute", computeValueRequest{Expression: expr}, &resp); err != nil {
		return nil, fmt.Errorf("ee: compute value: %w", err)
	}
	return resp.Result, nil
}

type createMapRequest struct {
	Expression *Expression `json:"expression"`
	FileFormat string      `json:"fileFormat,omitempty"`
}

type createMapResponse struct {
	Name string `json:"name"`
}

type computeValueRequest struct {
	Expression *Expression `json:"expression"`
}

type computeValueResponse struct {
	Result any `json:"result"`
}

// post sends body as JSON to the v1 resource path and decodes the reply
// into out. Non-2xx replies become *googleapi.Error.
func (c *Client) post(ctx context.Context, path string, body, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"v1/"+path, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.hc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := googleapi.CheckResponse(resp); err != nil {
		return err
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// BandNames returns the band names of img. Unlike the rest of the package
// this forces an evaluation, so it fails for missing assets.
func (c *Client) BandNames(ctx context.Context, img *Image) ([]string, error) {
	expr, err := Encode(img.bandNames())
	if err != nil {
		return nil, err
	}
	result, err := c.ComputeValue(ctx, expr)
	if err != nil {
		return nil, err
	}
	list, ok := result.([]any)
	if !ok {
		return nil, fmt.Errorf("ee: band names: unexpected result type %T", result)
	}
	names := make([]string, 0, len(list))
	for _, v := range list {
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("ee: band names: unexpected element type %T", v)
		}
		names = append(names, s)
	}
	return names, nil
}

// IsNotFound reports whether err is a platform 404, e.g. an unknown asset.
func IsNotFound(err error) bool {
	var gerr *googleapi.Error
	return errors.As(err, &gerr) && gerr.Code == http.StatusNotFound
}
