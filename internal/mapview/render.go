package mapview

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ironsheep/ee-snic-mcp/internal/ee"
	"github.com/ironsheep/ee-snic-mcp/internal/imaging"
)

const (
	// MaxPreviewSize bounds each preview dimension in pixels.
	MaxPreviewSize = 2048

	tileFetchConcurrency = 8
	gridColor            = "#FF0000B0"
)

// ErrNoCenter is returned when publishing a map whose viewport was never set.
var ErrNoCenter = errors.New("map has no center")

// Publisher is the part of the platform a Renderer needs. *ee.Client
// satisfies it.
type Publisher interface {
	CreateMap(ctx context.Context, img *ee.Image) (*ee.MapID, error)
	Tile(ctx context.Context, id *ee.MapID, z, x, y int) (image.Image, error)
}

// PublishedLayer is a layer after publication.
type PublishedLayer struct {
	Name string `json:"name"`

	// Map is nil for layers without an image.
	Map *ee.MapID `json:"map,omitempty"`

	Vis     *ee.VisParams `json:"vis,omitempty"`
	Opacity float64       `json:"opacity"`
}

// View is a published map: a viewport and the layer stack, bottom first.
type View struct {
	Center         Center           `json:"center"`
	MetersPerPixel float64          `json:"meters_per_pixel"`
	Layers         []PublishedLayer `json:"layers"`
}

// PreviewOptions adjusts Preview output.
type PreviewOptions struct {
	// Layers restricts the preview to the named layers. Empty means all.
	Layers []string

	// OutlineLayer names a layer whose color boundaries are drawn on top of
	// the stack, e.g. the cluster layer of a segmentation. It is outlined even
	// when Layers leaves it out.
	OutlineLayer string

	// ShowTileGrid draws tile boundaries labeled with their indices.
	ShowTileGrid bool
}

// Renderer publishes maps and assembles previews.
type Renderer struct {
	publisher Publisher
	cache     *imaging.TileCache
	logger    *zap.Logger
}

// NewRenderer returns a Renderer. cache and logger may be nil.
func NewRenderer(pub Publisher, cache *imaging.TileCache, logger *zap.Logger) *Renderer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Renderer{publisher: pub, cache: cache, logger: logger}
}

// Publish registers every layer of m with the platform.
//
// Layers with vis parameters are published as their visualization. Layers
// without an image are kept in the stack with no map. Publication does not
// evaluate pixels; the platform computes tiles when they are requested.
func (r *Renderer) Publish(ctx context.Context, m *Map) (*View, error) {
	center, ok := m.Center()
	if !ok {
		return nil, ErrNoCenter
	}
	if err := center.Validate(); err != nil {
		return nil, fmt.Errorf("invalid viewport: %w", err)
	}

	layers := m.Layers()
	view := &View{
		Center:         center,
		MetersPerPixel: GroundResolution(center.Lat, center.Zoom),
		Layers:         make([]PublishedLayer, 0, len(layers)),
	}

	for _, l := range layers {
		pl := PublishedLayer{Name: l.Name, Vis: l.Vis, Opacity: l.Opacity()}
		if l.Image == nil {
			r.logger.Debug("layer has no image", zap.String("layer", l.Name))
			view.Layers = append(view.Layers, pl)
			continue
		}

		id, err := r.publisher.CreateMap(ctx, l.Output())
		if err != nil {
			return nil, fmt.Errorf("publish layer %q: %w", l.Name, err)
		}
		pl.Map = id
		view.Layers = append(view.Layers, pl)
	}

	r.logger.Info("map published",
		zap.Float64("lon", center.Lon),
		zap.Float64("lat", center.Lat),
		zap.Int("zoom", center.Zoom),
		zap.Int("layers", len(view.Layers)))
	return view, nil
}

// Preview renders the viewport of view as a width x height image, drawing
// the layer stack bottom to top.
func (r *Renderer) Preview(ctx context.Context, view *View, width, height int, opts PreviewOptions) (image.Image, error) {
	if width <= 0 || height <= 0 || width > MaxPreviewSize || height > MaxPreviewSize {
		return nil, fmt.Errorf("preview size %dx%d outside 1..%d", width, height, MaxPreviewSize)
	}
	if err := view.Center.Validate(); err != nil {
		return nil, fmt.Errorf("invalid viewport: %w", err)
	}

	selected := make(map[string]bool, len(opts.Layers))
	for _, name := range opts.Layers {
		selected[name] = true
	}

	win := WindowAt(view.Center, width, height)
	var canvas image.Image = imaging.NewCanvas(width, height)
	var outline image.Image

	for _, l := range view.Layers {
		if l.Map == nil {
			continue
		}
		shown := len(selected) == 0 || selected[l.Name]
		outlined := opts.OutlineLayer != "" && l.Name == opts.OutlineLayer
		if !shown && !outlined {
			continue
		}
		layerImg, err := r.layerWindow(ctx, l.Map, view.Center.Zoom, win)
		if err != nil {
			return nil, fmt.Errorf("render layer %q: %w", l.Name, err)
		}
		if shown {
			canvas = imaging.Blend(canvas, layerImg, l.Opacity)
		}
		if outlined {
			outline = imaging.Boundaries(layerImg, color.White)
		}
	}

	if outline != nil {
		canvas = imaging.Blend(canvas, outline, 1)
	}

	if opts.ShowTileGrid {
		grid := imaging.TileGrid{
			OffsetX:  win.MinX*TileSize - win.Left,
			OffsetY:  win.MinY*TileSize - win.Top,
			TileSize: TileSize,
			FirstX:   win.MinX,
			FirstY:   win.MinY,
		}
		gridded, err := imaging.TileGridOverlay(canvas, grid, gridColor)
		if err != nil {
			return nil, err
		}
		canvas = gridded
	}

	return canvas, nil
}

// layerWindow fetches the tiles under win and crops them to the viewport.
func (r *Renderer) layerWindow(ctx context.Context, id *ee.MapID, zoom int, win Window) (image.Image, error) {
	mosaic := imaging.NewCanvas(win.Cols()*TileSize, win.Rows()*TileSize)
	rows := 1 << zoom

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(tileFetchConcurrency)
	for ty := win.MinY; ty <= win.MaxY; ty++ {
		if ty < 0 || ty >= rows {
			continue // beyond the poles
		}
		for tx := win.MinX; tx <= win.MaxX; tx++ {
			ty, tx := ty, tx
			g.Go(func() error {
				tile, err := r.tile(gctx, id, zoom, WrapX(tx, zoom), ty)
				if err != nil {
					return err
				}
				// Each goroutine writes a disjoint region of the mosaic.
				imaging.Paste(mosaic, tile, (tx-win.MinX)*TileSize, (ty-win.MinY)*TileSize)
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	ox := win.Left - win.MinX*TileSize
	oy := win.Top - win.MinY*TileSize
	return imaging.CropRect(mosaic, ox, oy, ox+win.Width, oy+win.Height, 1.0)
}

func (r *Renderer) tile(ctx context.Context, id *ee.MapID, z, x, y int) (image.Image, error) {
	key := imaging.TileKey{Source: id.TileURL, Z: z, X: x, Y: y}
	if r.cache != nil {
		if img, ok := r.cache.Get(key); ok {
			return img, nil
		}
	}

	img, err := r.publisher.Tile(ctx, id, z, x, y)
	if err != nil {
		return nil, err
	}
	r.logger.Debug("tile fetched", zap.String("map", id.Name), zap.Int("z", z), zap.Int("x", x), zap.Int("y", y))

	if r.cache != nil {
		r.cache.Put(key, img)
	}
	return img, nil
}
