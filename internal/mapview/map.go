// Package mapview is a headless map widget for Earth Engine layers.
//
// Map records a viewport and a stack of layers the way an interactive map
// would, without rendering anything. Renderer publishes the stack to the
// platform and assembles viewport previews from the resulting tiles.
package mapview

import (
	"sync"

	"github.com/ironsheep/ee-snic-mcp/internal/ee"
)

// Center is a map viewport.
type Center struct {
	Lon  float64 `json:"lon"`
	Lat  float64 `json:"lat"`
	Zoom int     `json:"zoom"`
}

// Layer is one entry of the layer stack.
type Layer struct {
	Name string

	// Image may be nil, in which case the layer is listed but draws nothing.
	Image *ee.Image

	// Vis is nil for the platform default rendering.
	Vis *ee.VisParams
}

// Opacity returns the layer opacity, 1 unless Vis sets it.
func (l Layer) Opacity() float64 {
	if l.Vis != nil && l.Vis.Opacity != nil {
		return *l.Vis.Opacity
	}
	return 1
}

// Output returns the image the platform draws for the layer: Image styled
// with Vis, or Image itself when Vis is nil. Opacity is left out; it applies
// when layers are composited.
func (l Layer) Output() *ee.Image {
	if l.Image == nil || l.Vis == nil {
		return l.Image
	}
	vis := *l.Vis
	vis.Opacity = nil
	return l.Image.Visualize(vis)
}

// Map is a headless map widget. It is safe for concurrent use.
//
// Neither SetCenter nor AddLayer talks to the platform or validates its
// arguments; Renderer does both when the map is published.
type Map struct {
	mu     sync.Mutex
	center *Center
	layers []Layer
}

// New returns an empty map with no viewport set.
func New() *Map {
	return &Map{}
}

// SetCenter moves the viewport.
func (m *Map) SetCenter(lon, lat float64, zoom int) {
	m.mu.Lock()
	m.center = &Center{Lon: lon, Lat: lat, Zoom: zoom}
	m.mu.Unlock()
}

// AddLayer pushes a layer on top of the stack.
func (m *Map) AddLayer(img *ee.Image, vis *ee.VisParams, name string) {
	var visCopy *ee.VisParams
	if vis != nil {
		v := *vis
		visCopy = &v
	}
	m.mu.Lock()
	m.layers = append(m.layers, Layer{Name: name, Image: img, Vis: visCopy})
	m.mu.Unlock()
}

// Center returns the viewport and whether SetCenter has been called.
func (m *Map) Center() (Center, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.center == nil {
		return Center{}, false
	}
	return *m.center, true
}

// Layers returns the layer stack, bottom first.
func (m *Map) Layers() []Layer {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Layer(nil), m.layers...)
}
