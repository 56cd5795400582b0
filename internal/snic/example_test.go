package snic

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ironsheep/ee-snic-mcp/internal/ee"
	"github.com/ironsheep/ee-snic-mcp/internal/mapview"
)

// call is one recorded interaction with the platform or the widget.
// Images are recorded by the tag the recorder assigned them.
type call struct {
	Method string

	AssetID string
	Config  *recordedConfig

	Lon, Lat float64
	Zoom     int

	Image string
	Vis   *ee.VisParams
	Label string
}

type recordedConfig struct {
	Image        string
	Size         int
	Compactness  float64
	Connectivity ee.Connectivity
}

// recorder stands in for both the platform and the map widget.
type recorder struct {
	calls []call
	tags  map[*ee.Image]string
}

func newRecorder() *recorder {
	return &recorder{tags: make(map[*ee.Image]string)}
}

func (r *recorder) tag(img *ee.Image, name string) *ee.Image {
	r.tags[img] = name
	return img
}

func (r *recorder) LoadImage(assetID string) *ee.Image {
	r.calls = append(r.calls, call{Method: "LoadImage", AssetID: assetID})
	return r.tag(ee.Load(assetID), "naip")
}

func (r *recorder) SNIC(cfg ee.SegmentationConfig) *ee.Image {
	r.calls = append(r.calls, call{Method: "SNIC", Config: &recordedConfig{
		Image:        r.tags[cfg.Image],
		Size:         cfg.Size,
		Compactness:  cfg.Compactness,
		Connectivity: cfg.Connectivity,
	}})
	return r.tag(ee.SNIC(cfg), "snic")
}

func (r *recorder) SetCenter(lon, lat float64, zoom int) {
	r.calls = append(r.calls, call{Method: "SetCenter", Lon: lon, Lat: lat, Zoom: zoom})
}

func (r *recorder) AddLayer(img *ee.Image, vis *ee.VisParams, name string) {
	r.calls = append(r.calls, call{Method: "AddLayer", Image: r.tags[img], Vis: vis, Label: name})
}

func expectedCalls() []call {
	return []call{
		{Method: "LoadImage", AssetID: "USDA/NAIP/DOQQ/m_3611554_sw_11_1_20170613"},
		{Method: "SNIC", Config: &recordedConfig{Image: "naip", Size: 30, Compactness: 0.1, Connectivity: 8}},
		{Method: "SetCenter", Lon: -115.32053, Lat: 36.182016, Zoom: 18},
		{Method: "AddLayer", Image: "naip", Label: "NAIP RGB"},
		{Method: "AddLayer", Image: "snic", Label: "Clusters", Vis: &ee.VisParams{
			Bands:   []string{"clusters"},
			Palette: []string{"00007F", "002AFF", "00D4FF", "7FFF7F", "FFD400", "FF2A00"},
		}},
		{Method: "AddLayer", Image: "snic", Label: "RGB cluster means", Vis: &ee.VisParams{
			Bands: []string{"R_mean", "G_mean", "B_mean"},
			Min:   ee.Float(0),
			Max:   ee.Float(255),
		}},
	}
}

func TestRun_CallSequence(t *testing.T) {
	r := newRecorder()
	Run(r, r)

	if diff := cmp.Diff(expectedCalls(), r.calls); diff != "" {
		t.Errorf("call sequence mismatch (-want +got):\n%s", diff)
	}
}

func TestRun_LoadsOnce(t *testing.T) {
	r := newRecorder()
	Run(r, r)

	loads := 0
	for _, c := range r.calls {
		if c.Method == "LoadImage" {
			loads++
		}
	}
	if loads != 1 {
		t.Errorf("LoadImage calls: got %d, want 1", loads)
	}
}

func TestRun_CenterBeforeLayers(t *testing.T) {
	r := newRecorder()
	Run(r, r)

	centered := false
	centers := 0
	for _, c := range r.calls {
		switch c.Method {
		case "SetCenter":
			centered = true
			centers++
		case "AddLayer":
			if !centered {
				t.Fatalf("AddLayer %q issued before SetCenter", c.Label)
			}
		}
	}
	if centers != 1 {
		t.Errorf("SetCenter calls: got %d, want 1", centers)
	}
}

func TestRun_Idempotent(t *testing.T) {
	first := newRecorder()
	Run(first, first)
	second := newRecorder()
	Run(second, second)

	if diff := cmp.Diff(first.calls, second.calls); diff != "" {
		t.Errorf("second run differs (-first +second):\n%s", diff)
	}
}

func TestRun_PaletteNotShared(t *testing.T) {
	r := newRecorder()
	Run(r, r)

	r.calls[4].Vis.Palette[0] = "FFFFFF"
	if ClusterPalette[0] != "00007F" {
		t.Error("layer palette should not alias ClusterPalette")
	}
}

func TestRun_MapView(t *testing.T) {
	m := mapview.New()
	Run(ee.Builder{}, m)

	center, ok := m.Center()
	if !ok {
		t.Fatal("map should be centered")
	}
	if diff := cmp.Diff(mapview.Center{Lon: CenterLon, Lat: CenterLat, Zoom: CenterZoom}, center); diff != "" {
		t.Errorf("center (-want +got):\n%s", diff)
	}
	if err := center.Validate(); err != nil {
		t.Errorf("example viewport should be servable: %v", err)
	}

	layers := m.Layers()
	if len(layers) != 3 {
		t.Fatalf("layers: got %d, want 3", len(layers))
	}

	naip, clusters, means := layers[0], layers[1], layers[2]
	if naip.Image.Function() != "Image.load" || naip.Vis != nil {
		t.Errorf("bottom layer: got %s with vis %v", naip.Image.Function(), naip.Vis)
	}
	if clusters.Image != means.Image {
		t.Error("cluster and mean layers should share the segmentation result")
	}
	if got := clusters.Image.Function(); got != "Algorithms.Image.Segmentation.SNIC" {
		t.Errorf("segmentation function: got %q", got)
	}
	if in, _ := clusters.Image.Arg("image"); in != naip.Image {
		t.Error("segmentation input should be the loaded image")
	}
	if _, ok := clusters.Image.Arg("neighborhoodSize"); ok {
		t.Error("example should not set neighborhoodSize")
	}

	for _, l := range layers {
		if l.Vis == nil {
			continue
		}
		if err := l.Vis.Validate(); err != nil {
			t.Errorf("layer %q vis invalid: %v", l.Name, err)
		}
	}
}

func TestRun_EncodesExampleLayers(t *testing.T) {
	m := mapview.New()
	Run(ee.Builder{}, m)

	for _, l := range m.Layers() {
		img := l.Image
		if l.Vis != nil {
			img = img.Visualize(*l.Vis)
		}
		expr, err := ee.Encode(img)
		if err != nil {
			t.Fatalf("Encode %q failed: %v", l.Name, err)
		}
		if _, ok := expr.Values[expr.Result]; !ok {
			t.Errorf("layer %q: result %q missing from values", l.Name, expr.Result)
		}
	}
}
