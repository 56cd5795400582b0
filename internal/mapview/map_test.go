package mapview

import (
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ironsheep/ee-snic-mcp/internal/ee"
)

func TestMap_CenterUnset(t *testing.T) {
	m := New()
	if _, ok := m.Center(); ok {
		t.Error("new map should have no center")
	}
	if len(m.Layers()) != 0 {
		t.Error("new map should have no layers")
	}
}

func TestMap_SetCenter(t *testing.T) {
	m := New()
	m.SetCenter(-115.32053, 36.182016, 18)
	m.SetCenter(10, 20, 3)

	got, ok := m.Center()
	if !ok {
		t.Fatal("center should be set")
	}
	if diff := cmp.Diff(Center{Lon: 10, Lat: 20, Zoom: 3}, got); diff != "" {
		t.Errorf("last SetCenter wins (-want +got):\n%s", diff)
	}
}

func TestMap_SetCenterDoesNotValidate(t *testing.T) {
	m := New()
	m.SetCenter(500, 95, 40)
	got, _ := m.Center()
	if got.Lon != 500 || got.Zoom != 40 {
		t.Errorf("out of range center should be recorded as given, got %+v", got)
	}
}

func TestMap_AddLayerOrder(t *testing.T) {
	img := ee.Load("asset")
	m := New()
	m.AddLayer(img, nil, "bottom")
	m.AddLayer(img, &ee.VisParams{Bands: []string{"clusters"}}, "middle")
	m.AddLayer(nil, nil, "top")

	layers := m.Layers()
	if len(layers) != 3 {
		t.Fatalf("len: got %d, want 3", len(layers))
	}
	names := []string{layers[0].Name, layers[1].Name, layers[2].Name}
	if diff := cmp.Diff([]string{"bottom", "middle", "top"}, names); diff != "" {
		t.Errorf("order (-want +got):\n%s", diff)
	}
	if layers[0].Image != img || layers[1].Image != img {
		t.Error("layers should share the same image handle")
	}
	if layers[0].Vis != nil {
		t.Error("nil vis should stay nil")
	}
	if layers[2].Image != nil {
		t.Error("nil image should stay nil")
	}
}

func TestMap_AddLayerCopiesVis(t *testing.T) {
	vis := &ee.VisParams{Min: ee.Float(0), Max: ee.Float(255)}
	m := New()
	m.AddLayer(ee.Load("asset"), vis, "layer")

	vis.Max = ee.Float(1)
	if got := *m.Layers()[0].Vis.Max; got != 255 {
		t.Errorf("stored vis changed with caller's copy: max %v", got)
	}
}

func TestMap_LayersReturnsCopy(t *testing.T) {
	m := New()
	m.AddLayer(nil, nil, "a")
	layers := m.Layers()
	layers[0].Name = "changed"
	if m.Layers()[0].Name != "a" {
		t.Error("Layers should return a copy")
	}
}

func TestLayer_Opacity(t *testing.T) {
	tests := []struct {
		name  string
		layer Layer
		want  float64
	}{
		{"no vis", Layer{}, 1},
		{"vis without opacity", Layer{Vis: &ee.VisParams{}}, 1},
		{"explicit", Layer{Vis: &ee.VisParams{Opacity: ee.Float(0.4)}}, 0.4},
		{"zero", Layer{Vis: &ee.VisParams{Opacity: ee.Float(0)}}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.layer.Opacity(); got != tt.want {
				t.Errorf("Opacity() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMap_Concurrent(t *testing.T) {
	m := New()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			m.AddLayer(nil, nil, "layer")
			m.SetCenter(float64(i), 0, 1)
			m.Layers()
			m.Center()
		}(i)
	}
	wg.Wait()

	if got := len(m.Layers()); got != 50 {
		t.Errorf("layers: got %d, want 50", got)
	}
}

func TestLayer_Output(t *testing.T) {
	img := ee.Load("asset")

	if got := (Layer{Image: img}).Output(); got != img {
		t.Error("layer without vis should output its image")
	}
	if got := (Layer{}).Output(); got != nil {
		t.Error("layer without image should output nil")
	}

	out := Layer{Image: img, Vis: &ee.VisParams{
		Bands:   []string{"clusters"},
		Palette: []string{"000000", "FFFFFF"},
		Opacity: ee.Float(0.5),
	}}.Output()
	if out.Function() != "Image.visualize" {
		t.Fatalf("styled layer: got %s, want Image.visualize", out.Function())
	}
	if in, _ := out.Arg("image"); in != img {
		t.Error("visualize should wrap the layer image")
	}
	if _, ok := out.Arg("palette"); !ok {
		t.Error("palette should be passed on")
	}
	if _, ok := out.Arg("opacity"); ok {
		t.Error("opacity is applied when compositing, not by the platform")
	}
}
