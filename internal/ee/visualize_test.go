package ee

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestVisParams_Validate(t *testing.T) {
	tests := []struct {
		name    string
		vis     VisParams
		wantErr bool
	}{
		{"empty", VisParams{}, false},
		{"cluster palette", VisParams{
			Bands:   []string{"clusters"},
			Palette: []string{"00007F", "002AFF", "00D4FF", "7FFF7F", "FFD400", "FF2A00"},
		}, false},
		{"hash prefixed palette", VisParams{Bands: []string{"b"}, Palette: []string{"#ff0000", "#00ff00"}}, false},
		{"rgb stretch", VisParams{Bands: []string{"R_mean", "G_mean", "B_mean"}, Min: Float(0), Max: Float(255)}, false},
		{"two bands", VisParams{Bands: []string{"a", "b"}}, true},
		{"blank band", VisParams{Bands: []string{" "}}, true},
		{"palette with rgb", VisParams{Bands: []string{"a", "b", "c"}, Palette: []string{"000000"}}, true},
		{"bad palette", VisParams{Palette: []string{"GGGGGG"}}, true},
		{"short form palette", VisParams{Bands: []string{"b"}, Palette: []string{"F00", "#0F0"}}, false},
		{"five digit palette entry", VisParams{Palette: []string{"12345"}}, true},
		{"trailing junk in palette", VisParams{Palette: []string{"00007FZZ"}}, true},
		{"palette entry with alpha", VisParams{Palette: []string{"#00007F00FF"}}, true},
		{"empty palette entry", VisParams{Palette: []string{""}}, true},
		{"min above max", VisParams{Min: Float(10), Max: Float(1)}, true},
		{"zero gamma", VisParams{Gamma: Float(0)}, true},
		{"opacity above one", VisParams{Opacity: Float(1.5)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.vis.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidVisParams) {
				t.Errorf("error should wrap ErrInvalidVisParams: %v", err)
			}
		})
	}
}

func TestVisualize_OnlySetFields(t *testing.T) {
	img := Load("a")
	vis := img.Visualize(VisParams{Bands: []string{"clusters"}, Palette: []string{"000000", "FFFFFF"}})

	if vis.Function() != "Image.visualize" {
		t.Errorf("Function: got %s", vis.Function())
	}
	if diff := cmp.Diff([]string{"bands", "image", "palette"}, vis.ArgNames()); diff != "" {
		t.Errorf("ArgNames mismatch (-want +got):\n%s", diff)
	}
	if v, _ := vis.Arg("image"); v != img {
		t.Error("visualize should reference the source image")
	}
}

func TestVisualize_Range(t *testing.T) {
	vis := Load("a").Visualize(VisParams{Bands: []string{"R_mean", "G_mean", "B_mean"}, Min: Float(0), Max: Float(255)})

	if v, ok := vis.Arg("min"); !ok || v != 0.0 {
		t.Errorf("min: got %v (present=%v), want 0", v, ok)
	}
	if v, ok := vis.Arg("max"); !ok || v != 255.0 {
		t.Errorf("max: got %v (present=%v), want 255", v, ok)
	}
	if _, ok := vis.Arg("palette"); ok {
		t.Error("palette should be omitted")
	}
}

func TestVisualize_CopiesSlices(t *testing.T) {
	bands := []string{"a"}
	vis := Load("x").Visualize(VisParams{Bands: bands})
	bands[0] = "changed"

	got, _ := vis.Arg("bands")
	if got.([]string)[0] != "a" {
		t.Error("Visualize should not alias the caller's slice")
	}
}
