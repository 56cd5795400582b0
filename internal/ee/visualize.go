package ee

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ironsheep/ee-snic-mcp/internal/imaging"
)

// ErrInvalidVisParams is returned by VisParams.Validate.
var ErrInvalidVisParams = errors.New("invalid visualization parameters")

// VisParams describes how an image is turned into display colors.
//
// A nil *VisParams means the platform default rendering. Palette applies to
// a single categorical or continuous band. Min and Max set the stretch range
// of continuous bands; nil leaves them to the platform.
type VisParams struct {
	Bands   []string `json:"bands,omitempty"`
	Palette []string `json:"palette,omitempty"`
	Min     *float64 `json:"min,omitempty"`
	Max     *float64 `json:"max,omitempty"`
	Gamma   *float64 `json:"gamma,omitempty"`
	Opacity *float64 `json:"opacity,omitempty"`
}

// Float returns a pointer to v, for filling the optional VisParams fields.
func Float(v float64) *float64 {
	return &v
}

// Validate checks the parameters the platform would otherwise reject at
// tile time. Palette entries must be hex colors with or without a leading '#'.
func (v VisParams) Validate() error {
	if n := len(v.Bands); n != 0 && n != 1 && n != 3 {
		return fmt.Errorf("%w: need 1 or 3 bands, got %d", ErrInvalidVisParams, n)
	}
	for _, b := range v.Bands {
		if strings.TrimSpace(b) == "" {
			return fmt.Errorf("%w: empty band name", ErrInvalidVisParams)
		}
	}
	if len(v.Palette) > 0 && len(v.Bands) > 1 {
		return fmt.Errorf("%w: palette requires a single band", ErrInvalidVisParams)
	}
	for _, p := range v.Palette {
		if _, err := imaging.ParseHexColor(p); err != nil {
			return fmt.Errorf("%w: palette entry: %v", ErrInvalidVisParams, err)
		}
	}
	if v.Min != nil && v.Max != nil && *v.Min > *v.Max {
		return fmt.Errorf("%w: min %g exceeds max %g", ErrInvalidVisParams, *v.Min, *v.Max)
	}
	if v.Gamma != nil && *v.Gamma <= 0 {
		return fmt.Errorf("%w: gamma must be positive", ErrInvalidVisParams)
	}
	if v.Opacity != nil && (*v.Opacity < 0 || *v.Opacity > 1) {
		return fmt.Errorf("%w: opacity must be within [0, 1]", ErrInvalidVisParams)
	}
	return nil
}

// Visualize returns a handle to the 8-bit RGB rendering of img under vis.
// Only the fields that are set are passed on.
func (img *Image) Visualize(vis VisParams) *Image {
	args := map[string]any{"image": img}
	if len(vis.Bands) > 0 {
		args["bands"] = append([]string(nil), vis.Bands...)
	}
	if len(vis.Palette) > 0 {
		args["palette"] = append([]string(nil), vis.Palette...)
	}
	if vis.Min != nil {
		args["min"] = *vis.Min
	}
	if vis.Max != nil {
		args["max"] = *vis.Max
	}
	if vis.Gamma != nil {
		args["gamma"] = *vis.Gamma
	}
	if vis.Opacity != nil {
		args["opacity"] = *vis.Opacity
	}
	return invoke("Image.visualize", args)
}
