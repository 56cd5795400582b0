package imaging

import (
	"fmt"
	"image"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// ParsePalette parses platform palette entries such as "00007F" or "#FF2A00".
func ParsePalette(entries []string) ([]colorful.Color, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("palette is empty")
	}
	colors := make([]colorful.Color, 0, len(entries))
	for i, entry := range entries {
		c, err := ParseHexColor(entry)
		if err != nil {
			return nil, fmt.Errorf("palette entry %d (%q): %w", i, entry, err)
		}
		colors = append(colors, c)
	}
	return colors, nil
}

// ParseHexColor parses "RRGGBB" or "RGB", with or without a leading '#'.
// Surrounding space is ignored; anything else that is not a hex digit is an error.
func ParseHexColor(s string) (colorful.Color, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 && len(hex) != 3 {
		return colorful.Color{}, fmt.Errorf("color %q: want 3 or 6 hex digits, got %d", s, len(hex))
	}
	for _, r := range hex {
		if !isHexDigit(r) {
			return colorful.Color{}, fmt.Errorf("color %q: %q is not a hex digit", s, r)
		}
	}
	return colorful.Hex("#" + hex)
}

func isHexDigit(r rune) bool {
	return ('0' <= r && r <= '9') || ('a' <= r && r <= 'f') || ('A' <= r && r <= 'F')
}

// PaletteAt returns the palette color at position t in [0, 1], interpolating
// linearly in RGB between neighboring entries. Values outside the range clamp.
func PaletteAt(palette []colorful.Color, t float64) colorful.Color {
	switch {
	case len(palette) == 1 || t <= 0:
		return palette[0]
	case t >= 1:
		return palette[len(palette)-1]
	}
	pos := t * float64(len(palette)-1)
	i := int(pos)
	return palette[i].BlendRgb(palette[i+1], pos-float64(i))
}

// Ramp draws a horizontal legend swatch for palette, minimum on the left.
func Ramp(palette []colorful.Color, width, height int) (*image.NRGBA, error) {
	if len(palette) == 0 {
		return nil, fmt.Errorf("palette is empty")
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid ramp size %dx%d", width, height)
	}

	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		t := 0.0
		if width > 1 {
			t = float64(x) / float64(width-1)
		}
		r, g, b := PaletteAt(palette, t).Clamped().RGB255()
		for y := 0; y < height; y++ {
			i := img.PixOffset(x, y)
			img.Pix[i+0] = r
			img.Pix[i+1] = g
			img.Pix[i+2] = b
			img.Pix[i+3] = 0xff
		}
	}
	return img, nil
}
