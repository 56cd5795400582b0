package imaging

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/anthonynsimon/bild/effect"
	"github.com/disintegration/imaging"
)

// NewCanvas returns a fully transparent width x height image.
func NewCanvas(width, height int) *image.NRGBA {
	return image.NewNRGBA(image.Rect(0, 0, width, height))
}

// Paste copies src into dst with its top-left corner at (x, y).
// Parts of src falling outside dst are dropped.
func Paste(dst *image.NRGBA, src image.Image, x, y int) {
	sb := src.Bounds()
	r := image.Rect(x, y, x+sb.Dx(), y+sb.Dy())
	draw.Draw(dst, r, src, sb.Min, draw.Src)
}

// Blend draws fg over bg with the given opacity, using alpha compositing.
// Both images are aligned at their top-left corners and the result has the
// size of bg.
func Blend(bg, fg image.Image, opacity float64) *image.NRGBA {
	if opacity <= 0 {
		return imaging.Clone(bg)
	}
	if opacity > 1 {
		opacity = 1
	}
	return imaging.Overlay(bg, fg, bg.Bounds().Min, opacity)
}

// Boundaries marks the pixels where img changes color, which for a
// categorical cluster rendering are the superpixel boundaries.
//
// The result is transparent except for boundary pixels, which are set to c.
func Boundaries(img image.Image, c color.Color) *image.NRGBA {
	edges := effect.EdgeDetection(img, 1.0)

	b := edges.Bounds()
	out := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	cr, cg, cb, ca := c.RGBA()
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			i := edges.PixOffset(b.Min.X+x, b.Min.Y+y)
			if edges.Pix[i] == 0 && edges.Pix[i+1] == 0 && edges.Pix[i+2] == 0 {
				continue
			}
			j := out.PixOffset(x, y)
			out.Pix[j+0] = uint8(cr >> 8)
			out.Pix[j+1] = uint8(cg >> 8)
			out.Pix[j+2] = uint8(cb >> 8)
			out.Pix[j+3] = uint8(ca >> 8)
		}
	}
	return out
}
