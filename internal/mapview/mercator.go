package mapview

import (
	"fmt"
	"math"
)

const (
	// TileSize is the edge length of a platform map tile in pixels.
	TileSize = 256

	// MaxLatitude is the web mercator latitude limit.
	MaxLatitude = 85.0511287798

	// MaxZoom is the deepest zoom level the platform serves.
	MaxZoom = 24

	earthCircumference = 2 * math.Pi * 6378137
)

// Validate rejects viewports the platform cannot serve.
func (c Center) Validate() error {
	if math.IsNaN(c.Lon) || c.Lon < -180 || c.Lon > 180 {
		return fmt.Errorf("longitude %v outside [-180, 180]", c.Lon)
	}
	if math.IsNaN(c.Lat) || c.Lat < -MaxLatitude || c.Lat > MaxLatitude {
		return fmt.Errorf("latitude %v outside [%v, %v]", c.Lat, -MaxLatitude, MaxLatitude)
	}
	if c.Zoom < 0 || c.Zoom > MaxZoom {
		return fmt.Errorf("zoom %d outside [0, %d]", c.Zoom, MaxZoom)
	}
	return nil
}

// Project converts a coordinate to global pixel coordinates at zoom.
func Project(lon, lat float64, zoom int) (px, py float64) {
	size := float64(TileSize) * math.Exp2(float64(zoom))
	sinLat := math.Sin(lat * math.Pi / 180)
	px = (lon + 180) / 360 * size
	py = (0.5 - math.Log((1+sinLat)/(1-sinLat))/(4*math.Pi)) * size
	return px, py
}

// GroundResolution returns meters per pixel at lat and zoom.
func GroundResolution(lat float64, zoom int) float64 {
	return math.Cos(lat*math.Pi/180) * earthCircumference / (float64(TileSize) * math.Exp2(float64(zoom)))
}

// Window is a width x height pixel viewport and the tiles covering it.
type Window struct {
	// Left and Top are the global pixel coordinates of the viewport corner.
	Left int
	Top  int

	Width  int
	Height int

	// MinX..MaxX and MinY..MaxY are the inclusive tile index ranges.
	MinX, MaxX int
	MinY, MaxY int
}

// WindowAt returns the viewport of the given size centered on c.
func WindowAt(c Center, width, height int) Window {
	cx, cy := Project(c.Lon, c.Lat, c.Zoom)
	left := int(math.Floor(cx - float64(width)/2))
	top := int(math.Floor(cy - float64(height)/2))
	return Window{
		Left:   left,
		Top:    top,
		Width:  width,
		Height: height,
		MinX:   floorDiv(left, TileSize),
		MaxX:   floorDiv(left+width-1, TileSize),
		MinY:   floorDiv(top, TileSize),
		MaxY:   floorDiv(top+height-1, TileSize),
	}
}

// Cols returns the number of tile columns covering the window.
func (w Window) Cols() int { return w.MaxX - w.MinX + 1 }

// Rows returns the number of tile rows covering the window.
func (w Window) Rows() int { return w.MaxY - w.MinY + 1 }

// WrapX maps a tile column onto [0, 2^zoom), since longitude wraps.
func WrapX(x, zoom int) int {
	n := 1 << zoom
	x %= n
	if x < 0 {
		x += n
	}
	return x
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
