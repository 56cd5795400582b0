// Package snic is the SNIC superpixel segmentation example.
//
// Run loads a NAIP image, segments it with the platform's SNIC algorithm
// and adds three layers to a map: the raw image, the cluster ids drawn with
// a color ramp, and the per-cluster RGB means. Nothing is computed locally
// and nothing is validated; the platform evaluates the deferred images when
// the map asks for tiles.
package snic

import "github.com/ironsheep/ee-snic-mcp/internal/ee"

// Example parameters.
const (
	AssetID      = "USDA/NAIP/DOQQ/m_3611554_sw_11_1_20170613"
	Size         = 30
	Compactness  = 0.1
	Connectivity = ee.Connectivity8

	CenterLon  = -115.32053
	CenterLat  = 36.182016
	CenterZoom = 18
)

// Layer labels, bottom first.
const (
	LabelRGB      = "NAIP RGB"
	LabelClusters = "Clusters"
	LabelMeans    = "RGB cluster means"
)

// ClusterPalette colors the cluster id band.
var ClusterPalette = []string{"00007F", "002AFF", "00D4FF", "7FFF7F", "FFD400", "FF2A00"}

// Platform builds deferred images. ee.Builder implements it.
type Platform interface {
	LoadImage(assetID string) *ee.Image
	SNIC(cfg ee.SegmentationConfig) *ee.Image
}

// Widget is a map that accepts a viewport and layers. *mapview.Map
// implements it.
type Widget interface {
	SetCenter(lon, lat float64, zoom int)
	AddLayer(img *ee.Image, vis *ee.VisParams, name string)
}

// Run performs the example against p and w.
func Run(p Platform, w Widget) {
	naip := p.LoadImage(AssetID)

	clusters := p.SNIC(ee.SegmentationConfig{
		Image:        naip,
		Size:         Size,
		Compactness:  Compactness,
		Connectivity: Connectivity,
	})

	w.SetCenter(CenterLon, CenterLat, CenterZoom)
	w.AddLayer(naip, nil, LabelRGB)
	w.AddLayer(clusters, &ee.VisParams{
		Bands:   []string{ee.ClusterBand},
		Palette: append([]string(nil), ClusterPalette...),
	}, LabelClusters)
	w.AddLayer(clusters, &ee.VisParams{
		Bands: []string{ee.MeanBand("R"), ee.MeanBand("G"), ee.MeanBand("B")},
		Min:   ee.Float(0),
		Max:   ee.Float(255),
	}, LabelMeans)
}
