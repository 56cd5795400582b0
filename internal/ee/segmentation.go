package ee

import (
	"errors"
	"fmt"
)

// Connectivity is the pixel adjacency model used when growing clusters.
type Connectivity int

const (
	// Connectivity4 treats only edge neighbors as adjacent.
	Connectivity4 Connectivity = 4
	// Connectivity8 also treats diagonal neighbors as adjacent.
	Connectivity8 Connectivity = 8
)

// ClusterBand is the SNIC output band holding the integer cluster id of each pixel.
const ClusterBand = "clusters"

// MeanBand returns the SNIC output band holding the per-cluster mean of the
// given input channel, e.g. MeanBand("R") is "R_mean".
func MeanBand(channel string) string {
	return channel + "_mean"
}

// ErrInvalidConfig is returned by SegmentationConfig.Validate.
var ErrInvalidConfig = errors.New("invalid segmentation config")

// SegmentationConfig holds the arguments of a SNIC invocation.
type SegmentationConfig struct {
	// Image is the input image.
	Image *Image

	// Size is the superpixel seed spacing in pixels.
	Size int

	// Compactness weights spatial regularity against color similarity.
	// Zero disables spatial distance weighting.
	Compactness float64

	// Connectivity is the neighbor adjacency model, 4 or 8.
	Connectivity Connectivity

	// NeighborhoodSize bounds tile overlap to avoid tile boundary artifacts.
	// Zero leaves it to the platform default.
	NeighborhoodSize int

	// Seeds optionally provides an image of seed locations. Nil uses a
	// regular grid of Size spacing.
	Seeds *Image
}

// Validate reports whether the config is acceptable to the platform.
//
// SNIC never calls it; the platform performs the same checks when the result
// is evaluated. It exists for callers that want errors before any RPC.
func (c SegmentationConfig) Validate() error {
	if c.Image == nil {
		return fmt.Errorf("%w: image is required", ErrInvalidConfig)
	}
	if c.Size <= 0 {
		return fmt.Errorf("%w: size must be positive, got %d", ErrInvalidConfig, c.Size)
	}
	if c.Compactness < 0 {
		return fmt.Errorf("%w: compactness must be non-negative, got %g", ErrInvalidConfig, c.Compactness)
	}
	if c.Connectivity != Connectivity4 && c.Connectivity != Connectivity8 {
		return fmt.Errorf("%w: connectivity must be 4 or 8, got %d", ErrInvalidConfig, c.Connectivity)
	}
	if c.NeighborhoodSize < 0 {
		return fmt.Errorf("%w: neighborhood size must be non-negative, got %d", ErrInvalidConfig, c.NeighborhoodSize)
	}
	return nil
}

// SNIC returns a handle to the Simple Non-Iterative Clustering segmentation
// of cfg.Image.
//
// The result has a ClusterBand band and one MeanBand band per input band.
// No validation happens here.
func SNIC(cfg SegmentationConfig) *Image {
	args := map[string]any{
		"image":        cfg.Image,
		"size":         cfg.Size,
		"compactness":  cfg.Compactness,
		"connectivity": int(cfg.Connectivity),
	}
	if cfg.NeighborhoodSize != 0 {
		args["neighborhoodSize"] = cfg.NeighborhoodSize
	}
	if cfg.Seeds != nil {
		args["seeds"] = cfg.Seeds
	}
	return invoke("Algorithms.Image.Segmentation.SNIC", args)
}

// Builder exposes Load and SNIC as methods so callers can depend on an
// interface and swap in a recording stub.
type Builder struct{}

// LoadImage calls Load.
func (Builder) LoadImage(assetID string) *Image {
	return Load(assetID)
}

// SNIC calls the package-level SNIC.
func (Builder) SNIC(cfg SegmentationConfig) *Image {
	return SNIC(cfg)
}
