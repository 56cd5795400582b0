package ee

import "sort"

// Image is a handle to a deferred server-side image computation.
//
// An Image holds no pixel data. It records the platform function that
// produces it and the arguments to pass, which may themselves be Images.
// Images are immutable once built and may be shared between layers.
type Image struct {
	function string
	args     map[string]any
}

func invoke(function string, args map[string]any) *Image {
	return &Image{function: function, args: args}
}

// Load returns a handle to the image asset with the given id.
//
// The id is not checked. A missing asset surfaces as a platform error when
// the image is first evaluated.
func Load(assetID string) *Image {
	return invoke("Image.load", map[string]any{"id": assetID})
}

// Function returns the platform function name that produces the image.
func (img *Image) Function() string {
	return img.function
}

// Arg returns the named invocation argument.
func (img *Image) Arg(name string) (any, bool) {
	v, ok := img.args[name]
	return v, ok
}

// ArgNames returns the invocation argument names in sorted order.
func (img *Image) ArgNames() []string {
	names := make([]string, 0, len(img.args))
	for name := range img.args {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// bandNames wraps img in an Image.bandNames invocation. The result is a list
// value rather than an image, so it is only ever passed to ComputeValue.
func (img *Image) bandNames() *Image {
	return invoke("Image.bandNames", map[string]any{"image": img})
}
