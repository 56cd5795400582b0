// Package imaging provides the local raster helpers used to assemble map previews.
//
// The platform does all the real image processing. This package only deals with
// the 8-bit tiles it returns: caching decoded tiles, pasting them into a
// mosaic, cropping the viewport, blending layers, and encoding the result.
//
// # Coordinate System
//
// Pixel coordinates are 0-based with (0,0) at the top-left corner, X increasing
// rightward and Y increasing downward. For regions, (x1,y1) is inclusive and
// (x2,y2) is exclusive.
//
// # Thread Safety
//
// TileCache is safe for concurrent use. The other functions are stateless and
// return new images rather than modifying their inputs, except Paste which
// writes into the destination it is given.
//
// # Color Representation
//
// Palettes follow the platform convention of 6-digit hex codes with or
// without a leading '#'. Ramps interpolate linearly in RGB between palette
// entries, matching how the platform maps values onto a palette.
package imaging
