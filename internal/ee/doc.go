// Package ee is a small client for the Earth Engine REST API.
//
// It covers two concerns:
//
//   - Building deferred computations. Load, SNIC and Image.Visualize build
//     function-invocation graphs locally. Nothing is sent to the platform and
//     nothing is validated when they are called. An Image is only a
//     description of work that the platform evaluates lazily when tiles are
//     requested.
//   - Talking to the platform. Client publishes an Image as a map
//     (projects.maps.create), fetches its tiles, and evaluates small values
//     (projects.value.compute).
//
// # Expression Encoding
//
// Encode turns an Image graph into the REST Expression format. Every distinct
// invocation is written once into the values table and referenced by id from
// its consumers, so an image that feeds several layers is not duplicated.
// Argument names are visited in sorted order, which makes the encoding
// deterministic.
//
// # Errors
//
// Graph construction never fails. Invalid asset ids, parameters or band
// names are reported by the platform, typically when a tile is requested.
// SegmentationConfig.Validate and VisParams.Validate are available for
// callers that want to reject obviously bad input before any RPC.
package ee
