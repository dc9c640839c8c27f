// Package imaging downscales and recompresses raster images.
//
// The core routine, Compress, bounds both the pixel count and the encoded
// size of an image: sources above DefaultMaxPixels are uniformly downscaled
// (aspect ratio preserved) and the result is encoded as a JPEG at quality
// 0.1. Large outputs are redrawn in tiles through a reusable scratch Surface
// rather than in one scaling draw.
//
// # Dimension Math
//
// NewPlan holds all of the arithmetic and can be used on its own:
//
//	ratio  = sqrt(w*h / 4e6) when w*h > 4e6, else 1
//	output = floor(w/ratio) x floor(h/ratio)
//	count  = floor(sqrt(W*H / 1e6) + 1) when W*H > 1e6
//	tile   = floor(W/count) x floor(H/count)
//
// Truncation is used throughout, so an output can be a pixel short of the
// ideal size on each axis.
//
// # Surfaces
//
// Every call allocates its own output and tile surfaces and releases them on
// every exit path, error paths included. Nothing is shared between calls, so
// Compress is safe for concurrent use on independent images.
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. Operations on the same
// image should be synchronized by the caller if the image is mutable.
//
// # Error Handling
//
// Every failure is fatal to the call and no partial output is returned:
//   - Images with zero width or height (ErrEmptyImage)
//   - Invalid background colours
//   - File I/O and decode errors during loading
//   - Encoding errors
package imaging
