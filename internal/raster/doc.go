// Package raster provides the pixel-raster view and region-selection
// operations that feed the line quantification pipeline.
//
// A Raster is a width × height, row-major RGBA buffer decoded from a strip
// photograph. The detection core only ever reads rasters; all operations
// that produce new pixel data (Crop, Denoise, Overlay) allocate a fresh
// buffer and leave the source untouched.
//
// # Coordinate System
//
// All pixel coordinates are 0-based with the origin at the top-left corner:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//
// Rectangles use an inclusive origin and explicit width/height, matching
// the selection contract of the capture UI: {x, y, width, height} with
// x+width ≤ W and y+height ≤ H.
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. Raster values are
// immutable once constructed and may be shared across goroutines; a batch
// of detections can therefore run in parallel without coordination.
package raster
