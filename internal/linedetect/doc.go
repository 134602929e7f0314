// Package linedetect locates the pixels of a lateral-flow assay's
// indicator line within a cropped strip raster.
//
// Two interchangeable strategies implement the same Detector contract;
// the choice of heuristic is configuration, not a code fork:
//
//   - DarkRegion: global luminance thresholding at a percentile cut,
//     followed by 4-connected flood fill to keep the single largest dark
//     component. Works well for strong, dark lines.
//
//   - RedLine: a redness-weighted score per pixel combined with per-row
//     line-center tracking, interpolation across weak rows and adaptive
//     outward expansion. Handles faint pink/red lines that are barely
//     darker than the background.
//
// # Contract
//
// Detect(raster) is deterministic and total: the same raster always
// yields the same selection, and no input produces an error. Degenerate
// rasters (too small to have an interior after margin trim) yield an
// empty selection. When the primary heuristic finds nothing, each
// strategy falls back to a best-effort ranked selection (darkest 20% of
// pixels, or top 15% of positive scores) rather than failing.
//
// # Scratch State
//
// Score fields and visited grids are flat slices indexed by y*W+x,
// allocated fresh per call; nothing escapes a Detect invocation, so
// concurrent detections on different rasters need no coordination.
// Flood fill uses an explicit stack, never recursion, to stay safe on
// large crops.
//
// # Tuning
//
// Every threshold in both strategies is an empirically tuned constant
// carried in Params. The defaults are the values the heuristics were
// tuned with; override them via config rather than editing code.
package linedetect
