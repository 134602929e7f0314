package linedetect

import (
	"fmt"
	"sort"

	"github.com/striplab/assay-tools-mcp/internal/raster"
)

// Strategy names accepted by New.
const (
	StrategyDarkRegion = "dark-region"
	StrategyRedLine    = "red-line"
)

// SelectedPixel pairs a coordinate with the color found there.
type SelectedPixel struct {
	Point raster.Point `json:"point"`
	Color raster.Pixel `json:"color"`
}

// Selection is the set of pixels classified as indicator-line material,
// ordered by row then column. No coordinate appears twice.
type Selection []SelectedPixel

// Points returns just the coordinates of the selection.
func (s Selection) Points() []raster.Point {
	pts := make([]raster.Point, len(s))
	for i, px := range s {
		pts[i] = px.Point
	}
	return pts
}

// Bounds represents the axis-aligned bounding box of a selection:
// inclusive top-left, exclusive bottom-right.
type Bounds struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

// Bounds returns the bounding box of the selection and whether the
// selection is non-empty.
func (s Selection) Bounds() (Bounds, bool) {
	if len(s) == 0 {
		return Bounds{}, false
	}
	b := Bounds{X1: s[0].Point.X, Y1: s[0].Point.Y, X2: s[0].Point.X + 1, Y2: s[0].Point.Y + 1}
	for _, px := range s[1:] {
		if px.Point.X < b.X1 {
			b.X1 = px.Point.X
		}
		if px.Point.X+1 > b.X2 {
			b.X2 = px.Point.X + 1
		}
		if px.Point.Y < b.Y1 {
			b.Y1 = px.Point.Y
		}
		if px.Point.Y+1 > b.Y2 {
			b.Y2 = px.Point.Y + 1
		}
	}
	return b, true
}

// Detector locates indicator-line pixels in a strip raster.
//
// Implementations are deterministic, never fail, and keep all scratch
// state local to a call, so a single Detector value may be used from
// multiple goroutines.
type Detector interface {
	// Name identifies the strategy (one of the Strategy constants).
	Name() string

	// Detect returns the pixels classified as line material. The
	// selection is empty only when the raster has no usable interior.
	Detect(r *raster.Raster) Selection
}

// New constructs a detector for the named strategy.
func New(strategy string, params Params) (Detector, error) {
	switch strategy {
	case StrategyDarkRegion:
		return &DarkRegionDetector{Params: params}, nil
	case StrategyRedLine:
		return &RedLineDetector{Params: params}, nil
	default:
		return nil, fmt.Errorf("unknown detection strategy: %q", strategy)
	}
}

// sortSelection orders pixels by row then column so the same pixel set
// always serializes identically regardless of how it was gathered.
func sortSelection(sel Selection) Selection {
	sort.Slice(sel, func(i, j int) bool {
		if sel[i].Point.Y != sel[j].Point.Y {
			return sel[i].Point.Y < sel[j].Point.Y
		}
		return sel[i].Point.X < sel[j].Point.X
	})
	return sel
}
