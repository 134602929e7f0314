// Package colorstat reduces a detected pixel selection to a single
// representative color measurement.
package colorstat

import (
	"github.com/lucasb-eyer/go-colorful"

	"github.com/striplab/assay-tools-mcp/internal/linedetect"
)

// Summary is the mean color of a line selection.
//
// Grayscale is the ITU-R BT.601 luma of the channel means, computed
// from the means rather than averaged over per-pixel lumas. The
// distinction matters for reproducing exact trend values.
type Summary struct {
	R         float64 `json:"r"`
	G         float64 `json:"g"`
	B         float64 `json:"b"`
	Grayscale float64 `json:"grayscale"`

	// Hex is the mean color rendered as "#rrggbb" for presentation.
	// Empty for the zero summary.
	Hex string `json:"hex,omitempty"`

	// PixelCount is the number of selected pixels the means cover.
	PixelCount int `json:"pixel_count"`
}

// Aggregate computes the arithmetic mean R, G and B over a selection and
// derives the grayscale scalar from those means.
//
// An empty selection yields the zero Summary: "nothing detected" is a
// numeric result the caller can inspect, never an error.
func Aggregate(sel linedetect.Selection) Summary {
	if len(sel) == 0 {
		return Summary{}
	}

	var sumR, sumG, sumB float64
	for _, px := range sel {
		sumR += float64(px.Color.R)
		sumG += float64(px.Color.G)
		sumB += float64(px.Color.B)
	}

	n := float64(len(sel))
	s := Summary{
		R:          sumR / n,
		G:          sumG / n,
		B:          sumB / n,
		PixelCount: len(sel),
	}
	s.Grayscale = 0.299*s.R + 0.587*s.G + 0.114*s.B
	s.Hex = s.color().Hex()
	return s
}

// color converts the summary means to a colorful.Color in [0,1] space.
func (s Summary) color() colorful.Color {
	return colorful.Color{R: s.R / 255.0, G: s.G / 255.0, B: s.B / 255.0}
}

// DistanceLab returns the perceptual CIE-Lab distance between two
// summaries' mean colors.
func (s Summary) DistanceLab(o Summary) float64 {
	return s.color().DistanceLab(o.color())
}
