package linedetect

import (
	"sort"

	"github.com/striplab/assay-tools-mcp/internal/raster"
)

// DarkRegionDetector implements global darkest-region segmentation.
//
// The whole raster is converted to BT.601 luminance, thresholded at a
// percentile of the luminance distribution, and flood-filled to find
// connected dark components. Only the single largest component survives,
// which rejects isolated specks and print artifacts elsewhere in the
// crop. When thresholding selects nothing, the darkest DarkFallbackShare
// of all pixels is returned instead so the pipeline never comes back
// empty-handed on a usable raster.
type DarkRegionDetector struct {
	Params Params
}

// Name returns StrategyDarkRegion.
func (d *DarkRegionDetector) Name() string { return StrategyDarkRegion }

// Detect runs the segmentation. Coordinates may fall anywhere in
// [0,W)×[0,H); this strategy applies no edge margin.
func (d *DarkRegionDetector) Detect(r *raster.Raster) Selection {
	w, h := r.Width, r.Height
	n := w * h
	if n == 0 {
		return Selection{}
	}

	lumas := make([]float64, n)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			lumas[y*w+x] = r.Luma(x, y)
		}
	}

	threshold := percentile(lumas, d.Params.DarkPercentile)
	if threshold > d.Params.LightLumaCutoff {
		// Nearly uniform light background: the 15th percentile is still
		// bright, so tighten the cut before calling anything "dark".
		threshold = percentile(lumas, d.Params.FaintPercentile)
	}

	component := largestDarkComponent(lumas, w, h, threshold)
	if len(component) == 0 {
		component = darkestShare(lumas, d.Params.DarkFallbackShare)
	}

	sel := make(Selection, 0, len(component))
	for _, i := range component {
		sel = append(sel, SelectedPixel{
			Point: raster.Point{X: i % w, Y: i / w},
			Color: r.At(i%w, i/w),
		})
	}
	return sortSelection(sel)
}

// percentile returns the value at fraction p (0-1) of the sorted data.
// The input slice is not modified.
func percentile(values []float64, p float64) float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	idx := int(p * float64(len(sorted)))
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

// largestDarkComponent flood-fills all pixels at or below threshold and
// returns the flat indices of the largest 4-connected component.
//
// The fill is iterative (explicit stack) so deep components on large
// rasters cannot overflow the call stack.
func largestDarkComponent(lumas []float64, w, h int, threshold float64) []int {
	visited := make([]bool, len(lumas))
	var largest []int

	for start := range lumas {
		if visited[start] || lumas[start] > threshold {
			continue
		}

		component := make([]int, 0, 64)
		stack := []int{start}
		visited[start] = true

		for len(stack) > 0 {
			i := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			component = append(component, i)

			x, y := i%w, i/w
			for _, nb := range [4][2]int{{x - 1, y}, {x + 1, y}, {x, y - 1}, {x, y + 1}} {
				nx, ny := nb[0], nb[1]
				if nx < 0 || nx >= w || ny < 0 || ny >= h {
					continue
				}
				j := ny*w + nx
				if visited[j] || lumas[j] > threshold {
					continue
				}
				visited[j] = true
				stack = append(stack, j)
			}
		}

		if len(component) > len(largest) {
			largest = component
		}
	}

	return largest
}

// darkestShare returns the flat indices of the darkest fraction of all
// pixels, ranked by luminance ascending. Ties break on index so the
// result is stable across calls.
func darkestShare(lumas []float64, share float64) []int {
	count := int(float64(len(lumas)) * share)
	if count == 0 && len(lumas) > 0 {
		count = 1
	}

	indices := make([]int, len(lumas))
	for i := range indices {
		indices[i] = i
	}
	sort.Slice(indices, func(a, b int) bool {
		if lumas[indices[a]] != lumas[indices[b]] {
			return lumas[indices[a]] < lumas[indices[b]]
		}
		return indices[a] < indices[b]
	})

	return indices[:count]
}
