package linedetect

import (
	"sort"

	"github.com/striplab/assay-tools-mcp/internal/raster"
)

// RedLineDetector implements redness-weighted vertical line-following.
//
// Indicator lines are often faint pink rather than dark, so pure
// luminance thresholding misses them. This strategy scores every pixel
// for "redness" (darker than background and red-dominant), tracks the
// strongest column per row, repairs and smooths that center path, then
// expands outward per row under adaptive cutoffs derived from the center
// strength. A fixed edge margin is excluded throughout, which rejects
// cassette borders and scanner artifacts.
type RedLineDetector struct {
	Params Params
}

// Name returns StrategyRedLine.
func (d *RedLineDetector) Name() string { return StrategyRedLine }

// Detect runs line-following over the raster. All returned coordinates
// lie strictly inside the margin-trimmed interior; rasters smaller than
// 2*EdgeMargin+1 in either dimension yield an empty selection.
func (d *RedLineDetector) Detect(r *raster.Raster) Selection {
	p := d.Params
	w, h, m := r.Width, r.Height, p.EdgeMargin
	if w < 2*m+1 || h < 2*m+1 {
		return Selection{}
	}

	score := d.scoreField(r)

	centers := d.rowCenters(score, w, h)
	filled := d.fillCenters(centers, w, h)
	smoothed := d.smoothCenters(filled, h)

	visited := make([]bool, w*h)
	sel := make(Selection, 0, h)
	rowsAccepted := 0

	for y := m; y < h-m; y++ {
		c := smoothed[y]
		centerScore := d.windowedScore(score, w, y, c)

		stop := p.MinScore
		if s := centerScore * p.StopRatio; s > stop {
			stop = s
		}
		accept := p.MinScore
		if s := centerScore * p.AcceptRatio; s > accept {
			accept = s
		}

		accepted := false
		// Walk left from the center (inclusive), then right, stopping at
		// the first column where the score falls off.
		for x := c; x >= c-p.MaxHalfWidth && x >= m; x-- {
			if score[y*w+x] < stop {
				break
			}
			if score[y*w+x] >= accept && !visited[y*w+x] {
				visited[y*w+x] = true
				sel = append(sel, SelectedPixel{Point: raster.Point{X: x, Y: y}, Color: r.At(x, y)})
				accepted = true
			}
		}
		for x := c + 1; x <= c+p.MaxHalfWidth && x < w-m; x++ {
			if score[y*w+x] < stop {
				break
			}
			if score[y*w+x] >= accept && !visited[y*w+x] {
				visited[y*w+x] = true
				sel = append(sel, SelectedPixel{Point: raster.Point{X: x, Y: y}, Color: r.At(x, y)})
				accepted = true
			}
		}
		if accepted {
			rowsAccepted++
		}
	}

	interiorRows := h - 2*m
	if float64(rowsAccepted) < p.MinRowCoverage*float64(interiorRows) {
		// Row-following collapsed (line too broken or diagonal); fall
		// back to the strongest-scoring pixels raster-wide.
		return d.topScores(r, score)
	}
	return sortSelection(sel)
}

// scoreField computes the per-pixel redness score, zero within the edge
// margin. A pixel scores only if it is darker than the paper background
// and red-dominant: either R exceeds both other channels, or R trails G
// by at most RedCloseness while still exceeding B (washed-out pink).
func (d *RedLineDetector) scoreField(r *raster.Raster) []float64 {
	p := d.Params
	w, h, m := r.Width, r.Height, p.EdgeMargin
	score := make([]float64, w*h)

	for y := m; y < h-m; y++ {
		for x := m; x < w-m; x++ {
			px := r.At(x, y)
			ri, gi, bi := int(px.R), int(px.G), int(px.B)
			mean := float64(ri+gi+bi) / 3.0
			if mean >= p.BackgroundMean {
				continue
			}
			reddish := (ri > gi && ri > bi) || (gi-ri <= p.RedCloseness && ri > bi)
			if !reddish {
				continue
			}
			excess := float64(ri) - float64(gi+bi)/2.0
			if excess < 0 {
				excess = 0
			}
			score[y*w+x] = (255 - mean) + p.RedExcessWeight*excess
		}
	}
	return score
}

// windowedScore averages the score over a ±CenterWindow horizontal band
// around column x, clipped to the margin-trimmed interior.
func (d *RedLineDetector) windowedScore(score []float64, w, y, x int) float64 {
	p := d.Params
	lo := x - p.CenterWindow
	if lo < p.EdgeMargin {
		lo = p.EdgeMargin
	}
	hi := x + p.CenterWindow
	if hi > w-p.EdgeMargin-1 {
		hi = w - p.EdgeMargin - 1
	}
	if hi < lo {
		return 0
	}

	var sum float64
	for cx := lo; cx <= hi; cx++ {
		sum += score[y*w+cx]
	}
	return sum / float64(hi-lo+1)
}

// rowCenters picks, for each interior row, the column with the maximum
// windowed score. Rows whose best score is at or below MinCenterScore
// are marked undefined (-1): too weak to trust as a line center.
func (d *RedLineDetector) rowCenters(score []float64, w, h int) []int {
	p := d.Params
	m := p.EdgeMargin

	centers := make([]int, h)
	for y := range centers {
		centers[y] = -1
	}

	for y := m; y < h-m; y++ {
		bestX, bestScore := -1, 0.0
		for x := m; x < w-m; x++ {
			if s := d.windowedScore(score, w, y, x); s > bestScore {
				bestScore, bestX = s, x
			}
		}
		if bestScore > p.MinCenterScore {
			centers[y] = bestX
		}
	}
	return centers
}

// fillCenters replaces undefined row centers by looking up to
// InterpolateRange rows in each direction for the nearest defined
// center: the average of the nearest above and below when both exist,
// the single nearest otherwise, or the horizontal midpoint when neither
// direction has one in range.
func (d *RedLineDetector) fillCenters(centers []int, w, h int) []int {
	p := d.Params
	m := p.EdgeMargin

	filled := make([]int, h)
	copy(filled, centers)

	for y := m; y < h-m; y++ {
		if centers[y] >= 0 {
			continue
		}

		above, below := -1, -1
		for dy := 1; dy <= p.InterpolateRange; dy++ {
			if above < 0 && y-dy >= m && centers[y-dy] >= 0 {
				above = centers[y-dy]
			}
			if below < 0 && y+dy < h-m && centers[y+dy] >= 0 {
				below = centers[y+dy]
			}
		}

		switch {
		case above >= 0 && below >= 0:
			filled[y] = (above + below) / 2
		case above >= 0:
			filled[y] = above
		case below >= 0:
			filled[y] = below
		default:
			filled[y] = w / 2
		}
	}
	return filled
}

// smoothCenters applies a centered moving average (±SmoothWindow rows)
// to the filled center sequence, suppressing row-to-row jitter.
func (d *RedLineDetector) smoothCenters(centers []int, h int) []int {
	p := d.Params
	m := p.EdgeMargin

	smoothed := make([]int, h)
	copy(smoothed, centers)

	for y := m; y < h-m; y++ {
		sum, count := 0, 0
		for dy := -p.SmoothWindow; dy <= p.SmoothWindow; dy++ {
			yy := y + dy
			if yy < m || yy >= h-m {
				continue
			}
			sum += centers[yy]
			count++
		}
		smoothed[y] = int(float64(sum)/float64(count) + 0.5)
	}
	return smoothed
}

// topScores returns the ScoreFallbackShare fraction of positive-score
// pixels ranked by score descending. Ties break on flat index so the
// fallback is as deterministic as the primary path.
func (d *RedLineDetector) topScores(r *raster.Raster, score []float64) Selection {
	positive := make([]int, 0, len(score))
	for i, s := range score {
		if s > 0 {
			positive = append(positive, i)
		}
	}
	if len(positive) == 0 {
		return Selection{}
	}

	sort.Slice(positive, func(a, b int) bool {
		if score[positive[a]] != score[positive[b]] {
			return score[positive[a]] > score[positive[b]]
		}
		return positive[a] < positive[b]
	})

	count := int(float64(len(positive)) * d.Params.ScoreFallbackShare)
	if count == 0 {
		count = 1
	}

	w := r.Width
	sel := make(Selection, 0, count)
	for _, i := range positive[:count] {
		sel = append(sel, SelectedPixel{
			Point: raster.Point{X: i % w, Y: i / w},
			Color: r.At(i%w, i/w),
		})
	}
	return sortSelection(sel)
}
