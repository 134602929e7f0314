// Package batch quantifies a set of strip photos in parallel and reduces
// the results into a trend.
package batch

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/striplab/assay-tools-mcp/internal/colorstat"
	"github.com/striplab/assay-tools-mcp/internal/linedetect"
	"github.com/striplab/assay-tools-mcp/internal/raster"
	"github.com/striplab/assay-tools-mcp/internal/trend"
)

// Item describes one photo in a batch.
type Item struct {
	// Path is the image file to quantify.
	Path string `json:"path"`

	// DayOffset positions the result on the trend timeline.
	DayOffset int `json:"day_offset"`

	// Label is an optional tag carried through to the trend entry.
	Label string `json:"label,omitempty"`

	// Region optionally restricts detection to a sub-rectangle of the
	// image, in native pixel units. Nil means the whole image (already
	// cropped upstream).
	Region *raster.Rect `json:"region,omitempty"`
}

// Quantifier runs detect→aggregate over batches of photos.
//
// Each image's computation is independent and allocates all intermediate
// state per call, so items run concurrently without coordination; only
// the final trend reduction waits for the complete set.
type Quantifier struct {
	Cache    *raster.ImageCache
	Detector linedetect.Detector

	// DenoiseSigma, when positive, applies a Gaussian pre-blur to each
	// raster before detection.
	DenoiseSigma float64

	// Workers bounds concurrent quantifications; ≤0 means GOMAXPROCS.
	Workers int
}

// One quantifies a single photo: load, optional crop and denoise,
// detect, aggregate.
func (q *Quantifier) One(item Item) (trend.Sample, error) {
	img, err := q.Cache.Load(item.Path)
	if err != nil {
		return trend.Sample{}, fmt.Errorf("load %s: %w", item.Path, err)
	}

	var r *raster.Raster
	if item.Region != nil {
		r, err = raster.Crop(img, *item.Region)
		if err != nil {
			return trend.Sample{}, fmt.Errorf("crop %s: %w", item.Path, err)
		}
	} else {
		r = raster.FromImage(img)
	}

	sel := q.Detector.Detect(r.Denoise(q.DenoiseSigma))

	return trend.Sample{
		DayOffset: item.DayOffset,
		Label:     item.Label,
		Summary:   colorstat.Aggregate(sel),
	}, nil
}

// Run quantifies every item and reduces the samples into a trend.
//
// Items run in parallel under the worker limit; results keep their input
// positions, so tied day offsets preserve input order in the reduction.
// The first load or crop error cancels the batch.
func (q *Quantifier) Run(ctx context.Context, items []Item) (trend.Result, error) {
	samples := make([]trend.Sample, len(items))

	g, ctx := errgroup.WithContext(ctx)
	workers := q.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	g.SetLimit(workers)

	for i, item := range items {
		i, item := i, item
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			sample, err := q.One(item)
			if err != nil {
				return err
			}
			samples[i] = sample
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return trend.Result{}, err
	}
	return trend.Reduce(samples), nil
}
