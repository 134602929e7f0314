// Package trend orders per-image color summaries by their day offset and
// computes the rate of change of the grayscale signal between them.
package trend

import (
	"sort"

	"github.com/striplab/assay-tools-mcp/internal/colorstat"
)

// Sample is one quantified image positioned on the user's timeline.
type Sample struct {
	// DayOffset is the user-entered days-past-event value for the photo.
	DayOffset int `json:"day_offset"`

	// Label is an optional caller-supplied tag (file name, lot number).
	Label string `json:"label,omitempty"`

	Summary colorstat.Summary `json:"summary"`
}

// Entry is a sample annotated with its deltas versus the previous entry
// in time-sorted order.
type Entry struct {
	DayOffset int               `json:"day_offset"`
	Label     string            `json:"label,omitempty"`
	Summary   colorstat.Summary `json:"summary"`

	// RateOfChange is the grayscale delta versus the previous entry;
	// zero for the first entry.
	RateOfChange float64 `json:"rate_of_change"`

	// ColorShift is the perceptual Lab distance of the mean color from
	// the previous entry; zero for the first entry.
	ColorShift float64 `json:"color_shift"`
}

// Result is the reduced trend over a batch of samples.
type Result struct {
	Entries []Entry `json:"entries"`

	// TotalRateOfChange is grayscale[last] − grayscale[first];
	// zero when fewer than two entries exist.
	TotalRateOfChange float64 `json:"total_rate_of_change"`
}

// Reduce sorts samples ascending by day offset and emits one entry per
// sample with its grayscale delta against the predecessor.
//
// The sort is stable: samples sharing a day offset keep their input
// order, since no secondary key is defined for ties. The input slice is
// not modified.
func Reduce(samples []Sample) Result {
	ordered := make([]Sample, len(samples))
	copy(ordered, samples)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].DayOffset < ordered[j].DayOffset
	})

	entries := make([]Entry, len(ordered))
	for i, s := range ordered {
		e := Entry{
			DayOffset: s.DayOffset,
			Label:     s.Label,
			Summary:   s.Summary,
		}
		if i > 0 {
			prev := ordered[i-1].Summary
			e.RateOfChange = s.Summary.Grayscale - prev.Grayscale
			e.ColorShift = s.Summary.DistanceLab(prev)
		}
		entries[i] = e
	}

	result := Result{Entries: entries}
	if len(entries) >= 2 {
		result.TotalRateOfChange = entries[len(entries)-1].Summary.Grayscale - entries[0].Summary.Grayscale
	}
	return result
}
