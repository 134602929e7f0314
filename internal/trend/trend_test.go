package trend

import (
	"math"
	"testing"

	"github.com/striplab/assay-tools-mcp/internal/colorstat"
)

func graySample(day int, gray float64) Sample {
	// A neutral color whose luma equals all three channels keeps the
	// grayscale arithmetic exact.
	return Sample{
		DayOffset: day,
		Summary: colorstat.Summary{
			R: gray, G: gray, B: gray,
			Grayscale:  gray,
			PixelCount: 1,
		},
	}
}

func TestReduce(t *testing.T) {
	result := Reduce([]Sample{
		graySample(0, 10),
		graySample(1, 15),
		graySample(2, 12),
	})

	if len(result.Entries) != 3 {
		t.Fatalf("entries: got %d, want 3", len(result.Entries))
	}

	wantRates := []float64{0, 5, -3}
	for i, want := range wantRates {
		if got := result.Entries[i].RateOfChange; got != want {
			t.Errorf("entry %d rate: got %f, want %f", i, got, want)
		}
	}
	if result.TotalRateOfChange != 2 {
		t.Errorf("total rate: got %f, want 2", result.TotalRateOfChange)
	}
}

func TestReduce_SortsByDayOffset(t *testing.T) {
	result := Reduce([]Sample{
		graySample(7, 30),
		graySample(0, 10),
		graySample(3, 20),
	})

	wantDays := []int{0, 3, 7}
	for i, want := range wantDays {
		if got := result.Entries[i].DayOffset; got != want {
			t.Errorf("entry %d day: got %d, want %d", i, got, want)
		}
	}
	if result.Entries[1].RateOfChange != 10 || result.Entries[2].RateOfChange != 10 {
		t.Errorf("rates after sort: got %f, %f, want 10, 10",
			result.Entries[1].RateOfChange, result.Entries[2].RateOfChange)
	}
	if result.TotalRateOfChange != 20 {
		t.Errorf("total rate: got %f, want 20", result.TotalRateOfChange)
	}
}

func TestReduce_TiesKeepInputOrder(t *testing.T) {
	a := graySample(1, 10)
	a.Label = "first"
	b := graySample(1, 20)
	b.Label = "second"

	result := Reduce([]Sample{a, b})
	if result.Entries[0].Label != "first" || result.Entries[1].Label != "second" {
		t.Errorf("tie order: got %s, %s", result.Entries[0].Label, result.Entries[1].Label)
	}
}

func TestReduce_DegenerateInputs(t *testing.T) {
	empty := Reduce(nil)
	if len(empty.Entries) != 0 || empty.TotalRateOfChange != 0 {
		t.Errorf("empty input: got %+v", empty)
	}

	single := Reduce([]Sample{graySample(4, 42)})
	if len(single.Entries) != 1 {
		t.Fatalf("entries: got %d, want 1", len(single.Entries))
	}
	if single.Entries[0].RateOfChange != 0 || single.TotalRateOfChange != 0 {
		t.Errorf("single sample must have zero deltas: %+v", single.Entries[0])
	}
}

func TestReduce_DoesNotModifyInput(t *testing.T) {
	samples := []Sample{graySample(5, 1), graySample(2, 2), graySample(9, 3)}
	Reduce(samples)

	if samples[0].DayOffset != 5 || samples[1].DayOffset != 2 || samples[2].DayOffset != 9 {
		t.Error("Reduce reordered its input slice")
	}
}

func TestReduce_ColorShift(t *testing.T) {
	red := Sample{DayOffset: 0, Summary: colorstat.Summary{R: 255, Grayscale: 0.299 * 255, PixelCount: 1}}
	blue := Sample{DayOffset: 1, Summary: colorstat.Summary{B: 255, Grayscale: 0.114 * 255, PixelCount: 1}}

	result := Reduce([]Sample{red, blue})
	if result.Entries[0].ColorShift != 0 {
		t.Errorf("first entry shift: got %f, want 0", result.Entries[0].ColorShift)
	}
	if result.Entries[1].ColorShift <= 0 {
		t.Errorf("red-blue shift: got %f, want > 0", result.Entries[1].ColorShift)
	}

	want := 0.114*255 - 0.299*255
	if math.Abs(result.TotalRateOfChange-want) > 1e-9 {
		t.Errorf("total rate: got %f, want %f", result.TotalRateOfChange, want)
	}
}
