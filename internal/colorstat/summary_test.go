package colorstat

import (
	"math"
	"testing"

	"github.com/striplab/assay-tools-mcp/internal/linedetect"
	"github.com/striplab/assay-tools-mcp/internal/raster"
)

func selectionOf(colors ...raster.Pixel) linedetect.Selection {
	sel := make(linedetect.Selection, len(colors))
	for i, c := range colors {
		sel[i] = linedetect.SelectedPixel{
			Point: raster.Point{X: i, Y: 0},
			Color: c,
		}
	}
	return sel
}

func TestAggregate_Empty(t *testing.T) {
	got := Aggregate(nil)
	if got != (Summary{}) {
		t.Errorf("empty selection: got %+v, want zero Summary", got)
	}
	if got.PixelCount != 0 || got.Hex != "" {
		t.Errorf("zero Summary should carry no count or hex: %+v", got)
	}
}

func TestAggregate_SinglePixel(t *testing.T) {
	s := Aggregate(selectionOf(raster.Pixel{R: 200, G: 30, B: 40, A: 255}))

	if s.R != 200 || s.G != 30 || s.B != 40 {
		t.Errorf("means: got (%f,%f,%f), want (200,30,40)", s.R, s.G, s.B)
	}
	if s.PixelCount != 1 {
		t.Errorf("pixel count: got %d, want 1", s.PixelCount)
	}
	if s.Hex != "#c81e28" {
		t.Errorf("hex: got %s, want #c81e28", s.Hex)
	}
}

func TestAggregate_Means(t *testing.T) {
	s := Aggregate(selectionOf(
		raster.Pixel{R: 100, G: 0, B: 50, A: 255},
		raster.Pixel{R: 200, G: 100, B: 150, A: 255},
	))

	if s.R != 150 || s.G != 50 || s.B != 100 {
		t.Errorf("means: got (%f,%f,%f), want (150,50,100)", s.R, s.G, s.B)
	}
	if s.PixelCount != 2 {
		t.Errorf("pixel count: got %d, want 2", s.PixelCount)
	}
}

func TestAggregate_GrayscaleOfMeans(t *testing.T) {
	// Grayscale is the luma of the channel means. For these two pixels
	// the mean of per-pixel lumas would differ, so the formula choice is
	// observable.
	s := Aggregate(selectionOf(
		raster.Pixel{R: 255, G: 0, B: 0, A: 255},
		raster.Pixel{R: 0, G: 0, B: 255, A: 255},
	))

	want := 0.299*127.5 + 0.587*0 + 0.114*127.5
	if math.Abs(s.Grayscale-want) > 1e-9 {
		t.Errorf("grayscale: got %f, want %f", s.Grayscale, want)
	}
}

func TestAggregate_UniformGray(t *testing.T) {
	s := Aggregate(selectionOf(
		raster.Pixel{R: 128, G: 128, B: 128, A: 255},
		raster.Pixel{R: 128, G: 128, B: 128, A: 255},
		raster.Pixel{R: 128, G: 128, B: 128, A: 255},
	))

	if math.Abs(s.Grayscale-128) > 1e-9 {
		t.Errorf("grayscale: got %f, want 128", s.Grayscale)
	}
	if s.Hex != "#808080" {
		t.Errorf("hex: got %s, want #808080", s.Hex)
	}
}

func TestDistanceLab(t *testing.T) {
	a := Aggregate(selectionOf(raster.Pixel{R: 255, G: 0, B: 0, A: 255}))
	b := Aggregate(selectionOf(raster.Pixel{R: 0, G: 0, B: 255, A: 255}))

	if d := a.DistanceLab(a); d != 0 {
		t.Errorf("self distance: got %f, want 0", d)
	}
	if d := a.DistanceLab(b); d <= 0 {
		t.Errorf("red-blue distance: got %f, want > 0", d)
	}
	if a.DistanceLab(b) != b.DistanceLab(a) {
		t.Error("distance is not symmetric")
	}
}
