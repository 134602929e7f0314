package raster

import (
	"image"
	"image/color"
	"math"
	"testing"
)

// createUniformImage creates an in-memory image filled with one color.
func createUniformImage(width, height int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func TestFromImage(t *testing.T) {
	img := createUniformImage(10, 6, color.RGBA{200, 100, 50, 255})
	img.Set(3, 2, color.RGBA{1, 2, 3, 255})

	r := FromImage(img)

	if r.Width != 10 || r.Height != 6 {
		t.Fatalf("dimensions: got %dx%d, want 10x6", r.Width, r.Height)
	}
	if len(r.Pix) != 10*6*4 {
		t.Fatalf("buffer length: got %d, want %d", len(r.Pix), 10*6*4)
	}

	px := r.At(3, 2)
	if px.R != 1 || px.G != 2 || px.B != 3 || px.A != 255 {
		t.Errorf("At(3,2): got (%d,%d,%d,%d), want (1,2,3,255)", px.R, px.G, px.B, px.A)
	}

	px = r.At(0, 0)
	if px.R != 200 || px.G != 100 || px.B != 50 {
		t.Errorf("At(0,0): got (%d,%d,%d), want (200,100,50)", px.R, px.G, px.B)
	}
}

func TestFromImage_NonZeroOrigin(t *testing.T) {
	// Sub-images carry shifted bounds; FromImage must normalize them.
	base := createUniformImage(20, 20, color.RGBA{255, 255, 255, 255})
	base.Set(12, 11, color.RGBA{9, 8, 7, 255})
	sub := base.SubImage(image.Rect(10, 10, 20, 20)).(*image.RGBA)

	r := FromImage(sub)
	if r.Width != 10 || r.Height != 10 {
		t.Fatalf("dimensions: got %dx%d, want 10x10", r.Width, r.Height)
	}
	px := r.At(2, 1)
	if px.R != 9 || px.G != 8 || px.B != 7 {
		t.Errorf("At(2,1): got (%d,%d,%d), want (9,8,7)", px.R, px.G, px.B)
	}
}

func TestLuma(t *testing.T) {
	tests := []struct {
		name string
		c    color.RGBA
		want float64
	}{
		{"black", color.RGBA{0, 0, 0, 255}, 0},
		{"white", color.RGBA{255, 255, 255, 255}, 255},
		{"pure red", color.RGBA{255, 0, 0, 255}, 0.299 * 255},
		{"pure green", color.RGBA{0, 255, 0, 255}, 0.587 * 255},
		{"pure blue", color.RGBA{0, 0, 255, 255}, 0.114 * 255},
		{"mid gray", color.RGBA{128, 128, 128, 255}, 128},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := FromImage(createUniformImage(4, 4, tt.c))
			got := r.Luma(1, 1)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Luma: got %f, want %f", got, tt.want)
			}
		})
	}
}

func TestImage_RoundTrip(t *testing.T) {
	src := createUniformImage(8, 8, color.RGBA{10, 20, 30, 255})
	r := FromImage(src)

	img := r.Image()
	if img.Bounds().Dx() != 8 || img.Bounds().Dy() != 8 {
		t.Fatalf("bounds: got %v", img.Bounds())
	}

	// The returned image is a copy; mutating it must not affect the raster.
	img.Set(0, 0, color.RGBA{99, 99, 99, 255})
	if px := r.At(0, 0); px.R != 10 {
		t.Errorf("raster mutated through Image() copy: got R=%d, want 10", px.R)
	}
}

func TestDenoise_ZeroSigmaIsIdentity(t *testing.T) {
	r := FromImage(createUniformImage(10, 10, color.RGBA{50, 60, 70, 255}))

	if got := r.Denoise(0); got != r {
		t.Error("Denoise(0) should return the receiver unchanged")
	}
	if got := r.Denoise(-1); got != r {
		t.Error("Denoise(-1) should return the receiver unchanged")
	}
}

func TestDenoise_PreservesDimensions(t *testing.T) {
	img := createUniformImage(30, 20, color.RGBA{255, 255, 255, 255})
	img.Set(15, 10, color.RGBA{0, 0, 0, 255})
	r := FromImage(img)

	blurred := r.Denoise(1.5)
	if blurred.Width != 30 || blurred.Height != 20 {
		t.Fatalf("dimensions: got %dx%d, want 30x20", blurred.Width, blurred.Height)
	}

	// The lone dark pixel must have bled into its neighborhood.
	if blurred.Luma(15, 10) <= r.Luma(15, 10) {
		t.Error("blur should brighten the dark pixel")
	}
	if blurred.Luma(16, 10) >= 255 {
		t.Error("blur should darken the neighbor of the dark pixel")
	}
}
