package raster

import (
	"encoding/base64"
	"image/color"
	"testing"
)

func TestCrop(t *testing.T) {
	img := createUniformImage(100, 80, color.RGBA{255, 255, 255, 255})
	// Mark the crop target area.
	for y := 20; y < 30; y++ {
		for x := 40; x < 60; x++ {
			img.Set(x, y, color.RGBA{200, 30, 40, 255})
		}
	}

	r, err := Crop(img, Rect{X: 40, Y: 20, Width: 20, Height: 10})
	if err != nil {
		t.Fatalf("Crop failed: %v", err)
	}

	if r.Width != 20 || r.Height != 10 {
		t.Fatalf("dimensions: got %dx%d, want 20x10", r.Width, r.Height)
	}
	if px := r.At(0, 0); px.R != 200 || px.G != 30 || px.B != 40 {
		t.Errorf("At(0,0): got (%d,%d,%d), want (200,30,40)", px.R, px.G, px.B)
	}
	if px := r.At(19, 9); px.R != 200 {
		t.Errorf("At(19,9): got R=%d, want 200", px.R)
	}
}

func TestCrop_Invalid(t *testing.T) {
	img := createUniformImage(50, 50, color.RGBA{255, 255, 255, 255})

	tests := []struct {
		name string
		sel  Rect
	}{
		{"zero width", Rect{X: 0, Y: 0, Width: 0, Height: 10}},
		{"zero height", Rect{X: 0, Y: 0, Width: 10, Height: 0}},
		{"negative origin", Rect{X: -1, Y: 0, Width: 10, Height: 10}},
		{"exceeds width", Rect{X: 45, Y: 0, Width: 10, Height: 10}},
		{"exceeds height", Rect{X: 0, Y: 45, Width: 10, Height: 10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Crop(img, tt.sel); err == nil {
				t.Error("Crop should fail for invalid selection")
			}
		})
	}
}

func TestCrop_FullImage(t *testing.T) {
	img := createUniformImage(30, 30, color.RGBA{10, 20, 30, 255})

	r, err := Crop(img, Rect{X: 0, Y: 0, Width: 30, Height: 30})
	if err != nil {
		t.Fatalf("Crop failed: %v", err)
	}
	if r.Width != 30 || r.Height != 30 {
		t.Errorf("dimensions: got %dx%d, want 30x30", r.Width, r.Height)
	}
}

func TestSelectionBounds(t *testing.T) {
	// Mask painted on a 100x100 canvas for a 200x200 native image:
	// every display pixel covers 2x2 native pixels.
	mask := []Point{
		{X: 10, Y: 20},
		{X: 30, Y: 25},
		{X: 15, Y: 40},
	}

	rect, err := SelectionBounds(mask, 100, 100, 200, 200)
	if err != nil {
		t.Fatalf("SelectionBounds failed: %v", err)
	}

	want := Rect{X: 20, Y: 40, Width: 42, Height: 42}
	if rect != want {
		t.Errorf("bounds: got %+v, want %+v", rect, want)
	}
}

func TestSelectionBounds_IdentityScale(t *testing.T) {
	mask := []Point{{X: 5, Y: 5}, {X: 9, Y: 12}}

	rect, err := SelectionBounds(mask, 50, 50, 50, 50)
	if err != nil {
		t.Fatalf("SelectionBounds failed: %v", err)
	}

	want := Rect{X: 5, Y: 5, Width: 5, Height: 8}
	if rect != want {
		t.Errorf("bounds: got %+v, want %+v", rect, want)
	}
}

func TestSelectionBounds_SinglePoint(t *testing.T) {
	rect, err := SelectionBounds([]Point{{X: 7, Y: 3}}, 10, 10, 10, 10)
	if err != nil {
		t.Fatalf("SelectionBounds failed: %v", err)
	}
	want := Rect{X: 7, Y: 3, Width: 1, Height: 1}
	if rect != want {
		t.Errorf("bounds: got %+v, want %+v", rect, want)
	}
}

func TestSelectionBounds_ClampsToImage(t *testing.T) {
	// Points at the canvas edge must not map outside the native image.
	mask := []Point{{X: 99, Y: 99}}

	rect, err := SelectionBounds(mask, 100, 100, 333, 333)
	if err != nil {
		t.Fatalf("SelectionBounds failed: %v", err)
	}
	if rect.X+rect.Width > 333 || rect.Y+rect.Height > 333 {
		t.Errorf("bounds exceed native image: %+v", rect)
	}
	if rect.Width < 1 || rect.Height < 1 {
		t.Errorf("bounds degenerate: %+v", rect)
	}
}

func TestSelectionBounds_Errors(t *testing.T) {
	tests := []struct {
		name                   string
		mask                   []Point
		dw, dh, nw, nh         int
	}{
		{"empty mask", nil, 10, 10, 10, 10},
		{"zero display", []Point{{X: 1, Y: 1}}, 0, 10, 10, 10},
		{"zero native", []Point{{X: 1, Y: 1}}, 10, 10, 10, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := SelectionBounds(tt.mask, tt.dw, tt.dh, tt.nw, tt.nh); err == nil {
				t.Error("SelectionBounds should fail")
			}
		})
	}
}

func TestEncode(t *testing.T) {
	r := FromImage(createUniformImage(16, 12, color.RGBA{100, 150, 200, 255}))

	enc, err := Encode(r, 1.0)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	if enc.Width != 16 || enc.Height != 12 {
		t.Errorf("dimensions: got %dx%d, want 16x12", enc.Width, enc.Height)
	}
	if enc.MimeType != "image/png" {
		t.Errorf("mime type: got %s", enc.MimeType)
	}
	if _, err := base64.StdEncoding.DecodeString(enc.ImageBase64); err != nil {
		t.Errorf("payload is not valid base64: %v", err)
	}
}

func TestEncode_Scaled(t *testing.T) {
	r := FromImage(createUniformImage(20, 10, color.RGBA{0, 0, 0, 255}))

	enc, err := Encode(r, 2.0)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if enc.Width != 40 || enc.Height != 20 {
		t.Errorf("dimensions: got %dx%d, want 40x20", enc.Width, enc.Height)
	}
}
