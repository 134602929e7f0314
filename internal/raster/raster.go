package raster

import (
	"image"
	"image/draw"

	"github.com/anthonynsimon/bild/blur"
)

// Point represents a 2D pixel coordinate.
type Point struct {
	X int `json:"x"` // Horizontal position (0 = leftmost)
	Y int `json:"y"` // Vertical position (0 = topmost)
}

// Pixel holds the 8-bit color components of a single raster pixel.
// Alpha is carried through for completeness but ignored by aggregation.
type Pixel struct {
	R uint8 `json:"r"` // Red component (0-255)
	G uint8 `json:"g"` // Green component (0-255)
	B uint8 `json:"b"` // Blue component (0-255)
	A uint8 `json:"a"` // Alpha component (0-255)
}

// Raster is an immutable view over a decoded strip image: width, height
// and a row-major RGBA buffer with four bytes per pixel.
//
// The detection core reads rasters through At and Luma; it never writes
// them. The pixel at (x, y) starts at Pix[(y*Width+x)*4].
type Raster struct {
	Width  int
	Height int
	Pix    []uint8
}

// FromImage decodes an image.Image into a Raster.
//
// The image is redrawn into an 8-bit RGBA buffer regardless of its native
// color model (JPEG photos decode to YCbCr, PNGs to NRGBA, and so on), so
// the detection heuristics always see the same representation.
func FromImage(img image.Image) *Raster {
	bounds := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)

	return &Raster{
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
		Pix:    rgba.Pix,
	}
}

// At returns the pixel at (x, y). Coordinates must be in range; the
// detection core guarantees this by construction.
func (r *Raster) At(x, y int) Pixel {
	i := (y*r.Width + x) * 4
	return Pixel{R: r.Pix[i], G: r.Pix[i+1], B: r.Pix[i+2], A: r.Pix[i+3]}
}

// Luma returns the ITU-R BT.601 luminance of the pixel at (x, y):
// 0.299*R + 0.587*G + 0.114*B, in the range [0, 255].
func (r *Raster) Luma(x, y int) float64 {
	i := (y*r.Width + x) * 4
	return 0.299*float64(r.Pix[i]) + 0.587*float64(r.Pix[i+1]) + 0.114*float64(r.Pix[i+2])
}

// Image reconstructs a standard library image backed by a copy of the
// raster's pixels, for encoding or further processing.
func (r *Raster) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, r.Width, r.Height))
	copy(img.Pix, r.Pix)
	return img
}

// Denoise returns a Gaussian-blurred copy of the raster.
//
// Phone photos of strips carry sensor noise that can fragment the dark
// component found by flood fill; a light blur (sigma 1-2) before detection
// merges those fragments. A sigma ≤ 0 returns the receiver unchanged, so
// detection on the raw raster stays bit-reproducible by default.
func (r *Raster) Denoise(sigma float64) *Raster {
	if sigma <= 0 {
		return r
	}
	blurred := blur.Gaussian(r.Image(), sigma)
	return FromImage(blurred)
}
