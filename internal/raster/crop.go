package raster

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"

	"github.com/disintegration/imaging"
)

// Rect is a rectangular selection in native image pixel units, as handed
// to the pipeline by the region selector: inclusive origin plus extent,
// with X+Width ≤ image width and Y+Height ≤ image height.
type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Crop extracts a rectangular region of an image as a new Raster.
//
// The rectangle must have positive area and lie entirely within the
// image. Validation happens here, at the selection boundary, so the
// detection core downstream never sees an invalid raster.
func Crop(img image.Image, sel Rect) (*Raster, error) {
	bounds := img.Bounds()
	if sel.Width <= 0 || sel.Height <= 0 {
		return nil, fmt.Errorf("selection %dx%d has no area", sel.Width, sel.Height)
	}
	if sel.X < 0 || sel.Y < 0 || sel.X+sel.Width > bounds.Dx() || sel.Y+sel.Height > bounds.Dy() {
		return nil, fmt.Errorf("selection (%d,%d %dx%d) outside image bounds %dx%d",
			sel.X, sel.Y, sel.Width, sel.Height, bounds.Dx(), bounds.Dy())
	}

	cropped := imaging.Crop(img, image.Rect(
		bounds.Min.X+sel.X,
		bounds.Min.Y+sel.Y,
		bounds.Min.X+sel.X+sel.Width,
		bounds.Min.Y+sel.Y+sel.Height,
	))
	return FromImage(cropped), nil
}

// SelectionBounds reduces a painted pixel mask to its axis-aligned
// bounding box in native image coordinates.
//
// The capture UI reports brushed points in display (canvas) coordinates;
// the box is scaled back to native pixels by the ratio of native to
// displayed dimensions and clamped to the image. This is the only piece
// of the mask the pipeline ever sees; overlay visuals never reach pixel
// data.
func SelectionBounds(mask []Point, displayW, displayH, nativeW, nativeH int) (Rect, error) {
	if len(mask) == 0 {
		return Rect{}, fmt.Errorf("empty selection mask")
	}
	if displayW <= 0 || displayH <= 0 || nativeW <= 0 || nativeH <= 0 {
		return Rect{}, fmt.Errorf("invalid dimensions: display %dx%d, native %dx%d",
			displayW, displayH, nativeW, nativeH)
	}

	minX, minY := mask[0].X, mask[0].Y
	maxX, maxY := mask[0].X, mask[0].Y
	for _, p := range mask[1:] {
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}

	scaleX := float64(nativeW) / float64(displayW)
	scaleY := float64(nativeH) / float64(displayH)

	x1 := int(float64(minX) * scaleX)
	y1 := int(float64(minY) * scaleY)
	// +1: the brushed max pixel is part of the selection.
	x2 := int(float64(maxX+1) * scaleX)
	y2 := int(float64(maxY+1) * scaleY)

	x1 = clamp(x1, 0, nativeW-1)
	y1 = clamp(y1, 0, nativeH-1)
	x2 = clamp(x2, x1+1, nativeW)
	y2 = clamp(y2, y1+1, nativeH)

	return Rect{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1}, nil
}

// EncodedImage is a PNG-encoded image payload for returning pixel data
// over the tool boundary.
type EncodedImage struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// Encode renders a raster as a base64 PNG payload, optionally resized by
// a positive scale factor (Lanczos resampling).
func Encode(r *Raster, scale float64) (*EncodedImage, error) {
	img := image.Image(r.Image())
	if scale != 1.0 && scale > 0 {
		newW := int(float64(r.Width) * scale)
		newH := int(float64(r.Height) * scale)
		img = imaging.Resize(img, newW, newH, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	return &EncodedImage{
		Width:       img.Bounds().Dx(),
		Height:      img.Bounds().Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}, nil
}

// clamp constrains an integer value to the range [min, max].
func clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
