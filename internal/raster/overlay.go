package raster

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image/color"
	"image/png"
	"strconv"
)

// OverlayResult contains a copy of the raster with detected pixels
// highlighted, for visual verification of a detection run.
type OverlayResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	PixelCount  int    `json:"pixel_count"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// Overlay renders the given coordinates over the raster in a highlight
// color and returns the result as base64 PNG.
//
// The highlight alpha is composited over the original pixel, so a
// semi-transparent color (e.g. "#00FF0080") keeps the underlying line
// visible. Coordinates outside the raster are skipped.
func Overlay(r *Raster, coords []Point, highlightHex string) (*OverlayResult, error) {
	highlight, err := parseHexColor(highlightHex)
	if err != nil {
		highlight = color.RGBA{0, 255, 0, 128} // Default: semi-transparent green
	}

	img := r.Image()
	a := float64(highlight.A) / 255.0
	for _, p := range coords {
		if p.X < 0 || p.X >= r.Width || p.Y < 0 || p.Y >= r.Height {
			continue
		}
		i := (p.Y*r.Width + p.X) * 4
		img.Pix[i] = blend(img.Pix[i], highlight.R, a)
		img.Pix[i+1] = blend(img.Pix[i+1], highlight.G, a)
		img.Pix[i+2] = blend(img.Pix[i+2], highlight.B, a)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode overlay image: %w", err)
	}

	return &OverlayResult{
		Width:       r.Width,
		Height:      r.Height,
		PixelCount:  len(coords),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}, nil
}

// blend composites a highlight channel over a base channel with alpha a.
func blend(base, over uint8, a float64) uint8 {
	return uint8(float64(base)*(1-a) + float64(over)*a)
}

// parseHexColor parses a hex color string like "#00FF00" or "#00FF0080".
func parseHexColor(hex string) (color.RGBA, error) {
	if len(hex) == 0 {
		return color.RGBA{}, fmt.Errorf("empty color string")
	}
	if hex[0] == '#' {
		hex = hex[1:]
	}

	var r, g, b, a uint8 = 0, 0, 0, 255

	switch len(hex) {
	case 6:
		val, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return color.RGBA{}, err
		}
		r = uint8(val >> 16)
		g = uint8(val >> 8)
		b = uint8(val)
	case 8:
		val, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return color.RGBA{}, err
		}
		r = uint8(val >> 24)
		g = uint8(val >> 16)
		b = uint8(val >> 8)
		a = uint8(val)
	default:
		return color.RGBA{}, fmt.Errorf("invalid hex color length")
	}

	return color.RGBA{R: r, G: g, B: b, A: a}, nil
}
