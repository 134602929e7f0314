// Package ocr reads the text printed on strip cassettes (lot numbers,
// expiry dates, test names) using Tesseract, so trend entries can be
// annotated without manual transcription.
//
// Tesseract and its language data must be installed on the system
// (e.g. apt-get install tesseract-ocr tesseract-ocr-eng). OCR is a
// convenience feature at the acquisition boundary; the quantification
// core never depends on it.
package ocr

import (
	"fmt"
	"image"
	"image/png"
	"os"

	"github.com/disintegration/imaging"
	"github.com/otiai10/gosseract/v2"
)

// Word is one recognized token with its location and confidence.
type Word struct {
	// Text is the recognized token.
	Text string `json:"text"`

	// Confidence is Tesseract's certainty, 0.0 to 1.0.
	Confidence float64 `json:"confidence"`

	// X1, Y1, X2, Y2 bound the word in image pixel coordinates.
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

// LabelResult is the text read from a cassette label.
type LabelResult struct {
	// FullText is all recognized text with original spacing.
	FullText string `json:"full_text"`

	// Words lists individual tokens with bounding boxes. May be empty
	// when box extraction fails; FullText is still populated.
	Words []Word `json:"words"`
}

// ReadLabel performs OCR over an entire image file.
func ReadLabel(imagePath, language string) (*LabelResult, error) {
	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(language); err != nil {
		return nil, fmt.Errorf("failed to set language: %w", err)
	}
	if err := client.SetImage(imagePath); err != nil {
		return nil, fmt.Errorf("failed to set image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return nil, fmt.Errorf("OCR failed: %w", err)
	}

	boxes, err := client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		// Boxes are best-effort; the text alone is still useful.
		return &LabelResult{FullText: text, Words: []Word{}}, nil
	}

	words := make([]Word, 0, len(boxes))
	for _, box := range boxes {
		if box.Word == "" {
			continue
		}
		words = append(words, Word{
			Text:       box.Word,
			Confidence: float64(box.Confidence) / 100.0,
			X1:         box.Box.Min.X,
			Y1:         box.Box.Min.Y,
			X2:         box.Box.Max.X,
			Y2:         box.Box.Max.Y,
		})
	}

	return &LabelResult{FullText: text, Words: words}, nil
}

// ReadLabelRegion performs OCR on a rectangular region of an already
// loaded image, typically the printed band below the assay window.
// Returned word boxes are adjusted back to original image coordinates.
func ReadLabelRegion(img image.Image, x1, y1, x2, y2 int, language string) (*LabelResult, error) {
	cropped := imaging.Crop(img, image.Rect(x1, y1, x2, y2))

	// Tesseract wants a file path, so round-trip through a temp PNG.
	tmpFile, err := os.CreateTemp("", "strip-label-*.png")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer os.Remove(tmpPath)

	if err := png.Encode(tmpFile, cropped); err != nil {
		tmpFile.Close()
		return nil, fmt.Errorf("failed to encode temp image: %w", err)
	}
	tmpFile.Close()

	result, err := ReadLabel(tmpPath, language)
	if err != nil {
		return nil, err
	}

	for i := range result.Words {
		result.Words[i].X1 += x1
		result.Words[i].Y1 += y1
		result.Words[i].X2 += x1
		result.Words[i].Y2 += y1
	}
	return result, nil
}
