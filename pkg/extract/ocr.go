package extract

import (
	"bytes"
	"context"
	"fmt"
	"image"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"

	"github.com/otiai10/gosseract/v2"
)

// Tesseract is an OCR implementation backed by the Tesseract engine.
type Tesseract struct {
	language string
}

// NewTesseract creates a Tesseract OCR with the given language code (e.g. "eng").
func NewTesseract(language string) *Tesseract {
	if language == "" {
		language = "eng"
	}
	return &Tesseract{language: language}
}

// Recognize runs Tesseract over the image payload and returns the recognized text.
func (t *Tesseract) Recognize(ctx context.Context, img []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(t.language); err != nil {
		return "", fmt.Errorf("set ocr language: %w", err)
	}
	if err := client.SetImageFromBytes(img); err != nil {
		return "", fmt.Errorf("load ocr image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("recognize text: %w", err)
	}

	return text, nil
}

// validateImage confirms the payload decodes as a supported raster image
// before it is handed to the OCR engine.
func validateImage(data []byte, kind Kind) error {
	if _, _, err := image.Decode(bytes.NewReader(data)); err != nil {
		return fmt.Errorf("%w: decode %s: %v", ErrUnreadable, kind, err)
	}
	return nil
}
