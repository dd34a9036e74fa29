// Package ocr extracts medicine names from prescription photos. Character
// recognition itself is delegated to Tesseract; this package only decodes
// the uploaded image payload and parses the recognized text.
package ocr

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"
)

// Engine recognizes text in an image. Implementations must be safe for
// sequential reuse; concurrent calls are not required.
type Engine interface {
	ExtractText(ctx context.Context, image []byte) (string, error)
}

// TesseractEngine runs OCR through a local Tesseract installation.
type TesseractEngine struct {
	language string
}

// NewTesseractEngine creates an engine for the given language code ("eng").
func NewTesseractEngine(language string) *TesseractEngine {
	return &TesseractEngine{language: language}
}

// ExtractText recognizes text in the image bytes. A fresh client per call
// keeps the cgo handle lifecycle simple; OCR dominates the cost anyway.
func (e *TesseractEngine) ExtractText(ctx context.Context, image []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(e.language); err != nil {
		return "", fmt.Errorf("failed to set OCR language %s: %w", e.language, err)
	}
	if err := client.SetImageFromBytes(image); err != nil {
		return "", fmt.Errorf("failed to load image for OCR: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("OCR failed: %w", err)
	}
	return text, nil
}

// DecodeDataURL turns a browser data URL (or bare base64) into image bytes.
func DecodeDataURL(dataURL string) ([]byte, error) {
	payload := dataURL
	if strings.HasPrefix(payload, "data:image") {
		idx := strings.Index(payload, ",")
		if idx < 0 {
			return nil, fmt.Errorf("malformed image data URL")
		}
		payload = payload[idx+1:]
	}

	image, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image payload: %w", err)
	}
	if len(image) == 0 {
		return nil, fmt.Errorf("empty image payload")
	}
	return image, nil
}
