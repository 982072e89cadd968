// Package extract converts uploaded file payloads into plain text.
// Plain text passes through verbatim, PDFs read their embedded text layer,
// and raster images route through OCR. Word documents are not supported.
package extract

import (
	"context"
	"fmt"
	"log/slog"
)

// Extractor converts a raw file payload into plain text according to its kind.
type Extractor interface {
	Extract(ctx context.Context, data []byte, kind Kind) (string, error)
}

// OCR recognizes text in a raster image payload.
type OCR interface {
	Recognize(ctx context.Context, image []byte) (string, error)
}

type extractor struct {
	ocr    OCR
	logger *slog.Logger
}

// New creates an Extractor using the given OCR implementation for image kinds.
func New(ocr OCR, logger *slog.Logger) Extractor {
	return &extractor{
		ocr:    ocr,
		logger: logger.With("system", "extract"),
	}
}

func (e *extractor) Extract(ctx context.Context, data []byte, kind Kind) (string, error) {
	switch {
	case kind == KindPlainText:
		return string(data), nil
	case kind == KindPDF:
		text, err := pdfText(data)
		if err != nil {
			e.logger.Warn("pdf text extraction failed", "error", err)
			return "", fmt.Errorf("%w: %v", ErrUnreadable, err)
		}
		return text, nil
	case kind.IsImage():
		if err := validateImage(data, kind); err != nil {
			return "", err
		}
		text, err := e.ocr.Recognize(ctx, data)
		if err != nil {
			e.logger.Warn("ocr failed", "kind", kind, "error", err)
			return "", fmt.Errorf("%w: %v", ErrUnreadable, err)
		}
		return text, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, kind)
	}
}
