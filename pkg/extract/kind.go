package extract

import (
	"path/filepath"
	"strings"
)

// Kind identifies the file format a payload should be extracted as.
type Kind string

// Supported file kinds.
const (
	KindPlainText Kind = "PLAIN_TEXT"
	KindPDF       Kind = "PDF"
	KindWordDoc   Kind = "WORD_DOC"
	KindWordDocx  Kind = "WORD_DOCX"
	KindPNG       Kind = "PNG"
	KindJPG       Kind = "JPG"
	KindGIF       Kind = "GIF"
	KindBMP       Kind = "BMP"
)

// IsImage reports whether the kind is a raster image format routed through OCR.
func (k Kind) IsImage() bool {
	switch k {
	case KindPNG, KindJPG, KindGIF, KindBMP:
		return true
	}
	return false
}

var extensionKinds = map[string]Kind{
	".txt":  KindPlainText,
	".text": KindPlainText,
	".md":   KindPlainText,
	".pdf":  KindPDF,
	".doc":  KindWordDoc,
	".docx": KindWordDocx,
	".png":  KindPNG,
	".jpg":  KindJPG,
	".jpeg": KindJPG,
	".gif":  KindGIF,
	".bmp":  KindBMP,
}

var contentTypeKinds = map[string]Kind{
	"text/plain":         KindPlainText,
	"application/pdf":    KindPDF,
	"application/msword": KindWordDoc,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": KindWordDocx,
	"image/png":  KindPNG,
	"image/jpeg": KindJPG,
	"image/gif":  KindGIF,
	"image/bmp":  KindBMP,
}

// ResolveKind determines the file kind from the filename extension, falling
// back to the storage key extension, then the declared content type.
// Unrecognized inputs resolve to PLAIN_TEXT.
func ResolveKind(filename, storageKey, contentType string) Kind {
	if kind, ok := kindFromExtension(filename); ok {
		return kind
	}
	if kind, ok := kindFromExtension(storageKey); ok {
		return kind
	}

	ct := strings.ToLower(strings.TrimSpace(contentType))
	if i := strings.Index(ct, ";"); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	if kind, ok := contentTypeKinds[ct]; ok {
		return kind
	}

	return KindPlainText
}

func kindFromExtension(name string) (Kind, bool) {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" {
		return "", false
	}
	kind, ok := extensionKinds[ext]
	return kind, ok
}
