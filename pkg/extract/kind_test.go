package extract_test

import (
	"testing"

	"github.com/sajilokaam/docpipe/pkg/extract"
)

func TestResolveKind(t *testing.T) {
	tests := []struct {
		name        string
		filename    string
		storageKey  string
		contentType string
		want        extract.Kind
	}{
		{"txt extension", "notes.txt", "", "", extract.KindPlainText},
		{"markdown extension", "README.md", "", "", extract.KindPlainText},
		{"pdf extension", "contract.pdf", "", "", extract.KindPDF},
		{"doc extension", "brief.doc", "", "", extract.KindWordDoc},
		{"docx extension", "brief.docx", "", "", extract.KindWordDocx},
		{"png extension", "scan.png", "", "", extract.KindPNG},
		{"jpeg extension", "photo.jpeg", "", "", extract.KindJPG},
		{"uppercase extension", "SCAN.PNG", "", "", extract.KindPNG},
		{"filename wins over storage key", "notes.txt", "runs/abc/scan.png", "", extract.KindPlainText},
		{"storage key fallback", "upload", "runs/abc/scan.png", "", extract.KindPNG},
		{"content type fallback", "upload", "runs/abc/upload", "application/pdf", extract.KindPDF},
		{"content type with charset", "upload", "", "text/plain; charset=utf-8", extract.KindPlainText},
		{"content type case insensitive", "upload", "", "IMAGE/PNG", extract.KindPNG},
		{"unknown everything defaults to plain text", "upload.bin", "runs/abc/upload.bin", "application/octet-stream", extract.KindPlainText},
		{"no signals defaults to plain text", "", "", "", extract.KindPlainText},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := extract.ResolveKind(tt.filename, tt.storageKey, tt.contentType)
			if got != tt.want {
				t.Errorf("ResolveKind(%q, %q, %q) = %s, want %s",
					tt.filename, tt.storageKey, tt.contentType, got, tt.want)
			}
		})
	}
}

func TestKindIsImage(t *testing.T) {
	tests := []struct {
		kind extract.Kind
		want bool
	}{
		{extract.KindPNG, true},
		{extract.KindJPG, true},
		{extract.KindGIF, true},
		{extract.KindBMP, true},
		{extract.KindPlainText, false},
		{extract.KindPDF, false},
		{extract.KindWordDoc, false},
		{extract.KindWordDocx, false},
	}

	for _, tt := range tests {
		if got := tt.kind.IsImage(); got != tt.want {
			t.Errorf("%s.IsImage() = %v, want %v", tt.kind, got, tt.want)
		}
	}
}
