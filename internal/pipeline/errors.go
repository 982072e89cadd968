package pipeline

import (
	"errors"
	"net/http"

	"github.com/sajilokaam/docpipe/internal/projects"
)

// Errors rejected synchronously at upload, before a run is created.
var (
	ErrEmptyFile     = errors.New("uploaded file is empty")
	ErrFileTooLarge  = errors.New("file exceeds maximum upload size")
	ErrInvalidUpload = errors.New("invalid upload request")
)

// MapHTTPStatus maps pipeline errors to appropriate HTTP status codes,
// including the project lookup errors surfaced during upload validation.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrFileTooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	if errors.Is(err, ErrEmptyFile) || errors.Is(err, ErrInvalidUpload) {
		return http.StatusBadRequest
	}
	if errors.Is(err, projects.ErrNotFound) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}
