package runs

import (
	"errors"
	"net/http"
)

// Domain errors for processing run operations.
var (
	ErrNotFound          = errors.New("processing run not found")
	ErrDuplicate         = errors.New("processing run already exists")
	ErrInvalid           = errors.New("invalid processing run")
	ErrInvalidTransition = errors.New("invalid run status transition")
)

// MapHTTPStatus maps run domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) || errors.Is(err, ErrInvalidTransition) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrInvalid) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
