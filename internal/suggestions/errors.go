package suggestions

import (
	"errors"
	"net/http"

	"github.com/sajilokaam/docpipe/internal/runs"
)

// Domain errors for suggestion operations.
var (
	ErrNotFound  = errors.New("suggestion not found")
	ErrDuplicate = errors.New("suggestion already exists")
	ErrInvalid   = errors.New("invalid suggestion request")
)

// MapHTTPStatus maps suggestion domain errors to appropriate HTTP status
// codes, including run errors surfaced by run-scoped operations.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) || errors.Is(err, runs.ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrInvalid) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
