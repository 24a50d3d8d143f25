package evaluations

import (
	"errors"
	"net/http"
)

// Domain errors for evaluation operations.
var (
	ErrNotFound           = errors.New("evaluation run not found")
	ErrDuplicate          = errors.New("evaluation run already exists")
	ErrInvalidContentType = errors.New("invalid content type")
)

// MapHTTPStatus maps evaluation domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrInvalidContentType) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
