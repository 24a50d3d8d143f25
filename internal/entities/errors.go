package entities

import (
	"errors"
	"net/http"
)

// Domain errors for entity operations.
var (
	ErrNotFound       = errors.New("entity not found")
	ErrDuplicate      = errors.New("entity already exists")
	ErrInvalidSegment = errors.New("invalid entity segment")
	ErrInvalidName    = errors.New("entity name required")
)

// MapHTTPStatus maps entity domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrInvalidSegment) || errors.Is(err, ErrInvalidName) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
