package themes

import (
	"errors"
	"net/http"
)

// Domain errors for theme operations.
var (
	ErrNotFound  = errors.New("theme not found")
	ErrDuplicate = errors.New("theme already exists")
)

// MapHTTPStatus maps theme domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) {
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}
