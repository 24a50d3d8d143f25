package briefs

import (
	"errors"
	"net/http"
)

var (
	ErrNotFound  = errors.New("brief not found")
	ErrDuplicate = errors.New("brief already exists for week")
)

// MapHTTPStatus translates brief errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
