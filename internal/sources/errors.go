package sources

import (
	"errors"
	"net/http"
)

// Domain errors for data source operations.
var (
	ErrNotFound           = errors.New("data source not found")
	ErrDuplicate          = errors.New("data source already exists")
	ErrInvalidName        = errors.New("data source name required")
	ErrInvalidSourceType  = errors.New("invalid source type")
	ErrInvalidConfidence  = errors.New("invalid default confidence")
	ErrInvalidImpactAreas = errors.New("invalid default impact areas")
)

// MapHTTPStatus maps data source domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidName),
		errors.Is(err, ErrInvalidSourceType),
		errors.Is(err, ErrInvalidConfidence),
		errors.Is(err, ErrInvalidImpactAreas):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
