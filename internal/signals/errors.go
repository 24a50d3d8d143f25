package signals

import (
	"errors"
	"net/http"
)

// Domain errors for signal operations.
var (
	ErrNotFound           = errors.New("signal not found")
	ErrDuplicate          = errors.New("signal already exists for source url")
	ErrInvalidSnippet     = errors.New("evidence snippet must be 50-500 characters")
	ErrInvalidImpactAreas = errors.New("at least one valid impact area required")
	ErrInvalidEventType   = errors.New("invalid event type")
	ErrInvalidConfidence  = errors.New("invalid confidence level")
	ErrInvalidStatus      = errors.New("invalid signal status")
	ErrInvalidEntity      = errors.New("signal entity required")
	ErrInvalidSourceURL   = errors.New("source url required")
)

// MapHTTPStatus maps signal domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidSnippet),
		errors.Is(err, ErrInvalidImpactAreas),
		errors.Is(err, ErrInvalidEventType),
		errors.Is(err, ErrInvalidConfidence),
		errors.Is(err, ErrInvalidStatus),
		errors.Is(err, ErrInvalidEntity),
		errors.Is(err, ErrInvalidSourceURL):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
