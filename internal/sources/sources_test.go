package sources

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"testing"
)

func TestValidSourceType(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{TypeRSS, true},
		{TypeWeb, true},
		{TypeLinkedIn, true},
		{TypeEmail, true},
		{"twitter", false},
		{"", false},
		{"RSS", false},
	}

	for _, test := range tests {
		if got := validSourceType(test.value); got != test.want {
			t.Errorf("validSourceType(%q) = %v, want %v", test.value, got, test.want)
		}
	}
}

func TestFiltersFromQuery(t *testing.T) {
	values := url.Values{}
	values.Set("source_type", "rss")
	values.Set("enabled", "true")

	f := FiltersFromQuery(values)

	if f.SourceType == nil || *f.SourceType != "rss" {
		t.Errorf("SourceType = %v, want rss", f.SourceType)
	}

	if f.Enabled == nil || !*f.Enabled {
		t.Errorf("Enabled = %v, want true", f.Enabled)
	}
}

func TestFiltersFromQueryInvalidBool(t *testing.T) {
	values := url.Values{}
	values.Set("enabled", "yes please")

	f := FiltersFromQuery(values)

	if f.Enabled != nil {
		t.Errorf("Enabled = %v, want nil", f.Enabled)
	}
}

func TestFiltersFromQueryEmpty(t *testing.T) {
	f := FiltersFromQuery(url.Values{})

	if f.SourceType != nil || f.Enabled != nil {
		t.Errorf("got %+v, want zero filters", f)
	}
}

func TestMapHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{ErrNotFound, http.StatusNotFound},
		{ErrDuplicate, http.StatusConflict},
		{ErrInvalidName, http.StatusBadRequest},
		{ErrInvalidSourceType, http.StatusBadRequest},
		{ErrInvalidConfidence, http.StatusBadRequest},
		{ErrInvalidImpactAreas, http.StatusBadRequest},
		{fmt.Errorf("find source: %w", ErrNotFound), http.StatusNotFound},
		{errors.New("connection refused"), http.StatusInternalServerError},
	}

	for _, test := range tests {
		if got := MapHTTPStatus(test.err); got != test.want {
			t.Errorf("MapHTTPStatus(%v) = %d, want %d", test.err, got, test.want)
		}
	}
}
