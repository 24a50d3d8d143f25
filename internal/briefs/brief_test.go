package briefs_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/JaimeStill/vantage/internal/briefs"
)

func TestWeekBoundaries(t *testing.T) {
	reference := time.Date(2026, time.March, 18, 14, 35, 12, 0, time.UTC)

	start, end := briefs.WeekBoundaries(reference)

	wantEnd := time.Date(2026, time.March, 18, 0, 0, 0, 0, time.UTC)
	wantStart := time.Date(2026, time.March, 12, 0, 0, 0, 0, time.UTC)

	if !end.Equal(wantEnd) {
		t.Errorf("end = %v, want %v", end, wantEnd)
	}

	if !start.Equal(wantStart) {
		t.Errorf("start = %v, want %v", start, wantStart)
	}
}

func TestWeekBoundariesMidnight(t *testing.T) {
	reference := time.Date(2026, time.March, 18, 0, 0, 0, 0, time.UTC)

	start, end := briefs.WeekBoundaries(reference)

	if !end.Equal(reference) {
		t.Errorf("end = %v, want %v", end, reference)
	}

	if got := end.Sub(start); got != 6*24*time.Hour {
		t.Errorf("window = %v, want %v", got, 6*24*time.Hour)
	}
}

func TestWeekBoundariesNormalizesZone(t *testing.T) {
	zone := time.FixedZone("UTC+10", 10*3600)
	reference := time.Date(2026, time.March, 18, 4, 0, 0, 0, zone)

	// 2026-03-18 04:00 +10 is 2026-03-17 18:00 UTC.
	_, end := briefs.WeekBoundaries(reference)

	wantEnd := time.Date(2026, time.March, 17, 0, 0, 0, 0, time.UTC)

	if !end.Equal(wantEnd) {
		t.Errorf("end = %v, want %v", end, wantEnd)
	}

	if end.Location() != time.UTC {
		t.Errorf("end location = %v, want UTC", end.Location())
	}
}

func TestWeekBoundariesMonthRollover(t *testing.T) {
	reference := time.Date(2026, time.March, 3, 9, 0, 0, 0, time.UTC)

	start, _ := briefs.WeekBoundaries(reference)

	wantStart := time.Date(2026, time.February, 25, 0, 0, 0, 0, time.UTC)

	if !start.Equal(wantStart) {
		t.Errorf("start = %v, want %v", start, wantStart)
	}
}

func TestMapHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{briefs.ErrNotFound, http.StatusNotFound},
		{briefs.ErrDuplicate, http.StatusConflict},
		{fmt.Errorf("load brief: %w", briefs.ErrNotFound), http.StatusNotFound},
		{errors.New("connection refused"), http.StatusInternalServerError},
	}

	for _, test := range tests {
		if got := briefs.MapHTTPStatus(test.err); got != test.want {
			t.Errorf("MapHTTPStatus(%v) = %d, want %d", test.err, got, test.want)
		}
	}
}
