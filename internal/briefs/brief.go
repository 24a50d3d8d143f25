// Package briefs implements the weekly brief store: assembled intelligence
// briefs referencing ranked themes over a rolling 7-day signal window.
package briefs

import (
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/vantage/internal/signals"
	"github.com/JaimeStill/vantage/internal/themes"
)

// WeeklyBrief represents one generated brief. ThemeIDs preserves theme
// rank order. A (week_start, week_end) pair is generated at most once.
type WeeklyBrief struct {
	ID            uuid.UUID   `json:"id"`
	WeekStart     time.Time   `json:"week_start"`
	WeekEnd       time.Time   `json:"week_end"`
	ThemeIDs      []uuid.UUID `json:"theme_ids"`
	TotalSignals  int         `json:"total_signals"`
	CoverageAreas []string    `json:"coverage_areas"`
	GeneratedAt   time.Time   `json:"generated_at"`
}

// CreateCommand carries the data needed to record a generated brief.
type CreateCommand struct {
	WeekStart     time.Time
	WeekEnd       time.Time
	ThemeIDs      []uuid.UUID
	TotalSignals  int
	CoverageAreas []string
}

// ThemeView pairs a theme with its cited signals for the full brief view.
type ThemeView struct {
	themes.Theme
	Signals []signals.Signal `json:"signals"`
}

// FullBrief is a brief expanded with its themes and their signals.
type FullBrief struct {
	ID            uuid.UUID   `json:"id"`
	WeekStart     time.Time   `json:"week_start"`
	WeekEnd       time.Time   `json:"week_end"`
	TotalSignals  int         `json:"total_signals"`
	CoverageAreas []string    `json:"coverage_areas"`
	Themes        []ThemeView `json:"themes"`
	GeneratedAt   time.Time   `json:"generated_at"`
}

// WeekBoundaries computes the rolling 7-day window ending on the reference
// date. Both boundaries are UTC dates at midnight; the signal window runs
// through the end of the week_end day.
func WeekBoundaries(reference time.Time) (time.Time, time.Time) {
	ref := reference.UTC()
	end := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, time.UTC)
	start := end.AddDate(0, 0, -6)
	return start, end
}
