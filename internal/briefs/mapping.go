package briefs

import (
	"github.com/google/uuid"

	"github.com/JaimeStill/vantage/pkg/query"
	"github.com/JaimeStill/vantage/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "weekly_briefs", "b").
	Project("id", "ID").
	Project("week_start", "WeekStart").
	Project("week_end", "WeekEnd").
	Project("theme_ids", "ThemeIDs").
	Project("total_signals", "TotalSignals").
	Project("coverage_areas", "CoverageAreas").
	Project("generated_at", "GeneratedAt")

var defaultSort = query.SortField{
	Field:      "GeneratedAt",
	Descending: true,
}

func scanBrief(s repository.Scanner) (WeeklyBrief, error) {
	var b WeeklyBrief
	var themeIDs repository.JSON[[]uuid.UUID]
	var coverageAreas repository.JSON[[]string]

	err := s.Scan(
		&b.ID,
		&b.WeekStart,
		&b.WeekEnd,
		&themeIDs,
		&b.TotalSignals,
		&coverageAreas,
		&b.GeneratedAt,
	)

	if err != nil {
		return b, err
	}

	b.ThemeIDs = themeIDs.V
	b.CoverageAreas = coverageAreas.V

	if b.ThemeIDs == nil {
		b.ThemeIDs = []uuid.UUID{}
	}
	if b.CoverageAreas == nil {
		b.CoverageAreas = []string{}
	}

	return b, nil
}
