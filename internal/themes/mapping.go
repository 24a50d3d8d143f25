package themes

import (
	"github.com/google/uuid"

	"github.com/JaimeStill/vantage/pkg/query"
	"github.com/JaimeStill/vantage/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "themes", "t").
	Project("id", "ID").
	Project("title", "Title").
	Project("signal_ids", "SignalIDs").
	Project("key_players", "KeyPlayers").
	Project("aggregate_confidence", "AggregateConfidence").
	Project("impact_areas", "ImpactAreas").
	Project("so_what", "SoWhat").
	Project("now_what", "NowWhat").
	Project("is_competitor", "IsCompetitor").
	Project("created_at", "CreatedAt")

var defaultSort = query.SortField{
	Field:      "CreatedAt",
	Descending: true,
}

func scanTheme(s repository.Scanner) (Theme, error) {
	var t Theme
	var signalIDs repository.JSON[[]uuid.UUID]
	var keyPlayers repository.JSON[[]string]
	var impactAreas repository.JSON[[]string]
	var nowWhat repository.JSON[[]string]

	err := s.Scan(
		&t.ID,
		&t.Title,
		&signalIDs,
		&keyPlayers,
		&t.AggregateConfidence,
		&impactAreas,
		&t.SoWhat,
		&nowWhat,
		&t.IsCompetitor,
		&t.CreatedAt,
	)

	if err != nil {
		return t, err
	}

	t.SignalIDs = signalIDs.V
	t.KeyPlayers = keyPlayers.V
	t.ImpactAreas = impactAreas.V
	t.NowWhat = nowWhat.V

	if t.SignalIDs == nil {
		t.SignalIDs = []uuid.UUID{}
	}
	if t.KeyPlayers == nil {
		t.KeyPlayers = []string{}
	}
	if t.ImpactAreas == nil {
		t.ImpactAreas = []string{}
	}
	if t.NowWhat == nil {
		t.NowWhat = []string{}
	}

	return t, nil
}
