// Package themes implements theme synthesis: clustering weekly signals by
// topic, aggregating confidence and impact coverage, flagging competitor
// activity, and ranking the results for brief assembly.
package themes

import (
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/vantage/internal/signals"
)

// CompetitorPrefix marks competitor-focused theme titles.
const CompetitorPrefix = "COMPETITOR: "

// Theme represents a persisted synthesis of related signals. Themes are
// never edited in place; regeneration deletes and recreates them.
type Theme struct {
	ID                  uuid.UUID   `json:"id"`
	Title               string      `json:"title"`
	SignalIDs           []uuid.UUID `json:"signal_ids"`
	KeyPlayers          []string    `json:"key_players"`
	AggregateConfidence string      `json:"aggregate_confidence"`
	ImpactAreas         []string    `json:"impact_areas"`
	SoWhat              string      `json:"so_what"`
	NowWhat             []string    `json:"now_what"`
	IsCompetitor        bool        `json:"is_competitor"`
	CreatedAt           time.Time   `json:"created_at"`
}

// Draft is a synthesized theme before narrative generation and persistence.
// Signals carries the full cluster so downstream stages can ground prompts
// in evidence snippets.
type Draft struct {
	Topic               string
	Title               string
	Signals             []signals.Signal
	KeyPlayers          []string
	Competitors         []string
	AggregateConfidence string
	ImpactAreas         []string
	SoWhat              string
	NowWhat             []string
	IsCompetitor        bool
}

// SignalIDs returns the ids of the draft's signals in cluster order.
func (d Draft) SignalIDs() []uuid.UUID {
	ids := make([]uuid.UUID, len(d.Signals))
	for i, s := range d.Signals {
		ids[i] = s.ID
	}
	return ids
}
