// Package entities implements the entity catalog domain for Vantage.
// It provides types, data access, and business logic for canonical entity
// records (publishers, competitors, industry bodies, influencers), alias
// resolution against free text, and segment inference for auto-created
// entities.
package entities

import (
	"time"

	"github.com/google/uuid"
)

// Segments an entity can belong to.
const (
	SegmentCustomer   = "customer"
	SegmentCompetitor = "competitor"
	SegmentIndustry   = "industry"
	SegmentInfluencer = "influencer"
)

// Entity represents a canonical entity record with its aliases and segment.
type Entity struct {
	ID        uuid.UUID      `json:"id"`
	Name      string         `json:"name"`
	Segment   string         `json:"segment"`
	Aliases   []string       `json:"aliases"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	Notes     *string        `json:"notes"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// CreateCommand carries the data needed to create a new entity.
type CreateCommand struct {
	Name     string         `json:"name"`
	Segment  string         `json:"segment"`
	Aliases  []string       `json:"aliases"`
	Metadata map[string]any `json:"metadata,omitempty"`
	Notes    *string        `json:"notes"`
}

// UpdateCommand carries the data needed to update an existing entity.
// Nil fields are left unchanged.
type UpdateCommand struct {
	Name     *string        `json:"name"`
	Segment  *string        `json:"segment"`
	Aliases  []string       `json:"aliases"`
	Metadata map[string]any `json:"metadata,omitempty"`
	Notes    *string        `json:"notes"`
}

// Match is a single entity resolved from free text.
type Match struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// SegmentStats summarizes signal activity for one segment.
type SegmentStats struct {
	Segment       string `json:"segment"`
	EntityCount   int    `json:"entity_count"`
	SignalCount   int    `json:"signal_count"`
	RecentSignals int    `json:"recent_signals"`
}
