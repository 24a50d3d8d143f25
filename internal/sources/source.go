// Package sources implements the data source catalog: configured feeds and
// sites the collection job pulls from, with per-source collection
// bookkeeping.
package sources

import (
	"time"

	"github.com/google/uuid"
)

// Source types supported by the collection pipeline.
const (
	TypeRSS      = "rss"
	TypeWeb      = "web"
	TypeLinkedIn = "linkedin"
	TypeEmail    = "email"
)

// DataSource represents a configured collection source.
type DataSource struct {
	ID                 uuid.UUID      `json:"id"`
	Name               string         `json:"name"`
	SourceType         string         `json:"source_type"`
	URL                *string        `json:"url"`
	Config             map[string]any `json:"config,omitempty"`
	Enabled            bool           `json:"enabled"`
	LastFetchedAt      *time.Time     `json:"last_fetched_at"`
	LastSuccessAt      *time.Time     `json:"last_success_at"`
	ErrorCount         int            `json:"error_count"`
	LastError          *string        `json:"last_error"`
	DefaultConfidence  string         `json:"default_confidence"`
	DefaultImpactAreas []string       `json:"default_impact_areas"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
}

// CreateCommand carries the data needed to register a data source.
type CreateCommand struct {
	Name               string         `json:"name"`
	SourceType         string         `json:"source_type"`
	URL                *string        `json:"url"`
	Config             map[string]any `json:"config,omitempty"`
	Enabled            *bool          `json:"enabled"`
	DefaultConfidence  string         `json:"default_confidence"`
	DefaultImpactAreas []string       `json:"default_impact_areas"`
}

// UpdateCommand carries the data needed to update a data source.
// Nil fields are left unchanged.
type UpdateCommand struct {
	Name               *string        `json:"name"`
	URL                *string        `json:"url"`
	Config             map[string]any `json:"config,omitempty"`
	Enabled            *bool          `json:"enabled"`
	DefaultConfidence  *string        `json:"default_confidence"`
	DefaultImpactAreas []string       `json:"default_impact_areas"`
}
