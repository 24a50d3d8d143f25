// Package signals implements the signal store: curated market intelligence
// observations with classification metadata, entity links, review workflow,
// soft deletion, and optional embedding-backed semantic search.
package signals

import (
	"time"

	"github.com/google/uuid"
)

// Review statuses a signal can carry.
const (
	StatusPendingReview = "pending_review"
	StatusApproved      = "approved"
	StatusRejected      = "rejected"
)

// Signal represents a single classified market intelligence observation.
// EvidenceSnippet is the only citable text; downstream narrative and
// evaluation stages must ground claims in it.
type Signal struct {
	ID              uuid.UUID    `json:"id"`
	Entity          string       `json:"entity"`
	EventType       string       `json:"event_type"`
	Topic           string       `json:"topic"`
	SourceURL       string       `json:"source_url"`
	EvidenceSnippet string       `json:"evidence_snippet"`
	Confidence      string       `json:"confidence"`
	ImpactAreas     []string     `json:"impact_areas"`
	EntityTags      []string     `json:"entity_tags"`
	Status          string       `json:"status"`
	CuratorName     *string      `json:"curator_name"`
	ReviewedBy      *string      `json:"reviewed_by"`
	ReviewedAt      *time.Time   `json:"reviewed_at"`
	Notes           *string      `json:"notes"`
	DataSourceID    *uuid.UUID   `json:"data_source_id"`
	Embedding       []float32    `json:"-"`
	EntityLinks     []EntityLink `json:"entity_links,omitempty"`
	CreatedAt       time.Time    `json:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at"`
	DeletedAt       *time.Time   `json:"deleted_at,omitempty"`
}

// EntityLink associates a signal with a resolved entity. The first link
// recorded for a signal is primary.
type EntityLink struct {
	EntityID  uuid.UUID `json:"entity_id"`
	Name      string    `json:"name"`
	Segment   string    `json:"segment"`
	IsPrimary bool      `json:"is_primary"`
}

// CreateCommand carries the data needed to create a signal manually.
type CreateCommand struct {
	Entity          string     `json:"entity"`
	EventType       string     `json:"event_type"`
	Topic           string     `json:"topic"`
	SourceURL       string     `json:"source_url"`
	EvidenceSnippet string     `json:"evidence_snippet"`
	Confidence      string     `json:"confidence"`
	ImpactAreas     []string   `json:"impact_areas"`
	EntityTags      []string   `json:"entity_tags"`
	Status          string     `json:"status"`
	CuratorName     *string    `json:"curator_name"`
	Notes           *string    `json:"notes"`
	DataSourceID    *uuid.UUID `json:"data_source_id"`
}

// CollectorSignal is a signal produced by an automated collector before
// entity resolution. Title participates in embedding text only.
type CollectorSignal struct {
	Title           string
	Entity          string
	EventType       string
	Topic           string
	SourceURL       string
	EvidenceSnippet string
	Confidence      string
	ImpactAreas     []string
	EntityTags      []string
	Status          string
	Notes           *string
	DataSourceID    *uuid.UUID
}

// ReviewCommand carries a curator's review decision.
type ReviewCommand struct {
	Status       string `json:"status"`
	ReviewerName string `json:"reviewer_name"`
}

// SearchResult pairs a signal with its semantic similarity to a query.
type SearchResult struct {
	Signal     Signal  `json:"signal"`
	Similarity float32 `json:"similarity"`
}
