package signals

import (
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/vantage/pkg/query"
	"github.com/JaimeStill/vantage/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "signals", "s").
	Project("id", "ID").
	Project("entity", "Entity").
	Project("event_type", "EventType").
	Project("topic", "Topic").
	Project("source_url", "SourceURL").
	Project("evidence_snippet", "EvidenceSnippet").
	Project("confidence", "Confidence").
	Project("impact_areas", "ImpactAreas").
	Project("entity_tags", "EntityTags").
	Project("status", "Status").
	Project("curator_name", "CuratorName").
	Project("reviewed_by", "ReviewedBy").
	Project("reviewed_at", "ReviewedAt").
	Project("notes", "Notes").
	Project("data_source_id", "DataSourceID").
	Project("embedding", "Embedding").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt").
	Project("deleted_at", "DeletedAt")

var defaultSort = query.SortField{
	Field:      "CreatedAt",
	Descending: true,
}

// Filters contains optional filtering criteria for signal queries.
// Nil fields are ignored. Entity and Topic use partial matching; Segment
// filters through entity links.
type Filters struct {
	Entity     *string    `json:"entity,omitempty"`
	Topic      *string    `json:"topic,omitempty"`
	Status     *string    `json:"status,omitempty"`
	EventType  *string    `json:"event_type,omitempty"`
	ImpactArea *string    `json:"impact_area,omitempty"`
	Segment    *string    `json:"segment,omitempty"`
	StartDate  *time.Time `json:"start_date,omitempty"`
	EndDate    *time.Time `json:"end_date,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	b.
		WhereContains("Entity", f.Entity).
		WhereContains("Topic", f.Topic).
		WhereEquals("Status", f.Status).
		WhereEquals("EventType", f.EventType)

	if f.ImpactArea != nil {
		b.WhereRaw("s.impact_areas @> jsonb_build_array($%d::text)", *f.ImpactArea)
	}

	if f.Segment != nil {
		b.WhereRaw(`EXISTS (
			SELECT 1 FROM signal_entities se
			JOIN entities e ON e.id = se.entity_id
			WHERE se.signal_id = s.id AND e.segment = $%d
		)`, *f.Segment)
	}

	if f.StartDate != nil {
		b.WhereRaw("s.created_at >= $%d", *f.StartDate)
	}

	if f.EndDate != nil {
		b.WhereRaw("s.created_at <= $%d", *f.EndDate)
	}

	return b
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if v := values.Get("entity"); v != "" {
		f.Entity = &v
	}
	if v := values.Get("topic"); v != "" {
		f.Topic = &v
	}
	if v := values.Get("status"); v != "" {
		f.Status = &v
	}
	if v := values.Get("event_type"); v != "" {
		f.EventType = &v
	}
	if v := values.Get("impact_area"); v != "" {
		f.ImpactArea = &v
	}
	if v := values.Get("segment"); v != "" {
		f.Segment = &v
	}
	if v := values.Get("start_date"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			f.StartDate = &t
		}
	}
	if v := values.Get("end_date"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			end := t.Add(24*time.Hour - time.Nanosecond)
			f.EndDate = &end
		}
	}

	return f
}

func scanSignal(s repository.Scanner) (Signal, error) {
	var sig Signal
	var impactAreas repository.JSON[[]string]
	var entityTags repository.JSON[[]string]
	var embedding repository.JSON[[]float32]
	var dataSourceID uuid.NullUUID

	err := s.Scan(
		&sig.ID,
		&sig.Entity,
		&sig.EventType,
		&sig.Topic,
		&sig.SourceURL,
		&sig.EvidenceSnippet,
		&sig.Confidence,
		&impactAreas,
		&entityTags,
		&sig.Status,
		&sig.CuratorName,
		&sig.ReviewedBy,
		&sig.ReviewedAt,
		&sig.Notes,
		&dataSourceID,
		&embedding,
		&sig.CreatedAt,
		&sig.UpdatedAt,
		&sig.DeletedAt,
	)

	if err != nil {
		return sig, err
	}

	sig.ImpactAreas = impactAreas.V
	sig.EntityTags = entityTags.V
	sig.Embedding = embedding.V

	if dataSourceID.Valid {
		id := dataSourceID.UUID
		sig.DataSourceID = &id
	}

	if sig.ImpactAreas == nil {
		sig.ImpactAreas = []string{}
	}
	if sig.EntityTags == nil {
		sig.EntityTags = []string{}
	}

	return sig, nil
}
