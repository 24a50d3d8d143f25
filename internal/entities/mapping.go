package entities

import (
	"net/url"

	"github.com/JaimeStill/vantage/pkg/query"
	"github.com/JaimeStill/vantage/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "entities", "e").
	Project("id", "ID").
	Project("name", "Name").
	Project("segment", "Segment").
	Project("aliases", "Aliases").
	Project("metadata", "Metadata").
	Project("notes", "Notes").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

var defaultSort = query.SortField{
	Field: "Name",
}

// Filters contains optional filtering criteria for entity queries.
// Nil fields are ignored. All fields use exact matching.
type Filters struct {
	Segment *string `json:"segment,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.WhereEquals("Segment", f.Segment)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if s := values.Get("segment"); s != "" {
		f.Segment = &s
	}

	return f
}

func scanEntity(s repository.Scanner) (Entity, error) {
	var e Entity
	var aliases repository.JSON[[]string]
	var metadata repository.JSON[map[string]any]

	err := s.Scan(
		&e.ID,
		&e.Name,
		&e.Segment,
		&aliases,
		&metadata,
		&e.Notes,
		&e.CreatedAt,
		&e.UpdatedAt,
	)

	if err != nil {
		return e, err
	}

	e.Aliases = aliases.V
	e.Metadata = metadata.V

	if e.Aliases == nil {
		e.Aliases = []string{}
	}

	return e, nil
}
