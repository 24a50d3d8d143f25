package sources

import (
	"net/url"
	"strconv"

	"github.com/JaimeStill/vantage/pkg/query"
	"github.com/JaimeStill/vantage/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "data_sources", "d").
	Project("id", "ID").
	Project("name", "Name").
	Project("source_type", "SourceType").
	Project("url", "URL").
	Project("config", "Config").
	Project("enabled", "Enabled").
	Project("last_fetched_at", "LastFetchedAt").
	Project("last_success_at", "LastSuccessAt").
	Project("error_count", "ErrorCount").
	Project("last_error", "LastError").
	Project("default_confidence", "DefaultConfidence").
	Project("default_impact_areas", "DefaultImpactAreas").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

var defaultSort = query.SortField{
	Field: "Name",
}

// Filters contains optional filtering criteria for data source queries.
type Filters struct {
	SourceType *string `json:"source_type,omitempty"`
	Enabled    *bool   `json:"enabled,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("SourceType", f.SourceType).
		WhereEquals("Enabled", f.Enabled)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if v := values.Get("source_type"); v != "" {
		f.SourceType = &v
	}
	if v := values.Get("enabled"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			f.Enabled = &b
		}
	}

	return f
}

func scanSource(s repository.Scanner) (DataSource, error) {
	var d DataSource
	var config repository.JSON[map[string]any]
	var impactAreas repository.JSON[[]string]

	err := s.Scan(
		&d.ID,
		&d.Name,
		&d.SourceType,
		&d.URL,
		&config,
		&d.Enabled,
		&d.LastFetchedAt,
		&d.LastSuccessAt,
		&d.ErrorCount,
		&d.LastError,
		&d.DefaultConfidence,
		&impactAreas,
		&d.CreatedAt,
		&d.UpdatedAt,
	)

	if err != nil {
		return d, err
	}

	d.Config = config.V
	d.DefaultImpactAreas = impactAreas.V

	if d.DefaultImpactAreas == nil {
		d.DefaultImpactAreas = []string{}
	}

	return d, nil
}
