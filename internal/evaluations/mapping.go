package evaluations

import (
	"net/url"
	"strconv"

	"github.com/JaimeStill/vantage/pkg/query"
	"github.com/JaimeStill/vantage/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "evaluation_runs", "r").
	Project("id", "ID").
	Project("content_type", "ContentType").
	Project("content_id", "ContentID").
	Project("hallucination_score", "HallucinationScore").
	Project("grounding_score", "GroundingScore").
	Project("relevance_score", "RelevanceScore").
	Project("actionability_score", "ActionabilityScore").
	Project("coherence_score", "CoherenceScore").
	Project("overall_score", "OverallScore").
	Project("passed", "Passed").
	Project("threshold", "Threshold").
	Project("evaluator_model", "EvaluatorModel").
	Project("evaluation_method", "EvaluationMethod").
	Project("created_at", "CreatedAt")

var defaultSort = query.SortField{
	Field:      "CreatedAt",
	Descending: true,
}

// Filters contains optional filtering criteria for evaluation run queries.
type Filters struct {
	ContentType *string `json:"content_type,omitempty"`
	Passed      *bool   `json:"passed,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("ContentType", f.ContentType).
		WhereEquals("Passed", f.Passed)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if v := values.Get("content_type"); v != "" {
		f.ContentType = &v
	}
	if v := values.Get("passed"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			f.Passed = &b
		}
	}

	return f
}

func scanRun(s repository.Scanner) (EvaluationRun, error) {
	var r EvaluationRun

	err := s.Scan(
		&r.ID,
		&r.ContentType,
		&r.ContentID,
		&r.HallucinationScore,
		&r.GroundingScore,
		&r.RelevanceScore,
		&r.ActionabilityScore,
		&r.CoherenceScore,
		&r.OverallScore,
		&r.Passed,
		&r.Threshold,
		&r.EvaluatorModel,
		&r.EvaluationMethod,
		&r.CreatedAt,
	)

	return r, err
}

func scanIssue(s repository.Scanner) (EvaluationIssue, error) {
	var i EvaluationIssue
	var signalIDs repository.JSON[[]string]
	var entities repository.JSON[[]string]
	var details repository.JSON[map[string]any]

	err := s.Scan(
		&i.ID,
		&i.EvaluationRunID,
		&i.IssueType,
		&i.Severity,
		&i.Description,
		&signalIDs,
		&entities,
		&details,
		&i.CreatedAt,
	)

	if err != nil {
		return i, err
	}

	i.AffectedSignalIDs = signalIDs.V
	i.AffectedEntities = entities.V
	i.Details = details.V

	return i, nil
}
