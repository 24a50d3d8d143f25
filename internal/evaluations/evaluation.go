// Package evaluations implements the anti-hallucination quality gate for
// generated content: deterministic rule checks against stored signals
// combined with LLM-as-judge scoring, persisted as immutable evaluation
// runs with their issues.
package evaluations

import (
	"time"

	"github.com/google/uuid"
)

// Content types the evaluator understands.
const (
	ContentTheme         = "theme"
	ContentWeeklyBrief   = "weekly_brief"
	ContentSignalSummary = "signal_summary"
)

// Issue severities and their score penalties.
const (
	SeverityCritical = "critical"
	SeverityMajor    = "major"
	SeverityMinor    = "minor"
)

// Score penalties per issue severity, applied to a 10.0 base and clamped
// to [0, 10].
const (
	PenaltyCritical = 3.0
	PenaltyMajor    = 1.5
	PenaltyMinor    = 0.5
)

// EvaluationRun is one immutable evaluation of a piece of generated
// content. Overall is the mean of the five dimension scores; Passed
// compares it against Threshold.
type EvaluationRun struct {
	ID                 uuid.UUID         `json:"id"`
	ContentType        string            `json:"content_type"`
	ContentID          uuid.UUID         `json:"content_id"`
	HallucinationScore float64           `json:"hallucination_score"`
	GroundingScore     float64           `json:"grounding_score"`
	RelevanceScore     float64           `json:"relevance_score"`
	ActionabilityScore float64           `json:"actionability_score"`
	CoherenceScore     float64           `json:"coherence_score"`
	OverallScore       float64           `json:"overall_score"`
	Passed             bool              `json:"passed"`
	Threshold          float64           `json:"threshold"`
	EvaluatorModel     string            `json:"evaluator_model"`
	EvaluationMethod   string            `json:"evaluation_method"`
	Issues             []EvaluationIssue `json:"issues,omitempty"`
	CreatedAt          time.Time         `json:"created_at"`
}

// EvaluationIssue is a single problem found during an evaluation run.
type EvaluationIssue struct {
	ID                uuid.UUID      `json:"id"`
	EvaluationRunID   uuid.UUID      `json:"evaluation_run_id"`
	IssueType         string         `json:"issue_type"`
	Severity          string         `json:"severity"`
	Description       string         `json:"description"`
	AffectedSignalIDs []string       `json:"affected_signal_ids,omitempty"`
	AffectedEntities  []string       `json:"affected_entities,omitempty"`
	Details           map[string]any `json:"details,omitempty"`
	CreatedAt         time.Time      `json:"created_at"`
}

// Issue is an in-flight issue produced by a rule check or the judge before
// persistence.
type Issue struct {
	Type        string
	Severity    string
	Description string
	SignalIDs   []string
	Entities    []string
	Details     map[string]any
}

// ScoreIssues derives a 0-10 score from a 10.0 base minus per-severity
// penalties, clamped to [0, 10].
func ScoreIssues(issues []Issue) float64 {
	score := 10.0
	for _, issue := range issues {
		switch issue.Severity {
		case SeverityCritical:
			score -= PenaltyCritical
		case SeverityMajor:
			score -= PenaltyMajor
		case SeverityMinor:
			score -= PenaltyMinor
		}
	}

	if score < 0 {
		score = 0
	}
	if score > 10 {
		score = 10
	}
	return score
}

// ValidContentType reports whether v is a recognized content type.
func ValidContentType(v string) bool {
	switch v {
	case ContentTheme, ContentWeeklyBrief, ContentSignalSummary:
		return true
	}
	return false
}
