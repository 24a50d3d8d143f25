package evaluations

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/JaimeStill/vantage/internal/signals"
)

// ExtractSignalIDs pulls every cited signal id out of content data
// according to the content type's shape. Unparseable ids are skipped.
func ExtractSignalIDs(contentType string, data map[string]any) []uuid.UUID {
	var raw []any

	switch contentType {
	case ContentTheme:
		raw = anySlice(data["signal_ids"])
	case ContentSignalSummary:
		for _, insight := range anySlice(data["key_insights"]) {
			if m, ok := insight.(map[string]any); ok {
				raw = append(raw, anySlice(m["signal_ids"])...)
			}
		}
	case ContentWeeklyBrief:
		for _, theme := range anySlice(data["themes"]) {
			if m, ok := theme.(map[string]any); ok {
				raw = append(raw, anySlice(m["signal_ids"])...)
			}
		}
	}

	ids := make([]uuid.UUID, 0, len(raw))
	for _, v := range raw {
		if id, err := uuid.Parse(fmt.Sprint(v)); err == nil {
			ids = append(ids, id)
		}
	}
	return ids
}

// ExtractEntities pulls every entity name mentioned in content data
// according to the content type's shape.
func ExtractEntities(contentType string, data map[string]any) []string {
	seen := make(map[string]bool)
	var out []string

	add := func(values []any) {
		for _, v := range values {
			name := fmt.Sprint(v)
			if name != "" && !seen[name] {
				seen[name] = true
				out = append(out, name)
			}
		}
	}

	switch contentType {
	case ContentTheme:
		add(anySlice(data["key_players"]))
	case ContentSignalSummary:
		for _, insight := range anySlice(data["key_insights"]) {
			if m, ok := insight.(map[string]any); ok {
				add(anySlice(m["entities"]))
			}
		}
	case ContentWeeklyBrief:
		for _, theme := range anySlice(data["themes"]) {
			if m, ok := theme.(map[string]any); ok {
				add(anySlice(m["key_players"]))
			}
		}
	}

	return out
}

// CheckHallucinations runs the deterministic rule pass: cited signal ids
// must exist and be live, mentioned entities must appear in the cited
// signals, and summary signal counts must match. Returns the hallucination
// score, the issues found, and the cited signals it loaded so callers can
// reuse them without a second fetch.
func CheckHallucinations(
	ctx context.Context,
	store signals.System,
	contentType string,
	data map[string]any,
) (float64, []Issue, []signals.Signal, error) {
	var issues []Issue

	signalIDs := ExtractSignalIDs(contentType, data)

	var cited []signals.Signal
	if len(signalIDs) > 0 {
		var err error
		cited, err = store.ByIDs(ctx, signalIDs)
		if err != nil {
			return 0, nil, nil, fmt.Errorf("load cited signals: %w", err)
		}

		existing := make(map[uuid.UUID]bool, len(cited))
		for _, s := range cited {
			existing[s.ID] = true
		}

		var missing []string
		for _, id := range signalIDs {
			if !existing[id] {
				missing = append(missing, id.String())
			}
		}

		if len(missing) > 0 {
			issues = append(issues, Issue{
				Type:        "hallucination",
				Severity:    SeverityCritical,
				Description: fmt.Sprintf("Referenced %d non-existent signal IDs", len(missing)),
				SignalIDs:   missing,
				Details:     map[string]any{"missing_signal_ids": missing},
			})
		}
	}

	entities := ExtractEntities(contentType, data)
	if len(entities) > 0 && len(signalIDs) > 0 {
		known := make(map[string]bool)
		for _, s := range cited {
			known[s.Entity] = true
			for _, tag := range s.EntityTags {
				known[tag] = true
			}
		}

		var fabricated []string
		for _, e := range entities {
			if !known[e] {
				fabricated = append(fabricated, e)
			}
		}

		if len(fabricated) > 0 {
			issues = append(issues, Issue{
				Type:        "hallucination",
				Severity:    SeverityCritical,
				Description: fmt.Sprintf("Mentioned %d entities not found in source signals", len(fabricated)),
				Entities:    fabricated,
				Details:     map[string]any{"fabricated_entities": fabricated},
			})
		}
	}

	if contentType == ContentSignalSummary {
		claimed := intValue(data["total_signals"])
		actual := len(signalIDs)
		if claimed != actual {
			issues = append(issues, Issue{
				Type:        "hallucination",
				Severity:    SeverityMajor,
				Description: fmt.Sprintf("Claimed %d signals but actually used %d", claimed, actual),
				Details:     map[string]any{"claimed_count": claimed, "actual_count": actual},
			})
		}
	}

	return ScoreIssues(issues), issues, cited, nil
}

func anySlice(v any) []any {
	switch t := v.(type) {
	case []any:
		return t
	case []string:
		out := make([]any, len(t))
		for i, s := range t {
			out[i] = s
		}
		return out
	case []uuid.UUID:
		out := make([]any, len(t))
		for i, id := range t {
			out[i] = id.String()
		}
		return out
	case []map[string]any:
		out := make([]any, len(t))
		for i, m := range t {
			out[i] = m
		}
		return out
	default:
		return nil
	}
}

func intValue(v any) int {
	switch t := v.(type) {
	case int:
		return t
	case int64:
		return int(t)
	case float64:
		return int(t)
	default:
		return 0
	}
}
