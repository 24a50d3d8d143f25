package workflow

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"

	"github.com/JaimeStill/vantage/internal/briefs"
	"github.com/JaimeStill/vantage/internal/evaluations"
	"github.com/JaimeStill/vantage/internal/narrative"
	"github.com/JaimeStill/vantage/internal/signals"
	"github.com/JaimeStill/vantage/internal/themes"
)

// SelectNode loads the non-deleted signals for the week ending at
// KeyWeekEnd. An empty week is not an error; downstream routing skips to
// publish.
func SelectNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		weekEnd, err := stateTime(s, KeyWeekEnd)
		if err != nil {
			return s, fmt.Errorf("select: %w", err)
		}

		sigs, err := rt.Signals.ForWeek(ctx, weekEnd)
		if err != nil {
			return s, fmt.Errorf("select: signals for week: %w", err)
		}

		rt.Logger.InfoContext(ctx, "select node complete",
			"signals", len(sigs),
			"week_end", weekEnd.Format("2006-01-02"),
		)

		return s.Set(KeySignals, sigs), nil
	})
}

// SynthesizeNode clusters the week's signals into ranked theme drafts.
func SynthesizeNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		sigs, ok := stateSignals(s)
		if !ok {
			return s, fmt.Errorf("synthesize: missing %s in state", KeySignals)
		}

		drafts := themes.Synthesize(sigs, rt.CompetitorThreshold)

		rt.Logger.InfoContext(ctx, "synthesize node complete",
			"themes", len(drafts),
		)

		return s.Set(KeyDrafts, drafts), nil
	})
}

// NarrateNode fills each draft's So What and Now What narratives. The
// generator degrades to deterministic templates internally, so this node
// never fails a run.
func NarrateNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		drafts, err := stateDrafts(s)
		if err != nil {
			return s, fmt.Errorf("narrate: %w", err)
		}

		generated := 0
		for i := range drafts {
			tc := narrative.Context{
				Topic:        drafts[i].Topic,
				Signals:      drafts[i].Signals,
				ImpactAreas:  drafts[i].ImpactAreas,
				Competitors:  drafts[i].Competitors,
				IsCompetitor: drafts[i].IsCompetitor,
			}

			soWhat := rt.Narrative.SoWhat(ctx, tc)
			nowWhat := rt.Narrative.NowWhat(ctx, tc)

			drafts[i].SoWhat = soWhat.Text
			drafts[i].NowWhat = nowWhat.Actions

			if soWhat.Source == narrative.SourceGenerated {
				generated++
			}
		}

		rt.Logger.InfoContext(ctx, "narrate node complete",
			"themes", len(drafts),
			"generated", generated,
		)

		return s.Set(KeyDrafts, drafts), nil
	})
}

// PersistNode saves themes in rank order and records the brief row.
func PersistNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		drafts, err := stateDrafts(s)
		if err != nil {
			return s, fmt.Errorf("persist: %w", err)
		}

		weekStart, err := stateTime(s, KeyWeekStart)
		if err != nil {
			return s, fmt.Errorf("persist: %w", err)
		}

		weekEnd, err := stateTime(s, KeyWeekEnd)
		if err != nil {
			return s, fmt.Errorf("persist: %w", err)
		}

		sigs, _ := stateSignals(s)

		saved := make([]themes.Theme, 0, len(drafts))
		for _, draft := range drafts {
			theme, err := rt.Themes.Save(ctx, draft)
			if err != nil {
				return s, fmt.Errorf("persist: save theme %q: %w", draft.Title, err)
			}
			saved = append(saved, *theme)
		}

		themeIDs := make([]uuid.UUID, len(saved))
		for i, t := range saved {
			themeIDs[i] = t.ID
		}

		brief, err := rt.Briefs.Create(ctx, briefs.CreateCommand{
			WeekStart:     weekStart,
			WeekEnd:       weekEnd,
			ThemeIDs:      themeIDs,
			TotalSignals:  len(sigs),
			CoverageAreas: coverageAreas(saved),
		})
		if err != nil {
			return s, fmt.Errorf("persist: create brief: %w", err)
		}

		rt.Logger.InfoContext(ctx, "persist node complete",
			"brief_id", brief.ID,
			"themes", len(saved),
		)

		s = s.Set(KeyThemes, saved)
		return s.Set(KeyBrief, *brief), nil
	})
}

// EvaluateNode runs the quality gate over each persisted theme. Evaluation
// failures are recorded in state and never abort the run.
func EvaluateNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		saved, err := stateThemes(s)
		if err != nil {
			return s, fmt.Errorf("evaluate: %w", err)
		}

		passed, failed := 0, 0
		for _, theme := range saved {
			run, err := rt.Evaluations.Evaluate(ctx, evaluations.ContentTheme, theme.ID, themeContent(theme))
			if err != nil {
				failed++
				s = appendError(s, fmt.Sprintf("evaluate theme %q: %v", theme.Title, err))
				rt.Logger.WarnContext(ctx, "theme evaluation failed",
					"theme_id", theme.ID,
					"error", err,
				)
				continue
			}

			if run.Passed {
				passed++
			} else {
				failed++
			}
		}

		rt.Logger.InfoContext(ctx, "evaluate node complete",
			"passed", passed,
			"failed", failed,
		)

		s = s.Set(KeyEvalPassed, passed)
		return s.Set(KeyEvalFailed, failed), nil
	})
}

// PublishNode uploads a JSON snapshot of the full brief to blob storage.
// Publication is best-effort: misconfigured storage or upload failures are
// recorded and the run still succeeds.
func PublishNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		val, ok := s.Get(KeyBrief)
		if !ok {
			rt.Logger.InfoContext(ctx, "publish node complete", "published", false)
			return s.Set(KeyPublished, false), nil
		}

		brief, ok := val.(briefs.WeeklyBrief)
		if !ok {
			return s, fmt.Errorf("publish: %s is not WeeklyBrief", KeyBrief)
		}

		if rt.Storage == nil {
			rt.Logger.WarnContext(ctx, "storage not configured, skipping publication")
			return s.Set(KeyPublished, false), nil
		}

		full, err := rt.Briefs.Full(ctx, brief.ID)
		if err != nil {
			s = appendError(s, fmt.Sprintf("publish: load full brief: %v", err))
			return s.Set(KeyPublished, false), nil
		}

		snapshot, err := json.MarshalIndent(full, "", "  ")
		if err != nil {
			s = appendError(s, fmt.Sprintf("publish: marshal snapshot: %v", err))
			return s.Set(KeyPublished, false), nil
		}

		key := snapshotKey(brief.WeekStart, brief.WeekEnd)
		if err := rt.Storage.Upload(ctx, key, bytes.NewReader(snapshot), "application/json"); err != nil {
			s = appendError(s, fmt.Sprintf("publish: upload snapshot: %v", err))
			rt.Logger.WarnContext(ctx, "snapshot upload failed",
				"key", key,
				"error", err,
			)
			return s.Set(KeyPublished, false), nil
		}

		rt.Logger.InfoContext(ctx, "publish node complete",
			"key", key,
			"published", true,
		)

		return s.Set(KeyPublished, true), nil
	})
}

func snapshotKey(weekStart, weekEnd time.Time) string {
	return fmt.Sprintf("briefs/%s_%s.json",
		weekStart.Format("2006-01-02"),
		weekEnd.Format("2006-01-02"),
	)
}

// themeContent shapes a persisted theme into the evaluation payload.
func themeContent(t themes.Theme) map[string]any {
	ids := make([]string, len(t.SignalIDs))
	for i, id := range t.SignalIDs {
		ids[i] = id.String()
	}

	return map[string]any{
		"title":       t.Title,
		"so_what":     t.SoWhat,
		"now_what":    t.NowWhat,
		"key_players": t.KeyPlayers,
		"signal_ids":  ids,
	}
}

func coverageAreas(saved []themes.Theme) []string {
	seen := make(map[string]bool)
	var areas []string
	for _, t := range saved {
		for _, area := range t.ImpactAreas {
			if !seen[area] {
				seen[area] = true
				areas = append(areas, area)
			}
		}
	}
	sort.Strings(areas)
	return areas
}

func stateSignals(s state.State) ([]signals.Signal, bool) {
	val, ok := s.Get(KeySignals)
	if !ok {
		return nil, false
	}

	sigs, ok := val.([]signals.Signal)
	return sigs, ok
}

func stateDrafts(s state.State) ([]themes.Draft, error) {
	val, ok := s.Get(KeyDrafts)
	if !ok {
		return nil, fmt.Errorf("missing %s in state", KeyDrafts)
	}

	drafts, ok := val.([]themes.Draft)
	if !ok {
		return nil, fmt.Errorf("%s is not []themes.Draft", KeyDrafts)
	}

	return drafts, nil
}

func stateThemes(s state.State) ([]themes.Theme, error) {
	val, ok := s.Get(KeyThemes)
	if !ok {
		return nil, fmt.Errorf("missing %s in state", KeyThemes)
	}

	saved, ok := val.([]themes.Theme)
	if !ok {
		return nil, fmt.Errorf("%s is not []themes.Theme", KeyThemes)
	}

	return saved, nil
}

func stateTime(s state.State, key string) (time.Time, error) {
	val, ok := s.Get(key)
	if !ok {
		return time.Time{}, fmt.Errorf("missing %s in state", key)
	}

	t, ok := val.(time.Time)
	if !ok {
		return time.Time{}, fmt.Errorf("%s is not time.Time", key)
	}

	return t, nil
}
