package workflow

import (
	"context"
	"errors"
	"fmt"
	"time"

	gaoconfig "github.com/JaimeStill/go-agents-orchestration/pkg/config"
	"github.com/JaimeStill/go-agents-orchestration/pkg/state"

	"github.com/JaimeStill/vantage/internal/briefs"
)

// State keys shared across pipeline nodes.
const (
	KeyWeekStart  = "week_start"
	KeyWeekEnd    = "week_end"
	KeySignals    = "signals"
	KeyDrafts     = "drafts"
	KeyThemes     = "themes"
	KeyBrief      = "brief"
	KeyEvalPassed = "eval_passed"
	KeyEvalFailed = "eval_failed"
	KeyErrors     = "errors"
	KeyPublished  = "published"
)

// Result summarizes one brief generation run. Existing reports that an
// already-generated brief was returned untouched. Errors carries degraded
// evaluation and publication failures.
type Result struct {
	Brief             *briefs.WeeklyBrief `json:"brief,omitempty"`
	Existing          bool                `json:"existing"`
	SignalsProcessed  int                 `json:"signals_processed"`
	ThemesCreated     int                 `json:"themes_created"`
	EvaluationsRun    int                 `json:"evaluations_run"`
	EvaluationsPassed int                 `json:"evaluations_passed"`
	Published         bool                `json:"published"`
	Errors            []string            `json:"errors,omitempty"`
	CompletedAt       time.Time           `json:"completed_at"`
}

// Execute runs the brief generation pipeline for the week ending on the
// reference date. Idempotent: an existing brief for the week is returned
// untouched before any state is written. A week with no signals produces
// no brief and a zero-count result.
func Execute(ctx context.Context, rt *Runtime, referenceDate time.Time) (*Result, error) {
	weekStart, weekEnd := briefs.WeekBoundaries(referenceDate)

	existing, err := rt.Briefs.ForWeek(ctx, weekStart, weekEnd)
	if err != nil && !errors.Is(err, briefs.ErrNotFound) {
		return nil, fmt.Errorf("check existing brief: %w", err)
	}
	if existing != nil {
		rt.Logger.Info("brief already exists for week",
			"brief_id", existing.ID,
			"week_start", weekStart.Format("2006-01-02"),
		)
		return &Result{
			Brief:            existing,
			Existing:         true,
			SignalsProcessed: existing.TotalSignals,
			ThemesCreated:    len(existing.ThemeIDs),
			CompletedAt:      time.Now(),
		}, nil
	}

	graph, err := buildGraph(rt)
	if err != nil {
		return nil, fmt.Errorf("build graph: %w", err)
	}

	initial := state.New(nil)
	initial = initial.Set(KeyWeekStart, weekStart)
	initial = initial.Set(KeyWeekEnd, weekEnd)

	final, err := graph.Execute(ctx, initial)
	if err != nil {
		return nil, fmt.Errorf("execute graph: %w", err)
	}

	return extractResult(final)
}

func buildGraph(rt *Runtime) (state.StateGraph, error) {
	cfg := gaoconfig.DefaultGraphConfig("vantage-brief")
	cfg.Observer = "noop"

	graph, err := state.NewGraph(cfg)
	if err != nil {
		return nil, err
	}

	if err := graph.AddNode("select", SelectNode(rt)); err != nil {
		return nil, err
	}

	if err := graph.AddNode("synthesize", SynthesizeNode(rt)); err != nil {
		return nil, err
	}

	if err := graph.AddNode("narrate", NarrateNode(rt)); err != nil {
		return nil, err
	}

	if err := graph.AddNode("persist", PersistNode(rt)); err != nil {
		return nil, err
	}

	if err := graph.AddNode("evaluate", EvaluateNode(rt)); err != nil {
		return nil, err
	}

	if err := graph.AddNode("publish", PublishNode(rt)); err != nil {
		return nil, err
	}

	// select → publish (no signals for the week; nothing downstream to do)
	if err := graph.AddEdge("select", "publish", state.Not(hasSignals)); err != nil {
		return nil, err
	}

	if err := graph.AddEdge("select", "synthesize", hasSignals); err != nil {
		return nil, err
	}

	if err := graph.AddEdge("synthesize", "narrate", nil); err != nil {
		return nil, err
	}

	if err := graph.AddEdge("narrate", "persist", nil); err != nil {
		return nil, err
	}

	if err := graph.AddEdge("persist", "evaluate", nil); err != nil {
		return nil, err
	}

	if err := graph.AddEdge("evaluate", "publish", nil); err != nil {
		return nil, err
	}

	if err := graph.SetEntryPoint("select"); err != nil {
		return nil, err
	}

	if err := graph.SetExitPoint("publish"); err != nil {
		return nil, err
	}

	return graph, nil
}

func hasSignals(s state.State) bool {
	sigs, ok := stateSignals(s)
	return ok && len(sigs) > 0
}

func extractResult(s state.State) (*Result, error) {
	result := &Result{CompletedAt: time.Now()}

	if sigs, ok := stateSignals(s); ok {
		result.SignalsProcessed = len(sigs)
	}

	if val, ok := s.Get(KeyBrief); ok {
		if brief, ok := val.(briefs.WeeklyBrief); ok {
			result.Brief = &brief
			result.ThemesCreated = len(brief.ThemeIDs)
		}
	}

	if val, ok := s.Get(KeyEvalPassed); ok {
		if passed, ok := val.(int); ok {
			result.EvaluationsPassed = passed
		}
	}

	if val, ok := s.Get(KeyEvalFailed); ok {
		if failed, ok := val.(int); ok {
			result.EvaluationsRun = result.EvaluationsPassed + failed
		}
	}

	if val, ok := s.Get(KeyPublished); ok {
		if published, ok := val.(bool); ok {
			result.Published = published
		}
	}

	if val, ok := s.Get(KeyErrors); ok {
		if errs, ok := val.([]string); ok {
			result.Errors = errs
		}
	}

	return result, nil
}

func appendError(s state.State, msg string) state.State {
	var errs []string
	if val, ok := s.Get(KeyErrors); ok {
		if existing, ok := val.([]string); ok {
			errs = existing
		}
	}
	return s.Set(KeyErrors, append(errs, msg))
}
