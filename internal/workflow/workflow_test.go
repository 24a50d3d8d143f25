package workflow

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"
	"github.com/google/uuid"

	"github.com/JaimeStill/vantage/internal/briefs"
	"github.com/JaimeStill/vantage/internal/signals"
	"github.com/JaimeStill/vantage/internal/themes"
)

type fakeBriefs struct {
	briefs.System
	existing *briefs.WeeklyBrief
	created  int
}

func (f *fakeBriefs) ForWeek(ctx context.Context, weekStart, weekEnd time.Time) (*briefs.WeeklyBrief, error) {
	if f.existing != nil {
		return f.existing, nil
	}
	return nil, briefs.ErrNotFound
}

func (f *fakeBriefs) Create(ctx context.Context, cmd briefs.CreateCommand) (*briefs.WeeklyBrief, error) {
	f.created++
	return nil, briefs.ErrDuplicate
}

func TestExecuteReturnsExistingBrief(t *testing.T) {
	existing := &briefs.WeeklyBrief{
		ID:           uuid.New(),
		ThemeIDs:     []uuid.UUID{uuid.New(), uuid.New()},
		TotalSignals: 5,
	}
	store := &fakeBriefs{existing: existing}

	rt := &Runtime{
		Briefs: store,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	reference := time.Date(2026, time.March, 18, 9, 0, 0, 0, time.UTC)

	first, err := Execute(context.Background(), rt, reference)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !first.Existing {
		t.Error("Existing = false, want true")
	}

	if first.Brief == nil || first.Brief.ID != existing.ID {
		t.Errorf("Brief = %v, want id %s", first.Brief, existing.ID)
	}

	if first.SignalsProcessed != 5 {
		t.Errorf("SignalsProcessed = %d, want 5", first.SignalsProcessed)
	}

	if first.ThemesCreated != 2 {
		t.Errorf("ThemesCreated = %d, want 2", first.ThemesCreated)
	}

	// A second run for the same week returns the same brief untouched.
	second, err := Execute(context.Background(), rt, reference)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if second.Brief == nil || second.Brief.ID != first.Brief.ID {
		t.Errorf("second Brief = %v, want id %s", second.Brief, first.Brief.ID)
	}

	if store.created != 0 {
		t.Errorf("Create called %d times, want 0", store.created)
	}
}

func TestSnapshotKey(t *testing.T) {
	start := time.Date(2026, time.March, 12, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, time.March, 18, 0, 0, 0, 0, time.UTC)

	got := snapshotKey(start, end)
	want := "briefs/2026-03-12_2026-03-18.json"

	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestThemeContent(t *testing.T) {
	id := uuid.New()

	theme := themes.Theme{
		Title:      "AI: Straive",
		SignalIDs:  []uuid.UUID{id},
		KeyPlayers: []string{"Straive"},
		SoWhat:     "Straive is accelerating AI delivery.",
		NowWhat:    []string{"Assess AI delivery roadmap."},
	}

	content := themeContent(theme)

	if content["title"] != "AI: Straive" {
		t.Errorf("title = %v, want AI: Straive", content["title"])
	}

	if content["so_what"] != theme.SoWhat {
		t.Errorf("so_what = %v, want %v", content["so_what"], theme.SoWhat)
	}

	ids, ok := content["signal_ids"].([]string)
	if !ok {
		t.Fatalf("signal_ids is %T, want []string", content["signal_ids"])
	}

	if len(ids) != 1 || ids[0] != id.String() {
		t.Errorf("signal_ids = %v, want [%s]", ids, id)
	}
}

func TestCoverageAreas(t *testing.T) {
	saved := []themes.Theme{
		{ImpactAreas: []string{"Tech", "Ops"}},
		{ImpactAreas: []string{"Ops", "Integrity"}},
	}

	got := coverageAreas(saved)
	want := []string{"Integrity", "Ops", "Tech"}

	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}

	for i := range want {
		if got[i] != want[i] {
			t.Errorf("areas[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestCoverageAreasEmpty(t *testing.T) {
	if got := coverageAreas(nil); got != nil {
		t.Errorf("got %v, want nil", got)
	}
}

func TestHasSignals(t *testing.T) {
	s := state.New(nil)

	if hasSignals(s) {
		t.Error("empty state has signals")
	}

	s = s.Set(KeySignals, []signals.Signal{})

	if hasSignals(s) {
		t.Error("empty slice counts as signals")
	}

	s = s.Set(KeySignals, []signals.Signal{{Entity: "Straive"}})

	if !hasSignals(s) {
		t.Error("populated state has no signals")
	}
}

func TestStateTime(t *testing.T) {
	want := time.Date(2026, time.March, 18, 0, 0, 0, 0, time.UTC)
	s := state.New(nil).Set(KeyWeekEnd, want)

	got, err := stateTime(s, KeyWeekEnd)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}

	if _, err := stateTime(s, KeyWeekStart); err == nil {
		t.Error("missing key: got nil error")
	}

	s = s.Set(KeyWeekStart, "2026-03-12")
	if _, err := stateTime(s, KeyWeekStart); err == nil {
		t.Error("wrong type: got nil error")
	}
}

func TestAppendError(t *testing.T) {
	s := state.New(nil)
	s = appendError(s, "evaluation degraded")
	s = appendError(s, "publish failed")

	val, ok := s.Get(KeyErrors)
	if !ok {
		t.Fatal("errors missing from state")
	}

	errs, ok := val.([]string)
	if !ok {
		t.Fatalf("errors is %T, want []string", val)
	}

	if len(errs) != 2 || errs[0] != "evaluation degraded" || errs[1] != "publish failed" {
		t.Errorf("got %v, want [evaluation degraded publish failed]", errs)
	}
}

func TestExtractResult(t *testing.T) {
	brief := briefs.WeeklyBrief{
		ID:       uuid.New(),
		ThemeIDs: []uuid.UUID{uuid.New(), uuid.New()},
	}

	s := state.New(nil).
		Set(KeySignals, []signals.Signal{{}, {}, {}}).
		Set(KeyBrief, brief).
		Set(KeyEvalPassed, 2).
		Set(KeyEvalFailed, 1).
		Set(KeyPublished, true).
		Set(KeyErrors, []string{"publish retried"})

	result, err := extractResult(s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.SignalsProcessed != 3 {
		t.Errorf("SignalsProcessed = %d, want 3", result.SignalsProcessed)
	}

	if result.Brief == nil || result.Brief.ID != brief.ID {
		t.Errorf("Brief = %v, want id %s", result.Brief, brief.ID)
	}

	if result.ThemesCreated != 2 {
		t.Errorf("ThemesCreated = %d, want 2", result.ThemesCreated)
	}

	if result.EvaluationsPassed != 2 {
		t.Errorf("EvaluationsPassed = %d, want 2", result.EvaluationsPassed)
	}

	if result.EvaluationsRun != 3 {
		t.Errorf("EvaluationsRun = %d, want 3", result.EvaluationsRun)
	}

	if !result.Published {
		t.Error("Published = false, want true")
	}

	if len(result.Errors) != 1 {
		t.Errorf("Errors = %v, want one entry", result.Errors)
	}

	if result.CompletedAt.IsZero() {
		t.Error("CompletedAt is zero")
	}
}

func TestExtractResultEmpty(t *testing.T) {
	result, err := extractResult(state.New(nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Brief != nil || result.SignalsProcessed != 0 || result.Published {
		t.Errorf("got %+v, want zero result", result)
	}
}
