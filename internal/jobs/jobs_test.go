package jobs

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/vantage/internal/briefs"
	"github.com/JaimeStill/vantage/internal/signals"
	"github.com/JaimeStill/vantage/internal/workflow"
)

type fakeSignalStore struct {
	signals.System
	duplicates map[string]bool
	failures   map[string]error
	calls      int
}

func (f *fakeSignalStore) CreateFromCollector(ctx context.Context, cs signals.CollectorSignal) (*signals.Signal, error) {
	f.calls++

	if f.duplicates[cs.SourceURL] {
		return nil, signals.ErrDuplicate
	}
	if err := f.failures[cs.SourceURL]; err != nil {
		return nil, err
	}

	return &signals.Signal{
		ID:        uuid.New(),
		SourceURL: cs.SourceURL,
		Status:    cs.Status,
	}, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func collectorSignal(url, status string) signals.CollectorSignal {
	return signals.CollectorSignal{
		Entity:    "Straive",
		SourceURL: url,
		Status:    status,
	}
}

func TestSaveCollectedSkipsDuplicates(t *testing.T) {
	store := &fakeSignalStore{
		duplicates: map[string]bool{"https://example.com/b": true},
	}
	runner := &Runner{signals: store, logger: discardLogger()}

	collected := []signals.CollectorSignal{
		collectorSignal("https://example.com/a", signals.StatusApproved),
		collectorSignal("https://example.com/b", signals.StatusApproved),
		collectorSignal("https://example.com/c", signals.StatusPendingReview),
	}

	result := &CollectionResult{Errors: []string{}}
	created, pending, duplicates := runner.saveCollected(context.Background(), "feed", collected, result)

	if created != 2 {
		t.Errorf("created = %d, want 2", created)
	}
	if pending != 1 {
		t.Errorf("pending = %d, want 1", pending)
	}
	if duplicates != 1 {
		t.Errorf("duplicates = %d, want 1", duplicates)
	}

	// A duplicate is routine, not a collection error.
	if len(result.Errors) != 0 {
		t.Errorf("Errors = %v, want none", result.Errors)
	}

	if store.calls != 3 {
		t.Errorf("CreateFromCollector calls = %d, want 3", store.calls)
	}
}

func TestSaveCollectedRecordsFailures(t *testing.T) {
	store := &fakeSignalStore{
		failures: map[string]error{"https://example.com/b": errors.New("connection reset")},
	}
	runner := &Runner{signals: store, logger: discardLogger()}

	collected := []signals.CollectorSignal{
		collectorSignal("https://example.com/a", signals.StatusApproved),
		collectorSignal("https://example.com/b", signals.StatusApproved),
	}

	result := &CollectionResult{Errors: []string{}}
	created, _, duplicates := runner.saveCollected(context.Background(), "feed", collected, result)

	if created != 1 {
		t.Errorf("created = %d, want 1", created)
	}
	if duplicates != 0 {
		t.Errorf("duplicates = %d, want 0", duplicates)
	}
	if len(result.Errors) != 1 {
		t.Errorf("Errors = %v, want one entry", result.Errors)
	}
}

// blockingBriefs parks ForWeek callers until released so concurrent runs
// provably overlap.
type blockingBriefs struct {
	briefs.System
	entered chan struct{}
	release chan struct{}
}

func (f *blockingBriefs) ForWeek(ctx context.Context, weekStart, weekEnd time.Time) (*briefs.WeeklyBrief, error) {
	f.entered <- struct{}{}
	<-f.release

	return &briefs.WeeklyBrief{
		ID:        uuid.New(),
		WeekStart: weekStart,
		WeekEnd:   weekEnd,
	}, nil
}

func TestGenerateBriefDistinctWeeksRunSeparately(t *testing.T) {
	store := &blockingBriefs{
		entered: make(chan struct{}, 2),
		release: make(chan struct{}),
	}
	runner := &Runner{
		workflow: &workflow.Runtime{Briefs: store, Logger: discardLogger()},
		logger:   discardLogger(),
	}

	refA := time.Date(2026, time.March, 18, 9, 0, 0, 0, time.UTC)
	refB := time.Date(2026, time.March, 25, 9, 0, 0, 0, time.UTC)

	var wg sync.WaitGroup
	results := make([]*BriefResult, 2)
	errs := make([]error, 2)

	for i, ref := range []time.Time{refA, refB} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], errs[i] = runner.GenerateBrief(context.Background(), ref)
		}()
	}

	// Both runs must enter the pipeline; coalescing across weeks would
	// leave the second trigger waiting on the first run's result.
	timeout := time.After(2 * time.Second)
	for entered := 0; entered < 2; {
		select {
		case <-store.entered:
			entered++
		case <-timeout:
			t.Error("trigger for a different week coalesced into the in-flight run")
			entered = 2
		}
	}
	close(store.release)
	wg.Wait()

	for i, want := range []time.Time{
		time.Date(2026, time.March, 12, 0, 0, 0, 0, time.UTC),
		time.Date(2026, time.March, 19, 0, 0, 0, 0, time.UTC),
	} {
		if errs[i] != nil {
			t.Fatalf("run %d: unexpected error: %v", i, errs[i])
		}
		if !results[i].WeekStart.Equal(want) {
			t.Errorf("run %d: WeekStart = %v, want %v", i, results[i].WeekStart, want)
		}
	}
}
