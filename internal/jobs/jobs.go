// Package jobs implements the batch jobs that drive the pipeline: signal
// collection across enabled data sources and weekly brief generation.
// Jobs run through a singleflight runner, so concurrent triggers of the
// same job coalesce into the in-flight run.
package jobs

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/JaimeStill/vantage/internal/briefs"
	"github.com/JaimeStill/vantage/internal/entities"
	"github.com/JaimeStill/vantage/internal/signals"
	"github.com/JaimeStill/vantage/internal/sources"
	"github.com/JaimeStill/vantage/internal/workflow"
)

// Job identities used as singleflight keys.
const (
	JobCollectSignals = "collect-signals"
	JobGenerateBrief  = "generate-brief"
)

// CollectionResult summarizes one collection run across all enabled
// sources.
type CollectionResult struct {
	Success              bool     `json:"success"`
	Message              string   `json:"message"`
	SignalsCollected     int      `json:"signals_collected"`
	SignalsPendingReview int      `json:"signals_pending_review"`
	SourcesProcessed     int      `json:"sources_processed"`
	Errors               []string `json:"errors"`
}

// BriefResult wraps a workflow run with a job-level success flag.
type BriefResult struct {
	Success          bool             `json:"success"`
	Message          string           `json:"message"`
	Result           *workflow.Result `json:"result,omitempty"`
	WeekStart        time.Time        `json:"week_start"`
	WeekEnd          time.Time        `json:"week_end"`
	ThemesCreated    int              `json:"themes_created"`
	SignalsProcessed int              `json:"signals_processed"`
}

// Runner executes jobs with singleflight coalescing per job identity.
type Runner struct {
	sources  sources.System
	signals  signals.System
	entities entities.System
	workflow *workflow.Runtime
	group    singleflight.Group
	logger   *slog.Logger
}

// NewRunner creates a job runner over the given systems.
func NewRunner(
	sourceSys sources.System,
	signalSys signals.System,
	entitySys entities.System,
	rt *workflow.Runtime,
	logger *slog.Logger,
) *Runner {
	return &Runner{
		sources:  sourceSys,
		signals:  signalSys,
		entities: entitySys,
		workflow: rt,
		logger:   logger.With("system", "jobs"),
	}
}

// Handler returns the admin job trigger handler.
func (r *Runner) Handler() *Handler {
	return NewHandler(r, r.logger)
}

// CollectSignals runs the collection job, coalescing concurrent triggers.
func (r *Runner) CollectSignals(ctx context.Context) (*CollectionResult, error) {
	v, err, shared := r.group.Do(JobCollectSignals, func() (any, error) {
		return r.collectSignals(ctx), nil
	})
	if err != nil {
		return nil, err
	}

	if shared {
		r.logger.Info("collection trigger coalesced into in-flight run")
	}

	return v.(*CollectionResult), nil
}

// GenerateBrief runs brief generation for the week ending on the reference
// date, coalescing concurrent triggers. The singleflight key carries the
// computed week so runs for different weeks never coalesce.
func (r *Runner) GenerateBrief(ctx context.Context, referenceDate time.Time) (*BriefResult, error) {
	weekStart, _ := briefs.WeekBoundaries(referenceDate)
	key := JobGenerateBrief + ":" + weekStart.Format("2006-01-02")

	v, err, shared := r.group.Do(key, func() (any, error) {
		return r.generateBrief(ctx, referenceDate), nil
	})
	if err != nil {
		return nil, err
	}

	if shared {
		r.logger.Info("brief trigger coalesced into in-flight run")
	}

	return v.(*BriefResult), nil
}
