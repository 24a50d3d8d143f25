package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/JaimeStill/vantage/internal/briefs"
	"github.com/JaimeStill/vantage/internal/workflow"
)

// generateBrief wraps the workflow pipeline in a job-level result. An
// unexpected pipeline failure produces success=false with zero counts.
func (r *Runner) generateBrief(ctx context.Context, referenceDate time.Time) *BriefResult {
	weekStart, weekEnd := briefs.WeekBoundaries(referenceDate)

	r.logger.Info("starting brief generation",
		"week_start", weekStart.Format("2006-01-02"),
		"week_end", weekEnd.Format("2006-01-02"),
	)

	result, err := workflow.Execute(ctx, r.workflow, referenceDate)
	if err != nil {
		r.logger.Error("brief generation failed", "error", err)
		return &BriefResult{
			Success:   false,
			Message:   fmt.Sprintf("brief generation failed: %v", err),
			WeekStart: weekStart,
			WeekEnd:   weekEnd,
		}
	}

	message := "brief generated successfully"
	switch {
	case result.Existing:
		message = "brief already exists for week"
	case result.Brief == nil:
		message = "no signals found for the week"
	}

	r.logger.Info("brief generation complete",
		"message", message,
		"themes_created", result.ThemesCreated,
		"signals_processed", result.SignalsProcessed,
		"evaluations_run", result.EvaluationsRun,
		"published", result.Published,
	)

	return &BriefResult{
		Success:          true,
		Message:          message,
		Result:           result,
		WeekStart:        weekStart,
		WeekEnd:          weekEnd,
		ThemesCreated:    result.ThemesCreated,
		SignalsProcessed: result.SignalsProcessed,
	}
}
