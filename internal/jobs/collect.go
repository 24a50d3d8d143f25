package jobs

import (
	"context"
	"errors"
	"fmt"

	"github.com/JaimeStill/vantage/internal/collectors"
	"github.com/JaimeStill/vantage/internal/signals"
)

// collectSignals iterates enabled data sources sequentially. Per-source
// failures are caught, recorded on the source, and appended to the result;
// one broken feed never blocks the rest.
func (r *Runner) collectSignals(ctx context.Context) *CollectionResult {
	r.logger.Info("starting signal collection")

	result := &CollectionResult{Errors: []string{}}

	enabled, err := r.sources.Enabled(ctx)
	if err != nil {
		result.Message = "failed to load data sources"
		result.Errors = append(result.Errors, err.Error())
		r.logger.Error("load enabled sources failed", "error", err)
		return result
	}

	if len(enabled) == 0 {
		result.Success = true
		result.Message = "no enabled data sources to collect from"
		r.logger.Warn("no enabled data sources")
		return result
	}

	for _, source := range enabled {
		r.logger.Info("collecting from source",
			"source", source.Name,
			"type", source.SourceType,
		)

		collector, err := collectors.New(source, r.entities, r.logger)
		if err != nil {
			if errors.Is(err, collectors.ErrUnsupportedSource) {
				r.logger.Warn("skipping source without collector",
					"source", source.Name,
					"type", source.SourceType,
				)
				continue
			}

			msg := fmt.Sprintf("source %s: %v", source.Name, err)
			result.Errors = append(result.Errors, msg)
			r.logger.Error("collector setup failed", "source", source.Name, "error", err)
			continue
		}

		collected, err := collector.Collect(ctx)
		if err != nil {
			msg := fmt.Sprintf("source %s: %v", source.Name, err)
			result.Errors = append(result.Errors, msg)

			if recordErr := r.sources.RecordFailure(ctx, source.ID, err); recordErr != nil {
				r.logger.Error("record collection failure failed",
					"source", source.Name,
					"error", recordErr,
				)
			}
			continue
		}

		created, pending, duplicates := r.saveCollected(ctx, source.Name, collected, result)

		result.SignalsCollected += created
		result.SignalsPendingReview += pending
		result.SourcesProcessed++

		if err := r.sources.RecordSuccess(ctx, source.ID); err != nil {
			r.logger.Error("record collection success failed",
				"source", source.Name,
				"error", err,
			)
		}

		r.logger.Info("source collection complete",
			"source", source.Name,
			"created", created,
			"duplicates", duplicates,
			"pending_review", pending,
		)
	}

	result.Success = len(result.Errors) == 0
	result.Message = "signal collection completed"

	r.logger.Info("signal collection complete",
		"signals_collected", result.SignalsCollected,
		"pending_review", result.SignalsPendingReview,
		"sources_processed", result.SourcesProcessed,
		"errors", len(result.Errors),
	)
	return result
}

// saveCollected persists collector signals, skipping source_url duplicates.
func (r *Runner) saveCollected(
	ctx context.Context,
	sourceName string,
	collected []signals.CollectorSignal,
	result *CollectionResult,
) (created, pending, duplicates int) {
	for _, cs := range collected {
		signal, err := r.signals.CreateFromCollector(ctx, cs)
		if err != nil {
			if errors.Is(err, signals.ErrDuplicate) {
				duplicates++
				continue
			}

			msg := fmt.Sprintf("saving signal from %s: %v", sourceName, err)
			result.Errors = append(result.Errors, msg)
			r.logger.Error("save collected signal failed",
				"source", sourceName,
				"url", cs.SourceURL,
				"error", err,
			)
			continue
		}

		created++
		if signal.Status == signals.StatusPendingReview {
			pending++
		}
	}

	return created, pending, duplicates
}
