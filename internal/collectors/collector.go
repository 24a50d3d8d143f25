// Package collectors implements automated signal ingestion from configured
// data sources. Each collector fetches raw items, classifies them, resolves
// entities, and emits collector signals ready for the signal store.
package collectors

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/JaimeStill/vantage/internal/classify"
	"github.com/JaimeStill/vantage/internal/entities"
	"github.com/JaimeStill/vantage/internal/signals"
	"github.com/JaimeStill/vantage/internal/sources"
)

// Evidence snippet bounds and the freshness window for collected items.
const (
	maxSnippetChars = 200
	minSnippetChars = 50
	maxItemAge      = 7 * 24 * time.Hour
)

var (
	ErrNoURL             = errors.New("data source has no url configured")
	ErrUnsupportedSource = errors.New("source type has no automated collector")
)

// EntityResolver matches entity names against text. Satisfied by
// entities.System.
type EntityResolver interface {
	Resolve(ctx context.Context, text string) ([]entities.Match, error)
}

// Collector fetches and classifies items from a single data source.
type Collector interface {
	Source() sources.DataSource
	Collect(ctx context.Context) ([]signals.CollectorSignal, error)
}

// New creates the collector for a data source's type. Linkedin and email
// sources are recognized but have no automated collector; callers should
// skip them.
func New(source sources.DataSource, resolver EntityResolver, logger *slog.Logger) (Collector, error) {
	switch source.SourceType {
	case sources.TypeRSS:
		return newRSS(source, resolver, logger)
	case sources.TypeWeb:
		return newWeb(source, resolver, logger)
	case sources.TypeLinkedIn, sources.TypeEmail:
		return nil, fmt.Errorf("%s source %q: %w", source.SourceType, source.Name, ErrUnsupportedSource)
	}
	return nil, fmt.Errorf("unknown source type %q for %q", source.SourceType, source.Name)
}

// buildSignal turns one fetched item into a collector signal. Returns false
// when the item is rejected: unclassifiable text or insufficient evidence.
func buildSignal(
	ctx context.Context,
	source sources.DataSource,
	resolver EntityResolver,
	logger *slog.Logger,
	title, description, link string,
) (signals.CollectorSignal, bool) {
	text := title + " " + description

	result, ok := classify.Classify(text)
	if !ok {
		logger.Debug("item rejected by classifier", "title", title)
		return signals.CollectorSignal{}, false
	}

	snippet := buildSnippet(title, description)
	if len(snippet) < minSnippetChars {
		logger.Debug("item rejected for insufficient evidence", "title", title)
		return signals.CollectorSignal{}, false
	}

	matches, err := resolver.Resolve(ctx, text)
	if err != nil {
		logger.Warn("entity resolution failed", "error", err)
		matches = nil
	}

	entity := source.Name
	var tags []string
	if len(matches) > 0 {
		entity = matches[0].Name
		for _, m := range matches[1:] {
			tags = append(tags, m.Name)
		}
	}

	confidence := source.DefaultConfidence
	if confidence == "" {
		confidence = classify.ConfidenceMedium
	}

	status := signals.StatusPendingReview
	if confidence == classify.ConfidenceHigh {
		status = signals.StatusApproved
	}

	notes := fmt.Sprintf("Auto-collected from %s source on %s",
		source.SourceType, time.Now().UTC().Format("2006-01-02"))

	id := source.ID
	return signals.CollectorSignal{
		Title:           title,
		Entity:          entity,
		EventType:       result.EventType,
		Topic:           result.Topic,
		SourceURL:       link,
		EvidenceSnippet: snippet,
		Confidence:      confidence,
		ImpactAreas:     result.ImpactAreas,
		EntityTags:      tags,
		Status:          status,
		Notes:           &notes,
		DataSourceID:    &id,
	}, true
}

// buildSnippet derives the evidence snippet from an item's description,
// falling back to title plus description when the description alone is too
// short.
func buildSnippet(title, description string) string {
	snippet := truncate(description, maxSnippetChars)
	if len(snippet) < minSnippetChars && title != "" {
		snippet = truncate(title+". "+description, maxSnippetChars)
	}
	return strings.TrimSpace(snippet)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := s[:max]
	// Never split a multi-byte character at the boundary.
	for len(cut) > 0 && !utf8.ValidString(cut) {
		cut = cut[:len(cut)-1]
	}
	return cut
}

// tooOld reports whether a published timestamp falls outside the collection
// freshness window. Items with no timestamp are kept.
func tooOld(published *time.Time, now time.Time) bool {
	if published == nil {
		return false
	}
	return now.Sub(*published) > maxItemAge
}
