package collectors

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/JaimeStill/vantage/internal/signals"
	"github.com/JaimeStill/vantage/internal/sources"
)

type rssCollector struct {
	source   sources.DataSource
	resolver EntityResolver
	parser   *gofeed.Parser
	logger   *slog.Logger
}

func newRSS(source sources.DataSource, resolver EntityResolver, logger *slog.Logger) (*rssCollector, error) {
	if source.URL == nil || *source.URL == "" {
		return nil, fmt.Errorf("source %q: %w", source.Name, ErrNoURL)
	}

	return &rssCollector{
		source:   source,
		resolver: resolver,
		parser:   gofeed.NewParser(),
		logger:   logger.With("collector", "rss", "source", source.Name),
	}, nil
}

func (c *rssCollector) Source() sources.DataSource {
	return c.source
}

// Collect parses the feed and classifies each fresh entry. Entries older
// than the freshness window, missing a title or link, or rejected by the
// classifier are skipped.
func (c *rssCollector) Collect(ctx context.Context) ([]signals.CollectorSignal, error) {
	feedURL := *c.source.URL
	c.logger.Info("fetching feed", "url", feedURL)

	feed, err := c.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("parse feed %s: %w", feedURL, err)
	}

	if len(feed.Items) == 0 {
		c.logger.Warn("feed has no entries", "url", feedURL)
		return nil, nil
	}

	now := time.Now()
	collected := make([]signals.CollectorSignal, 0, len(feed.Items))

	for _, item := range feed.Items {
		title := strings.TrimSpace(item.Title)
		link := item.Link
		if title == "" || link == "" {
			continue
		}

		if tooOld(publishedAt(item), now) {
			c.logger.Debug("skipping stale entry", "title", title)
			continue
		}

		description := strings.TrimSpace(item.Description)
		if description == "" {
			description = strings.TrimSpace(item.Content)
		}

		signal, ok := buildSignal(ctx, c.source, c.resolver, c.logger, title, description, link)
		if !ok {
			continue
		}

		collected = append(collected, signal)
	}

	c.logger.Info("feed processed",
		"entries", len(feed.Items),
		"signals", len(collected),
	)
	return collected, nil
}

func publishedAt(item *gofeed.Item) *time.Time {
	if item.PublishedParsed != nil {
		return item.PublishedParsed
	}
	return item.UpdatedParsed
}
