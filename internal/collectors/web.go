package collectors

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/JaimeStill/vantage/internal/signals"
	"github.com/JaimeStill/vantage/internal/sources"
)

const (
	webFetchTimeout = 30 * time.Second
	webUserAgent    = "Mozilla/5.0 (Vantage Intelligence Bot)"
)

// webSelectors holds the CSS selectors configured on a web data source.
// Item and Title are required; Link defaults to the first anchor in each
// item.
type webSelectors struct {
	Item        string
	Title       string
	Link        string
	Description string
}

type webCollector struct {
	source    sources.DataSource
	resolver  EntityResolver
	client    *http.Client
	selectors webSelectors
	base      *url.URL
	logger    *slog.Logger
}

func newWeb(source sources.DataSource, resolver EntityResolver, logger *slog.Logger) (*webCollector, error) {
	if source.URL == nil || *source.URL == "" {
		return nil, fmt.Errorf("source %q: %w", source.Name, ErrNoURL)
	}

	selectors, err := selectorsFromConfig(source.Config)
	if err != nil {
		return nil, fmt.Errorf("source %q: %w", source.Name, err)
	}

	baseURL := *source.URL
	if v, ok := source.Config["base_url"].(string); ok && v != "" {
		baseURL = v
	}

	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("source %q: parse base url: %w", source.Name, err)
	}

	return &webCollector{
		source:    source,
		resolver:  resolver,
		client:    &http.Client{Timeout: webFetchTimeout},
		selectors: selectors,
		base:      base,
		logger:    logger.With("collector", "web", "source", source.Name),
	}, nil
}

func selectorsFromConfig(config map[string]any) (webSelectors, error) {
	raw, ok := config["selectors"].(map[string]any)
	if !ok || len(raw) == 0 {
		return webSelectors{}, fmt.Errorf("no selectors configured")
	}

	get := func(key string) string {
		v, _ := raw[key].(string)
		return v
	}

	s := webSelectors{
		Item:        get("item"),
		Title:       get("title"),
		Link:        get("link"),
		Description: get("description"),
	}

	if s.Item == "" {
		return webSelectors{}, fmt.Errorf("no item selector configured")
	}
	if s.Title == "" {
		return webSelectors{}, fmt.Errorf("no title selector configured")
	}
	if s.Link == "" {
		s.Link = "a"
	}

	return s, nil
}

func (c *webCollector) Source() sources.DataSource {
	return c.source
}

// Collect scrapes the page and classifies each matched item. Items missing
// a title or link, or rejected by the classifier, are skipped.
func (c *webCollector) Collect(ctx context.Context) ([]signals.CollectorSignal, error) {
	pageURL := *c.source.URL
	c.logger.Info("scraping page", "url", pageURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", webUserAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: HTTP %d", pageURL, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse page %s: %w", pageURL, err)
	}

	items := doc.Find(c.selectors.Item)
	if items.Length() == 0 {
		c.logger.Warn("no items matched selector",
			"selector", c.selectors.Item,
			"url", pageURL,
		)
		return nil, nil
	}

	var collected []signals.CollectorSignal
	items.Each(func(_ int, item *goquery.Selection) {
		signal, ok := c.processItem(ctx, item)
		if !ok {
			return
		}
		collected = append(collected, signal)
	})

	c.logger.Info("page processed",
		"items", items.Length(),
		"signals", len(collected),
	)
	return collected, nil
}

func (c *webCollector) processItem(ctx context.Context, item *goquery.Selection) (signals.CollectorSignal, bool) {
	title := strings.TrimSpace(item.Find(c.selectors.Title).First().Text())
	if title == "" {
		return signals.CollectorSignal{}, false
	}

	linkElem := item.Find(c.selectors.Link).First()
	href, _ := linkElem.Attr("href")
	if href == "" {
		return signals.CollectorSignal{}, false
	}
	link := c.resolveLink(href)

	description := ""
	if c.selectors.Description != "" {
		description = strings.TrimSpace(item.Find(c.selectors.Description).First().Text())
	}

	return buildSignal(ctx, c.source, c.resolver, c.logger, title, description, link)
}

func (c *webCollector) resolveLink(href string) string {
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return c.base.ResolveReference(ref).String()
}
