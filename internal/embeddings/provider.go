// Package embeddings provides an opaque embedding provider and an in-process
// vector index for semantic signal search. When no provider is configured,
// every consumer degrades: embedding fields stay null and searches return
// empty results.
package embeddings

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// Provider generates embedding vectors from text.
type Provider interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Available() bool
	Name() string
}

// Config holds embedding provider settings.
type Config struct {
	Endpoint string `json:"endpoint"`
	Model    string `json:"model"`
}

const maxEmbedChars = 8000

// SignalText builds the canonical embedding input for a signal.
func SignalText(title, content, entity, topic string) string {
	var parts []string

	if title != "" {
		parts = append(parts, fmt.Sprintf("Title: %s", title))
	}
	if content != "" {
		parts = append(parts, fmt.Sprintf("Content: %s", content))
	}
	if entity != "" {
		parts = append(parts, fmt.Sprintf("Entity: %s", entity))
	}
	if topic != "" {
		parts = append(parts, fmt.Sprintf("Topics: %s", topic))
	}

	return strings.Join(parts, "\n")
}

type httpProvider struct {
	endpoint string
	model    string
	client   *http.Client
	logger   *slog.Logger
}

// NewProvider creates an HTTP embedding provider from config. An empty
// endpoint yields an unavailable provider.
func NewProvider(cfg Config, logger *slog.Logger) Provider {
	return &httpProvider{
		endpoint: strings.TrimRight(cfg.Endpoint, "/"),
		model:    cfg.Model,
		client:   &http.Client{Timeout: 30 * time.Second},
		logger:   logger.With("system", "embeddings"),
	}
}

func (p *httpProvider) Available() bool {
	return p.endpoint != "" && p.model != ""
}

func (p *httpProvider) Name() string {
	return p.model
}

type embedRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type embedResponse struct {
	Embedding []float32 `json:"embedding"`
}

func (p *httpProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	if !p.Available() {
		return nil, fmt.Errorf("embedding provider not configured")
	}

	if len(text) > maxEmbedChars {
		text = text[:maxEmbedChars]
	}

	body, err := json.Marshal(embedRequest{Model: p.model, Prompt: text})
	if err != nil {
		return nil, fmt.Errorf("marshal embed request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost,
		p.endpoint+"/api/embeddings",
		bytes.NewReader(body),
	)
	if err != nil {
		return nil, fmt.Errorf("build embed request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("embed request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("embed request failed: %s: %s", resp.Status, payload)
	}

	var parsed embedResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode embed response: %w", err)
	}

	if len(parsed.Embedding) == 0 {
		return nil, fmt.Errorf("empty embedding returned")
	}

	return parsed.Embedding, nil
}
