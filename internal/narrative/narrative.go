// Package narrative generates the "So What" and "Now What" sections of a
// theme using a chat agent, grounded in numbered signal evidence with
// bracket citations. Every generation is guarded: when the agent is not
// configured or a call fails, deterministic templates take over and the
// outcome records which path produced the text.
package narrative

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/JaimeStill/go-agents/pkg/agent"
	gaconfig "github.com/JaimeStill/go-agents/pkg/config"

	"github.com/JaimeStill/vantage/internal/signals"
)

// Source identifies which path produced a narrative text.
type Source string

const (
	SourceGenerated Source = "generated"
	SourceTemplate  Source = "template"
)

// SoWhatResult is the outcome of a "So What" generation.
type SoWhatResult struct {
	Text   string
	Source Source
}

// NowWhatResult is the outcome of a "Now What" generation.
type NowWhatResult struct {
	Actions []string
	Source  Source
}

// Context carries the theme inputs a narrative generation grounds in.
type Context struct {
	Topic        string
	Signals      []signals.Signal
	ImpactAreas  []string
	Competitors  []string
	IsCompetitor bool
}

// Generator produces narrative text for themes.
type Generator struct {
	agent  gaconfig.AgentConfig
	logger *slog.Logger
}

// NewGenerator creates a Generator using the given agent configuration.
func NewGenerator(cfg gaconfig.AgentConfig, logger *slog.Logger) *Generator {
	return &Generator{
		agent:  cfg,
		logger: logger.With("system", "narrative"),
	}
}

// Available reports whether the chat agent is configured.
func (g *Generator) Available() bool {
	return g.agent.Provider != nil && g.agent.Provider.BaseURL != ""
}

// SoWhat generates the 1-2 sentence "So What" explanation for a theme.
// Falls back to a deterministic template when the agent is unavailable or
// the call fails.
func (g *Generator) SoWhat(ctx context.Context, tc Context) SoWhatResult {
	if !g.Available() {
		g.logger.Debug("so what generation skipped, agent unavailable", "topic", tc.Topic)
		return SoWhatResult{Text: soWhatTemplate(tc), Source: SourceTemplate}
	}

	text, err := g.chat(ctx, buildSoWhatPrompt(tc))
	if err != nil {
		g.logger.Warn("so what generation failed", "topic", tc.Topic, "error", err)
		return SoWhatResult{Text: soWhatTemplate(tc), Source: SourceTemplate}
	}

	return SoWhatResult{
		Text:   ConvertToInlineCitations(text),
		Source: SourceGenerated,
	}
}

// NowWhat generates 2-3 action bullets for a theme. Falls back to a
// deterministic template when the agent is unavailable, the call fails, or
// the response yields fewer than two actions.
func (g *Generator) NowWhat(ctx context.Context, tc Context) NowWhatResult {
	if !g.Available() {
		g.logger.Debug("now what generation skipped, agent unavailable", "topic", tc.Topic)
		return NowWhatResult{Actions: nowWhatTemplate(tc), Source: SourceTemplate}
	}

	text, err := g.chat(ctx, buildNowWhatPrompt(tc))
	if err != nil {
		g.logger.Warn("now what generation failed", "topic", tc.Topic, "error", err)
		return NowWhatResult{Actions: nowWhatTemplate(tc), Source: SourceTemplate}
	}

	actions := parseActions(text)
	if len(actions) < 2 {
		g.logger.Warn("now what generation too short, using template",
			"topic", tc.Topic,
			"actions", len(actions),
		)
		return NowWhatResult{Actions: nowWhatTemplate(tc), Source: SourceTemplate}
	}

	return NowWhatResult{Actions: actions, Source: SourceGenerated}
}

func (g *Generator) chat(ctx context.Context, prompt string) (string, error) {
	a, err := agent.New(&g.agent)
	if err != nil {
		return "", fmt.Errorf("create agent: %w", err)
	}

	resp, err := a.Chat(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("chat call: %w", err)
	}

	return strings.TrimSpace(resp.Content()), nil
}

func parseActions(text string) []string {
	var actions []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimLeft(line, "-*• \t")
		if line != "" {
			actions = append(actions, line)
		}
	}

	if len(actions) > 3 {
		actions = actions[:3]
	}
	return actions
}
