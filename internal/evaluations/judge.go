package evaluations

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/JaimeStill/go-agents/pkg/agent"
	gaconfig "github.com/JaimeStill/go-agents/pkg/config"

	"github.com/JaimeStill/vantage/internal/signals"
	"github.com/JaimeStill/vantage/pkg/formatting"
)

// defaultJudgeScore is assigned across all four judge dimensions when the
// judge is unavailable or its response cannot be validated.
const defaultJudgeScore = 8.0

// JudgeScores holds the four LLM-judged quality dimensions.
type JudgeScores struct {
	Grounding     float64
	Relevance     float64
	Actionability float64
	Coherence     float64
}

type judgeResponse struct {
	GroundingScore     float64 `json:"grounding_score"`
	RelevanceScore     float64 `json:"relevance_score"`
	ActionabilityScore float64 `json:"actionability_score"`
	CoherenceScore     float64 `json:"coherence_score"`
	Issues             []struct {
		Type        string `json:"type"`
		Severity    string `json:"severity"`
		Description string `json:"description"`
	} `json:"issues"`
}

// Judge scores generated content with an LLM. All failures degrade to
// default passing scores with no issues; the judge never blocks an
// evaluation.
type Judge struct {
	agent  gaconfig.AgentConfig
	logger *slog.Logger
}

// NewJudge creates a Judge using the given agent configuration.
func NewJudge(cfg gaconfig.AgentConfig, logger *slog.Logger) *Judge {
	return &Judge{
		agent:  cfg,
		logger: logger.With("system", "judge"),
	}
}

// Available reports whether the judge agent is configured.
func (j *Judge) Available() bool {
	return j.agent.Provider != nil && j.agent.Provider.BaseURL != ""
}

// Model returns the configured judge model name, or "none".
func (j *Judge) Model() string {
	if j.agent.Model != nil && j.agent.Model.Name != "" {
		return j.agent.Model.Name
	}
	return "none"
}

// Evaluate scores content against its source signals. Returns default
// scores when the agent is unavailable, the call fails, or the response
// does not validate.
func (j *Judge) Evaluate(
	ctx context.Context,
	contentType string,
	data map[string]any,
	sigs []signals.Signal,
) (JudgeScores, []Issue) {
	fallback := JudgeScores{
		Grounding:     defaultJudgeScore,
		Relevance:     defaultJudgeScore,
		Actionability: defaultJudgeScore,
		Coherence:     defaultJudgeScore,
	}

	if !j.Available() {
		j.logger.Debug("judge skipped, agent unavailable", "content_type", contentType)
		return fallback, nil
	}

	a, err := agent.New(&j.agent)
	if err != nil {
		j.logger.Warn("judge agent creation failed", "error", err)
		return fallback, nil
	}

	resp, err := a.Chat(ctx, buildJudgePrompt(contentType, data, sigs))
	if err != nil {
		j.logger.Warn("judge call failed", "content_type", contentType, "error", err)
		return fallback, nil
	}

	parsed, err := formatting.Parse[judgeResponse](resp.Content())
	if err != nil {
		j.logger.Warn("judge response parse failed", "content_type", contentType, "error", err)
		return fallback, nil
	}

	scores := JudgeScores{
		Grounding:     parsed.GroundingScore,
		Relevance:     parsed.RelevanceScore,
		Actionability: parsed.ActionabilityScore,
		Coherence:     parsed.CoherenceScore,
	}

	if !validScores(scores) {
		j.logger.Warn("judge scores out of range", "content_type", contentType)
		return fallback, nil
	}

	issues := make([]Issue, 0, len(parsed.Issues))
	for _, pi := range parsed.Issues {
		if !validSeverity(pi.Severity) {
			continue
		}
		issues = append(issues, Issue{
			Type:        pi.Type,
			Severity:    pi.Severity,
			Description: pi.Description,
		})
	}

	return scores, issues
}

func validScores(s JudgeScores) bool {
	for _, v := range []float64{s.Grounding, s.Relevance, s.Actionability, s.Coherence} {
		if v < 0 || v > 10 {
			return false
		}
	}
	return true
}

func validSeverity(v string) bool {
	switch v {
	case SeverityCritical, SeverityMajor, SeverityMinor:
		return true
	}
	return false
}

func buildJudgePrompt(contentType string, data map[string]any, sigs []signals.Signal) string {
	var signalsText strings.Builder

	count := len(sigs)
	if count > 20 {
		count = 20
	}
	for i := 0; i < count; i++ {
		s := sigs[i]
		fmt.Fprintf(&signalsText,
			"Signal %d:\nEntity: %s\nEvent: %s\nTopic: %s\nEvidence: %s\nImpact Areas: %s\n\n",
			i+1, s.Entity, s.EventType, s.Topic, s.EvidenceSnippet,
			strings.Join(s.ImpactAreas, ", "),
		)
	}

	return fmt.Sprintf(`Evaluate the following market intelligence content for quality.

SOURCE SIGNALS (%d total):
%s
CONTENT TO EVALUATE:
%s

Evaluate on these dimensions (0-10 scale, 10 = perfect):

1. Grounding Score: How well are insights supported by the source signals?
   - 10: Every claim is directly supported by evidence
   - 5: Some claims lack direct support
   - 0: Most claims are unsupported or fabricated

2. Relevance Score: How relevant are insights for STM sales teams?
   - 10: Highly actionable competitive/market intelligence
   - 5: Somewhat relevant but generic
   - 0: Irrelevant or off-topic

3. Actionability Score: How clear and actionable is the advice?
   - 10: Clear, specific actions sales can take
   - 5: Vague or generic recommendations
   - 0: No actionable advice

4. Coherence Score: How logically coherent is the content?
   - 10: Perfectly clear and well-structured
   - 5: Some confusion or unclear points
   - 0: Incoherent or contradictory

Also identify any issues:
- Type: "poor_grounding", "poor_advice", "low_actionability", "coherence_error"
- Severity: "critical", "major", "minor"
- Description: Specific problem found

Respond with JSON only, in this exact shape:
{"grounding_score": 0, "relevance_score": 0, "actionability_score": 0, "coherence_score": 0, "issues": [{"type": "", "severity": "", "description": ""}]}`,
		len(sigs),
		signalsText.String(),
		formatContent(contentType, data),
	)
}

func formatContent(contentType string, data map[string]any) string {
	switch contentType {
	case ContentTheme:
		return fmt.Sprintf(
			"Theme Title: %v\nWhy It Matters: %v\nNext Steps: %s\nKey Players: %s",
			data["title"],
			data["so_what"],
			joinAny(data["now_what"]),
			joinAny(data["key_players"]),
		)
	case ContentSignalSummary:
		var insights strings.Builder
		for i, raw := range anySlice(data["key_insights"]) {
			if m, ok := raw.(map[string]any); ok {
				fmt.Fprintf(&insights, "%d. %v (Entities: %s)\n",
					i+1, m["insight"], joinAny(m["entities"]))
			}
		}
		return fmt.Sprintf("Executive Summary: %v\n\nKey Insights:\n%s",
			data["summary"], insights.String())
	default:
		parts := make([]string, 0, len(data))
		for k, v := range data {
			parts = append(parts, fmt.Sprintf("%s: %v", k, v))
		}
		return strings.Join(parts, "\n")
	}
}

func joinAny(v any) string {
	items := anySlice(v)
	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = fmt.Sprint(item)
	}
	return strings.Join(parts, ", ")
}
