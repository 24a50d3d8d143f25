package evaluations_test

import (
	"context"
	"log/slog"
	"testing"

	gaconfig "github.com/JaimeStill/go-agents/pkg/config"

	"github.com/JaimeStill/vantage/internal/evaluations"
)

func TestJudgeUnavailableReturnsDefaults(t *testing.T) {
	j := evaluations.NewJudge(gaconfig.AgentConfig{}, slog.Default())

	if j.Available() {
		t.Fatal("zero config judge should be unavailable")
	}

	scores, issues := j.Evaluate(context.Background(), evaluations.ContentTheme, map[string]any{}, nil)

	if scores.Grounding != 8.0 || scores.Relevance != 8.0 || scores.Actionability != 8.0 || scores.Coherence != 8.0 {
		t.Errorf("scores: got %+v, want all 8.0", scores)
	}
	if issues != nil {
		t.Errorf("issues: got %v, want nil", issues)
	}
}

func TestJudgeModel(t *testing.T) {
	j := evaluations.NewJudge(gaconfig.AgentConfig{}, slog.Default())
	if j.Model() != "none" {
		t.Errorf("unconfigured model: got %q, want none", j.Model())
	}

	j = evaluations.NewJudge(gaconfig.AgentConfig{
		Model: &gaconfig.ModelConfig{Name: "qwen2.5:14b"},
	}, slog.Default())
	if j.Model() != "qwen2.5:14b" {
		t.Errorf("model: got %q, want qwen2.5:14b", j.Model())
	}
}
