package config

import (
	"fmt"
	"os"
	"strconv"

	gaconfig "github.com/JaimeStill/go-agents/pkg/config"

	"github.com/JaimeStill/vantage/internal/embeddings"
)

const (
	EnvCompetitorThreshold = "VANTAGE_INTELLIGENCE_COMPETITOR_THRESHOLD"
	EnvEvaluationThreshold = "VANTAGE_INTELLIGENCE_EVALUATION_THRESHOLD"
	EnvEmbeddingsEndpoint  = "VANTAGE_EMBEDDINGS_ENDPOINT"
	EnvEmbeddingsModel     = "VANTAGE_EMBEDDINGS_MODEL"
)

// IntelligenceConfig holds the pipeline tuning knobs and the external model
// configurations: the narrative agent, the evaluation judge, and the
// embedding provider. Any of the three model configs may be left empty; the
// dependent systems degrade to deterministic fallbacks.
type IntelligenceConfig struct {
	CompetitorThreshold float64              `json:"competitor_threshold"`
	EvaluationThreshold float64              `json:"evaluation_threshold"`
	Agent               gaconfig.AgentConfig `json:"agent"`
	Judge               gaconfig.AgentConfig `json:"judge"`
	Embeddings          embeddings.Config    `json:"embeddings"`
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *IntelligenceConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := FinalizeAgent(&c.Agent, narrativeAgentEnv, "vantage-narrative"); err != nil {
		return fmt.Errorf("agent: %w", err)
	}
	if err := FinalizeAgent(&c.Judge, judgeAgentEnv, "vantage-judge"); err != nil {
		return fmt.Errorf("judge: %w", err)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay.
func (c *IntelligenceConfig) Merge(overlay *IntelligenceConfig) {
	if overlay.CompetitorThreshold != 0 {
		c.CompetitorThreshold = overlay.CompetitorThreshold
	}
	if overlay.EvaluationThreshold != 0 {
		c.EvaluationThreshold = overlay.EvaluationThreshold
	}
	if overlay.Embeddings.Endpoint != "" {
		c.Embeddings.Endpoint = overlay.Embeddings.Endpoint
	}
	if overlay.Embeddings.Model != "" {
		c.Embeddings.Model = overlay.Embeddings.Model
	}
	c.Agent.Merge(&overlay.Agent)
	c.Judge.Merge(&overlay.Judge)
}

func (c *IntelligenceConfig) loadDefaults() {
	if c.CompetitorThreshold == 0 {
		c.CompetitorThreshold = 0.25
	}
	if c.EvaluationThreshold == 0 {
		c.EvaluationThreshold = 9.0
	}
}

func (c *IntelligenceConfig) loadEnv() {
	if v := os.Getenv(EnvCompetitorThreshold); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.CompetitorThreshold = f
		}
	}
	if v := os.Getenv(EnvEvaluationThreshold); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.EvaluationThreshold = f
		}
	}
	if v := os.Getenv(EnvEmbeddingsEndpoint); v != "" {
		c.Embeddings.Endpoint = v
	}
	if v := os.Getenv(EnvEmbeddingsModel); v != "" {
		c.Embeddings.Model = v
	}
}

func (c *IntelligenceConfig) validate() error {
	if c.CompetitorThreshold < 0 || c.CompetitorThreshold > 1 {
		return fmt.Errorf("invalid competitor_threshold: %g", c.CompetitorThreshold)
	}
	if c.EvaluationThreshold < 0 || c.EvaluationThreshold > 10 {
		return fmt.Errorf("invalid evaluation_threshold: %g", c.EvaluationThreshold)
	}
	return nil
}
