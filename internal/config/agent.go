package config

import (
	"fmt"
	"os"

	gaconfig "github.com/JaimeStill/go-agents/pkg/config"
)

// AgentEnv names the environment variables that override a go-agents
// AgentConfig. Each configured agent (narrative, judge) carries its own set.
type AgentEnv struct {
	ProviderName string
	BaseURL      string
	Token        string
	Deployment   string
	APIVersion   string
	AuthType     string
	ModelName    string
}

var narrativeAgentEnv = &AgentEnv{
	ProviderName: "VANTAGE_AGENT_PROVIDER_NAME",
	BaseURL:      "VANTAGE_AGENT_BASE_URL",
	Token:        "VANTAGE_AGENT_TOKEN",
	Deployment:   "VANTAGE_AGENT_DEPLOYMENT",
	APIVersion:   "VANTAGE_AGENT_API_VERSION",
	AuthType:     "VANTAGE_AGENT_AUTH_TYPE",
	ModelName:    "VANTAGE_AGENT_MODEL_NAME",
}

var judgeAgentEnv = &AgentEnv{
	ProviderName: "VANTAGE_JUDGE_PROVIDER_NAME",
	BaseURL:      "VANTAGE_JUDGE_BASE_URL",
	Token:        "VANTAGE_JUDGE_TOKEN",
	Deployment:   "VANTAGE_JUDGE_DEPLOYMENT",
	APIVersion:   "VANTAGE_JUDGE_API_VERSION",
	AuthType:     "VANTAGE_JUDGE_AUTH_TYPE",
	ModelName:    "VANTAGE_JUDGE_MODEL_NAME",
}

// FinalizeAgent applies the three-phase finalize pattern to a go-agents
// AgentConfig: defaults from go-agents DefaultAgentConfig, environment
// variable overrides, and validation.
func FinalizeAgent(c *gaconfig.AgentConfig, env *AgentEnv, name string) error {
	loadAgentDefaults(c, name)
	loadAgentEnv(c, env)
	return validateAgent(c)
}

func loadAgentDefaults(c *gaconfig.AgentConfig, name string) {
	defaults := gaconfig.DefaultAgentConfig()
	defaults.Merge(c)
	*c = defaults

	if c.Name == "" {
		c.Name = name
	}
}

func loadAgentEnv(c *gaconfig.AgentConfig, env *AgentEnv) {
	if c.Provider == nil {
		c.Provider = &gaconfig.ProviderConfig{}
	}
	if c.Provider.Options == nil {
		c.Provider.Options = make(map[string]any)
	}
	if c.Model == nil {
		c.Model = &gaconfig.ModelConfig{}
	}
	if v := os.Getenv(env.ProviderName); v != "" {
		c.Provider.Name = v
	}
	if v := os.Getenv(env.BaseURL); v != "" {
		c.Provider.BaseURL = v
	}
	if v := os.Getenv(env.ModelName); v != "" {
		c.Model.Name = v
	}

	setOption := func(envVar, key string) {
		if v := os.Getenv(envVar); v != "" {
			c.Provider.Options[key] = v
		}
	}

	setOption(env.Token, "token")
	setOption(env.Deployment, "deployment")
	setOption(env.APIVersion, "api_version")
	setOption(env.AuthType, "auth_type")
}

func validateAgent(c *gaconfig.AgentConfig) error {
	if c.Name == "" {
		return fmt.Errorf("name required")
	}
	if c.Provider == nil {
		return fmt.Errorf("provider required")
	}
	if c.Provider.Name == "" {
		return fmt.Errorf("provider name required")
	}
	if c.Model == nil {
		return fmt.Errorf("model required")
	}
	return nil
}
