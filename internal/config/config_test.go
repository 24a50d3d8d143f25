package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/JaimeStill/vantage/internal/config"
)

const baseConfig = `{
  "shutdown_timeout": "30s",
  "version": "0.1.0",
  "server": {
    "host": "0.0.0.0",
    "port": 8080,
    "read_timeout": "1m",
    "write_timeout": "15m",
    "shutdown_timeout": "30s"
  },
  "database": {
    "host": "localhost",
    "port": 5432,
    "name": "vantage",
    "user": "vantage",
    "password": "vantage",
    "ssl_mode": "disable",
    "max_open_conns": 25,
    "max_idle_conns": 5,
    "conn_max_lifetime": "15m",
    "conn_timeout": "5s"
  },
  "storage": {
    "container_name": "briefs",
    "connection_string": "DefaultEndpointsProtocol=http;AccountName=vantagestore;AccountKey=key;BlobEndpoint=http://127.0.0.1:10000/vantagestore;"
  },
  "api": {
    "base_path": "/api",
    "cors": {
      "enabled": false
    },
    "pagination": {
      "default_page_size": 25,
      "max_page_size": 50
    }
  },
  "intelligence": {
    "competitor_threshold": 0.3,
    "evaluation_threshold": 8.5,
    "agent": {
      "name": "test-agent",
      "provider": {
        "name": "ollama",
        "base_url": "http://localhost:11434"
      },
      "model": {
        "name": "llama3.1:8b"
      }
    }
  }
}`

const overlayConfig = `{
  "server": {
    "port": 9090
  },
  "database": {
    "host": "prodhost"
  }
}`

// minimalConfig provides the minimum fields required for validation to pass.
// Agent defaults fill in from go-agents DefaultAgentConfig().
const minimalConfig = `{
  "shutdown_timeout": "30s",
  "server": {
    "port": 8080
  },
  "database": {
    "name": "vantage",
    "user": "vantage"
  },
  "api": {
    "base_path": "/api"
  }
}`

func writeConfig(t *testing.T, dir, filename, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, filename), []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", filename, err)
	}
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	orig, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { os.Chdir(orig) })
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.json", baseConfig)
	chdir(t, dir)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("server port: got %d, want 8080", cfg.Server.Port)
	}
	if cfg.Database.Host != "localhost" {
		t.Errorf("db host: got %s, want localhost", cfg.Database.Host)
	}
	if cfg.Storage.ContainerName != "briefs" {
		t.Errorf("storage container: got %s, want briefs", cfg.Storage.ContainerName)
	}
	if cfg.API.BasePath != "/api" {
		t.Errorf("api base_path: got %s, want /api", cfg.API.BasePath)
	}
	if cfg.API.Pagination.DefaultPageSize != 25 {
		t.Errorf("pagination default_page_size: got %d, want 25", cfg.API.Pagination.DefaultPageSize)
	}
	if cfg.API.Pagination.MaxPageSize != 50 {
		t.Errorf("pagination max_page_size: got %d, want 50", cfg.API.Pagination.MaxPageSize)
	}
}

func TestLoadWithOverlay(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.json", baseConfig)
	writeConfig(t, dir, "config.staging.json", overlayConfig)
	chdir(t, dir)

	t.Setenv("VANTAGE_ENV", "staging")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("server port: got %d, want 9090 (from overlay)", cfg.Server.Port)
	}
	if cfg.Database.Host != "prodhost" {
		t.Errorf("db host: got %s, want prodhost (from overlay)", cfg.Database.Host)
	}
	if cfg.Database.Port != 5432 {
		t.Errorf("db port: got %d, want 5432 (from base)", cfg.Database.Port)
	}
}

func TestLoadEnvVarOverrides(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.json", baseConfig)
	chdir(t, dir)

	t.Setenv("VANTAGE_VERSION", "2.0.0")
	t.Setenv("VANTAGE_SERVER_PORT", "3000")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Version != "2.0.0" {
		t.Errorf("version: got %s, want 2.0.0", cfg.Version)
	}
	if cfg.Server.Port != 3000 {
		t.Errorf("server port: got %d, want 3000", cfg.Server.Port)
	}
}

func TestLoadNoConfigFile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	t.Setenv("VANTAGE_DB_NAME", "testdb")
	t.Setenv("VANTAGE_DB_USER", "testuser")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load without config.json failed: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("server port default: got %d, want 8080", cfg.Server.Port)
	}
	if cfg.Database.Name != "testdb" {
		t.Errorf("db name from env: got %s, want testdb", cfg.Database.Name)
	}
	if cfg.Storage.ConnectionString != "" {
		t.Errorf("storage conn should default empty, got %s", cfg.Storage.ConnectionString)
	}
}

func TestLoadInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.json", `{"invalid": }`)
	chdir(t, dir)

	_, err := config.Load()
	if err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}

func TestEnvDefault(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.json", baseConfig)
	chdir(t, dir)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Env() != "local" {
		t.Errorf("env: got %s, want local", cfg.Env())
	}
}

func TestEnvFromEnvVar(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.json", baseConfig)
	chdir(t, dir)

	t.Setenv("VANTAGE_ENV", "production")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Env() != "production" {
		t.Errorf("env: got %s, want production", cfg.Env())
	}
}

func TestShutdownTimeoutDuration(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.json", baseConfig)
	chdir(t, dir)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if d := cfg.ShutdownTimeoutDuration(); d != 30*time.Second {
		t.Errorf("shutdown timeout: got %v, want 30s", d)
	}
}

func TestServerAddr(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.json", baseConfig)
	chdir(t, dir)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if addr := cfg.Server.Addr(); addr != "0.0.0.0:8080" {
		t.Errorf("addr: got %s, want 0.0.0.0:8080", addr)
	}
}

func TestPaginationDefaults(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.json", minimalConfig)
	chdir(t, dir)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.API.Pagination.DefaultPageSize != 20 {
		t.Errorf("pagination default_page_size: got %d, want 20", cfg.API.Pagination.DefaultPageSize)
	}
	if cfg.API.Pagination.MaxPageSize != 100 {
		t.Errorf("pagination max_page_size: got %d, want 100", cfg.API.Pagination.MaxPageSize)
	}
}

func TestPaginationEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.json", baseConfig)
	chdir(t, dir)

	t.Setenv("VANTAGE_PAGINATION_DEFAULT_PAGE_SIZE", "10")
	t.Setenv("VANTAGE_PAGINATION_MAX_PAGE_SIZE", "200")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.API.Pagination.DefaultPageSize != 10 {
		t.Errorf("pagination default_page_size: got %d, want 10", cfg.API.Pagination.DefaultPageSize)
	}
	if cfg.API.Pagination.MaxPageSize != 200 {
		t.Errorf("pagination max_page_size: got %d, want 200", cfg.API.Pagination.MaxPageSize)
	}
}

func TestServerValidation(t *testing.T) {
	tests := []struct {
		name    string
		config  string
		wantErr string
	}{
		{
			name: "invalid port",
			config: `{
				"shutdown_timeout": "30s",
				"server": {"port": 99999},
				"database": {"name": "vantage", "user": "vantage"}
			}`,
			wantErr: "invalid port",
		},
		{
			name: "invalid read_timeout",
			config: `{
				"shutdown_timeout": "30s",
				"server": {"read_timeout": "bad"},
				"database": {"name": "vantage", "user": "vantage"}
			}`,
			wantErr: "invalid read_timeout",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeConfig(t, dir, "config.json", tt.config)
			chdir(t, dir)

			_, err := config.Load()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not contain %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestIntelligenceDefaults(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.json", minimalConfig)
	chdir(t, dir)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Intelligence.CompetitorThreshold != 0.25 {
		t.Errorf("competitor_threshold: got %g, want 0.25", cfg.Intelligence.CompetitorThreshold)
	}
	if cfg.Intelligence.EvaluationThreshold != 9.0 {
		t.Errorf("evaluation_threshold: got %g, want 9.0", cfg.Intelligence.EvaluationThreshold)
	}
}

func TestIntelligenceFromJSON(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.json", baseConfig)
	chdir(t, dir)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Intelligence.CompetitorThreshold != 0.3 {
		t.Errorf("competitor_threshold: got %g, want 0.3", cfg.Intelligence.CompetitorThreshold)
	}
	if cfg.Intelligence.EvaluationThreshold != 8.5 {
		t.Errorf("evaluation_threshold: got %g, want 8.5", cfg.Intelligence.EvaluationThreshold)
	}
}

func TestIntelligenceEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.json", baseConfig)
	chdir(t, dir)

	t.Setenv("VANTAGE_INTELLIGENCE_COMPETITOR_THRESHOLD", "0.5")
	t.Setenv("VANTAGE_INTELLIGENCE_EVALUATION_THRESHOLD", "7.5")
	t.Setenv("VANTAGE_EMBEDDINGS_ENDPOINT", "http://localhost:11434/api/embed")
	t.Setenv("VANTAGE_EMBEDDINGS_MODEL", "nomic-embed-text")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Intelligence.CompetitorThreshold != 0.5 {
		t.Errorf("competitor_threshold: got %g, want 0.5", cfg.Intelligence.CompetitorThreshold)
	}
	if cfg.Intelligence.EvaluationThreshold != 7.5 {
		t.Errorf("evaluation_threshold: got %g, want 7.5", cfg.Intelligence.EvaluationThreshold)
	}
	if cfg.Intelligence.Embeddings.Endpoint != "http://localhost:11434/api/embed" {
		t.Errorf("embeddings endpoint: got %s", cfg.Intelligence.Embeddings.Endpoint)
	}
	if cfg.Intelligence.Embeddings.Model != "nomic-embed-text" {
		t.Errorf("embeddings model: got %s", cfg.Intelligence.Embeddings.Model)
	}
}

func TestIntelligenceValidation(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.json", `{
		"shutdown_timeout": "30s",
		"database": {"name": "vantage", "user": "vantage"},
		"intelligence": {"competitor_threshold": 1.5}
	}`)
	chdir(t, dir)

	_, err := config.Load()
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "invalid competitor_threshold") {
		t.Errorf("error %q does not mention competitor_threshold", err.Error())
	}
}

func TestAgentConfigFromJSON(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.json", baseConfig)
	chdir(t, dir)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	agent := cfg.Intelligence.Agent
	if agent.Name != "test-agent" {
		t.Errorf("agent name: got %s, want test-agent", agent.Name)
	}
	if agent.Provider == nil {
		t.Fatal("agent provider is nil")
	}
	if agent.Provider.Name != "ollama" {
		t.Errorf("provider name: got %s, want ollama", agent.Provider.Name)
	}
	if agent.Provider.BaseURL != "http://localhost:11434" {
		t.Errorf("provider base_url: got %s, want http://localhost:11434", agent.Provider.BaseURL)
	}
	if agent.Model == nil {
		t.Fatal("agent model is nil")
	}
	if agent.Model.Name != "llama3.1:8b" {
		t.Errorf("model name: got %s, want llama3.1:8b", agent.Model.Name)
	}
}

func TestAgentDefaults(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.json", minimalConfig)
	chdir(t, dir)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Intelligence.Agent.Provider == nil {
		t.Fatal("agent provider is nil")
	}
	if cfg.Intelligence.Agent.Provider.Name != "ollama" {
		t.Errorf("provider name: got %s, want ollama", cfg.Intelligence.Agent.Provider.Name)
	}
	if cfg.Intelligence.Judge.Provider == nil {
		t.Fatal("judge provider is nil")
	}
	if cfg.Intelligence.Judge.Provider.Name != "ollama" {
		t.Errorf("judge provider name: got %s, want ollama", cfg.Intelligence.Judge.Provider.Name)
	}
}

func TestAgentEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.json", baseConfig)
	chdir(t, dir)

	t.Setenv("VANTAGE_AGENT_PROVIDER_NAME", "azure")
	t.Setenv("VANTAGE_AGENT_BASE_URL", "https://myendpoint.openai.azure.com")
	t.Setenv("VANTAGE_AGENT_MODEL_NAME", "gpt-5-mini")
	t.Setenv("VANTAGE_AGENT_TOKEN", "test-token")
	t.Setenv("VANTAGE_AGENT_DEPLOYMENT", "gpt-5-mini")
	t.Setenv("VANTAGE_AGENT_API_VERSION", "2024-12-01-preview")
	t.Setenv("VANTAGE_AGENT_AUTH_TYPE", "api_key")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	agent := cfg.Intelligence.Agent
	if agent.Provider.Name != "azure" {
		t.Errorf("provider name: got %s, want azure", agent.Provider.Name)
	}
	if agent.Provider.BaseURL != "https://myendpoint.openai.azure.com" {
		t.Errorf("provider base_url: got %s, want https://myendpoint.openai.azure.com", agent.Provider.BaseURL)
	}
	if agent.Model.Name != "gpt-5-mini" {
		t.Errorf("model name: got %s, want gpt-5-mini", agent.Model.Name)
	}

	opts := agent.Provider.Options
	if opts["token"] != "test-token" {
		t.Errorf("token: got %v, want test-token", opts["token"])
	}
	if opts["deployment"] != "gpt-5-mini" {
		t.Errorf("deployment: got %v, want gpt-5-mini", opts["deployment"])
	}
	if opts["api_version"] != "2024-12-01-preview" {
		t.Errorf("api_version: got %v, want 2024-12-01-preview", opts["api_version"])
	}
	if opts["auth_type"] != "api_key" {
		t.Errorf("auth_type: got %v, want api_key", opts["auth_type"])
	}
}

func TestJudgeEnvOverridesIndependent(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.json", baseConfig)
	chdir(t, dir)

	t.Setenv("VANTAGE_JUDGE_MODEL_NAME", "qwen2.5:14b")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Intelligence.Judge.Model.Name != "qwen2.5:14b" {
		t.Errorf("judge model: got %s, want qwen2.5:14b", cfg.Intelligence.Judge.Model.Name)
	}
	if cfg.Intelligence.Agent.Model.Name != "llama3.1:8b" {
		t.Errorf("agent model: got %s, want llama3.1:8b (unaffected by judge env)", cfg.Intelligence.Agent.Model.Name)
	}
}

func TestAgentTokenNotRequired(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.json", baseConfig)
	chdir(t, dir)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if _, ok := cfg.Intelligence.Agent.Provider.Options["token"]; ok {
		t.Error("token should not be set when env var is absent")
	}
}

func TestAgentOverlay(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.json", baseConfig)
	writeConfig(t, dir, "config.staging.json", `{
		"intelligence": {
			"agent": {
				"name": "staging-agent",
				"provider": {
					"name": "azure",
					"base_url": "https://staging.openai.azure.com"
				},
				"model": {
					"name": "gpt-5-mini"
				}
			}
		}
	}`)
	chdir(t, dir)

	t.Setenv("VANTAGE_ENV", "staging")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	agent := cfg.Intelligence.Agent
	if agent.Name != "staging-agent" {
		t.Errorf("agent name: got %s, want staging-agent", agent.Name)
	}
	if agent.Provider.Name != "azure" {
		t.Errorf("provider name: got %s, want azure", agent.Provider.Name)
	}
	if agent.Provider.BaseURL != "https://staging.openai.azure.com" {
		t.Errorf("provider base_url: got %s, want https://staging.openai.azure.com", agent.Provider.BaseURL)
	}
	if agent.Model.Name != "gpt-5-mini" {
		t.Errorf("model name: got %s, want gpt-5-mini", agent.Model.Name)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("server port: got %d, want 8080 (from base)", cfg.Server.Port)
	}
}
