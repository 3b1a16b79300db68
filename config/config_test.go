package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/severn/logging"
	"github.com/hupe1980/severn/model"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	path := writeFile(t, "severn.yaml", `
backend: anthropic
logging:
  level: debug
  format: json
anthropic:
  model: claude-3-5-haiku-latest
retry:
  max_tries: 5
  initial_interval: 250ms
agents:
  - name: writer
    system_message: write concisely
  - premade: researcher
data_source:
  type: static
  text: some facts
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, BackendAnthropic, cfg.Backend)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "claude-3-5-haiku-latest", cfg.Anthropic.Model)
	assert.Equal(t, uint(5), cfg.Retry.MaxTries)
	assert.Equal(t, 250*time.Millisecond, cfg.Retry.InitialInterval)
	require.Len(t, cfg.Agents, 2)
	assert.Equal(t, "writer", cfg.Agents[0].Name)
	assert.Equal(t, PremadeResearcher, cfg.Agents[1].Premade)
	assert.Equal(t, DataSourceStatic, cfg.DataSource.Type)

	// Untouched sections keep their defaults.
	assert.Equal(t, "gpt-4o", cfg.OpenAI.Model)
	assert.Equal(t, 10*time.Second, cfg.Retry.MaxInterval)
	assert.Equal(t, "Document", cfg.Weaviate.Class)
}

func TestLoad_EmptyFile(t *testing.T) {
	cfg, err := Load(writeFile(t, "empty.yaml", ""))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_UnknownField(t *testing.T) {
	_, err := Load(writeFile(t, "bad.yaml", "backnd: openai\n"))
	assert.Error(t, err)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadEnv(t *testing.T) {
	envFile := writeFile(t, ".env", "OPENAI_API_KEY=from-file\nWEAVIATE_URL=http://weaviate:8080\nANTHROPIC_API_KEY=file-anthropic\n")
	t.Setenv(EnvAnthropicAPIKey, "from-process")
	t.Setenv(EnvOpenAIAPIKey, "")

	cfg := Default()
	require.NoError(t, cfg.LoadEnv(envFile))

	assert.Equal(t, "from-file", cfg.OpenAI.APIKey)
	assert.Equal(t, "from-process", cfg.Anthropic.APIKey)
	assert.Equal(t, "http://weaviate:8080", cfg.Weaviate.URL)
	assert.Empty(t, cfg.Weaviate.APIKey)
}

func TestLoadEnv_MissingExplicitFile(t *testing.T) {
	cfg := Default()
	err := cfg.LoadEnv(filepath.Join(t.TempDir(), "nope.env"))
	assert.Error(t, err)
}

func TestLoadEnv_NoDefaultFile(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv(EnvOpenAIOrgID, "org-1")

	cfg := Default()
	require.NoError(t, cfg.LoadEnv())
	assert.Equal(t, "org-1", cfg.OpenAI.Organization)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "echo backend", mutate: func(c *Config) { c.Backend = BackendEcho }},
		{name: "openai with key", mutate: func(c *Config) { c.OpenAI.APIKey = "k" }},
		{name: "openai without key", mutate: func(*Config) {}, wantErr: "openai.api_key"},
		{name: "anthropic without key", mutate: func(c *Config) { c.Backend = BackendAnthropic }, wantErr: "anthropic.api_key"},
		{name: "unknown backend", mutate: func(c *Config) { c.Backend = "llama" }, wantErr: "unknown backend"},
		{name: "bad level", mutate: func(c *Config) { c.Backend = BackendEcho; c.Logging.Level = "loud" }, wantErr: "unknown log level"},
		{name: "bad format", mutate: func(c *Config) { c.Backend = BackendEcho; c.Logging.Format = "xml" }, wantErr: "unknown log format"},
		{name: "zero retries", mutate: func(c *Config) { c.Backend = BackendEcho; c.Retry.MaxTries = 0 }, wantErr: "max_tries"},
		{
			name: "agent without name",
			mutate: func(c *Config) {
				c.Backend = BackendEcho
				c.Agents = []AgentConfig{{SystemMessage: "x"}}
			},
			wantErr: "agents[0]: name is required",
		},
		{
			name: "unknown premade",
			mutate: func(c *Config) {
				c.Backend = BackendEcho
				c.Agents = []AgentConfig{{Premade: "poet"}}
			},
			wantErr: "unknown premade",
		},
		{
			name:    "static without text",
			mutate:  func(c *Config) { c.Backend = BackendEcho; c.DataSource.Type = DataSourceStatic },
			wantErr: "data_source: text is required",
		},
		{
			name:    "weaviate needs embedding key",
			mutate:  func(c *Config) { c.Backend = BackendEcho; c.DataSource = DataSourceConfig{Type: DataSourceWeaviate, Query: "q"} },
			wantErr: "query embeddings",
		},
		{
			name:    "http without url",
			mutate:  func(c *Config) { c.Backend = BackendEcho; c.DataSource.Type = DataSourceHTTP },
			wantErr: "url is required",
		},
		{
			name:    "unknown data source",
			mutate:  func(c *Config) { c.Backend = BackendEcho; c.DataSource.Type = "ftp" },
			wantErr: "unknown type",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoggerConfig(t *testing.T) {
	cfg := Default()
	cfg.Logging.Level = "warn"
	cfg.Logging.Format = "TEXT"

	lc := cfg.LoggerConfig(os.Stderr)
	assert.Equal(t, logging.LogLevelWarn, lc.Level)
	assert.Equal(t, "text", lc.Format)
	assert.Equal(t, os.Stderr, lc.Output)
}

func TestRetryOptions(t *testing.T) {
	cfg := Default()
	cfg.Retry.MaxTries = 7
	cfg.Retry.MaxInterval = 0

	opts := model.DefaultRetryOptions()
	cfg.RetryOptions(logging.NoOpLogger{})(&opts)

	assert.Equal(t, uint(7), opts.MaxTries)
	assert.Equal(t, 500*time.Millisecond, opts.InitialInterval)
	assert.Equal(t, model.DefaultRetryOptions().MaxInterval, opts.MaxInterval)
	assert.Equal(t, logging.NoOpLogger{}, opts.Logger)
}
