package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/hupe1980/severn/logging"
	"github.com/hupe1980/severn/model"
)

// Backend names accepted in Config.Backend.
const (
	BackendOpenAI    = "openai"
	BackendAnthropic = "anthropic"
	BackendEcho      = "echo"
)

// Data source types accepted in DataSourceConfig.Type. The empty type means
// no data source.
const (
	DataSourceStatic   = "static"
	DataSourceFile     = "file"
	DataSourceWeaviate = "weaviate"
	DataSourceHTTP     = "http"
)

// Premade agent names accepted in AgentConfig.Premade.
const (
	PremadeWriter     = "writer"
	PremadeResearcher = "researcher"
)

// Config is the root configuration.
type Config struct {
	Logging    LoggingConfig    `yaml:"logging"`
	Backend    string           `yaml:"backend"`
	OpenAI     OpenAIConfig     `yaml:"openai"`
	Anthropic  AnthropicConfig  `yaml:"anthropic"`
	Weaviate   WeaviateConfig   `yaml:"weaviate"`
	Retry      RetryConfig      `yaml:"retry"`
	Agents     []AgentConfig    `yaml:"agents"`
	DataSource DataSourceConfig `yaml:"data_source"`
}

// LoggingConfig selects the log level and handler format.
type LoggingConfig struct {
	Level     string `yaml:"level"`
	Format    string `yaml:"format"` // json, text or tint
	AddSource bool   `yaml:"add_source"`
}

// OpenAIConfig configures the OpenAI chat and embedding adapter.
type OpenAIConfig struct {
	APIKey         string  `yaml:"api_key"`
	Organization   string  `yaml:"organization"`
	BaseURL        string  `yaml:"base_url"`
	Model          string  `yaml:"model"`
	Temperature    float64 `yaml:"temperature"`
	MaxTokens      int64   `yaml:"max_tokens"`
	EmbeddingModel string  `yaml:"embedding_model"`
	Dimensions     int64   `yaml:"dimensions"`
}

// AnthropicConfig configures the Anthropic chat adapter.
type AnthropicConfig struct {
	APIKey      string  `yaml:"api_key"`
	BaseURL     string  `yaml:"base_url"`
	Model       string  `yaml:"model"`
	Temperature float64 `yaml:"temperature"`
	MaxTokens   int64   `yaml:"max_tokens"`
}

// WeaviateConfig configures the vector store.
type WeaviateConfig struct {
	URL    string `yaml:"url"`
	APIKey string `yaml:"api_key"`
	Class  string `yaml:"class"`
	Limit  int    `yaml:"limit"`
}

// RetryConfig configures model.WithRetry. MaxTries of 1 disables retrying.
type RetryConfig struct {
	MaxTries        uint          `yaml:"max_tries"`
	InitialInterval time.Duration `yaml:"initial_interval"`
	MaxInterval     time.Duration `yaml:"max_interval"`
	MaxElapsedTime  time.Duration `yaml:"max_elapsed_time"`
}

// AgentConfig declares one pipeline agent, either inline or premade.
type AgentConfig struct {
	Name          string `yaml:"name"`
	SystemMessage string `yaml:"system_message"`

	// Premade selects a built-in agent (writer or researcher) instead of
	// Name and SystemMessage.
	Premade        string `yaml:"premade"`
	TargetAudience string `yaml:"target_audience"`
	Tone           string `yaml:"tone"`
}

// DataSourceConfig declares the pipeline's data source.
type DataSourceConfig struct {
	Type string `yaml:"type"`

	Text  string `yaml:"text"`  // static
	Path  string `yaml:"path"`  // file
	Query string `yaml:"query"` // weaviate

	URL     string            `yaml:"url"` // http
	Method  string            `yaml:"method"`
	Body    any               `yaml:"body"`
	Headers map[string]string `yaml:"headers"`
}

// Default returns the baseline configuration.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: "tint",
		},
		Backend: BackendOpenAI,
		OpenAI: OpenAIConfig{
			Model:          "gpt-4o",
			Temperature:    0.7,
			MaxTokens:      4096,
			EmbeddingModel: "text-embedding-ada-002",
		},
		Anthropic: AnthropicConfig{
			Model:       "claude-3-5-sonnet-20241022",
			Temperature: 0.7,
			MaxTokens:   4096,
		},
		Weaviate: WeaviateConfig{
			URL:   "http://localhost:8080",
			Class: "Document",
			Limit: 1,
		},
		Retry: RetryConfig{
			MaxTries:        3,
			InitialInterval: 500 * time.Millisecond,
			MaxInterval:     10 * time.Second,
			MaxElapsedTime:  time.Minute,
		},
	}
}

// Load reads the YAML file at path on top of Default. Unknown keys are an
// error so a misspelled option never goes unnoticed.
func Load(path string) (*Config, error) {
	cfg := Default()

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer func() { _ = f.Close() }()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks that the configuration is complete for the selected
// backend and data source.
func (c *Config) Validate() error {
	var errs []error

	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		errs = append(errs, err)
	}
	switch c.Logging.Format {
	case "", "json", "text", "tint":
	default:
		errs = append(errs, fmt.Errorf("unknown log format %q", c.Logging.Format))
	}

	switch c.Backend {
	case BackendOpenAI:
		if c.OpenAI.APIKey == "" {
			errs = append(errs, errors.New("openai.api_key is required (or set OPENAI_API_KEY)"))
		}
	case BackendAnthropic:
		if c.Anthropic.APIKey == "" {
			errs = append(errs, errors.New("anthropic.api_key is required (or set ANTHROPIC_API_KEY)"))
		}
	case BackendEcho:
	default:
		errs = append(errs, fmt.Errorf("unknown backend %q", c.Backend))
	}

	if c.Retry.MaxTries == 0 {
		errs = append(errs, errors.New("retry.max_tries must be at least 1"))
	}

	for i, a := range c.Agents {
		if err := a.validate(); err != nil {
			errs = append(errs, fmt.Errorf("agents[%d]: %w", i, err))
		}
	}

	if err := c.validateDataSource(); err != nil {
		errs = append(errs, fmt.Errorf("data_source: %w", err))
	}

	return errors.Join(errs...)
}

func (a AgentConfig) validate() error {
	switch a.Premade {
	case "":
		if a.Name == "" {
			return errors.New("name is required")
		}
	case PremadeWriter, PremadeResearcher:
	default:
		return fmt.Errorf("unknown premade agent %q", a.Premade)
	}
	return nil
}

func (c *Config) validateDataSource() error {
	ds := c.DataSource
	switch ds.Type {
	case "":
	case DataSourceStatic:
		if ds.Text == "" {
			return errors.New("text is required")
		}
	case DataSourceFile:
		if ds.Path == "" {
			return errors.New("path is required")
		}
	case DataSourceWeaviate:
		if ds.Query == "" {
			return errors.New("query is required")
		}
		if c.Weaviate.URL == "" {
			return errors.New("weaviate.url is required")
		}
		if c.Backend != BackendOpenAI && c.OpenAI.APIKey == "" {
			return errors.New("openai.api_key is required for query embeddings")
		}
	case DataSourceHTTP:
		if ds.URL == "" {
			return errors.New("url is required")
		}
	default:
		return fmt.Errorf("unknown type %q", ds.Type)
	}
	return nil
}

// LoggerConfig converts the logging section. An unparsable level falls back
// to info; Validate reports it.
func (c *Config) LoggerConfig(out io.Writer) *logging.LoggerConfig {
	level, _ := logging.ParseLevel(c.Logging.Level)
	return &logging.LoggerConfig{
		Level:     level,
		Format:    strings.ToLower(c.Logging.Format),
		Output:    out,
		AddSource: c.Logging.AddSource,
		Component: "severn",
	}
}

// RetryOptions returns an option function for model.WithRetry.
func (c *Config) RetryOptions(logger logging.Logger) func(o *model.RetryOptions) {
	return func(o *model.RetryOptions) {
		o.MaxTries = c.Retry.MaxTries
		if c.Retry.InitialInterval > 0 {
			o.InitialInterval = c.Retry.InitialInterval
		}
		if c.Retry.MaxInterval > 0 {
			o.MaxInterval = c.Retry.MaxInterval
		}
		if c.Retry.MaxElapsedTime > 0 {
			o.MaxElapsedTime = c.Retry.MaxElapsedTime
		}
		o.Logger = logger
	}
}
