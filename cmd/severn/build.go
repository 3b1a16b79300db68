package main

import (
	"fmt"
	"strings"

	anthropicsdk "github.com/anthropics/anthropic-sdk-go"
	openaisdk "github.com/openai/openai-go"

	"github.com/hupe1980/severn/agent"
	"github.com/hupe1980/severn/config"
	"github.com/hupe1980/severn/core"
	"github.com/hupe1980/severn/datasource"
	"github.com/hupe1980/severn/datasource/httpsource"
	"github.com/hupe1980/severn/datasource/weaviate"
	"github.com/hupe1980/severn/files"
	"github.com/hupe1980/severn/logging"
	"github.com/hupe1980/severn/model"
	"github.com/hupe1980/severn/model/anthropic"
	"github.com/hupe1980/severn/model/openai"
)

// newBackend creates the prompting backend selected by cfg.Backend. Vendor
// backends are wrapped with the configured retry policy.
func newBackend(cfg *config.Config, logger logging.Logger) (model.Backend, error) {
	var (
		backend model.Backend
		err     error
	)

	switch cfg.Backend {
	case config.BackendEcho:
		return model.PromptFunc(model.Echo), nil
	case config.BackendOpenAI:
		backend, err = newOpenAI(cfg, logger)
	case config.BackendAnthropic:
		backend, err = anthropic.NewModel(func(o *anthropic.Options) {
			o.APIKey = cfg.Anthropic.APIKey
			o.BaseURL = cfg.Anthropic.BaseURL
			o.Model = anthropicsdk.Model(cfg.Anthropic.Model)
			o.Temperature = cfg.Anthropic.Temperature
			o.MaxTokens = cfg.Anthropic.MaxTokens
			o.Logger = logger
		})
	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
	if err != nil {
		return nil, err
	}

	return model.WithRetry(backend, cfg.RetryOptions(logger)), nil
}

func newOpenAI(cfg *config.Config, logger logging.Logger) (*openai.Model, error) {
	return openai.NewModel(func(o *openai.Options) {
		o.APIKey = cfg.OpenAI.APIKey
		o.Organization = cfg.OpenAI.Organization
		o.BaseURL = cfg.OpenAI.BaseURL
		o.Model = cfg.OpenAI.Model
		o.Temperature = cfg.OpenAI.Temperature
		o.MaxCompletionTokens = cfg.OpenAI.MaxTokens
		o.EmbeddingModel = openaisdk.EmbeddingModel(cfg.OpenAI.EmbeddingModel)
		o.Dimensions = cfg.OpenAI.Dimensions
		o.Logger = logger
	})
}

// newWeaviateStore creates the vector store; OpenAI provides the embeddings.
func newWeaviateStore(cfg *config.Config, logger logging.Logger) (*weaviate.Store, error) {
	embedder, err := newOpenAI(cfg, logger)
	if err != nil {
		return nil, err
	}

	client, err := weaviate.NewClient(weaviate.ClientOptions{
		URL:    cfg.Weaviate.URL,
		APIKey: cfg.Weaviate.APIKey,
	})
	if err != nil {
		return nil, err
	}

	return weaviate.New(client, embedder, func(o *weaviate.Options) {
		o.Class = cfg.Weaviate.Class
		o.Limit = cfg.Weaviate.Limit
		o.Logger = logger
	}), nil
}

// buildAgents returns the configured agents followed by the premade and
// inline agents given on the command line, in flag order.
func buildAgents(cfgAgents []config.AgentConfig, premade, inline []string) ([]core.Agent, error) {
	agents := make([]core.Agent, 0, len(cfgAgents)+len(premade)+len(inline))

	for i, ac := range cfgAgents {
		a, err := agentFromConfig(ac)
		if err != nil {
			return nil, fmt.Errorf("agents[%d]: %w", i, err)
		}
		agents = append(agents, a)
	}

	for _, name := range premade {
		a, err := agentFromConfig(config.AgentConfig{Premade: name})
		if err != nil {
			return nil, fmt.Errorf("--premade: %w", err)
		}
		agents = append(agents, a)
	}

	for _, def := range inline {
		name, msg, ok := strings.Cut(def, "=")
		if !ok || strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("--agent %q: expected name=system message", def)
		}
		agents = append(agents, agent.NewPersona(strings.TrimSpace(name), msg))
	}

	return agents, nil
}

func agentFromConfig(ac config.AgentConfig) (core.Agent, error) {
	switch ac.Premade {
	case "":
		if ac.Name == "" {
			return nil, fmt.Errorf("%w: agent name", core.ErrMissingValue)
		}
		return agent.NewPersona(ac.Name, ac.SystemMessage), nil
	case config.PremadeWriter:
		w := agent.NewArticleWriter()
		if ac.TargetAudience != "" {
			w = w.WithTargetAudience(ac.TargetAudience)
		}
		if ac.Tone != "" {
			w = w.WithTone(ac.Tone)
		}
		return w, nil
	case config.PremadeResearcher:
		return agent.NewResearcher(), nil
	default:
		return nil, fmt.Errorf("unknown premade agent %q", ac.Premade)
	}
}

// newDataSource builds the data source declared in cfg. A nil source with
// a nil error means the pipeline runs without one.
func newDataSource(cfg *config.Config, logger logging.Logger) (core.DataSource, error) {
	ds := cfg.DataSource

	switch ds.Type {
	case "":
		return nil, nil
	case config.DataSourceStatic:
		return datasource.Static(ds.Text), nil
	case config.DataSourceFile:
		f, err := files.Read(ds.Path)
		if err != nil {
			return nil, err
		}
		return datasource.Static(f.Contents()), nil
	case config.DataSourceWeaviate:
		store, err := newWeaviateStore(cfg, logger)
		if err != nil {
			return nil, err
		}
		return store.Query(ds.Query), nil
	case config.DataSourceHTTP:
		b := httpsource.NewBuilder().URL(ds.URL)
		if ds.Method != "" {
			b = b.Method(ds.Method)
		}
		if ds.Body != nil {
			b = b.Body(ds.Body)
		}
		for k, v := range ds.Headers {
			b = b.Header(k, v)
		}
		src, err := b.Build()
		if err != nil {
			return nil, err
		}
		return src, nil
	default:
		return nil, fmt.Errorf("unknown data source type %q", ds.Type)
	}
}
