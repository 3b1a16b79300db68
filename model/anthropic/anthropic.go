// Package anthropic provides a model.Backend for the Anthropic Claude
// Messages API.
package anthropic

import (
	"context"
	"fmt"
	"net/http"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/hupe1980/severn/core"
	"github.com/hupe1980/severn/logging"
	"github.com/hupe1980/severn/model"
)

const provider = "anthropic"

// Options configures the Anthropic model adapter (temperature, model id,
// max tokens, API key).
type Options struct {
	Model       anthropic.Model
	Temperature float64
	MaxTokens   int64

	// APIKey is required by NewModel.
	APIKey  string
	BaseURL string

	// MaxRetries is the SDK level retry count for transport failures.
	MaxRetries int
	// HTTPClient defaults to a client with an OpenTelemetry transport.
	HTTPClient *http.Client

	Logger logging.Logger
}

// Model wraps the Anthropic Messages API behind model.Backend.
type Model struct {
	client *anthropic.Client
	opts   Options
}

func defaultOptions() Options {
	return Options{
		Model:       anthropic.ModelClaude3_5Sonnet20241022,
		Temperature: 0.7,
		MaxTokens:   4096,
		MaxRetries:  2,
		Logger:      logging.NoOpLogger{},
	}
}

// NewModel creates a new Anthropic model using the official client.
func NewModel(optFns ...func(o *Options)) (*Model, error) {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.APIKey == "" {
		return nil, fmt.Errorf("%w: anthropic api key", core.ErrMissingValue)
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}
	}

	clientOpts := []option.RequestOption{
		option.WithAPIKey(opts.APIKey),
		option.WithMaxRetries(opts.MaxRetries),
		option.WithHTTPClient(httpClient),
	}
	if opts.BaseURL != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(opts.BaseURL))
	}

	client := anthropic.NewClient(clientOpts...)

	return newModel(&client, opts), nil
}

// NewModelFromClient creates a new Anthropic model from an existing client.
func NewModelFromClient(client *anthropic.Client, optFns ...func(o *Options)) *Model {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}
	return newModel(client, opts)
}

func newModel(client *anthropic.Client, opts Options) *Model {
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}
	return &Model{client: client, opts: opts}
}

// Prompt sends the agent's system message as the system block and the
// composed input as a single user turn. The first text block is returned.
func (m *Model) Prompt(ctx context.Context, prompt, data string, agent core.Agent) (string, error) {
	input, err := model.ComposeInput(prompt, data)
	if err != nil {
		return "", err
	}

	params := anthropic.MessageNewParams{
		Model:       m.opts.Model,
		MaxTokens:   m.opts.MaxTokens,
		Temperature: anthropic.Float(m.opts.Temperature),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(input)),
		},
	}
	if sys := agent.SystemMessage(); sys != "" {
		params.System = []anthropic.TextBlockParam{{Text: sys}}
	}

	resp, err := m.client.Messages.New(ctx, params)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		return "", core.NewBackendError(provider, err)
	}

	for _, block := range resp.Content {
		if block.Type != "text" {
			continue
		}
		if text := block.AsText().Text; text != "" {
			m.opts.Logger.Debug("Retrieved result from prompt",
				"provider", provider,
				"model", string(resp.Model),
				"agent", agent.Name(),
				"stop_reason", string(resp.StopReason),
			)
			return text, nil
		}
	}

	return "", core.ErrEmptyResponse
}

// Info returns metadata describing this Anthropic model implementation.
func (m *Model) Info() model.Info {
	return model.Info{
		Name:     string(m.opts.Model),
		Provider: provider,
	}
}
