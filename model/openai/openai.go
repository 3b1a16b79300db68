// Package openai provides model.Backend and model.Embedder implementations on
// top of the OpenAI Chat Completions and Embeddings APIs.
package openai

import (
	"context"
	"fmt"
	"net/http"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/hupe1980/severn/core"
	"github.com/hupe1980/severn/logging"
	"github.com/hupe1980/severn/model"
)

const provider = "openai"

// Options configure the OpenAI model adapter.
type Options struct {
	// APIKey is required by NewModel. It is never read from the environment here.
	APIKey       string
	Organization string
	// BaseURL overrides the API endpoint (proxies, compatible servers, tests).
	BaseURL string

	Model               string
	Temperature         float64
	MaxCompletionTokens int64

	EmbeddingModel openai.EmbeddingModel
	// Dimensions is sent with embedding requests when > 0. Only the
	// text-embedding-3 family accepts it.
	Dimensions int64

	// MaxRetries is the SDK level retry count for transport failures.
	MaxRetries int
	// HTTPClient defaults to a client with an OpenTelemetry transport.
	HTTPClient *http.Client

	Logger logging.Logger
}

// Model wraps the OpenAI API behind model.Backend and model.Embedder.
type Model struct {
	client *openai.Client
	opts   Options
}

func defaultOptions() Options {
	return Options{
		Model:               openai.ChatModelGPT4o,
		Temperature:         0.7,
		MaxCompletionTokens: 4096,
		EmbeddingModel:      openai.EmbeddingModelTextEmbeddingAda002,
		MaxRetries:          2,
		Logger:              logging.NoOpLogger{},
	}
}

// NewModel creates a new OpenAI model from explicit options.
func NewModel(optFns ...func(o *Options)) (*Model, error) {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.APIKey == "" {
		return nil, fmt.Errorf("%w: openai api key", core.ErrMissingValue)
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
	if opts.Organization != "" {
		clientOpts = append(clientOpts, option.WithOrganization(opts.Organization))
	}
	if opts.BaseURL != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(opts.BaseURL))
	}

	client := openai.NewClient(clientOpts...)

	return newModel(&client, opts), nil
}

// NewModelFromClient creates a new OpenAI model from an existing client.
// Client related options (APIKey, BaseURL, HTTPClient, MaxRetries) are ignored.
func NewModelFromClient(client *openai.Client, optFns ...func(o *Options)) *Model {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}
	return newModel(client, opts)
}

func newModel(client *openai.Client, opts Options) *Model {
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}
	return &Model{client: client, opts: opts}
}

// Prompt sends the agent's system message and the composed user input and
// returns the first choice's text.
func (m *Model) Prompt(ctx context.Context, prompt, data string, agent core.Agent) (string, error) {
	input, err := model.ComposeInput(prompt, data)
	if err != nil {
		return "", err
	}

	params := openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(agent.SystemMessage()),
			openai.UserMessage(input),
		},
		Model:       m.opts.Model,
		Temperature: openai.Float(m.opts.Temperature),
	}
	if m.opts.MaxCompletionTokens > 0 {
		params.MaxCompletionTokens = openai.Int(m.opts.MaxCompletionTokens)
	}

	resp, err := m.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", wrapError(ctx, err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", core.ErrEmptyResponse
	}

	m.opts.Logger.Debug("Retrieved result from prompt",
		"provider", provider,
		"model", resp.Model,
		"agent", agent.Name(),
		"total_tokens", resp.Usage.TotalTokens,
	)

	return resp.Choices[0].Message.Content, nil
}

// EmbedSentence embeds a single query string.
func (m *Model) EmbedSentence(ctx context.Context, text string) ([]float32, error) {
	vectors, err := m.embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedChunks embeds chunks in one request and returns the vectors in
// input order.
func (m *Model) EmbedChunks(ctx context.Context, chunks []string) ([][]float32, error) {
	if len(chunks) == 0 {
		return nil, fmt.Errorf("%w: no chunks to embed", core.ErrMissingValue)
	}
	return m.embed(ctx, chunks)
}

func (m *Model) embed(ctx context.Context, input []string) ([][]float32, error) {
	params := openai.EmbeddingNewParams{
		Input: openai.EmbeddingNewParamsInputUnion{OfArrayOfStrings: input},
		Model: m.opts.EmbeddingModel,
	}
	if m.opts.Dimensions > 0 {
		params.Dimensions = openai.Int(m.opts.Dimensions)
	}

	resp, err := m.client.Embeddings.New(ctx, params)
	if err != nil {
		return nil, wrapError(ctx, err)
	}

	if len(resp.Data) != len(input) {
		return nil, fmt.Errorf("%w: expected %d embeddings, got %d", core.ErrMissingValue, len(input), len(resp.Data))
	}

	out := make([][]float32, len(input))
	for _, d := range resp.Data {
		if d.Index < 0 || int(d.Index) >= len(out) {
			return nil, &core.SerializationError{Op: "decode embedding", Err: fmt.Errorf("index %d out of range", d.Index)}
		}
		vec := make([]float32, len(d.Embedding))
		for i, v := range d.Embedding {
			vec[i] = float32(v)
		}
		out[d.Index] = vec
	}

	for i, vec := range out {
		if vec == nil {
			return nil, &core.SerializationError{Op: "decode embedding", Err: fmt.Errorf("no embedding for input %d", i)}
		}
	}

	return out, nil
}

// Info returns metadata describing this OpenAI model implementation.
func (m *Model) Info() model.Info {
	return model.Info{
		Name:     m.opts.Model,
		Provider: provider,
	}
}

// wrapError keeps caller cancellation distinct from provider failures.
func wrapError(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return core.NewBackendError(provider, err)
}
