package model

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"

	"github.com/hupe1980/severn/core"
)

// Backend turns a user prompt, the accumulated context and an agent's identity
// into the agent's textual reply by delegating to an external model.
//
// Implementations compose the instruction payload (the agent's system message
// plus ComposeInput(prompt, data)), call the model and extract exactly one
// text. A response without choices or text yields core.ErrEmptyResponse, never
// an empty string; transport or auth failures yield a *core.BackendError.
// Retrying is the implementation's business (see WithRetry), not the caller's.
type Backend interface {
	Prompt(ctx context.Context, prompt string, data string, agent core.Agent) (string, error)
}

// Embedder turns text into vectors for similarity search.
type Embedder interface {
	// EmbedSentence embeds a single text.
	EmbedSentence(ctx context.Context, text string) ([]float32, error)
	// EmbedChunks embeds every chunk, preserving order.
	EmbedChunks(ctx context.Context, chunks []string) ([][]float32, error)
}

// Info contains metadata about a backend implementation.
type Info struct {
	Name     string `json:"name"`
	Provider string `json:"provider"` // "openai", "anthropic", "mock", etc.
}

// Describer is implemented by backends that expose metadata.
type Describer interface {
	Info() Info
}

// ComposeInput builds the user message sent alongside an agent's system
// message: the prompt followed by the JSON encoded context.
func ComposeInput(prompt, data string) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(data); err != nil {
		return "", &core.SerializationError{Op: "encode context", Err: err}
	}

	var b strings.Builder
	b.WriteString(prompt)
	b.WriteString("\n\nProvided context:\n")
	b.WriteString(strings.TrimSuffix(buf.String(), "\n"))
	return b.String(), nil
}
