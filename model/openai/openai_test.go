package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/severn/agent"
	"github.com/hupe1980/severn/core"
	"github.com/hupe1980/severn/model"
)

var (
	_ model.Backend   = (*Model)(nil)
	_ model.Embedder  = (*Model)(nil)
	_ model.Describer = (*Model)(nil)
)

func newTestModel(t *testing.T, handler http.HandlerFunc, optFns ...func(o *Options)) *Model {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	m, err := NewModel(append([]func(o *Options){func(o *Options) {
		o.APIKey = "test-key"
		o.BaseURL = srv.URL + "/"
		o.MaxRetries = 0
		o.HTTPClient = srv.Client()
	}}, optFns...)...)
	require.NoError(t, err)

	return m
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func TestNewModel_RequiresAPIKey(t *testing.T) {
	_, err := NewModel()
	assert.ErrorIs(t, err, core.ErrMissingValue)
}

func TestPrompt(t *testing.T) {
	var req struct {
		Model    string `json:"model"`
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}

	m := newTestModel(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		writeJSON(w, http.StatusOK, `{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"created": 1,
			"model": "gpt-4o",
			"choices": [{"index": 0, "finish_reason": "stop", "message": {"role": "assistant", "content": "a tight draft"}}],
			"usage": {"prompt_tokens": 10, "completion_tokens": 3, "total_tokens": 13}
		}`)
	})

	out, err := m.Prompt(context.Background(), "summarize X", "facts", agent.NewPersona("writer", "write concisely"))
	require.NoError(t, err)
	assert.Equal(t, "a tight draft", out)

	assert.Equal(t, "gpt-4o", req.Model)
	require.Len(t, req.Messages, 2)
	assert.Equal(t, "system", req.Messages[0].Role)
	assert.Equal(t, "write concisely", req.Messages[0].Content)
	assert.Equal(t, "user", req.Messages[1].Role)

	want, err := model.ComposeInput("summarize X", "facts")
	require.NoError(t, err)
	assert.Equal(t, want, req.Messages[1].Content)
}

func TestPrompt_NoChoices(t *testing.T) {
	m := newTestModel(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, `{"id": "x", "object": "chat.completion", "created": 1, "model": "gpt-4o", "choices": []}`)
	})

	_, err := m.Prompt(context.Background(), "p", "", agent.NewPersona("a", "s"))
	assert.ErrorIs(t, err, core.ErrEmptyResponse)
	assert.Equal(t, core.KindMissingValue, core.KindOf(err))
}

func TestPrompt_APIError(t *testing.T) {
	m := newTestModel(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusUnauthorized, `{"error": {"message": "invalid api key", "type": "invalid_request_error"}}`)
	})

	_, err := m.Prompt(context.Background(), "p", "", agent.NewPersona("a", "s"))
	require.Error(t, err)
	assert.Equal(t, core.KindBackend, core.KindOf(err))

	var be *core.BackendError
	require.ErrorAs(t, err, &be)
	assert.Equal(t, "openai", be.Provider)
}

func TestPrompt_Canceled(t *testing.T) {
	m := newTestModel(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, `{}`)
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := m.Prompt(ctx, "p", "", agent.NewPersona("a", "s"))
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotEqual(t, core.KindBackend, core.KindOf(err))
}

func TestEmbedChunks_OrdersByIndex(t *testing.T) {
	var req struct {
		Input []string `json:"input"`
		Model string   `json:"model"`
	}

	m := newTestModel(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/embeddings", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		writeJSON(w, http.StatusOK, `{
			"object": "list",
			"model": "text-embedding-ada-002",
			"data": [
				{"object": "embedding", "index": 1, "embedding": [0.5, 0.25]},
				{"object": "embedding", "index": 0, "embedding": [1, 2]}
			],
			"usage": {"prompt_tokens": 2, "total_tokens": 2}
		}`)
	})

	vecs, err := m.EmbedChunks(context.Background(), []string{"first", "second"})
	require.NoError(t, err)
	assert.Equal(t, [][]float32{{1, 2}, {0.5, 0.25}}, vecs)
	assert.Equal(t, []string{"first", "second"}, req.Input)
	assert.Equal(t, "text-embedding-ada-002", req.Model)
}

func TestEmbedSentence(t *testing.T) {
	m := newTestModel(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, `{"object": "list", "model": "m", "data": [{"object": "embedding", "index": 0, "embedding": [0.1]}]}`)
	})

	vec, err := m.EmbedSentence(context.Background(), "query")
	require.NoError(t, err)
	assert.InDelta(t, 0.1, vec[0], 1e-6)
}

func TestEmbedChunks_Empty(t *testing.T) {
	m := newTestModel(t, func(http.ResponseWriter, *http.Request) {
		assert.Fail(t, "no request expected")
	})

	_, err := m.EmbedChunks(context.Background(), nil)
	assert.ErrorIs(t, err, core.ErrMissingValue)
}

func TestEmbed_MissingVectors(t *testing.T) {
	m := newTestModel(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, `{"object": "list", "model": "m", "data": []}`)
	})

	_, err := m.EmbedSentence(context.Background(), "query")
	assert.ErrorIs(t, err, core.ErrMissingValue)
}

func TestEmbedChunks_DuplicateIndex(t *testing.T) {
	m := newTestModel(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, `{
			"object": "list",
			"model": "m",
			"data": [
				{"object": "embedding", "index": 0, "embedding": [1]},
				{"object": "embedding", "index": 0, "embedding": [2]}
			]
		}`)
	})

	_, err := m.EmbedChunks(context.Background(), []string{"a", "b"})
	assert.Equal(t, core.KindSerialization, core.KindOf(err))
}

func TestInfo(t *testing.T) {
	m := newTestModel(t, func(http.ResponseWriter, *http.Request) {}, func(o *Options) {
		o.Model = "gpt-4o-mini"
	})

	assert.Equal(t, model.Info{Name: "gpt-4o-mini", Provider: "openai"}, m.Info())
}
