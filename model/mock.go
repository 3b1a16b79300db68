package model

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/hupe1980/severn/core"
)

// PromptFunc is the functional form of Backend.Prompt.
type PromptFunc func(ctx context.Context, prompt, data string, agent core.Agent) (string, error)

// Prompt implements Backend.
func (f PromptFunc) Prompt(ctx context.Context, prompt, data string, agent core.Agent) (string, error) {
	return f(ctx, prompt, data, agent)
}

// Echo replies with "<agent-name>:<context>".
func Echo(_ context.Context, _ string, data string, agent core.Agent) (string, error) {
	return agent.Name() + ":" + data, nil
}

// FailOnCall wraps fn so that the n-th call (1-based) returns err instead.
// The counter is shared by all goroutines using the returned func.
func FailOnCall(n int64, err error, fn PromptFunc) PromptFunc {
	var calls atomic.Int64
	return func(ctx context.Context, prompt, data string, agent core.Agent) (string, error) {
		if calls.Add(1) == n {
			return "", err
		}
		return fn(ctx, prompt, data, agent)
	}
}

// Call is one recorded MockBackend invocation.
type Call struct {
	Prompt string
	Data   string
	Agent  string
}

// MockBackend is a lightweight in-memory Backend useful for tests & examples.
// It records every call and answers through a PromptFunc (Echo by default).
type MockBackend struct {
	mu    sync.Mutex
	info  Info
	fn    PromptFunc
	calls []Call
}

// NewMockBackend constructs a MockBackend answering with fn; nil means Echo.
func NewMockBackend(fn PromptFunc) *MockBackend {
	if fn == nil {
		fn = Echo
	}
	return &MockBackend{
		info: Info{Name: "mock", Provider: "mock"},
		fn:   fn,
	}
}

// Prompt implements Backend; it honours context cancellation before answering.
func (m *MockBackend) Prompt(ctx context.Context, prompt, data string, agent core.Agent) (string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, Call{Prompt: prompt, Data: data, Agent: agent.Name()})
	m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return "", err
	}
	return m.fn(ctx, prompt, data, agent)
}

// Calls returns a copy of the recorded calls in invocation order.
func (m *MockBackend) Calls() []Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Call, len(m.calls))
	copy(out, m.calls)
	return out
}

// CallCount returns the number of recorded calls.
func (m *MockBackend) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// Info implements Describer.
func (m *MockBackend) Info() Info { return m.info }
