package testutil

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/hupe1980/severn/core"
)

// MockBackend is a testify mock satisfying model.Backend. Expectations are
// matched on (prompt, data, agent name):
//
//	b := &MockBackend{}
//	b.On("Prompt", "p", "", "writer").Return("draft", nil).Once()
type MockBackend struct{ mock.Mock }

// Prompt records the call and returns the configured (string, error) pair.
func (m *MockBackend) Prompt(_ context.Context, prompt, data string, agent core.Agent) (string, error) {
	args := m.Called(prompt, data, agent.Name())
	return args.String(0), args.Error(1)
}
