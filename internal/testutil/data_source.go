package testutil

import (
	"context"
	"sync/atomic"

	"github.com/hupe1980/severn/agent"
	"github.com/hupe1980/severn/core"
)

// SourceBuilder provides a fluent helper for scripted data sources.
// Example:
//
//	src := NewSourceBuilder().Text("ground truth").Build()
//
// Without Text or Err the built source answers core.ErrDataSourceNoMatch.
type SourceBuilder struct {
	text string
	err  error
}

// NewSourceBuilder creates an empty builder.
func NewSourceBuilder() *SourceBuilder { return &SourceBuilder{} }

// Text sets the string the source returns (chainable).
func (b *SourceBuilder) Text(t string) *SourceBuilder { b.text = t; return b }

// Err makes the source fail with err (chainable). Err wins over Text.
func (b *SourceBuilder) Err(err error) *SourceBuilder { b.err = err; return b }

// Build returns a RecordingSource with the configured behavior.
func (b *SourceBuilder) Build() *RecordingSource {
	return &RecordingSource{text: b.text, err: b.err}
}

// RecordingSource is a core.DataSource that counts RetrieveData calls.
type RecordingSource struct {
	text  string
	err   error
	calls atomic.Int64
}

// RetrieveData implements core.DataSource.
func (s *RecordingSource) RetrieveData(ctx context.Context) (string, error) {
	s.calls.Add(1)
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if s.err != nil {
		return "", s.err
	}
	if s.text == "" {
		return "", core.ErrDataSourceNoMatch
	}
	return s.text, nil
}

// Calls returns how often RetrieveData was invoked.
func (s *RecordingSource) Calls() int { return int(s.calls.Load()) }

// Personas builds one persona per name with a derived system message.
func Personas(names ...string) []core.Agent {
	out := make([]core.Agent, len(names))
	for i, n := range names {
		out[i] = agent.NewPersona(n, "you are "+n)
	}
	return out
}
