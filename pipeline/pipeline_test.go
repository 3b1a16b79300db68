package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hupe1980/severn/agent"
	"github.com/hupe1980/severn/datasource"
	"github.com/hupe1980/severn/internal/testutil"
)

func TestNew_Empty(t *testing.T) {
	p := New()

	assert.Equal(t, 0, p.Len())
	assert.Empty(t, p.Agents())
	assert.Nil(t, p.DataSource())
}

func TestAddAgent_DoesNotMutateReceiver(t *testing.T) {
	base := New()
	withWriter := base.AddAgent(agent.NewPersona("writer", "write"))
	withBoth := withWriter.AddAgent(agent.NewPersona("reviewer", "review"))

	assert.Equal(t, 0, base.Len())
	assert.Equal(t, []string{"writer"}, withWriter.Names())
	assert.Equal(t, []string{"writer", "reviewer"}, withBoth.Names())
}

func TestAddAgent_SiblingsDoNotShareBackingArray(t *testing.T) {
	base := New().AddAgents(testutil.Personas("a", "b")...)

	left := base.AddAgent(agent.NewPersona("left", "l"))
	right := base.AddAgent(agent.NewPersona("right", "r"))

	assert.Equal(t, []string{"a", "b", "left"}, left.Names())
	assert.Equal(t, []string{"a", "b", "right"}, right.Names())
}

func TestAddAgent_IgnoresNil(t *testing.T) {
	p := New().AddAgent(nil).AddAgents(agent.NewPersona("a", "s"), nil)
	assert.Equal(t, []string{"a"}, p.Names())
}

func TestAddAgent_AllowsDuplicates(t *testing.T) {
	p := New().AddAgents(testutil.Personas("a", "a")...)
	assert.Equal(t, []string{"a", "a"}, p.Names())
}

func TestAgents_ReturnsCopy(t *testing.T) {
	p := New().AddAgents(testutil.Personas("a", "b")...)

	agents := p.Agents()
	agents[0] = agent.NewPersona("mutated", "x")

	assert.Equal(t, []string{"a", "b"}, p.Names())
}

func TestAddDataSource_Replaces(t *testing.T) {
	first := datasource.Static("first")
	second := datasource.Static("second")

	p := New().AddDataSource(first)
	q := p.AddDataSource(second)

	assert.Equal(t, first, p.DataSource())
	assert.Equal(t, second, q.DataSource())
	assert.Nil(t, q.RemoveDataSource().DataSource())
}

func TestRemoveAgentAtIndex(t *testing.T) {
	p := New().AddAgents(testutil.Personas("a", "b", "c")...)

	tests := []struct {
		name  string
		index int
		want  []string
	}{
		{name: "first", index: 0, want: []string{"b", "c"}},
		{name: "middle", index: 1, want: []string{"a", "c"}},
		{name: "last", index: 2, want: []string{"a", "b"}},
		{name: "negative", index: -1, want: []string{"a", "b", "c"}},
		{name: "past end", index: 3, want: []string{"a", "b", "c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, p.RemoveAgentAtIndex(tt.index).Names())
			assert.Equal(t, []string{"a", "b", "c"}, p.Names())
		})
	}
}

func TestRemoveAgentByName(t *testing.T) {
	p := New().AddAgents(testutil.Personas("a", "b", "a")...)

	assert.Equal(t, []string{"b", "a"}, p.RemoveAgentByName("a").Names())
	assert.Equal(t, []string{"a", "a"}, p.RemoveAgentByName("b").Names())
	assert.Equal(t, []string{"a", "b", "a"}, p.RemoveAgentByName("missing").Names())
}
