package pipeline

import (
	"context"
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/hupe1980/severn/core"
	"github.com/hupe1980/severn/internal/testutil"
	"github.com/hupe1980/severn/model"
)

var agentName = rapid.StringMatching(`[a-z]{1,6}`)

// outputsOf replays the echo backend over names starting from seed.
func outputsOf(names []string, seed string) []string {
	out := make([]string, len(names))
	ctx := seed
	for i, n := range names {
		ctx = n + ":" + ctx
		out[i] = ctx
	}
	return out
}

// Every call sees exactly the previous call's output and the run returns
// the last output.
func TestProperty_ContextThreading(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		names := rapid.SliceOfN(agentName, 1, 8).Draw(rt, "names")
		seed := rapid.StringMatching(`[a-z ]{0,12}`).Draw(rt, "seed")

		p := New().AddAgents(testutil.Personas(names...)...)
		if seed != "" {
			p = p.AddDataSource(testutil.NewSourceBuilder().Text(seed).Build())
		}

		backend := model.NewMockBackend(nil)
		out, err := p.Run(context.Background(), "prompt", backend)
		require.NoError(rt, err)

		want := outputsOf(names, seed)
		assert.Equal(rt, want[len(want)-1], out)

		calls := backend.Calls()
		require.Len(rt, calls, len(names))
		for i, c := range calls {
			assert.Equal(rt, names[i], c.Agent)
			if i == 0 {
				assert.Equal(rt, seed, c.Data)
				continue
			}
			assert.Equal(rt, want[i-1], c.Data)
			if i >= 2 {
				assert.NotEqual(rt, want[i-2], c.Data)
			}
		}
	})
}

func TestProperty_ZeroAgentsAlwaysNoAgents(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		p := New()
		src := testutil.NewSourceBuilder()
		switch rapid.IntRange(0, 2).Draw(rt, "source") {
		case 1:
			p = p.AddDataSource(src.Text("facts").Build())
		case 2:
			p = p.AddDataSource(src.Err(errors.New("unreachable")).Build())
		}

		backend := model.NewMockBackend(nil)
		_, err := p.Run(context.Background(), "prompt", backend)
		assert.Equal(rt, core.KindNoAgents, core.KindOf(err))
		assert.Equal(rt, 0, backend.CallCount())
	})
}

func TestProperty_IndexOutOfRange(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		names := rapid.SliceOfN(agentName, 0, 6).Draw(rt, "names")
		index := rapid.OneOf(
			rapid.IntRange(-50, -1),
			rapid.IntRange(len(names), len(names)+50),
		).Draw(rt, "index")

		backend := model.NewMockBackend(nil)
		_, err := New().AddAgents(testutil.Personas(names...)...).
			RunAgentAtIndex(context.Background(), "prompt", index, backend)

		assert.ErrorIs(rt, err, core.ErrNoAgents)
		assert.Equal(rt, 0, backend.CallCount())
	})
}

func TestProperty_ByNameFirstMatch(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		names := rapid.SliceOfN(agentName, 1, 8).Draw(rt, "names")
		target := rapid.OneOf(rapid.SampledFrom(names), agentName).Draw(rt, "target")

		p := New().AddAgents(testutil.Personas(names...)...)
		backend := model.NewMockBackend(func(_ context.Context, _ string, _ string, a core.Agent) (string, error) {
			return a.SystemMessage(), nil
		})

		out, err := p.RunAgentByName(context.Background(), "prompt", target, backend)

		first := slices.Index(names, target)
		if first < 0 {
			assert.ErrorIs(rt, err, core.ErrNoAgents)
			assert.Equal(rt, 0, backend.CallCount())
			return
		}

		require.NoError(rt, err)
		assert.Equal(rt, p.Agents()[first].SystemMessage(), out)
		assert.Equal(rt, 1, backend.CallCount())
	})
}

func TestProperty_NoMatchMeansNoBackendCalls(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		names := rapid.SliceOfN(agentName, 1, 6).Draw(rt, "names")

		backend := model.NewMockBackend(nil)
		_, err := New().AddAgents(testutil.Personas(names...)...).
			AddDataSource(testutil.NewSourceBuilder().Err(core.ErrDataSourceNoMatch).Build()).
			Run(context.Background(), "prompt", backend)

		assert.Equal(rt, core.KindDataSourceNoMatch, core.KindOf(err))
		assert.Equal(rt, 0, backend.CallCount())
	})
}

func TestProperty_FailureAtStepK(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		names := rapid.SliceOfN(agentName, 1, 8).Draw(rt, "names")
		k := rapid.IntRange(1, len(names)).Draw(rt, "k")

		boom := core.NewBackendError("mock", errors.New("503"))
		backend := model.NewMockBackend(model.FailOnCall(int64(k), boom, model.Echo))

		out, err := New().AddAgents(testutil.Personas(names...)...).
			Run(context.Background(), "prompt", backend)

		assert.Empty(rt, out)
		assert.ErrorIs(rt, err, boom)
		assert.Equal(rt, k, backend.CallCount())

		var step *core.StepError
		require.ErrorAs(rt, err, &step)
		assert.Equal(rt, k-1, step.Index)
		assert.True(rt, strings.HasPrefix(err.Error(), "pipeline step"))
	})
}
