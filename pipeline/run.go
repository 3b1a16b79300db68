package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/hupe1980/severn/core"
	"github.com/hupe1980/severn/logging"
	"github.com/hupe1980/severn/model"
)

// Run modes, used as span attribute, log field and metric label.
const (
	ModeSequence = "sequence"
	ModeIndex    = "index"
	ModeName     = "name"
)

// step is one agent scheduled for execution together with its position in
// the pipeline.
type step struct {
	index int
	agent core.Agent
}

// Run executes every agent in order using the registered data source (if
// any) for the initial context, and returns the last agent's output.
//
// An empty pipeline fails with core.ErrNoAgents before the data source is
// queried, so a failing data source is never reported for a pipeline
// without agents.
func (p *Pipeline) Run(ctx context.Context, prompt string, backend model.Backend) (string, error) {
	return p.RunWithDataSource(ctx, prompt, backend, p.dataSource)
}

// RunWithDataSource is Run with ds used for the initial context instead of
// the registered data source. The pipeline itself is left unchanged.
func (p *Pipeline) RunWithDataSource(ctx context.Context, prompt string, backend model.Backend, ds core.DataSource) (string, error) {
	return p.execute(ctx, ModeSequence, prompt, backend, ds, p.allSteps)
}

// RunAgentAtIndex executes only the agent at index, seeded with the
// registered data source. An out of range index fails with core.ErrNoAgents
// before the data source or backend is touched.
func (p *Pipeline) RunAgentAtIndex(ctx context.Context, prompt string, index int, backend model.Backend) (string, error) {
	return p.RunAgentAtIndexWithDataSource(ctx, prompt, index, backend, p.dataSource)
}

// RunAgentAtIndexWithDataSource is RunAgentAtIndex with ds as an override.
func (p *Pipeline) RunAgentAtIndexWithDataSource(ctx context.Context, prompt string, index int, backend model.Backend, ds core.DataSource) (string, error) {
	return p.execute(ctx, ModeIndex, prompt, backend, ds, func() ([]step, error) {
		if index < 0 || index >= len(p.agents) {
			return nil, fmt.Errorf("%w: index %d out of range for %d agents", core.ErrNoAgents, index, len(p.agents))
		}
		return []step{{index: index, agent: p.agents[index]}}, nil
	})
}

// RunAgentByName executes only the first agent whose name equals name.
// A missing name fails with core.ErrNoAgents before the data source or
// backend is touched.
func (p *Pipeline) RunAgentByName(ctx context.Context, prompt, name string, backend model.Backend) (string, error) {
	return p.RunAgentByNameWithDataSource(ctx, prompt, name, backend, p.dataSource)
}

// RunAgentByNameWithDataSource is RunAgentByName with ds as an override.
func (p *Pipeline) RunAgentByNameWithDataSource(ctx context.Context, prompt, name string, backend model.Backend, ds core.DataSource) (string, error) {
	return p.execute(ctx, ModeName, prompt, backend, ds, func() ([]step, error) {
		for i, a := range p.agents {
			if a.Name() == name {
				return []step{{index: i, agent: a}}, nil
			}
		}
		return nil, fmt.Errorf("%w: no agent named %q", core.ErrNoAgents, name)
	})
}

func (p *Pipeline) allSteps() ([]step, error) {
	if len(p.agents) == 0 {
		return nil, core.ErrNoAgents
	}
	steps := make([]step, len(p.agents))
	for i, a := range p.agents {
		steps[i] = step{index: i, agent: a}
	}
	return steps, nil
}

// execute selects the steps, resolves the initial context and threads it
// through the steps. A lookup miss never reaches the data source.
func (p *Pipeline) execute(ctx context.Context, mode, prompt string, backend model.Backend, ds core.DataSource, selectSteps func() ([]step, error)) (result string, err error) {
	runID := uuid.NewString()
	start := time.Now()
	executed := 0

	ctx, span := p.tracer.Start(ctx, "pipeline.run", trace.WithAttributes(
		attribute.String("severn.run_id", runID),
		attribute.String("severn.mode", mode),
		attribute.Int("severn.agent_count", len(p.agents)),
	))
	defer func() {
		dur := time.Since(start)
		span.SetAttributes(attribute.Int("severn.steps_executed", executed))
		if err != nil {
			recordError(span, err)
		}
		span.End()
		logging.LogPipelineRun(p.opts.Logger, runID, mode, executed, dur, err)
		p.opts.Metrics.observeRun(mode, err)
	}()

	steps, err := selectSteps()
	if err != nil {
		return "", err
	}

	if backend == nil {
		return "", fmt.Errorf("%w: backend", core.ErrMissingValue)
	}

	data, err := p.initialContext(ctx, ds)
	if err != nil {
		return "", err
	}

	for _, s := range steps {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		data, err = p.invoke(ctx, runID, s, prompt, data, backend)
		executed++
		if err != nil {
			return "", err
		}
	}

	return data, nil
}

// initialContext returns the empty string without a data source. An empty
// answer from a data source counts as a non-match.
func (p *Pipeline) initialContext(ctx context.Context, ds core.DataSource) (string, error) {
	if ds == nil {
		return "", nil
	}

	data, err := ds.RetrieveData(ctx)
	if err != nil {
		return "", err
	}
	if data == "" {
		return "", core.ErrDataSourceNoMatch
	}
	return data, nil
}

func (p *Pipeline) invoke(ctx context.Context, runID string, s step, prompt, data string, backend model.Backend) (string, error) {
	name := s.agent.Name()

	ctx, span := p.tracer.Start(ctx, "pipeline.agent", trace.WithAttributes(
		attribute.String("severn.agent", name),
		attribute.Int("severn.index", s.index),
		attribute.Int("severn.context_length", len(data)),
	))
	defer span.End()

	start := time.Now()
	out, err := backend.Prompt(ctx, prompt, data, s.agent)
	dur := time.Since(start)

	logging.LogAgentCall(p.opts.Logger, runID, name, s.index, dur, err)
	p.opts.Metrics.observeAgentCall(name, dur, err)

	if err != nil {
		recordError(span, err)
		return "", &core.StepError{Index: s.index, Agent: name, Err: err}
	}

	span.SetAttributes(attribute.Int("severn.output_length", len(out)))
	return out, nil
}

func recordError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	span.SetAttributes(attribute.String("severn.error_kind", core.KindOf(err).String()))
}
