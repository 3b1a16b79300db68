package pipeline

import (
	"slices"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/hupe1980/severn/core"
	"github.com/hupe1980/severn/logging"
)

const tracerName = "github.com/hupe1980/severn/pipeline"

// Options configures a Pipeline's ambient behavior. None of the options
// change the sequencing semantics.
type Options struct {
	// Logger receives one record per agent call and per run (defaults to NoOp).
	Logger logging.Logger

	// TracerProvider creates the spans for runs and agent calls
	// (defaults to the global provider).
	TracerProvider trace.TracerProvider

	// Metrics records run and agent call counters. Nil disables metrics.
	Metrics *Metrics
}

// Pipeline is an ordered, possibly duplicated, sequence of agents plus an
// optional data source. The zero value is not usable; create one with New.
type Pipeline struct {
	agents     []core.Agent
	dataSource core.DataSource
	opts       Options
	tracer     trace.Tracer
}

// New creates an empty pipeline.
func New(optFns ...func(o *Options)) *Pipeline {
	opts := Options{
		Logger:         logging.NoOpLogger{},
		TracerProvider: otel.GetTracerProvider(),
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}
	if opts.TracerProvider == nil {
		opts.TracerProvider = otel.GetTracerProvider()
	}

	return &Pipeline{
		opts:   opts,
		tracer: opts.TracerProvider.Tracer(tracerName),
	}
}

func (p *Pipeline) clone() *Pipeline {
	np := *p
	np.agents = slices.Clone(p.agents)
	return &np
}

// AddAgent returns a copy of the pipeline with a appended. Nil agents are ignored.
func (p *Pipeline) AddAgent(a core.Agent) *Pipeline {
	return p.AddAgents(a)
}

// AddAgents returns a copy of the pipeline with agents appended in order.
func (p *Pipeline) AddAgents(agents ...core.Agent) *Pipeline {
	np := p.clone()
	for _, a := range agents {
		if a != nil {
			np.agents = append(np.agents, a)
		}
	}
	return np
}

// AddDataSource returns a copy of the pipeline using ds to resolve the
// initial context. A pipeline holds at most one data source; a second call
// replaces the first.
func (p *Pipeline) AddDataSource(ds core.DataSource) *Pipeline {
	np := p.clone()
	np.dataSource = ds
	return np
}

// RemoveDataSource returns a copy of the pipeline without a data source.
func (p *Pipeline) RemoveDataSource() *Pipeline {
	return p.AddDataSource(nil)
}

// RemoveAgentAtIndex returns a copy of the pipeline without the agent at
// index i. An out of range index yields an unchanged copy.
func (p *Pipeline) RemoveAgentAtIndex(i int) *Pipeline {
	np := p.clone()
	if i < 0 || i >= len(np.agents) {
		return np
	}
	np.agents = slices.Delete(np.agents, i, i+1)
	return np
}

// RemoveAgentByName returns a copy of the pipeline without the first agent
// named name. An unknown name yields an unchanged copy.
func (p *Pipeline) RemoveAgentByName(name string) *Pipeline {
	i := slices.IndexFunc(p.agents, func(a core.Agent) bool { return a.Name() == name })
	return p.RemoveAgentAtIndex(i)
}

// Agents returns a copy of the registered agents in execution order.
func (p *Pipeline) Agents() []core.Agent { return slices.Clone(p.agents) }

// Names returns the registered agent names in execution order.
func (p *Pipeline) Names() []string {
	names := make([]string, len(p.agents))
	for i, a := range p.agents {
		names[i] = a.Name()
	}
	return names
}

// Len returns the number of registered agents.
func (p *Pipeline) Len() int { return len(p.agents) }

// DataSource returns the registered data source or nil.
func (p *Pipeline) DataSource() core.DataSource { return p.dataSource }
