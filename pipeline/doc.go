// Package pipeline implements severn's execution engine: an ordered sequence
// of agents, at most one data source, and the algorithm that threads a single
// rolling context string through them.
//
// Execution model:
//   - The initial context comes from the data source, or is empty when none
//     is registered. A data source failure aborts the run before any agent.
//   - Agents run strictly in registration order; each agent's output replaces
//     the context read by the next one. Nothing older than the previous
//     output is ever visible to an agent.
//   - The first failure is terminal. There is no retry, fallback or partial
//     result; retry policy belongs to the backend (see model.WithRetry).
//   - Cancellation and deadlines come from the caller's context.Context and
//     are passed through to every data source and backend call.
//
// Pipelines are persistent values: AddAgent, AddDataSource and the Remove*
// methods return a new *Pipeline and never modify the receiver, so a
// pipeline can be shared by concurrent runs without locking.
//
// Usage:
//
//	p := pipeline.New().
//		AddAgent(agent.NewPersona("writer", "write concisely")).
//		AddAgent(agent.NewPersona("reviewer", "review harshly"))
//	out, err := p.Run(ctx, "summarize X", backend)
package pipeline
