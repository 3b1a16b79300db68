// Package core provides the foundational capabilities and error taxonomy used
// by severn. It defines the small interfaces every other package builds on:
//
//   - Agent (a named persona carrying a fixed system message)
//   - DataSource (a retrieval capability that seeds a pipeline's context)
//   - the error kinds a pipeline run can fail with (ErrNoAgents,
//     ErrDataSourceNoMatch, ErrMissingValue, BackendError, SerializationError)
//
// Concrete agents, data sources and prompting backends live in their own
// packages (agent, datasource, model) so alternative implementations can be
// substituted without touching the pipeline engine.
package core
