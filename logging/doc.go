// Package logging provides a minimal logging interface and adapters for severn.
//
// The Logger interface defines the standard logging methods (Debug, Info, Warn, Error)
// that the pipeline and the backends use for observability. This package includes:
//
//   - Logger interface for dependency injection
//   - SlogAdapter wrapping Go's structured logging (json, text or tint console output)
//   - NoOpLogger for silent operation (testing, minimal setups)
//   - LogAgentCall / LogPipelineRun helpers emitting one record per step and per run
//
// Usage:
//
//	logger := logging.NewSlogLogger(logging.LogLevelInfo, "tint", false)
//	p := pipeline.New(func(o *pipeline.Options) { o.Logger = logger })
package logging
