// Package model defines the provider-agnostic prompting and embedding
// abstractions severn drives, plus helpers shared by concrete providers.
//
// Core goals:
//   - Keep the prompting contract minimal: (prompt, context, agent) in, one text out
//   - Normalize payload composition (ComposeInput) so every provider sends the same shape
//   - Facilitate lightweight mocking for tests (MockBackend)
//   - Own retry policy outside the pipeline engine (WithRetry)
//
// Providers (e.g. OpenAI, Anthropic) implement Backend from this package so the
// pipeline remains decoupled from vendor SDKs.
package model
