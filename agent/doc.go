// Package agent contains concrete core.Agent implementations.
//
// An agent in severn is identity only: a name used for lookup and logs, and
// a system message handed to the prompting backend on every invocation.
// The package offers:
//
//  1. Persona, the plain immutable agent (NewPersona, NewTemplated)
//  2. Premade agents ported from common pipelines (ArticleWriter, Researcher)
//
// All agents are immutable once constructed and safe to share between
// pipelines and concurrent runs. With* methods on premade agents return
// modified copies.
package agent
