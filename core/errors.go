package core

import (
	"errors"
	"fmt"
)

var (
	// ErrNoAgents is returned when a run is attempted on a pipeline without
	// agents, or when an index / name lookup does not resolve to an agent.
	ErrNoAgents = errors.New("there are no agents in the pipeline")

	// ErrDataSourceNoMatch is returned when a data source was searched
	// successfully but yielded no usable result.
	ErrDataSourceNoMatch = errors.New("searched data source but found no results")

	// ErrMissingValue is returned when a required value is unexpectedly absent.
	ErrMissingValue = errors.New("expected value is missing")

	// ErrEmptyResponse is returned by backends whose model produced no choices
	// or no extractable text. It satisfies errors.Is(err, ErrMissingValue).
	ErrEmptyResponse = fmt.Errorf("%w: model returned an empty response", ErrMissingValue)
)

// BackendError wraps a failure of an external model or retrieval service
// (authentication, network, malformed request).
type BackendError struct {
	Provider string
	Err      error
}

// Error implements error.
func (e *BackendError) Error() string {
	if e.Provider == "" {
		return fmt.Sprintf("backend error: %v", e.Err)
	}
	return fmt.Sprintf("%s backend error: %v", e.Provider, e.Err)
}

// Unwrap returns the collaborator's native error.
func (e *BackendError) Unwrap() error { return e.Err }

// NewBackendError wraps err as a BackendError for provider. A nil err yields nil.
func NewBackendError(provider string, err error) error {
	if err == nil {
		return nil
	}
	return &BackendError{Provider: provider, Err: err}
}

// SerializationError reports that a context or result could not be encoded
// or decoded. Op names the failed operation ("encode context", "decode
// response", ...).
type SerializationError struct {
	Op  string
	Err error
}

// Error implements error.
func (e *SerializationError) Error() string {
	return fmt.Sprintf("serialization error: %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying codec error.
func (e *SerializationError) Unwrap() error { return e.Err }

// StepError records which pipeline step failed. It unwraps to the step's
// original error so KindOf and errors.Is still see the original kind.
type StepError struct {
	Index int
	Agent string
	Err   error
}

// Error implements error.
func (e *StepError) Error() string {
	return fmt.Sprintf("pipeline step %d (%s) failed: %v", e.Index, e.Agent, e.Err)
}

// Unwrap returns the step's original error.
func (e *StepError) Unwrap() error { return e.Err }

// Kind classifies an error returned by a pipeline run.
type Kind int

const (
	// KindUnknown is any error outside the taxonomy (including context
	// cancellation).
	KindUnknown Kind = iota
	// KindNoAgents corresponds to ErrNoAgents.
	KindNoAgents
	// KindDataSourceNoMatch corresponds to ErrDataSourceNoMatch.
	KindDataSourceNoMatch
	// KindMissingValue corresponds to ErrMissingValue and ErrEmptyResponse.
	KindMissingValue
	// KindBackend corresponds to *BackendError.
	KindBackend
	// KindSerialization corresponds to *SerializationError.
	KindSerialization
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindNoAgents:
		return "no_agents"
	case KindDataSourceNoMatch:
		return "data_source_no_match"
	case KindMissingValue:
		return "missing_value"
	case KindBackend:
		return "backend"
	case KindSerialization:
		return "serialization"
	default:
		return "unknown"
	}
}

// KindOf returns the category of err, looking through any wrapping.
// A nil err yields KindUnknown.
func KindOf(err error) Kind {
	if err == nil {
		return KindUnknown
	}

	var (
		backendErr *BackendError
		serErr     *SerializationError
	)

	switch {
	case errors.Is(err, ErrNoAgents):
		return KindNoAgents
	case errors.Is(err, ErrDataSourceNoMatch):
		return KindDataSourceNoMatch
	case errors.Is(err, ErrMissingValue):
		return KindMissingValue
	case errors.As(err, &serErr):
		return KindSerialization
	case errors.As(err, &backendErr):
		return KindBackend
	default:
		return KindUnknown
	}
}
