package core

// Agent is a named persona consumed by a prompting backend.
//
// An Agent only describes identity: its Name is the display and lookup key
// inside a pipeline and its SystemMessage is the fixed instruction supplied to
// the backend on every invocation. Prompting belongs to model.Backend.
//
// Implementations must be immutable and safe for concurrent use; the same
// Agent may be shared by many pipelines and runs.
type Agent interface {
	Name() string
	SystemMessage() string
}
