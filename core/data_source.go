package core

import "context"

// DataSource retrieves a single blob of textual context on demand, e.g. the
// best hit of a similarity search.
//
// Every call is a fresh retrieval. Implementations return a *BackendError
// when the underlying service fails and ErrDataSourceNoMatch when the
// retrieval succeeded but produced nothing usable; they never return an empty
// string with a nil error.
type DataSource interface {
	RetrieveData(ctx context.Context) (string, error)
}

// DataSourceFunc adapts an ordinary function to the DataSource interface.
type DataSourceFunc func(ctx context.Context) (string, error)

// RetrieveData implements DataSource.
func (f DataSourceFunc) RetrieveData(ctx context.Context) (string, error) { return f(ctx) }
