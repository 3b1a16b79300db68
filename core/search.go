package core

import "context"

// SearchResult represents a retrieved document with a relevance score and
// arbitrary metadata.
type SearchResult struct {
	ID       string
	Content  string
	Score    float64
	Metadata map[string]any
}

// Searcher retrieves the documents most relevant to a free text query, best
// match first. Implementations return ErrDataSourceNoMatch rather than an
// empty slice when nothing matches.
type Searcher interface {
	Search(ctx context.Context, query string, limit int) ([]SearchResult, error)
}
