package memory

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/hupe1980/severn/core"
	"github.com/hupe1980/severn/datasource"
)

// StoredDocument is the internal representation persisted by Store.
type StoredDocument struct {
	ID       string
	Content  string
	Metadata map[string]any
}

// Store is a naive process-local document store.
//
// Concurrency: protected by RWMutex.
// Search: linear scan in insertion order, assigning a constant score of 1.0
// to every hit.
type Store struct {
	mu    sync.RWMutex
	order []string
	docs  map[string]StoredDocument
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{docs: make(map[string]StoredDocument)}
}

// Store appends a document and returns its generated id.
func (s *Store) Store(_ context.Context, content string, metadata map[string]any) (string, error) {
	if content == "" {
		return "", fmt.Errorf("%w: document content", core.ErrMissingValue)
	}

	id := uuid.NewString()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[id] = StoredDocument{ID: id, Content: content, Metadata: maps.Clone(metadata)}
	s.order = append(s.order, id)

	return id, nil
}

// Delete removes a document by id.
func (s *Store) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.docs[id]; !exists {
		return fmt.Errorf("document %q not found", id)
	}
	delete(s.docs, id)
	s.order = slices.DeleteFunc(s.order, func(o string) bool { return o == id })

	return nil
}

// Len returns the number of stored documents.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

// Search returns up to limit documents containing query (case-insensitive),
// oldest first. An empty query matches every document. No hit answers
// core.ErrDataSourceNoMatch. A limit below one is treated as one.
func (s *Store) Search(ctx context.Context, query string, limit int) ([]core.SearchResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if limit < 1 {
		limit = 1
	}

	needle := strings.ToLower(query)

	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]core.SearchResult, 0, min(limit, len(s.order)))
	for _, id := range s.order {
		if len(results) >= limit {
			break
		}
		doc := s.docs[id]
		if needle == "" || strings.Contains(strings.ToLower(doc.Content), needle) {
			results = append(results, core.SearchResult{
				ID:       doc.ID,
				Content:  doc.Content,
				Score:    1.0,
				Metadata: maps.Clone(doc.Metadata),
			})
		}
	}

	if len(results) == 0 {
		return nil, core.ErrDataSourceNoMatch
	}

	return results, nil
}

// Query binds query to the store as a data source returning the first
// matching document.
func (s *Store) Query(query string) core.DataSource {
	return s.QueryN(query, 1)
}

// QueryN is Query joining up to limit matches.
func (s *Store) QueryN(query string, limit int) core.DataSource {
	return datasource.FromSearcher(s, query, limit)
}
