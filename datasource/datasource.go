package datasource

import (
	"context"
	"fmt"
	"strings"

	"github.com/hupe1980/severn/core"
)

// Separator joins the contents of multiple search results.
const Separator = "\n\n"

type staticSource struct {
	text string
}

// Static returns a data source that always answers with text. An empty text
// answers core.ErrDataSourceNoMatch.
func Static(text string) core.DataSource {
	return staticSource{text: text}
}

func (s staticSource) RetrieveData(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if s.text == "" {
		return "", core.ErrDataSourceNoMatch
	}
	return s.text, nil
}

type searchSource struct {
	searcher core.Searcher
	query    string
	limit    int
}

// FromSearcher returns a data source that runs query against searcher on
// every retrieval and joins the contents of up to limit results with
// Separator, best match first. A limit below one is treated as one.
func FromSearcher(searcher core.Searcher, query string, limit int) core.DataSource {
	if limit < 1 {
		limit = 1
	}
	return &searchSource{searcher: searcher, query: query, limit: limit}
}

func (s *searchSource) RetrieveData(ctx context.Context) (string, error) {
	results, err := s.searcher.Search(ctx, s.query, s.limit)
	if err != nil {
		return "", err
	}
	if len(results) == 0 {
		return "", core.ErrDataSourceNoMatch
	}

	parts := make([]string, 0, len(results))
	for _, r := range results {
		if r.Content == "" {
			return "", fmt.Errorf("%w: search result %q has no content", core.ErrMissingValue, r.ID)
		}
		parts = append(parts, r.Content)
	}

	return strings.Join(parts, Separator), nil
}
