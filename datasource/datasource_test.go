package datasource

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/severn/core"
)

type searchFunc func(ctx context.Context, query string, limit int) ([]core.SearchResult, error)

func (f searchFunc) Search(ctx context.Context, query string, limit int) ([]core.SearchResult, error) {
	return f(ctx, query, limit)
}

func TestStatic(t *testing.T) {
	out, err := Static("ground truth").RetrieveData(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ground truth", out)

	_, err = Static("").RetrieveData(context.Background())
	assert.ErrorIs(t, err, core.ErrDataSourceNoMatch)
}

func TestStatic_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Static("x").RetrieveData(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFromSearcher_JoinsResults(t *testing.T) {
	var gotQuery string
	var gotLimit int
	s := searchFunc(func(_ context.Context, query string, limit int) ([]core.SearchResult, error) {
		gotQuery, gotLimit = query, limit
		return []core.SearchResult{{ID: "1", Content: "best"}, {ID: "2", Content: "second"}}, nil
	})

	out, err := FromSearcher(s, "rust pipelines", 2).RetrieveData(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "best\n\nsecond", out)
	assert.Equal(t, "rust pipelines", gotQuery)
	assert.Equal(t, 2, gotLimit)
}

func TestFromSearcher_LimitFloor(t *testing.T) {
	var gotLimit int
	s := searchFunc(func(_ context.Context, _ string, limit int) ([]core.SearchResult, error) {
		gotLimit = limit
		return []core.SearchResult{{Content: "x"}}, nil
	})

	_, err := FromSearcher(s, "q", 0).RetrieveData(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, gotLimit)
}

func TestFromSearcher_Errors(t *testing.T) {
	down := core.NewBackendError("store", errors.New("down"))

	tests := []struct {
		name    string
		results []core.SearchResult
		err     error
		want    error
	}{
		{name: "no results", want: core.ErrDataSourceNoMatch},
		{name: "searcher failure", err: down, want: down},
		{name: "empty content", results: []core.SearchResult{{ID: "1"}}, want: core.ErrMissingValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := searchFunc(func(context.Context, string, int) ([]core.SearchResult, error) {
				return tt.results, tt.err
			})

			_, err := FromSearcher(s, "q", 1).RetrieveData(context.Background())
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
