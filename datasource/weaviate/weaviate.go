package weaviate

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/google/uuid"
	weaviateclient "github.com/weaviate/weaviate-go-client/v5/weaviate"
	"github.com/weaviate/weaviate-go-client/v5/weaviate/graphql"
	"github.com/weaviate/weaviate/entities/models"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/hupe1980/severn/core"
	"github.com/hupe1980/severn/datasource"
	"github.com/hupe1980/severn/files"
	"github.com/hupe1980/severn/logging"
	"github.com/hupe1980/severn/model"
)

const provider = "weaviate"

// Property names written by EmbedAndUpsert.
const (
	PropertyDocument = "document"
	PropertySource   = "source"
)

// ClientOptions configures NewClient.
type ClientOptions struct {
	// URL of the Weaviate REST endpoint, e.g. http://localhost:8080.
	URL string
	// APIKey is sent as a bearer token when set.
	APIKey string
	// HTTPClient defaults to a client with an OpenTelemetry transport.
	HTTPClient *http.Client
}

// NewClient creates a Weaviate client from explicit options.
func NewClient(opts ClientOptions) (*weaviateclient.Client, error) {
	if opts.URL == "" {
		return nil, fmt.Errorf("%w: weaviate url", core.ErrMissingValue)
	}

	u, err := url.Parse(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("parse weaviate url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("weaviate url %q must include scheme and host", opts.URL)
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}
	}

	cfg := weaviateclient.Config{
		Host:             u.Host,
		Scheme:           u.Scheme,
		ConnectionClient: httpClient,
	}
	if opts.APIKey != "" {
		cfg.Headers = map[string]string{"Authorization": "Bearer " + opts.APIKey}
	}

	client, err := weaviateclient.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("create weaviate client: %w", err)
	}

	return client, nil
}

// Options configures a Store.
type Options struct {
	// Class is the Weaviate class holding the chunks (default "Document").
	Class string
	// Limit is the number of hits joined by Query (default 1).
	Limit  int
	Logger logging.Logger
}

// Store reads and writes embedded document chunks in one Weaviate class.
type Store struct {
	client   *weaviateclient.Client
	embedder model.Embedder
	opts     Options
}

// New creates a Store. The embedder must produce vectors of the dimension
// the class was populated with.
func New(client *weaviateclient.Client, embedder model.Embedder, optFns ...func(o *Options)) *Store {
	opts := Options{
		Class:  "Document",
		Limit:  1,
		Logger: logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}

	return &Store{client: client, embedder: embedder, opts: opts}
}

// Class returns the Weaviate class name.
func (s *Store) Class() string { return s.opts.Class }

// ClassSchema describes the class EnsureClass creates.
func (s *Store) ClassSchema() *models.Class {
	return &models.Class{
		Class:       s.opts.Class,
		Description: "Embedded document chunks.",
		Vectorizer:  "none",
		Properties: []*models.Property{
			{
				Name:        PropertyDocument,
				DataType:    []string{"text"},
				Description: "Chunk text returned as pipeline context.",
			},
			{
				Name:        PropertySource,
				DataType:    []string{"text"},
				Description: "Origin of the chunk, usually a file path.",
			},
		},
	}
}

// EnsureClass creates the class if it does not exist yet. Failures of the
// existence check are returned as they are.
func (s *Store) EnsureClass(ctx context.Context) error {
	exists, err := s.client.Schema().ClassExistenceChecker().WithClassName(s.opts.Class).Do(ctx)
	if err != nil {
		return core.NewBackendError(provider, fmt.Errorf("check class %s: %w", s.opts.Class, err))
	}
	if exists {
		return nil
	}

	s.opts.Logger.Info("Creating weaviate class", "class", s.opts.Class)

	if err := s.client.Schema().ClassCreator().WithClass(s.ClassSchema()).Do(ctx); err != nil {
		return core.NewBackendError(provider, fmt.Errorf("create class %s: %w", s.opts.Class, err))
	}

	return nil
}

// EmbedAndUpsert chunks f, embeds all chunks in one request and stores every
// chunk as its own object. It returns the ids of the created objects.
func (s *Store) EmbedAndUpsert(ctx context.Context, f files.File) ([]string, error) {
	chunks, err := f.Parse()
	if err != nil {
		return nil, &core.SerializationError{Op: "parse " + f.Source(), Err: err}
	}
	if len(chunks) == 0 {
		return nil, fmt.Errorf("%w: %s produced no chunks", core.ErrMissingValue, f.Source())
	}

	vectors, err := s.embedder.EmbedChunks(ctx, chunks)
	if err != nil {
		return nil, err
	}
	if len(vectors) != len(chunks) {
		return nil, fmt.Errorf("%w: expected %d embeddings for %s, got %d", core.ErrMissingValue, len(chunks), f.Source(), len(vectors))
	}

	ids := make([]string, 0, len(chunks))
	for i, chunk := range chunks {
		id, err := s.UpsertEmbedding(ctx, vectors[i], map[string]any{
			PropertyDocument: chunk,
			PropertySource:   f.Source(),
		})
		if err != nil {
			return ids, err
		}
		ids = append(ids, id)
	}

	s.opts.Logger.Info("Upserted file",
		"class", s.opts.Class,
		"source", f.Source(),
		"chunks", len(ids),
	)

	return ids, nil
}

// UpsertEmbedding stores one object with a fresh id and the given vector.
func (s *Store) UpsertEmbedding(ctx context.Context, vector []float32, properties map[string]any) (string, error) {
	id := uuid.NewString()

	_, err := s.client.Data().Creator().
		WithClassName(s.opts.Class).
		WithID(id).
		WithProperties(properties).
		WithVector(vector).
		Do(ctx)
	if err != nil {
		return "", core.NewBackendError(provider, fmt.Errorf("create object: %w", err))
	}

	return id, nil
}

type searchHit struct {
	Document   *string `json:"document"`
	Source     string  `json:"source"`
	Additional struct {
		ID        string  `json:"id"`
		Certainty float64 `json:"certainty"`
	} `json:"_additional"`
}

// SearchEmbeddings returns up to limit objects nearest to vector, best first.
// No hit answers core.ErrDataSourceNoMatch; a hit without a document
// property answers core.ErrMissingValue.
func (s *Store) SearchEmbeddings(ctx context.Context, vector []float32, limit int) ([]core.SearchResult, error) {
	if limit < 1 {
		limit = 1
	}

	nearVector := s.client.GraphQL().NearVectorArgBuilder().WithVector(vector)

	fields := []graphql.Field{
		{Name: PropertyDocument},
		{Name: PropertySource},
		{Name: "_additional", Fields: []graphql.Field{
			{Name: "id"},
			{Name: "certainty"},
		}},
	}

	resp, err := s.client.GraphQL().Get().
		WithClassName(s.opts.Class).
		WithFields(fields...).
		WithNearVector(nearVector).
		WithLimit(limit).
		Do(ctx)
	if err != nil {
		return nil, core.NewBackendError(provider, fmt.Errorf("near vector search: %w", err))
	}
	if len(resp.Errors) > 0 {
		return nil, core.NewBackendError(provider, fmt.Errorf("near vector search: %s", resp.Errors[0].Message))
	}

	hits, err := s.parseHits(resp)
	if err != nil {
		return nil, err
	}
	if len(hits) == 0 {
		return nil, core.ErrDataSourceNoMatch
	}

	results := make([]core.SearchResult, 0, len(hits))
	for _, h := range hits {
		if h.Document == nil {
			return nil, fmt.Errorf("%w: object %s has no %s property", core.ErrMissingValue, h.Additional.ID, PropertyDocument)
		}
		results = append(results, core.SearchResult{
			ID:       h.Additional.ID,
			Content:  *h.Document,
			Score:    h.Additional.Certainty,
			Metadata: map[string]any{PropertySource: h.Source},
		})
	}

	return results, nil
}

func (s *Store) parseHits(resp *models.GraphQLResponse) ([]searchHit, error) {
	raw, err := json.Marshal(resp.Data)
	if err != nil {
		return nil, &core.SerializationError{Op: "encode graphql data", Err: err}
	}

	var parsed struct {
		Get map[string][]searchHit `json:"Get"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, &core.SerializationError{Op: "decode graphql data", Err: err}
	}

	return parsed.Get[s.opts.Class], nil
}

// Search embeds query and runs a near-vector search. It implements
// core.Searcher.
func (s *Store) Search(ctx context.Context, query string, limit int) ([]core.SearchResult, error) {
	vector, err := s.embedder.EmbedSentence(ctx, query)
	if err != nil {
		return nil, err
	}
	return s.SearchEmbeddings(ctx, vector, limit)
}

// Query binds query to the store as a data source. Every retrieval embeds
// the query and joins the best Options.Limit documents.
func (s *Store) Query(query string) core.DataSource {
	return datasource.FromSearcher(s, query, s.opts.Limit)
}
