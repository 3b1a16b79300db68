// Package datasource provides core.DataSource implementations that seed a
// pipeline's initial context.
//
// The root package holds the backend independent sources: Static for a
// fixed string and FromSearcher, which turns any core.Searcher into a data
// source bound to one query. Store backed sources live in subpackages:
//
//   - datasource/memory: process-local substring search
//   - datasource/weaviate: vector similarity search in Weaviate
//   - datasource/httpsource: JSON fetched from an HTTP endpoint
package datasource
