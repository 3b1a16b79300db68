// Package memory contains a process-local document store usable as a
// pipeline data source in tests, demos and small deployments.
//
// Search is a case-insensitive substring match in insertion order with a
// constant score; swap for datasource/weaviate when relevance ranking
// matters.
package memory
