// Package weaviate provides a vector store data source on Weaviate.
//
// Documents are chunked by the files package, embedded with a
// model.Embedder and stored with client-supplied vectors (the class uses
// vectorizer "none"). Queries are always embedded before the near-vector
// search, so results are ranked by relevance to the query text.
//
//	client, _ := weaviate.NewClient(weaviate.ClientOptions{URL: "http://localhost:8080"})
//	store := weaviate.New(client, embedder)
//	_ = store.EnsureClass(ctx)
//	_, _ = store.EmbedAndUpsert(ctx, file)
//	p := pipeline.New().AddDataSource(store.Query("how do lifetimes work?"))
package weaviate
