// Package httpsource provides a core.DataSource that fetches JSON from an
// HTTP endpoint and hands it to the pipeline pretty-printed.
//
// Sources are assembled with a Builder that validates the request shape once:
//
//	src, err := httpsource.NewBuilder().
//		URL("https://api.example.com/search").
//		Method(http.MethodPost).
//		Body(map[string]any{"query": "go generics"}).
//		Header("Authorization", "Bearer "+token).
//		Build()
//
// Every RetrieveData call issues a fresh request. The default client uses an
// OpenTelemetry instrumented transport.
package httpsource
