// Package testutil contains helper builders and doubles used across tests to
// reduce boilerplate when wiring pipelines: personas by name, scripted data
// sources and a testify backed backend mock. They are not intended for
// production usage.
package testutil
