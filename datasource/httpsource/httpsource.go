package httpsource

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/hupe1980/severn/core"
)

const provider = "http"

// maxResponseBytes caps how much of a response body is read.
const maxResponseBytes = 10 << 20

var (
	// ErrURLRequired is returned by Build when no URL was set.
	ErrURLRequired = errors.New("httpsource: url is required")
	// ErrGetWithBody is returned by Build for a GET request carrying a body.
	ErrGetWithBody = errors.New("httpsource: GET request cannot have a body")
	// ErrPostWithoutBody is returned by Build for a POST request without a body.
	ErrPostWithoutBody = errors.New("httpsource: POST request requires a body")
	// ErrUnsupportedMethod is returned by Build for methods other than GET and POST.
	ErrUnsupportedMethod = errors.New("httpsource: unsupported method")
)

// Builder assembles a Source. The zero value is not usable; use NewBuilder.
type Builder struct {
	url     string
	method  string
	body    any
	hasBody bool
	header  http.Header
	client  *http.Client
}

// NewBuilder starts a GET request builder.
func NewBuilder() *Builder {
	return &Builder{method: http.MethodGet, header: http.Header{}}
}

// URL sets the endpoint (chainable).
func (b *Builder) URL(u string) *Builder { b.url = u; return b }

// Method sets the HTTP method; only GET and POST are accepted by Build (chainable).
func (b *Builder) Method(m string) *Builder { b.method = strings.ToUpper(m); return b }

// Body sets a value encoded as the JSON request body (chainable).
func (b *Builder) Body(v any) *Builder { b.body = v; b.hasBody = true; return b }

// Header adds a request header (chainable).
func (b *Builder) Header(key, value string) *Builder { b.header.Add(key, value); return b }

// HTTPClient overrides the default OpenTelemetry instrumented client (chainable).
func (b *Builder) HTTPClient(c *http.Client) *Builder { b.client = c; return b }

// Build validates the request shape and encodes the body.
func (b *Builder) Build() (*Source, error) {
	if b.url == "" {
		return nil, ErrURLRequired
	}

	u, err := url.Parse(b.url)
	if err != nil {
		return nil, fmt.Errorf("httpsource: parse url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("httpsource: url %q must be http or https", b.url)
	}

	switch b.method {
	case http.MethodGet:
		if b.hasBody {
			return nil, ErrGetWithBody
		}
	case http.MethodPost:
		if !b.hasBody {
			return nil, ErrPostWithoutBody
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedMethod, b.method)
	}

	var body []byte
	if b.hasBody {
		body, err = json.Marshal(b.body)
		if err != nil {
			return nil, &core.SerializationError{Op: "encode request body", Err: err}
		}
	}

	client := b.client
	if client == nil {
		client = &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}
	}

	return &Source{
		client: client,
		url:    u.String(),
		method: b.method,
		body:   body,
		header: b.header.Clone(),
	}, nil
}

// Source is an immutable HTTP backed core.DataSource.
type Source struct {
	client *http.Client
	url    string
	method string
	body   []byte
	header http.Header
}

// RetrieveData performs the request and returns the JSON response
// pretty-printed with two space indentation. Numbers and key order are kept
// exactly as received.
//
// Transport failures and non-2xx statuses answer a *core.BackendError, an
// undecodable body a *core.SerializationError and an empty or null payload
// core.ErrDataSourceNoMatch.
func (s *Source) RetrieveData(ctx context.Context) (string, error) {
	var reqBody io.Reader
	if s.body != nil {
		reqBody = bytes.NewReader(s.body)
	}

	req, err := http.NewRequestWithContext(ctx, s.method, s.url, reqBody)
	if err != nil {
		return "", core.NewBackendError(provider, err)
	}
	req.Header = s.header.Clone()
	req.Header.Set("Accept", "application/json")
	if s.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.client.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		return "", core.NewBackendError(provider, err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", core.NewBackendError(provider, fmt.Errorf("read response: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", core.NewBackendError(provider, fmt.Errorf("%s %s: unexpected status %d", s.method, s.url, resp.StatusCode))
	}

	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return "", core.ErrDataSourceNoMatch
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var payload any
	if err := dec.Decode(&payload); err != nil {
		return "", &core.SerializationError{Op: "decode response", Err: err}
	}
	if !json.Valid(raw) {
		return "", &core.SerializationError{Op: "decode response", Err: errors.New("unexpected data after JSON value")}
	}
	if isEmpty(payload) {
		return "", core.ErrDataSourceNoMatch
	}

	// Indent the raw bytes so numbers and key order pass through untouched.
	var pretty bytes.Buffer
	if err := json.Indent(&pretty, raw, "", "  "); err != nil {
		return "", &core.SerializationError{Op: "indent response", Err: err}
	}

	return pretty.String(), nil
}

func isEmpty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case map[string]any:
		return len(t) == 0
	case []any:
		return len(t) == 0
	default:
		return false
	}
}
