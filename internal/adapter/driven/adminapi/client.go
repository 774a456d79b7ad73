// Package adminapi implements the AdminAPI port: one configured HTTP client
// through which every call to the remote administrative API is funnelled.
package adminapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"runtime"
	"strings"
	"time"

	"github.com/ericfisherdev/dongdong-admin/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.AdminAPI = (*Client)(nil)

const (
	// DefaultBackendURL is used outside a browser when no backend URL is configured.
	DefaultBackendURL = "http://api.dongdong.io:3000/api/v1"
	// BrowserBasePath is the same-origin prefix proxied to the backend by the host.
	BrowserBasePath = "/api/v1"
	// DefaultTimeout bounds every request.
	DefaultTimeout = 15 * time.Second

	maxResponseBytes = 10 << 20
)

// ExecContext is where the client runs, which decides how the base endpoint resolves.
type ExecContext int

const (
	// ContextServer issues fully qualified requests to the configured backend origin.
	ContextServer ExecContext = iota
	// ContextBrowser issues same-origin relative requests under BrowserBasePath.
	ContextBrowser
)

func (c ExecContext) String() string {
	if c == ContextBrowser {
		return "browser"
	}
	return "server"
}

// DetectContext reports ContextBrowser when compiled for js/wasm and
// ContextServer otherwise.
func DetectContext() ExecContext {
	if runtime.GOOS == "js" && runtime.GOARCH == "wasm" {
		return ContextBrowser
	}
	return ContextServer
}

// ResolveBaseURL returns the base endpoint for the given execution context.
// A trailing slash on the configured URL is dropped.
func ResolveBaseURL(ec ExecContext, configured string) string {
	if ec == ContextBrowser {
		return BrowserBasePath
	}
	configured = strings.TrimRight(strings.TrimSpace(configured), "/")
	if configured == "" {
		return DefaultBackendURL
	}
	return configured
}

// Options configures a Client. Zero values fall back to defaults.
type Options struct {
	Context    ExecContext
	BackendURL string
	Timeout    time.Duration
	// Credentials is consulted when the request context carries no source.
	Credentials CredentialSource
	Logger      *slog.Logger
}

// Client is the admin API gateway. It is safe for concurrent use; the
// credential for each call comes from the request context.
type Client struct {
	http    *http.Client
	baseURL string
	logger  *slog.Logger
}

// NewClient creates a Client with the following transport stack:
//  1. credential interceptor (Authorization: Bearer <credential>)
//  2. throttle retries (replays 429/503 responses that carry Retry-After)
//  3. request metrics
//  4. http.DefaultTransport
func NewClient(opts Options) *Client {
	hc := &http.Client{Timeout: opts.Timeout}
	return newClient(hc, ResolveBaseURL(opts.Context, opts.BackendURL), opts)
}

// NewClientWithHTTPClient creates a Client with a custom http.Client and base URL.
// This constructor is intended for testing, allowing injection of an httptest server.
// The same stack is installed on top of httpClient's transport.
func NewClientWithHTTPClient(httpClient *http.Client, baseURL string, opts Options) (*Client, error) {
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}
	hc := *httpClient
	if opts.Timeout > 0 {
		hc.Timeout = opts.Timeout
	}
	return newClient(&hc, strings.TrimRight(baseURL, "/"), opts), nil
}

func newClient(hc *http.Client, baseURL string, opts Options) *Client {
	if hc.Timeout <= 0 {
		hc.Timeout = DefaultTimeout
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	base := hc.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	hc.Transport = &authTransport{
		base:     newRetryTransport(&metricsTransport{base: base}, logger),
		fallback: opts.Credentials,
	}

	return &Client{http: hc, baseURL: baseURL, logger: logger}
}

// BaseURL returns the resolved base endpoint.
func (c *Client) BaseURL() string { return c.baseURL }

// Response is a successful (2xx) admin API response. The body is passed
// through uninterpreted.
type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

// Decode unmarshals the JSON body into v.
func (r *Response) Decode(v any) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("decoding response body: %w", err)
	}
	return nil
}

// Payload decodes the body into an untyped value. An empty body yields nil.
func (r *Response) Payload() (any, error) {
	if len(bytes.TrimSpace(r.Body)) == 0 {
		return nil, nil
	}
	var v any
	if err := r.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

// Get issues a GET request.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (*Response, error) {
	return c.Do(ctx, http.MethodGet, path, query, nil)
}

// Post issues a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, query url.Values, body any) (*Response, error) {
	return c.Do(ctx, http.MethodPost, path, query, body)
}

// Put issues a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, path string, query url.Values, body any) (*Response, error) {
	return c.Do(ctx, http.MethodPut, path, query, body)
}

// Patch issues a PATCH request with a JSON body.
func (c *Client) Patch(ctx context.Context, path string, query url.Values, body any) (*Response, error) {
	return c.Do(ctx, http.MethodPatch, path, query, body)
}

// Delete issues a DELETE request.
func (c *Client) Delete(ctx context.Context, path string, query url.Values) (*Response, error) {
	return c.Do(ctx, http.MethodDelete, path, query, nil)
}

// Do performs one request against path (relative to the base endpoint).
// Non-2xx responses and transport failures are returned as *model.APIError.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body any) (*Response, error) {
	target := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshaling %s %s body: %w", method, path, err)
		}
		reader = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("creating %s %s request: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		apiErr := transportError(ctx, err)
		c.logger.Warn("admin api request failed",
			"method", method,
			"path", path,
			"timeout", apiErr.Timeout(),
			"error", err,
		)
		return nil, apiErr
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, transportError(ctx, fmt.Errorf("reading response body: %w", err))
	}

	c.logger.Debug("admin api call",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration", time.Since(start).Round(time.Millisecond),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, statusError(resp.StatusCode, respBody)
	}

	return &Response{Status: resp.StatusCode, Header: resp.Header, Body: respBody}, nil
}
