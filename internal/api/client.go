package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Joseda-hg/tasker/internal/logging"
)

const (
	APIKeyHeader    = "x-api-key"
	RequestIDHeader = "X-Request-Id"
	defaultTimeout  = 30 * time.Second
)

// Client is the shared HTTP plumbing behind the per-resource clients.
type Client struct {
	baseURL string
	http    *http.Client
	log     zerolog.Logger
}

type Option func(*Client)

// WithHTTPClient replaces the underlying client. Its transport is still wrapped
// so the api key keeps being injected.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) {
		c.log = log
	}
}

func NewClient(baseURL, apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}

	wrapped := *c.http
	wrapped.Transport = &keyTransport{base: c.http.Transport, prefix: c.baseURL, apiKey: apiKey}
	c.http = &wrapped
	return c
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// HTTP exposes the wrapped client for callers issuing their own requests.
func (c *Client) HTTP() *http.Client {
	return c.http
}

// keyTransport stamps the api key and a request id on requests bound for the
// configured API; other origins pass through untouched.
type keyTransport struct {
	base   http.RoundTripper
	prefix string
	apiKey string
}

func (t *keyTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}
	if t.prefix == "" || !strings.HasPrefix(req.URL.String(), t.prefix) {
		return base.RoundTrip(req)
	}

	clone := req.Clone(req.Context())
	if t.apiKey != "" {
		clone.Header.Set(APIKeyHeader, t.apiKey)
	}
	if clone.Header.Get(RequestIDHeader) == "" {
		clone.Header.Set(RequestIDHeader, uuid.NewString())
	}
	return base.RoundTrip(clone)
}

type serverError struct {
	Message json.RawMessage `json:"message"`
}

// detail extracts the server message, which may be a string or a list of strings.
func (e serverError) detail() string {
	if len(e.Message) == 0 {
		return ""
	}
	var single string
	if err := json.Unmarshal(e.Message, &single); err == nil {
		return single
	}
	var many []string
	if err := json.Unmarshal(e.Message, &many); err == nil {
		return strings.Join(many, ", ")
	}
	return ""
}

type call struct {
	res       resource
	operation string
	method    string
	path      string
	query     url.Values
	body      any
	out       any
}

func (c *Client) do(ctx context.Context, cl call) error {
	log := logging.Component(c.log, cl.res.component)

	target := c.baseURL + cl.path
	if len(cl.query) > 0 {
		target += "?" + cl.query.Encode()
	}

	var reader io.Reader
	if cl.body != nil {
		payload, err := json.Marshal(cl.body)
		if err != nil {
			return c.failLocal(log, cl, 0, fmt.Errorf("encode request: %w", err))
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, target, reader)
	if err != nil {
		return c.failLocal(log, cl, 0, fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return c.fail(log, cl, 0, "", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return c.fail(log, cl, 0, "", fmt.Errorf("read response: %w", err))
	}

	if resp.StatusCode >= http.StatusBadRequest {
		var body serverError
		_ = json.Unmarshal(data, &body)
		return c.fail(log, cl, resp.StatusCode, body.detail(), fmt.Errorf("%s %s: %s", cl.method, cl.path, resp.Status))
	}

	if cl.out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, cl.out); err != nil {
		return c.failLocal(log, cl, resp.StatusCode, fmt.Errorf("decode response: %w", err))
	}
	return nil
}

func (c *Client) fail(log zerolog.Logger, cl call, status int, detail string, cause error) error {
	return c.report(log, cl, normalize(cl.res, cl.operation, status, detail, cause))
}

// failLocal covers failures on this side of the wire: a request that could not
// be built, or a successful response whose body could not be decoded.
func (c *Client) failLocal(log zerolog.Logger, cl call, status int, cause error) error {
	return c.report(log, cl, &Error{
		Kind:      KindUnknown,
		Status:    status,
		Operation: cl.operation,
		Message:   fmt.Sprintf("Error %s: %v", cl.operation, cause),
		Err:       cause,
	})
}

func (c *Client) report(log zerolog.Logger, cl call, e *Error) error {
	log.Error().
		Err(e.Err).
		Str("operation", cl.operation).
		Int("status", e.Status).
		Str("kind", e.Kind.String()).
		Msg(e.Message)
	return e
}

func idPath(format string, ids ...int64) string {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return fmt.Sprintf(format, args...)
}
