// Package api is the only path from tools to the deployment backend.
//
// Every call resolves a resource path against the configured base URL,
// authenticates with a bearer token and maps any non-2xx status or transport
// failure to *errors.APIError. The client keeps no state between calls and
// never retries.
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

	"mcp-deployment-service/pkg/errors"
	"mcp-deployment-service/pkg/logging"
)

// DefaultUserAgent identifies this service to the backend
const DefaultUserAgent = "mcp-deployment-service"

// Response is a successful backend reply. Data is nil for an empty body,
// the decoded JSON value otherwise, or the raw text when the body is not JSON.
type Response struct {
	Status  int
	Data    interface{}
	Headers http.Header
}

// Client issues authenticated JSON requests to the backend
type Client struct {
	baseURL    *url.URL
	token      string
	userAgent  string
	httpClient *http.Client
	logger     *logging.StructuredLogger
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithLogger sets the logger used for request tracing
func WithLogger(logger *logging.StructuredLogger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithUserAgent overrides the User-Agent header
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// NewClient creates a client for the backend at baseURL. Both arguments are
// required; an invalid value is a configuration error.
func NewClient(baseURL, token string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, &errors.ConfigurationError{Option: "base URL", Message: "is required"}
	}
	if strings.TrimSpace(token) == "" {
		return nil, &errors.ConfigurationError{Option: "auth token", Message: "is required"}
	}

	parsed, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return nil, &errors.ConfigurationError{Option: "base URL", Message: "is not a valid URL", Cause: err}
	}
	if (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return nil, &errors.ConfigurationError{Option: "base URL", Message: "must be an absolute http or https URL"}
	}

	c := &Client{
		baseURL:    parsed,
		token:      token,
		userAgent:  DefaultUserAgent,
		httpClient: &http.Client{},
		logger:     logging.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Get fetches path with optional query parameters
func (c *Client) Get(ctx context.Context, path string, query url.Values) (*Response, error) {
	return c.do(ctx, http.MethodGet, path, query, nil)
}

// Post sends body as JSON to path
func (c *Client) Post(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.do(ctx, http.MethodPost, path, nil, body)
}

// Patch sends a partial update to path
func (c *Client) Patch(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.do(ctx, http.MethodPatch, path, nil, body)
}

// Delete removes the resource at path
func (c *Client) Delete(ctx context.Context, path string, query url.Values) (*Response, error) {
	return c.do(ctx, http.MethodDelete, path, query, nil)
}

// resolve joins path onto the base URL, keeping any base path prefix.
// path arrives already escaped, so it is joined on the escaped form.
func (c *Client) resolve(path string, query url.Values) string {
	u := *c.baseURL
	escaped := strings.TrimRight(u.EscapedPath(), "/") + "/" + strings.TrimLeft(path, "/")
	unescaped, err := url.PathUnescape(escaped)
	if err != nil {
		unescaped = escaped
	}
	u.Path = unescaped
	u.RawPath = escaped
	u.RawQuery = ""
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body interface{}) (*Response, error) {
	start := time.Now()

	resp, err := c.roundTrip(ctx, method, path, query, body)

	status := 0
	if resp != nil {
		status = resp.Status
	} else if apiErr, ok := err.(*errors.APIError); ok {
		status, _ = apiErr.StatusCode()
	}
	c.logger.LogBackendRequest(method, path, status, time.Since(start), err)

	return resp, err
}

func (c *Client) roundTrip(ctx context.Context, method, path string, query url.Values, body interface{}) (*Response, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, errors.NewTransportError(fmt.Sprintf("failed to encode request body: %v", err), err).
				WithRequest(method, path)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.resolve(path, query), reader)
	if err != nil {
		return nil, errors.NewTransportError(fmt.Sprintf("failed to build request: %v", err), err).
			WithRequest(method, path)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.NewTransportError(fmt.Sprintf("request to %s %s failed: %v", method, path, err), err).
			WithRequest(method, path)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.NewTransportError(fmt.Sprintf("failed to read response body: %v", err), err).
			WithRequest(method, path)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.NewHTTPStatusError(resp.StatusCode, errorMessage(raw, resp.StatusCode)).
			WithRequest(method, path)
	}

	return &Response{
		Status:  resp.StatusCode,
		Data:    decodeBody(raw),
		Headers: resp.Header,
	}, nil
}

// decodeBody parses a success body. Numbers are kept as json.Number so
// identifiers survive re-serialization unchanged.
func decodeBody(raw []byte) interface{} {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil
	}

	decoder := json.NewDecoder(bytes.NewReader(trimmed))
	decoder.UseNumber()

	var data interface{}
	if err := decoder.Decode(&data); err != nil || decoder.More() {
		return string(raw)
	}
	return data
}

// errorMessage extracts a human-readable message from an error body
func errorMessage(raw []byte, status int) string {
	var body map[string]interface{}
	if err := json.Unmarshal(raw, &body); err == nil {
		for _, key := range []string{"message", "error"} {
			if msg, ok := body[key].(string); ok && strings.TrimSpace(msg) != "" {
				return msg
			}
		}
	}
	return fmt.Sprintf("request failed with status %d", status)
}
