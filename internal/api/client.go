// Package api is the HTTP client for the recipe backend. Each method maps
// to one endpoint; responses are decoded and returned without reshaping.
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

	"github.com/hammamikhairi/pocketchef/internal/domain"
	"github.com/hammamikhairi/pocketchef/internal/logger"
)

// Compile-time interface check.
var _ domain.RecipeAPI = (*Client)(nil)

// RequestIDHeader carries a per-request id so client and server logs line up.
const RequestIDHeader = "X-Request-ID"

// maxBodyBytes caps how much of a response body is read.
const maxBodyBytes = 8 << 20

// Option configures the Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// Client talks to the recipe backend.
type Client struct {
	baseURL string
	http    *http.Client
	log     *logger.Logger
}

// New creates a client for the backend rooted at baseURL
// (e.g. "http://localhost:5000").
func New(baseURL string, log *logger.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
		log:     log,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// BaseURL returns the backend root this client targets.
func (c *Client) BaseURL() string { return c.baseURL }

// request describes one call to the backend.
type request struct {
	method      string
	path        string
	query       url.Values
	body        io.Reader
	contentType string
}

func jsonRequest(method, path string, query url.Values, v any) (request, error) {
	req := request{method: method, path: path, query: query}
	if v != nil {
		data, err := json.Marshal(v)
		if err != nil {
			return request{}, fmt.Errorf("api: marshal %s %s: %w", method, path, err)
		}
		req.body = bytes.NewReader(data)
		req.contentType = "application/json"
	}
	return req, nil
}

// do sends r and decodes a success body into out (when out is non-nil).
// Transport failures wrap domain.ErrUnreachable; non-2xx responses become
// *domain.RemoteError.
func (c *Client) do(ctx context.Context, r request, out any) error {
	target := c.baseURL + r.path
	if len(r.query) > 0 {
		target += "?" + r.query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, r.method, target, r.body)
	if err != nil {
		return fmt.Errorf("api: create request: %w", err)
	}
	reqID := uuid.NewString()
	req.Header.Set(RequestIDHeader, reqID)
	req.Header.Set("Accept", "application/json")
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("api: %s %s: %w", r.method, r.path, ctxErr)
		}
		c.log.Warn("%s %s failed (req=%s): %v", r.method, r.path, reqID, err)
		return fmt.Errorf("api: %s %s: %w: %v", r.method, r.path, domain.ErrUnreachable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("api: %s %s: %w: reading body: %v", r.method, r.path, domain.ErrUnreachable, err)
	}

	c.log.Debug("%s %s -> %d in %s (req=%s, %d bytes)", r.method, r.path, resp.StatusCode, time.Since(start).Round(time.Millisecond), reqID, len(data))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp.StatusCode, data)
	}
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("api: decode %s %s response: %w", r.method, r.path, err)
	}
	return nil
}

// decodeError builds a RemoteError from an error response, preferring the
// server's own message.
func decodeError(status int, body []byte) error {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	msg := ""
	if err := json.Unmarshal(body, &payload); err == nil {
		msg = strings.TrimSpace(payload.Error)
		if msg == "" {
			msg = strings.TrimSpace(payload.Message)
		}
	}
	if msg == "" {
		msg = fmt.Sprintf("request failed: %d %s", status, http.StatusText(status))
	}
	return &domain.RemoteError{Status: status, Message: msg}
}

func recipePath(id int, suffix string) string {
	return fmt.Sprintf("/recipes/%d%s", id, suffix)
}

func viewerQuery(username string) url.Values {
	if username == "" {
		return nil
	}
	return url.Values{"username": []string{username}}
}
