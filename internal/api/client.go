// Package api talks to the remote strings collection over HTTP.
package api

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
	"time"

	"github.com/idilsaglam/stringlist/internal/model"
)

// CollectionPath is the collection endpoint relative to the base URL.
const CollectionPath = "/api/strings"

// ErrMalformed reports a 2xx response whose body lacks the expected payload.
var ErrMalformed = errors.New("malformed response")

// StatusError is returned for any non-2xx response. The body is not parsed.
type StatusError struct {
	Op   string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: unexpected status %d %s", e.Op, e.Code, http.StatusText(e.Code))
}

// Client is a thin wrapper over the three collection calls.
type Client struct {
	baseURL string
	http    *http.Client
	token   string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout sets a per-request timeout. Zero leaves the transport default.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		hc := *c.http
		hc.Timeout = d
		c.http = &hc
	}
}

// WithToken sends "Authorization: Bearer <token>" on every request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = strings.TrimSpace(token) }
}

// New returns a Client for the service rooted at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the configured service root.
func (c *Client) BaseURL() string { return c.baseURL }

type listResponse struct {
	Strings []model.Entry `json:"strings"`
}

type createRequest struct {
	Text string `json:"text"`
}

type createResponse struct {
	String *model.Entry `json:"string"`
}

// List fetches the full collection. A response without a "strings" field
// yields an empty slice.
func (c *Client) List(ctx context.Context) ([]model.Entry, error) {
	var out listResponse
	if err := c.do(ctx, "list", http.MethodGet, CollectionPath, nil, &out); err != nil {
		return nil, err
	}
	if out.Strings == nil {
		return []model.Entry{}, nil
	}
	return out.Strings, nil
}

// Create posts text as-is and returns the entry the server stored.
func (c *Client) Create(ctx context.Context, text string) (model.Entry, error) {
	var out createResponse
	if err := c.do(ctx, "create", http.MethodPost, CollectionPath, createRequest{Text: text}, &out); err != nil {
		return model.Entry{}, err
	}
	if out.String == nil {
		return model.Entry{}, fmt.Errorf("create: %w: missing \"string\"", ErrMalformed)
	}
	return *out.String, nil
}

// Delete removes the entry with the given id. Any 2xx is success.
func (c *Client) Delete(ctx context.Context, id model.ID) error {
	return c.do(ctx, "delete", http.MethodDelete, CollectionPath+"/"+url.PathEscape(id.String()), nil, nil)
}

func (c *Client) do(ctx context.Context, op, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s: json marshal: %w", op, err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("%s: new request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return &StatusError{Op: op, Code: resp.StatusCode}
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: %w: %v", op, ErrMalformed, err)
	}
	return nil
}
