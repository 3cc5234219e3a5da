// Package client implements thin REST clients for the downstream
// inventory, ticket, refund and trade-request services. All requests
// share one base URL and carry a bearer token on the Authorization
// header. Clients return typed values and sentinel errors; no retry or
// caching logic lives here.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ticketloop/marketplace/internal/apierr"
)

// Client carries the shared transport configuration for every
// downstream call. The zero value is not usable; construct with New.
type Client struct {
	baseURL string
	token   string
	httpc   *http.Client
}

// New returns a Client for the given base URL. token may be empty, in
// which case no Authorization header is sent.
func New(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpc:   &http.Client{Timeout: 15 * time.Second},
	}
}

// NewWithHTTPClient is like New but lets callers supply the underlying
// *http.Client, mainly for tests against httptest servers.
func NewWithHTTPClient(baseURL, token string, hc *http.Client) *Client {
	c := New(baseURL, token)
	if hc != nil {
		c.httpc = hc
	}
	return c
}

// do issues a request and decodes a JSON response into out (when out is
// non-nil). Non-2xx statuses become *apierr.NetworkError; a 404 wraps
// apierr.ErrNotFound so callers can match it with errors.Is.
func (c *Client) do(ctx context.Context, op, method, path string, body, out any) error {
	url := c.baseURL + path

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return &apierr.NetworkError{Op: op, URL: url, Err: err}
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return &apierr.NetworkError{Op: op, URL: url, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return &apierr.NetworkError{Op: op, URL: url, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return &apierr.NetworkError{Op: op, URL: url, Status: resp.StatusCode, Err: apierr.ErrNotFound}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &apierr.NetworkError{Op: op, URL: url, Status: resp.StatusCode}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &apierr.NetworkError{Op: op, URL: url, Err: err}
	}
	return nil
}

func (c *Client) get(ctx context.Context, op, path string, out any) error {
	return c.do(ctx, op, http.MethodGet, path, nil, out)
}

func (c *Client) post(ctx context.Context, op, path string, body, out any) error {
	return c.do(ctx, op, http.MethodPost, path, body, out)
}

func (c *Client) put(ctx context.Context, op, path string, body, out any) error {
	return c.do(ctx, op, http.MethodPut, path, body, out)
}

func (c *Client) patch(ctx context.Context, op, path string, body, out any) error {
	return c.do(ctx, op, http.MethodPatch, path, body, out)
}
