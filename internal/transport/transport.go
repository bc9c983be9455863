// Package transport speaks GraphQL-over-HTTP to an endpoint: it posts a
// query with variables as JSON and surfaces transport failures and reported
// GraphQL errors as a single FetchError.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	introspection "github.com/MechanicalRabbit/RexDB/internal/introspection"
	schema "github.com/MechanicalRabbit/RexDB/internal/schema"
)

// Client posts GraphQL requests to a single endpoint.
type Client struct {
	endpoint string
	http     *http.Client
	headers  http.Header
}

type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option { return func(c *Client) { c.http = hc } }

// WithTimeout sets a per-request timeout on the underlying HTTP client.
// The resource layer itself applies no deadlines; any timeout policy is
// composed here, at transport construction time.
func WithTimeout(d time.Duration) Option { return func(c *Client) { c.http.Timeout = d } }

// WithHeader adds a header to every request, e.g. an authorization token.
func WithHeader(key, value string) Option {
	return func(c *Client) { c.headers.Add(key, value) }
}

// New creates a client for the given endpoint URL.
func New(endpoint string, opts ...Option) *Client {
	c := &Client{
		endpoint: endpoint,
		http:     &http.Client{},
		headers:  http.Header{},
	}
	for _, f := range opts {
		f(c)
	}
	return c
}

type request struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type response struct {
	Data   json.RawMessage `json:"data"`
	Errors []ResponseError `json:"errors"`
}

// ResponseError is one entry of a GraphQL response's errors list.
type ResponseError struct {
	Message string `json:"message"`
}

// Do posts the query with the given variables and returns the raw data
// object. Any reported GraphQL errors cause a *FetchError; data must be
// present on success.
func (c *Client) Do(ctx context.Context, query string, variables map[string]any) (json.RawMessage, error) {
	body, err := json.Marshal(request{Query: query, Variables: variables})
	if err != nil {
		return nil, fmt.Errorf("encoding GraphQL request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building GraphQL request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	for key, values := range c.headers {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &FetchError{Query: query, cause: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{Query: query, cause: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &FetchError{
			Query:    query,
			Messages: []string{fmt.Sprintf("endpoint returned status %d", resp.StatusCode)},
		}
	}

	var r response
	if err := json.Unmarshal(raw, &r); err != nil {
		return nil, &FetchError{Query: query, cause: err}
	}
	if len(r.Errors) > 0 {
		msgs := make([]string, len(r.Errors))
		for i, e := range r.Errors {
			msgs[i] = e.Message
		}
		return nil, &FetchError{Query: query, Messages: msgs}
	}
	if len(r.Data) == 0 || string(r.Data) == "null" {
		return nil, &FetchError{Query: query, Messages: []string{"response has no data"}}
	}
	return r.Data, nil
}

// Introspect fetches the endpoint's schema.
func (c *Client) Introspect(ctx context.Context) (*schema.Schema, error) {
	data, err := c.Do(ctx, introspection.Query, nil)
	if err != nil {
		return nil, err
	}
	return introspection.Decode(data)
}
