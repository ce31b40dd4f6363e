package rest

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
)

// Response is the part of an HTTP response an actor remembers.
type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

// CallAnAPI is the ability to send HTTP requests. Relative request URLs are
// resolved against the base URL.
type CallAnAPI struct {
	client  *http.Client
	baseURL *url.URL
	headers map[string]string

	mu   sync.RWMutex
	last *Response
}

// Option configures CallAnAPI.
type Option func(*CallAnAPI)

// WithClient replaces the default HTTP client.
func WithClient(client *http.Client) Option {
	return func(c *CallAnAPI) { c.client = client }
}

// WithHeaders adds headers to every request.
func WithHeaders(headers map[string]string) Option {
	return func(c *CallAnAPI) {
		for k, v := range headers {
			c.headers[k] = v
		}
	}
}

// CallAnAPIAt creates the ability for a base URL. An empty base URL means
// every request must use an absolute URL.
func CallAnAPIAt(baseURL string, opts ...Option) (*CallAnAPI, error) {
	c := &CallAnAPI{headers: map[string]string{}}
	if baseURL != "" {
		u, err := url.Parse(baseURL)
		if err != nil {
			return nil, fmt.Errorf("invalid base URL %q: %w", baseURL, err)
		}
		c.baseURL = u
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.client == nil {
		c.client = NewClient(ClientConfig{})
	}
	return c, nil
}

// Resolve turns a request URL into an absolute one.
func (c *CallAnAPI) Resolve(target string) (string, error) {
	ref, err := url.Parse(target)
	if err != nil {
		return "", fmt.Errorf("invalid request URL %q: %w", target, err)
	}
	if ref.IsAbs() {
		return ref.String(), nil
	}
	if c.baseURL == nil {
		return "", fmt.Errorf("request URL %q is relative and no base URL is configured", target)
	}
	return c.baseURL.ResolveReference(ref).String(), nil
}

// Send performs the request and remembers the response.
func (c *CallAnAPI) Send(ctx context.Context, req *Request) (*Response, error) {
	target, err := c.Resolve(req.URL)
	if err != nil {
		return nil, err
	}
	httpReq, err := req.build(ctx, target)
	if err != nil {
		return nil, err
	}
	for k, v := range c.headers {
		if httpReq.Header.Get(k) == "" {
			httpReq.Header.Set(k, v)
		}
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%s %s failed: %w", req.Method, target, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body from %s: %w", target, err)
	}

	response := &Response{Status: resp.StatusCode, Header: resp.Header.Clone(), Body: body}
	c.mu.Lock()
	c.last = response
	c.mu.Unlock()
	return response, nil
}

// LastResponse returns the most recent response.
func (c *CallAnAPI) LastResponse() (*Response, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.last == nil {
		return nil, ErrNoResponse
	}
	return c.last, nil
}

// Discard drops idle connections.
func (c *CallAnAPI) Discard(context.Context) error {
	c.client.CloseIdleConnections()
	return nil
}
