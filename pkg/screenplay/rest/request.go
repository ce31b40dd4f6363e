package rest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	json "github.com/json-iterator/go"

	"github.com/xkilldash9x/stagehand/pkg/screenplay"
)

// ErrNoResponse is returned by response questions asked before any request was sent.
var ErrNoResponse = errors.New("no response has been received yet")

// Request describes an HTTP request. URL may be relative to the actor's base URL.
type Request struct {
	Method string
	URL    string
	Header http.Header
	Body   []byte
}

// GetRequest describes a GET request.
func GetRequest(url string) *Request {
	return &Request{Method: http.MethodGet, URL: url, Header: http.Header{}}
}

// PostRequest describes a POST request with a JSON body.
func PostRequest(url string, body any) (*Request, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request body: %w", err)
	}
	req := &Request{Method: http.MethodPost, URL: url, Header: http.Header{}, Body: payload}
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

// WithHeader returns a copy of the request with an extra header.
func (r *Request) WithHeader(name, value string) *Request {
	clone := *r
	clone.Header = r.Header.Clone()
	if clone.Header == nil {
		clone.Header = http.Header{}
	}
	clone.Header.Set(name, value)
	return &clone
}

func (r *Request) String() string {
	return fmt.Sprintf("a %s request to %s", r.Method, screenplay.Describe("%s", r.URL))
}

func (r *Request) build(ctx context.Context, target string) (*http.Request, error) {
	var body io.Reader
	if len(r.Body) > 0 {
		body = bytes.NewReader(r.Body)
	}
	req, err := http.NewRequestWithContext(ctx, r.Method, target, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	for k, values := range r.Header {
		for _, v := range values {
			req.Header.Add(k, v)
		}
	}
	return req, nil
}

// Send sends a request on behalf of the actor.
func Send(req *Request) screenplay.Activity {
	return screenplay.Interaction(fmt.Sprintf("#actor sends %s", req), func(ctx context.Context, actor *screenplay.Actor) error {
		api, err := screenplay.AbilityOf[*CallAnAPI](actor)
		if err != nil {
			return err
		}
		_, err = api.Send(ctx, req)
		return err
	})
}
