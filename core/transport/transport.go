package transport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
)

// RequestOptions describes one outgoing request. An empty Method means GET
// when Body is nil and POST otherwise.
type RequestOptions struct {
	Method string
	Header http.Header
	Body   []byte
}

func (o RequestOptions) method() string {
	if o.Method != "" {
		return o.Method
	}
	if o.Body != nil {
		return http.MethodPost
	}
	return http.MethodGet
}

// RequestFunc performs a request and returns the response with its body
// unread. The caller owns the body and must close it.
type RequestFunc func(ctx context.Context, url string, options RequestOptions) (*http.Response, error)

// Error reports a request that produced no HTTP response at all.
type Error struct {
	URL string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("request for %s failed: %v", e.URL, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// HTTPClient returns a RequestFunc backed by client, or by
// http.DefaultClient when client is nil.
func HTTPClient(client *http.Client) RequestFunc {
	if client == nil {
		client = http.DefaultClient
	}

	return func(ctx context.Context, url string, options RequestOptions) (*http.Response, error) {
		var body io.Reader
		if options.Body != nil {
			body = bytes.NewReader(options.Body)
		}

		request, err := http.NewRequestWithContext(ctx, options.method(), url, body)
		if err != nil {
			return nil, &Error{URL: url, Err: err}
		}
		for key, values := range options.Header {
			for _, value := range values {
				request.Header.Add(key, value)
			}
		}

		response, err := client.Do(request)
		if err != nil {
			return nil, &Error{URL: url, Err: err}
		}
		return response, nil
	}
}

// Middleware wraps a RequestFunc.
type Middleware func(next RequestFunc) RequestFunc

// Chain wraps base with middlewares; middlewares[0] runs first.
func Chain(base RequestFunc, middlewares ...Middleware) RequestFunc {
	chain := base
	for i := len(middlewares) - 1; i >= 0; i-- {
		if middlewares[i] != nil {
			chain = middlewares[i](chain)
		}
	}
	return chain
}
