package transport

import (
	"context"
	"io"
	"net/http"
	"sync"
	"time"
)

// NewTimeoutMiddleware bounds the whole lifetime of a request, body included.
// The deadline is released when the caller closes the response body, so a
// streamed completion stays under the same budget as its first byte.
// A shorter deadline already on the caller's context still wins.
func NewTimeoutMiddleware(timeout time.Duration) Middleware {
	return func(next RequestFunc) RequestFunc {
		return func(ctx context.Context, url string, options RequestOptions) (*http.Response, error) {
			ctx, cancel := context.WithTimeout(ctx, timeout)

			response, err := next(ctx, url, options)
			if err != nil {
				cancel()
				return nil, err
			}

			response.Body = &cancelOnClose{ReadCloser: response.Body, cancel: cancel}
			return response, nil
		}
	}
}

type cancelOnClose struct {
	io.ReadCloser
	cancel context.CancelFunc
	once   sync.Once
}

func (c *cancelOnClose) Close() error {
	err := c.ReadCloser.Close()
	c.once.Do(c.cancel)
	return err
}
