package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand/v2"
	"net/http"
	"time"

	"github.com/leofalp/deepchat/internal/utils"
)

// RetryConfig tunes the retry middleware. Zero values take the defaults
// noted on each field.
type RetryConfig struct {
	// MaxRetries is the number of attempts after the first one. Default: 3.
	MaxRetries int

	// InitialBackoff is the wait before the first retry. Default: 1s.
	InitialBackoff time.Duration

	// MaxBackoff caps the computed backoff. Default: 30s.
	MaxBackoff time.Duration

	// BackoffFactor multiplies the backoff after each attempt. Default: 2.
	BackoffFactor float64

	// JitterFraction adds up to JitterFraction*backoff of random wait.
	// Default: 0.1.
	JitterFraction float64

	// RetryableStatus reports whether a response status is transient.
	// Default: 429, 500, 502, 503, 504 and 529.
	RetryableStatus func(status int) bool

	// RetryableError reports whether a transport error is transient.
	// Default: everything except context cancellation and deadline.
	RetryableError func(err error) bool
}

func defaultRetryableStatus(status int) bool {
	switch status {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout,
		529:
		return true
	default:
		return false
	}
}

func defaultRetryableError(err error) bool {
	return err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

func applyRetryDefaults(config *RetryConfig) {
	if config.MaxRetries == 0 {
		config.MaxRetries = 3
	}
	if config.InitialBackoff == 0 {
		config.InitialBackoff = time.Second
	}
	if config.MaxBackoff == 0 {
		config.MaxBackoff = 30 * time.Second
	}
	if config.BackoffFactor == 0 {
		config.BackoffFactor = 2.0
	}
	if config.JitterFraction == 0 {
		config.JitterFraction = 0.1
	}
	if config.RetryableStatus == nil {
		config.RetryableStatus = defaultRetryableStatus
	}
	if config.RetryableError == nil {
		config.RetryableError = defaultRetryableError
	}
}

// computeBackoff returns min(InitialBackoff * BackoffFactor^attempt, MaxBackoff)
// plus jitter, for a 0-indexed attempt.
func computeBackoff(config RetryConfig, attempt int) time.Duration {
	base := float64(config.InitialBackoff) * math.Pow(config.BackoffFactor, float64(attempt))
	if base > float64(config.MaxBackoff) {
		base = float64(config.MaxBackoff)
	}

	jitter := base * config.JitterFraction * rand.Float64() //nolint:gosec // non-cryptographic jitter
	return time.Duration(base + jitter)
}

// NewRetryMiddleware retries requests that failed in transport or came back
// with a transient status.
//
// When the last attempt still has a transient status its response is returned
// untouched, so the caller reports the server's own error body. When it
// failed in transport the error wraps [ErrRetryExhausted].
func NewRetryMiddleware(config RetryConfig) Middleware {
	applyRetryDefaults(&config)

	return func(next RequestFunc) RequestFunc {
		return func(ctx context.Context, url string, options RequestOptions) (*http.Response, error) {
			var lastErr error

			for attempt := 0; attempt <= config.MaxRetries; attempt++ {
				if attempt > 0 {
					timer := time.NewTimer(computeBackoff(config, attempt-1))
					select {
					case <-ctx.Done():
						timer.Stop()
						return nil, ctx.Err()
					case <-timer.C:
					}
				}

				response, err := next(ctx, url, options)
				if err != nil {
					if !config.RetryableError(err) {
						return nil, err
					}
					lastErr = err
					continue
				}

				if !config.RetryableStatus(response.StatusCode) || attempt == config.MaxRetries {
					return response, nil
				}

				_, _ = io.Copy(io.Discard, io.LimitReader(response.Body, utils.MaxResponseBodySize))
				utils.CloseWithLog(response.Body)
				lastErr = fmt.Errorf("status %d", response.StatusCode)
			}

			return nil, fmt.Errorf("%w after %d retries: %w", ErrRetryExhausted, config.MaxRetries, lastErr)
		}
	}
}
