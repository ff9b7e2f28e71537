package transport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/leofalp/deepchat/internal/utils"
)

// LogLevel controls how much detail the logging middleware emits.
type LogLevel int

const (
	// LogLevelMinimal logs method, URL, status and duration.
	LogLevelMinimal LogLevel = iota

	// LogLevelStandard adds request and response sizes.
	LogLevelStandard

	// LogLevelVerbose adds the request body, truncated.
	//
	// WARNING: request bodies carry the whole conversation. Do not enable
	// this in production.
	LogLevelVerbose
)

// NewLoggingMiddleware logs one line before and one after every request.
// The "after" line is written when headers arrive, not when the body ends.
// A nil logger uses slog.Default().
func NewLoggingMiddleware(logger *slog.Logger, level LogLevel) Middleware {
	if logger == nil {
		logger = slog.Default()
	}

	return func(next RequestFunc) RequestFunc {
		return func(ctx context.Context, url string, options RequestOptions) (*http.Response, error) {
			logger.InfoContext(ctx, "http request", requestAttrs(url, options, level)...)

			start := time.Now()
			response, err := next(ctx, url, options)
			elapsed := time.Since(start)

			if err != nil {
				logger.ErrorContext(ctx, "http request failed",
					slog.String("url", url),
					slog.Duration("duration", elapsed),
					slog.String("error", err.Error()),
				)
				return nil, err
			}

			attrs := []any{
				slog.String("url", url),
				slog.Int("status", response.StatusCode),
				slog.Duration("duration", elapsed),
			}
			if level >= LogLevelStandard {
				attrs = append(attrs, slog.Int64("content_length", response.ContentLength))
			}

			if utils.IsSuccessStatus(response.StatusCode) {
				logger.InfoContext(ctx, "http response", attrs...)
			} else {
				logger.WarnContext(ctx, "http response", attrs...)
			}
			return response, nil
		}
	}
}

func requestAttrs(url string, options RequestOptions, level LogLevel) []any {
	attrs := []any{
		slog.String("method", options.method()),
		slog.String("url", url),
	}
	if level >= LogLevelStandard {
		attrs = append(attrs, slog.Int("body_size", len(options.Body)))
	}
	if level >= LogLevelVerbose && len(options.Body) > 0 {
		attrs = append(attrs, slog.String("body", utils.TruncateString(string(options.Body), utils.DefaultMaxStringLength)))
	}
	return attrs
}
