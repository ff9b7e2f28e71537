// Package transport issues the HTTP requests made by deepchat providers.
//
// A [RequestFunc] takes a URL and [RequestOptions] and returns the raw
// *http.Response, leaving the caller free to read the body at once or chunk
// by chunk. [HTTPClient] adapts an *http.Client into a RequestFunc, and
// [Chain] wraps one with middlewares:
//
//	request := transport.Chain(
//	    transport.HTTPClient(http.DefaultClient),
//	    transport.NewLoggingMiddleware(slog.Default(), transport.LogLevelStandard),
//	    transport.NewRetryMiddleware(transport.RetryConfig{MaxRetries: 2}),
//	    transport.NewTimeoutMiddleware(2*time.Minute),
//	)
//
// The first middleware is the outermost one. Retries happen before any body
// byte reaches the caller, so they are safe for streamed responses too.
package transport
