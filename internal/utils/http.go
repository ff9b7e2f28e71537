package utils

import (
	"fmt"
	"io"
	"log/slog"
)

// MaxResponseBodySize is the maximum response body size (10 MB) read into
// memory for buffered responses and error envelopes. Enforced via
// io.LimitReader to prevent unbounded memory allocation from rogue responses.
const MaxResponseBodySize int64 = 10 * 1024 * 1024

// ReadLimited reads at most MaxResponseBodySize bytes from reader.
func ReadLimited(reader io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(reader, MaxResponseBodySize))
	if err != nil {
		return nil, fmt.Errorf("error reading response body: %w", err)
	}
	return data, nil
}

// CloseWithLog closes closer and logs, rather than returns, any close error.
// It is meant for deferred cleanup of response bodies, where a close failure
// must never override the primary error of the surrounding function.
func CloseWithLog(closer io.Closer) {
	if closer == nil {
		return
	}
	if err := closer.Close(); err != nil {
		slog.Warn("failed to close response body", "error", err.Error())
	}
}

// IsSuccessStatus reports whether code is a 2xx HTTP status.
func IsSuccessStatus(code int) bool {
	return code >= 200 && code < 300
}
