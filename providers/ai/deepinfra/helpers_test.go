package deepinfra

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/tmaxmax/go-sse"

	"github.com/leofalp/deepchat/core/transport"
)

// ========== Test helpers ==========

// newTestProvider points a provider at server with deterministic headers.
func newTestProvider(server *httptest.Server, opts ...Option) *Provider {
	base := []Option{
		WithBaseURL(server.URL),
		WithHTTPClient(server.Client()),
		WithHeaderFunc(StaticHeaders("deepchat-test", "10.0.0.1, ::1")),
	}
	return New(append(base, opts...)...)
}

// writeSSE writes one upstream data record and flushes it.
func writeSSE(t *testing.T, writer http.ResponseWriter, data string) {
	t.Helper()
	message := &sse.Message{}
	message.AppendData(data)
	if _, err := message.WriteTo(writer); err != nil {
		t.Errorf("failed to write SSE message: %v", err)
	}
	if flusher, ok := writer.(http.Flusher); ok {
		flusher.Flush()
	}
}

// writeSSEComment writes a keep-alive comment line.
func writeSSEComment(t *testing.T, writer http.ResponseWriter, comment string) {
	t.Helper()
	message := &sse.Message{}
	message.AppendComment(comment)
	if _, err := message.WriteTo(writer); err != nil {
		t.Errorf("failed to write SSE comment: %v", err)
	}
	if flusher, ok := writer.(http.Flusher); ok {
		flusher.Flush()
	}
}

func deltaJSON(content string) string {
	return `{"choices":[{"delta":{"content":"` + content + `"}}]}`
}

// chunkedBody returns one predefined chunk per Read call, so tests control
// chunk boundaries exactly.
type chunkedBody struct {
	chunks [][]byte
	closed bool
}

func (b *chunkedBody) Read(p []byte) (int, error) {
	if len(b.chunks) == 0 {
		return 0, io.EOF
	}
	n := copy(p, b.chunks[0])
	b.chunks = b.chunks[1:]
	return n, nil
}

func (b *chunkedBody) Close() error {
	b.closed = true
	return nil
}

// chunkedTransport answers every request with status and body.
func chunkedTransport(status int, body *chunkedBody) transport.RequestFunc {
	return func(context.Context, string, transport.RequestOptions) (*http.Response, error) {
		return &http.Response{StatusCode: status, Body: body}, nil
	}
}

func chunks(parts ...string) *chunkedBody {
	body := &chunkedBody{}
	for _, part := range parts {
		body.chunks = append(body.chunks, []byte(part))
	}
	return body
}
