package deepinfra

import (
	"context"
	"net/http"
	"os"
	"strings"

	"github.com/leofalp/deepchat/core/transport"
	"github.com/leofalp/deepchat/providers/ai"
)

const (
	providerName = "deepinfra"

	// DefaultBaseURL is the public DeepInfra API.
	DefaultBaseURL = "https://api.deepinfra.com"

	// DefaultChunkSize is the read buffer used for streamed bodies.
	DefaultChunkSize = 4096

	featuredModelsEndpoint  = "/models/featured"
	chatCompletionsEndpoint = "/v1/openai/chat/completions"

	baseURLEnv = "DEEPCHAT_BASE_URL"
)

// Provider talks to the DeepInfra API. It holds no per-request state and is
// safe for concurrent use.
type Provider struct {
	baseURL   string
	request   transport.RequestFunc
	headers   HeaderFunc
	chunkSize int
}

var (
	_ ai.Provider       = (*Provider)(nil)
	_ ai.StreamProvider = (*Provider)(nil)
)

// Option configures a Provider.
type Option func(*Provider)

// WithBaseURL overrides the API base URL. A trailing slash is dropped.
func WithBaseURL(baseURL string) Option {
	return func(p *Provider) {
		p.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithRequestFunc replaces the transport, e.g. with a middleware chain.
func WithRequestFunc(request transport.RequestFunc) Option {
	return func(p *Provider) {
		p.request = request
	}
}

// WithHTTPClient uses client through [transport.HTTPClient].
func WithHTTPClient(client *http.Client) Option {
	return func(p *Provider) {
		p.request = transport.HTTPClient(client)
	}
}

// WithHeaderFunc replaces the header generator.
func WithHeaderFunc(headers HeaderFunc) Option {
	return func(p *Provider) {
		p.headers = headers
	}
}

// WithChunkSize sets the read buffer size of streamed bodies. Values below 1
// are ignored.
func WithChunkSize(size int) Option {
	return func(p *Provider) {
		if size > 0 {
			p.chunkSize = size
		}
	}
}

// New creates a provider. The base URL comes from DEEPCHAT_BASE_URL when set.
func New(opts ...Option) *Provider {
	baseURL := os.Getenv(baseURLEnv)
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	provider := &Provider{
		baseURL:   strings.TrimRight(baseURL, "/"),
		request:   transport.HTTPClient(nil),
		headers:   DefaultHeaders,
		chunkSize: DefaultChunkSize,
	}
	for _, opt := range opts {
		opt(provider)
	}
	return provider
}

// BaseURL returns the configured API base URL.
func (p *Provider) BaseURL() string {
	return p.baseURL
}

func (p *Provider) do(ctx context.Context, endpoint string, method string, body []byte) (*http.Response, error) {
	headers := http.Header{}
	if p.headers != nil {
		headers = p.headers()
	}

	return p.request(ctx, p.baseURL+endpoint, transport.RequestOptions{
		Method: method,
		Header: headers,
		Body:   body,
	})
}
