package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/leofalp/deepchat/core/conversation"
	"github.com/leofalp/deepchat/core/transport"
	"github.com/leofalp/deepchat/providers/ai"
	"github.com/leofalp/deepchat/providers/ai/deepinfra"
	"github.com/leofalp/deepchat/providers/observability"
	"github.com/leofalp/deepchat/providers/observability/promobs"
	"github.com/leofalp/deepchat/providers/observability/slogobs"
)

// app holds everything a command needs once settings are resolved.
type app struct {
	settings *settings
	observer observability.Provider
	provider *deepinfra.Provider
	out      io.Writer
	errOut   io.Writer

	metrics *http.Server
}

func newApp(resolved *settings, out, errOut io.Writer) (*app, error) {
	logObserver := slogobs.New(
		slogobs.WithOutput(errOut),
		slogobs.WithLevel(slogobs.ParseLogLevel(resolved.LogLevel)),
		slogobs.WithFormat(slogobs.ParseFormat(resolved.LogFormat)),
	)

	a := &app{settings: resolved, observer: logObserver, out: out, errOut: errOut}

	if resolved.MetricsAddr != "" {
		registry := prometheus.NewRegistry()
		registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		a.observer = promobs.New(logObserver, promobs.WithRegisterer(registry))
		if err := a.serveMetrics(resolved.MetricsAddr, registry); err != nil {
			return nil, err
		}
	}

	request, err := buildTransport(resolved, logObserver)
	if err != nil {
		return nil, err
	}

	opts := []deepinfra.Option{deepinfra.WithRequestFunc(request)}
	if resolved.BaseURL != "" {
		opts = append(opts, deepinfra.WithBaseURL(resolved.BaseURL))
	}
	a.provider = deepinfra.New(opts...)
	return a, nil
}

// buildTransport chains logging, retry and timeout around a plain client.
// Logging is outermost so one line covers all attempts; the timeout applies
// to each attempt.
func buildTransport(resolved *settings, logObserver *slogobs.Observer) (transport.RequestFunc, error) {
	var middlewares []transport.Middleware

	switch strings.ToLower(resolved.HTTPLog) {
	case "", "off":
	case "minimal":
		middlewares = append(middlewares, transport.NewLoggingMiddleware(logObserver.Logger(), transport.LogLevelMinimal))
	case "standard":
		middlewares = append(middlewares, transport.NewLoggingMiddleware(logObserver.Logger(), transport.LogLevelStandard))
	case "verbose":
		middlewares = append(middlewares, transport.NewLoggingMiddleware(logObserver.Logger(), transport.LogLevelVerbose))
	default:
		return nil, fmt.Errorf("unknown http-log level %q", resolved.HTTPLog)
	}

	if resolved.Retries > 0 {
		middlewares = append(middlewares, transport.NewRetryMiddleware(transport.RetryConfig{MaxRetries: resolved.Retries}))
	}
	if resolved.Timeout > 0 {
		middlewares = append(middlewares, transport.NewTimeoutMiddleware(resolved.Timeout))
	}

	return transport.Chain(transport.HTTPClient(&http.Client{}), middlewares...), nil
}

func (a *app) serveMetrics(addr string, registry *prometheus.Registry) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("error listening on %s: %w", addr, err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	a.metrics = &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := a.metrics.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			_, _ = fmt.Fprintf(a.errOut, "metrics server stopped: %v\n", err)
		}
	}()
	_, _ = fmt.Fprintf(a.errOut, "serving metrics on http://%s/metrics\n", listener.Addr())
	return nil
}

func (a *app) close() {
	if a.metrics == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = a.metrics.Shutdown(ctx)
}

// context carries the observer so provider calls made outside a
// conversation still report.
func (a *app) context(ctx context.Context) context.Context {
	return observability.ContextWithObserver(ctx, a.observer)
}

// newConversation initializes a conversation and selects the configured
// model, or the first non-deprecated one when none is configured.
func (a *app) newConversation(ctx context.Context, opts ...conversation.Option) (*conversation.Conversation, error) {
	opts = append([]conversation.Option{
		conversation.WithObserver(a.observer),
		conversation.WithStream(a.settings.Stream),
		conversation.WithGenerationConfig(a.settings.Generation),
	}, opts...)
	conv := conversation.New(a.provider, opts...)

	if err := conv.Init(ctx); err != nil {
		return nil, fmt.Errorf("error loading models: %w", err)
	}

	model := a.settings.Model
	if model == "" {
		model = defaultModel(conv.Models())
		if model == "" {
			return nil, errors.New("the model catalogue is empty")
		}
		_, _ = fmt.Fprintf(a.errOut, "using model %s\n", model)
	}
	if err := conv.SetModel(model); err != nil {
		return nil, err
	}
	return conv, nil
}

func defaultModel(models []ai.Model) string {
	for _, model := range models {
		if !model.Deprecated {
			return model.FullName
		}
	}
	if len(models) > 0 {
		return models[0].FullName
	}
	return ""
}
