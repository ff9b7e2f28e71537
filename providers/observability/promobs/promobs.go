// Package promobs exports deepchat counters and histograms as Prometheus
// metrics. Tracing and logging are delegated to a base provider, usually a
// slogobs.Observer.
package promobs

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/leofalp/deepchat/providers/observability"
)

// LLMBuckets are histogram buckets suited for completion latencies in
// seconds, from 100ms to 120s.
var LLMBuckets = []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120}

// labelModel is the only label attached to exported metrics.
const labelModel = "model"

// Observer implements observability.Provider. Metrics are registered lazily
// on first use of a name.
type Observer struct {
	base       observability.Provider
	registerer prometheus.Registerer
	namespace  string
	buckets    []float64

	mu         sync.Mutex
	counters   map[string]*promCounter
	histograms map[string]*promHistogram
}

// Option configures an Observer.
type Option func(*Observer)

// WithRegisterer registers metrics on registerer instead of the default one.
func WithRegisterer(registerer prometheus.Registerer) Option {
	return func(o *Observer) {
		o.registerer = registerer
	}
}

// WithNamespace prefixes every metric name.
func WithNamespace(namespace string) Option {
	return func(o *Observer) {
		o.namespace = namespace
	}
}

// WithBuckets overrides [LLMBuckets] for histograms.
func WithBuckets(buckets []float64) Option {
	return func(o *Observer) {
		o.buckets = buckets
	}
}

// New wraps base. A nil base keeps tracing and logging silent.
func New(base observability.Provider, opts ...Option) *Observer {
	observer := &Observer{
		base:       base,
		registerer: prometheus.DefaultRegisterer,
		buckets:    LLMBuckets,
		counters:   make(map[string]*promCounter),
		histograms: make(map[string]*promHistogram),
	}
	for _, opt := range opts {
		opt(observer)
	}
	return observer
}

var _ observability.Provider = (*Observer)(nil)

// MetricName converts a dotted deepchat metric name to Prometheus form,
// e.g. "deepchat.stream.deltas" -> "deepchat_stream_deltas".
func MetricName(name string) string {
	replacer := strings.NewReplacer(".", "_", "-", "_", " ", "_")
	return replacer.Replace(name)
}

func (o *Observer) StartSpan(ctx context.Context, name string, attrs ...observability.Attribute) (context.Context, observability.Span) {
	if o.base == nil {
		span := noopSpan{}
		return observability.ContextWithSpan(ctx, span), span
	}
	return o.base.StartSpan(ctx, name, attrs...)
}

// Counter returns a counter exported as <name>_total.
func (o *Observer) Counter(name string) observability.Counter {
	o.mu.Lock()
	defer o.mu.Unlock()

	if counter, ok := o.counters[name]; ok {
		return counter
	}

	vec := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: o.namespace,
		Name:      MetricName(name) + "_total",
		Help:      fmt.Sprintf("deepchat counter %s", name),
	}, []string{labelModel})
	counter := &promCounter{vec: registerOrExisting(o.registerer, vec)}
	o.counters[name] = counter
	return counter
}

// Histogram returns a histogram exported under the converted name.
func (o *Observer) Histogram(name string) observability.Histogram {
	o.mu.Lock()
	defer o.mu.Unlock()

	if histogram, ok := o.histograms[name]; ok {
		return histogram
	}

	vec := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: o.namespace,
		Name:      MetricName(name),
		Help:      fmt.Sprintf("deepchat histogram %s", name),
		Buckets:   o.buckets,
	}, []string{labelModel})
	histogram := &promHistogram{vec: registerOrExisting(o.registerer, vec)}
	o.histograms[name] = histogram
	return histogram
}

func (o *Observer) Trace(ctx context.Context, msg string, attrs ...observability.Attribute) {
	if o.base != nil {
		o.base.Trace(ctx, msg, attrs...)
	}
}

func (o *Observer) Debug(ctx context.Context, msg string, attrs ...observability.Attribute) {
	if o.base != nil {
		o.base.Debug(ctx, msg, attrs...)
	}
}

func (o *Observer) Info(ctx context.Context, msg string, attrs ...observability.Attribute) {
	if o.base != nil {
		o.base.Info(ctx, msg, attrs...)
	}
}

func (o *Observer) Warn(ctx context.Context, msg string, attrs ...observability.Attribute) {
	if o.base != nil {
		o.base.Warn(ctx, msg, attrs...)
	}
}

func (o *Observer) Error(ctx context.Context, msg string, attrs ...observability.Attribute) {
	if o.base != nil {
		o.base.Error(ctx, msg, attrs...)
	}
}

// registerOrExisting registers collector, or returns the collector already
// registered under the same descriptor.
func registerOrExisting[C prometheus.Collector](registerer prometheus.Registerer, collector C) C {
	if err := registerer.Register(collector); err != nil {
		var already prometheus.AlreadyRegisteredError
		if errors.As(err, &already) {
			if existing, ok := already.ExistingCollector.(C); ok {
				return existing
			}
		}
	}
	return collector
}

func modelLabel(attrs []observability.Attribute) string {
	for _, attr := range attrs {
		if attr.Key == observability.AttrLLMModel {
			if model, ok := attr.Value.(string); ok {
				return model
			}
		}
	}
	return ""
}

type promCounter struct {
	vec *prometheus.CounterVec
}

func (c *promCounter) Add(_ context.Context, value int64, attrs ...observability.Attribute) {
	if value < 0 {
		return
	}
	c.vec.WithLabelValues(modelLabel(attrs)).Add(float64(value))
}

type promHistogram struct {
	vec *prometheus.HistogramVec
}

func (h *promHistogram) Record(_ context.Context, value float64, attrs ...observability.Attribute) {
	h.vec.WithLabelValues(modelLabel(attrs)).Observe(value)
}

type noopSpan struct{}

func (noopSpan) End()                                        {}
func (noopSpan) SetAttributes(...observability.Attribute)    {}
func (noopSpan) SetStatus(observability.StatusCode, string)  {}
func (noopSpan) RecordError(error)                           {}
func (noopSpan) AddEvent(string, ...observability.Attribute) {}
