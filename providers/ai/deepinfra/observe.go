package deepinfra

import (
	"context"
	"time"

	"github.com/leofalp/deepchat/providers/observability"
)

// instrumentation reports one API call to the span and observer found in the
// request context. Both may be nil, in which case every method is a no-op.
type instrumentation struct {
	ctx      context.Context
	span     observability.Span
	observer observability.Provider
	model    string
	start    time.Time
}

func instrument(ctx context.Context, endpoint string, model string, attrs ...observability.Attribute) *instrumentation {
	in := &instrumentation{
		ctx:      ctx,
		span:     observability.SpanFromContext(ctx),
		observer: observability.ObserverFromContext(ctx),
		model:    model,
		start:    time.Now(),
	}

	base := []observability.Attribute{
		observability.String(observability.AttrLLMProvider, providerName),
		observability.String(observability.AttrLLMEndpoint, endpoint),
	}
	if model != "" {
		base = append(base, observability.String(observability.AttrLLMModel, model))
	}

	if in.span != nil {
		in.span.AddEvent(observability.EventLLMRequestStart)
		in.span.SetAttributes(append(base, attrs...)...)
	}
	if in.observer != nil {
		in.observer.Trace(ctx, "deepinfra request", append(base, attrs...)...)
		in.observer.Counter(observability.MetricRequests).Add(ctx, 1, in.modelAttr()...)
	}
	return in
}

func (in *instrumentation) modelAttr() []observability.Attribute {
	if in.model == "" {
		return nil
	}
	return []observability.Attribute{observability.String(observability.AttrLLMModel, in.model)}
}

func (in *instrumentation) trace(msg string, attrs ...observability.Attribute) {
	if in.observer != nil {
		in.observer.Trace(in.ctx, msg, attrs...)
	}
}

func (in *instrumentation) event(name string, attrs ...observability.Attribute) {
	if in.span != nil {
		in.span.AddEvent(name, attrs...)
	}
}

func (in *instrumentation) count(metric string, value int) {
	if in.observer != nil && value > 0 {
		in.observer.Counter(metric).Add(in.ctx, int64(value), in.modelAttr()...)
	}
}

// fail records err and the request duration. It returns err for chaining.
func (in *instrumentation) fail(err error) error {
	if in.span != nil {
		in.span.RecordError(err)
		in.span.AddEvent(observability.EventLLMRequestEnd, observability.Error(err))
	}
	if in.observer != nil {
		in.observer.Debug(in.ctx, "deepinfra request failed", observability.Error(err))
		in.observer.Counter(observability.MetricRequestErrors).Add(in.ctx, 1, in.modelAttr()...)
		in.observer.Histogram(observability.MetricRequestDuration).Record(in.ctx, time.Since(in.start).Seconds(), in.modelAttr()...)
	}
	return err
}

func (in *instrumentation) succeed(attrs ...observability.Attribute) {
	if in.span != nil {
		in.span.AddEvent(observability.EventLLMRequestEnd, attrs...)
	}
	if in.observer != nil {
		in.observer.Histogram(observability.MetricRequestDuration).Record(in.ctx, time.Since(in.start).Seconds(), in.modelAttr()...)
	}
}
