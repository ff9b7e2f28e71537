// Package observability defines the interfaces and semantic conventions for
// tracing, metrics and structured logging inside deepchat.
//
// [Provider] composes [Tracer], [Metrics] and [Logger] into one injectable
// dependency. It travels through a [context.Context] via
// [ContextWithObserver] / [ObserverFromContext], and the active [Span] via
// [ContextWithSpan] / [SpanFromContext]. When neither is present, library code
// stays silent.
//
// semconv.go lists the attribute keys, span, event and metric names used by
// the rest of the module.
package observability
