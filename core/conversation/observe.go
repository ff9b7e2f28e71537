package conversation

import (
	"context"

	"github.com/leofalp/deepchat/providers/observability"
)

// conversationSpan wraps an optional span; all methods are no-ops without
// an observer.
type conversationSpan struct {
	span     observability.Span
	observer observability.Provider
	ctx      context.Context
}

// startSpan opens a span and puts it and the observer in the returned
// context, where providers and memories pick them up.
func (c *Conversation) startSpan(ctx context.Context, name string, attrs ...observability.Attribute) (context.Context, *conversationSpan) {
	if c.observer == nil {
		return ctx, &conversationSpan{}
	}

	attrs = append(attrs, observability.String(observability.AttrConversationID, c.id))
	ctx = observability.ContextWithObserver(ctx, c.observer)
	ctx, span := c.observer.StartSpan(ctx, name, attrs...)
	ctx = observability.ContextWithSpan(ctx, span)
	return ctx, &conversationSpan{span: span, observer: c.observer, ctx: ctx}
}

func (s *conversationSpan) succeed(attrs ...observability.Attribute) {
	if s.span == nil {
		return
	}
	s.span.SetAttributes(attrs...)
	s.span.SetStatus(observability.StatusOK, "")
}

func (s *conversationSpan) fail(err error) {
	if s.span == nil {
		return
	}
	s.span.RecordError(err)
	s.span.SetStatus(observability.StatusError, err.Error())
	s.observer.Debug(s.ctx, "conversation step failed", observability.Error(err))
}

func (s *conversationSpan) end() {
	if s.span == nil {
		return
	}
	s.span.End()
}
