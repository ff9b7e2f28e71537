package observability

import (
	"context"
	"testing"
)

type recordingSpan struct {
	events []string
}

func (s *recordingSpan) End()                                 {}
func (s *recordingSpan) SetAttributes(...Attribute)           {}
func (s *recordingSpan) SetStatus(StatusCode, string)         {}
func (s *recordingSpan) RecordError(error)                    {}
func (s *recordingSpan) AddEvent(name string, _ ...Attribute) { s.events = append(s.events, name) }

func TestSpanFromContext_Empty(t *testing.T) {
	if span := SpanFromContext(context.Background()); span != nil {
		t.Errorf("expected nil span from empty context, got %v", span)
	}
}

func TestSpanFromContext_WithSpan(t *testing.T) {
	span := &recordingSpan{}
	ctx := ContextWithSpan(context.Background(), span)

	if got := SpanFromContext(ctx); got != span {
		t.Errorf("expected the stored span back, got %v", got)
	}
}

func TestContextWithSpan_NilContext(t *testing.T) {
	//nolint:staticcheck // nil context is accepted on purpose
	ctx := ContextWithSpan(nil, &recordingSpan{})
	if ctx == nil {
		t.Fatal("expected non-nil context")
	}
}

func TestObserverFromContext_Empty(t *testing.T) {
	if observer := ObserverFromContext(context.Background()); observer != nil {
		t.Errorf("expected nil observer, got %v", observer)
	}
	//nolint:staticcheck // nil context is accepted on purpose
	if observer := ObserverFromContext(nil); observer != nil {
		t.Errorf("expected nil observer from nil context, got %v", observer)
	}
}

// TestErrorAttribute checks the key and the nil-error value.
func TestErrorAttribute(t *testing.T) {
	attr := Error(nil)
	if attr.Key != AttrError || attr.Value != "" {
		t.Errorf("unexpected attribute for nil error: %+v", attr)
	}

	attr = Error(context.Canceled)
	if attr.Value != "context canceled" {
		t.Errorf("expected error text, got %v", attr.Value)
	}
}
