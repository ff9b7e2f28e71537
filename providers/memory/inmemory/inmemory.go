package inmemory

import (
	"context"
	"slices"
	"sync"

	"github.com/leofalp/deepchat/providers/ai"
	"github.com/leofalp/deepchat/providers/memory"
	"github.com/leofalp/deepchat/providers/observability"
)

// ArrayMemory is an in-memory message store guarded by an RWMutex.
type ArrayMemory struct {
	mu       sync.RWMutex
	messages []ai.Message
}

// New returns an empty store. Initial messages, if any, are copied in.
func New(initial ...ai.Message) *ArrayMemory {
	return &ArrayMemory{
		messages: slices.Clone(initial),
	}
}

var _ memory.Provider = (*ArrayMemory)(nil)

// AppendMessage stores a copy of message. When a span is present in ctx the
// append is recorded as an event with the resulting history size.
func (m *ArrayMemory) AppendMessage(ctx context.Context, message *ai.Message) error {
	if message == nil {
		return nil
	}

	span := observability.SpanFromContext(ctx)

	m.mu.Lock()
	m.messages = append(m.messages, *message)
	totalMessages := len(m.messages)
	m.mu.Unlock()

	if span != nil {
		span.AddEvent(observability.EventMemoryAppend,
			observability.String(observability.AttrMemoryMessageRole, string(message.Role)),
			observability.Int(observability.AttrMemoryMessageLength, len(message.Content)),
			observability.Int(observability.AttrMemoryTotalMessages, totalMessages),
		)
	}
	return nil
}

func (m *ArrayMemory) Count(_ context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.messages), nil
}

// AllMessages returns a copy of the history; never nil.
func (m *ArrayMemory) AllMessages(_ context.Context) ([]ai.Message, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]ai.Message, len(m.messages))
	copy(out, m.messages)
	return out, nil
}

// LastMessages returns a copy of up to n trailing messages. A non-positive n
// yields an empty, non-nil slice.
func (m *ArrayMemory) LastMessages(_ context.Context, n int) ([]ai.Message, error) {
	if n <= 0 {
		return []ai.Message{}, nil
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	n = min(n, len(m.messages))
	out := make([]ai.Message, n)
	copy(out, m.messages[len(m.messages)-n:])
	return out, nil
}

// ClearMessages empties the store, keeping its capacity.
func (m *ArrayMemory) ClearMessages(ctx context.Context) error {
	if span := observability.SpanFromContext(ctx); span != nil {
		span.AddEvent(observability.EventMemoryClear)
	}

	m.mu.Lock()
	m.messages = m.messages[:0]
	m.mu.Unlock()
	return nil
}
