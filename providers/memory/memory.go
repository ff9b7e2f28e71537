package memory

import (
	"context"

	"github.com/leofalp/deepchat/providers/ai"
)

// Provider stores the message history of one conversation, in order.
type Provider interface {
	// AppendMessage stores a copy of message at the end of the history.
	// A nil message is ignored.
	AppendMessage(ctx context.Context, message *ai.Message) error

	// Count returns the number of stored messages.
	Count(ctx context.Context) (int, error)

	// AllMessages returns every message, oldest first. The slice is owned by
	// the caller.
	AllMessages(ctx context.Context) ([]ai.Message, error)

	// LastMessages returns up to n of the most recent messages, oldest first.
	LastMessages(ctx context.Context, n int) ([]ai.Message, error)

	// ClearMessages removes every message.
	ClearMessages(ctx context.Context) error
}
