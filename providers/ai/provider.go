package ai

import (
	"context"

	"github.com/leofalp/deepchat/core/event"
)

// Provider is the core interface a chat-completion backend must satisfy:
// model discovery plus buffered completions.
type Provider interface {
	// ListModels returns the text-generation models the backend serves.
	ListModels(ctx context.Context) ([]Model, error)

	// SendMessage sends a non-streaming request and returns the first
	// choice's message. HTTP and parse failures are returned as errors,
	// never as partial results.
	SendMessage(ctx context.Context, request ChatRequest) (*Message, error)
}

// StreamProvider is an optional interface for providers that can stream.
// Callers detect it via type assertion: provider.(StreamProvider).
type StreamProvider interface {
	Provider

	// StreamMessage sends a streaming request, emits every decoded delta on
	// emitter's delta channel in arrival order, emits the assembled message on
	// the done channel exactly once, and returns that message. Failures are
	// emitted on the error channel and also returned.
	StreamMessage(ctx context.Context, request ChatRequest, emitter *event.Emitter) (*Message, error)
}

// EmitSingleMessage replays a buffered message on emitter as if it had been
// streamed: one delta carrying the whole content (if any) followed by done.
// It is the fallback for providers that do not implement [StreamProvider].
func EmitSingleMessage(emitter *event.Emitter, message Message) {
	if message.Content != "" {
		emitter.Emit(event.ChannelDelta, message.Content)
	}
	emitter.Emit(event.ChannelDone, message)
}
