package conversation

import (
	"github.com/leofalp/deepchat/core/event"
	"github.com/leofalp/deepchat/providers/ai"
	"github.com/leofalp/deepchat/providers/memory"
	"github.com/leofalp/deepchat/providers/memory/inmemory"
	"github.com/leofalp/deepchat/providers/observability"
)

// Option configures a Conversation.
type Option func(*Conversation)

// WithHistory seeds an in-memory history with messages.
// It replaces any store set by WithMemory.
func WithHistory(messages ...ai.Message) Option {
	return func(c *Conversation) {
		c.history = inmemory.New(messages...)
	}
}

// WithMemory stores the history in provider, e.g. a boltmemory.Memory.
// It replaces any history set by WithHistory.
func WithMemory(provider memory.Provider) Option {
	return func(c *Conversation) {
		c.history = provider
	}
}

// WithStream selects streamed completions. Default false.
func WithStream(stream bool) Option {
	return func(c *Conversation) {
		c.stream = stream
	}
}

// WithGenerationConfig sets the sampling parameters of every request.
func WithGenerationConfig(config ai.GenerationConfig) Option {
	return func(c *Conversation) {
		c.config = config
	}
}

// WithObserver enables spans, metrics and logs for Init and Completion.
func WithObserver(observer observability.Provider) Option {
	return func(c *Conversation) {
		c.observer = observer
	}
}

// WithEmitter publishes events on emitter instead of a private one.
func WithEmitter(emitter *event.Emitter) Option {
	return func(c *Conversation) {
		if emitter != nil {
			c.emitter = emitter
		}
	}
}

// WithID sets the conversation id, e.g. to resume a persisted history.
// By default a random UUID is used.
func WithID(id string) Option {
	return func(c *Conversation) {
		if id != "" {
			c.id = id
		}
	}
}
