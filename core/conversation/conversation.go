package conversation

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/leofalp/deepchat/core/event"
	"github.com/leofalp/deepchat/providers/ai"
	"github.com/leofalp/deepchat/providers/memory"
	"github.com/leofalp/deepchat/providers/memory/inmemory"
	"github.com/leofalp/deepchat/providers/observability"
)

// Conversation is a chat session bound to one provider and one history.
// It is safe for concurrent use; completions run one at a time.
type Conversation struct {
	id       string
	provider ai.Provider
	history  memory.Provider
	emitter  *event.Emitter
	observer observability.Provider
	stream   bool
	config   ai.GenerationConfig

	// completionMu serializes Init and Completion.
	completionMu sync.Mutex

	mu          sync.RWMutex
	models      []ai.Model
	initialized bool
	model       string
}

// New creates a conversation with an empty in-memory history.
func New(provider ai.Provider, opts ...Option) *Conversation {
	conversation := &Conversation{
		id:       uuid.NewString(),
		provider: provider,
		history:  inmemory.New(),
		emitter:  event.NewEmitter(),
	}
	for _, opt := range opts {
		opt(conversation)
	}
	return conversation
}

// ID returns the conversation id.
func (c *Conversation) ID() string {
	return c.id
}

// Emitter returns the emitter completions publish on.
func (c *Conversation) Emitter() *event.Emitter {
	return c.emitter
}

// On registers listener on channel of the conversation's emitter.
func (c *Conversation) On(channel event.Channel, listener event.Listener) error {
	return c.emitter.On(channel, listener)
}

// Init fetches the model catalogue. It does nothing once a fetch succeeded.
func (c *Conversation) Init(ctx context.Context) error {
	c.completionMu.Lock()
	defer c.completionMu.Unlock()

	if c.Initialized() {
		return nil
	}

	ctx, span := c.startSpan(ctx, observability.SpanListModels)
	defer span.end()

	models, err := c.provider.ListModels(ctx)
	if err != nil {
		span.fail(err)
		c.emitter.Emit(event.ChannelError, err)
		return err
	}

	c.mu.Lock()
	c.models = models
	c.initialized = true
	c.mu.Unlock()

	span.succeed(observability.Int(observability.AttrModelsCount, len(models)))
	return nil
}

// Initialized reports whether the catalogue was fetched.
func (c *Conversation) Initialized() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.initialized
}

// Models returns a copy of the fetched catalogue.
func (c *Conversation) Models() []ai.Model {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.models)
}

// SetModel selects the model by full name. A name missing from the
// catalogue yields ErrModelNotFound, emitted and returned.
func (c *Conversation) SetModel(name string) error {
	c.mu.Lock()
	_, found := ai.FindModel(c.models, name)
	if found {
		c.model = name
	}
	c.mu.Unlock()

	if !found {
		err := fmt.Errorf("%w: %q", ErrModelNotFound, name)
		c.emitter.Emit(event.ChannelError, err)
		return err
	}
	return nil
}

// Model returns the selected model's full name.
func (c *Conversation) Model() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.model
}

// History returns the stored messages, oldest first.
func (c *Conversation) History(ctx context.Context) ([]ai.Message, error) {
	return c.history.AllMessages(ctx)
}

// Completion appends content as a user message, requests a completion and
// appends the answer. With empty content the last user message is answered
// again, which requires the history to end with a user message.
//
// Validation happens before any network call. Every error is emitted on
// the error channel and returned. Done is emitted only after the answer is
// recorded, so each call ends with exactly one of done or error.
func (c *Conversation) Completion(ctx context.Context, content string) (*ai.Message, error) {
	c.completionMu.Lock()
	defer c.completionMu.Unlock()

	model := c.Model()
	regenerate := content == ""

	ctx, span := c.startSpan(ctx, observability.SpanConversationCompletion,
		observability.String(observability.AttrLLMModel, model),
		observability.Bool(observability.AttrConversationRegenerate, regenerate),
		observability.Bool(observability.AttrLLMStream, c.stream),
	)
	defer span.end()

	fail := func(err error) (*ai.Message, error) {
		span.fail(err)
		c.emitter.Emit(event.ChannelError, err)
		return nil, err
	}

	c.mu.RLock()
	_, found := ai.FindModel(c.models, model)
	c.mu.RUnlock()
	if !found {
		return fail(ErrInvalidModel)
	}

	history, err := c.history.AllMessages(ctx)
	if err != nil {
		return fail(fmt.Errorf("error reading history: %w", err))
	}

	if regenerate {
		if len(history) == 0 || history[len(history)-1].Role != ai.RoleUser {
			return fail(ErrEmptyContent)
		}
	} else {
		userMessage := ai.Message{Role: ai.RoleUser, Content: content}
		if err := c.record(ctx, userMessage); err != nil {
			return fail(err)
		}
		history = append(history, userMessage)
	}

	request := ai.BuildRequest(history, model, c.stream, c.config)
	answer, err := c.generate(ctx, request)
	if err != nil {
		// Already emitted, by generate or by the provider.
		span.fail(err)
		return nil, err
	}

	if err := c.record(ctx, *answer); err != nil {
		return fail(err)
	}

	span.succeed(observability.Int(observability.AttrResponseLength, len(answer.Content)))
	c.emitter.Emit(event.ChannelDone, *answer)
	return answer, nil
}

// generate runs request and returns the answer without emitting done, so
// Completion can publish it once the answer is recorded. Deltas and errors
// reach the conversation emitter through a relay.
func (c *Conversation) generate(ctx context.Context, request ai.ChatRequest) (*ai.Message, error) {
	relay := c.relay()

	if request.Stream {
		if streamProvider, ok := c.provider.(ai.StreamProvider); ok {
			return streamProvider.StreamMessage(ctx, request, relay)
		}
	}

	answer, err := c.provider.SendMessage(ctx, request)
	if err != nil {
		relay.Emit(event.ChannelError, err)
		return nil, err
	}

	if request.Stream {
		ai.EmitSingleMessage(relay, *answer)
	}
	return answer, nil
}

// relay returns an emitter forwarding deltas and errors of one request to
// the conversation emitter. Done is not forwarded.
func (c *Conversation) relay() *event.Emitter {
	relay := event.NewEmitter()
	for _, channel := range []event.Channel{event.ChannelDelta, event.ChannelError} {
		_ = relay.On(channel, func(data any) {
			c.emitter.Emit(channel, data)
		})
	}
	return relay
}

// record appends message to the history.
func (c *Conversation) record(ctx context.Context, message ai.Message) error {
	if err := c.history.AppendMessage(ctx, &message); err != nil {
		return fmt.Errorf("error recording %s message: %w", message.Role, err)
	}
	return nil
}
