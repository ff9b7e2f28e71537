// Package conversation keeps a chat history and drives completions against an
// [ai.Provider].
//
// A Conversation fetches the model catalogue once ([Conversation.Init]),
// validates the selected model, appends the user's message, builds the
// request with [ai.BuildRequest], and records the assistant's answer:
//
//	conv := conversation.New(deepinfra.New(), conversation.WithStream(true))
//	if err := conv.Init(ctx); err != nil { ... }
//	if err := conv.SetModel("meta-llama/Meta-Llama-3-8B-Instruct"); err != nil { ... }
//	_ = event.Subscribe(conv.Emitter(), event.ChannelDelta, func(delta string) { fmt.Print(delta) })
//	answer, err := conv.Completion(ctx, "Hello!")
//
// Every failure is emitted on [event.ChannelError] and also returned.
// Completions on one Conversation are serialized.
package conversation
