// Package deepinfra implements [ai.Provider] and [ai.StreamProvider] for the
// DeepInfra OpenAI-compatible chat-completion endpoint.
//
// Basic usage:
//
//	provider := deepinfra.New()
//	models, err := provider.ListModels(ctx)
//	...
//	request := ai.BuildRequest(history, models[0].FullName, false, ai.GenerationConfig{})
//	message, err := provider.SendMessage(ctx, request)
//
// Streaming publishes every decoded delta on an [event.Emitter]:
//
//	emitter := event.NewEmitter()
//	_ = event.Subscribe(emitter, event.ChannelDelta, func(delta string) { fmt.Print(delta) })
//	message, err := provider.StreamMessage(ctx, request, emitter)
//
// The stream body is decoded chunk by chunk with [DecodeChunk]. Each chunk is
// handled on its own, so a line split across two reads is discarded like any
// other malformed line. A [Session] owns the in-progress assistant message.
//
// Environment variables:
//   - DEEPCHAT_BASE_URL: API base URL (optional, defaults to https://api.deepinfra.com)
package deepinfra
