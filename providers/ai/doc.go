// Package ai defines the shared types and interfaces used between the
// conversation layer and chat-completion backends.
//
// Request data flows through [ChatRequest], built purely from history by
// [BuildRequest]; responses come back as [Message]. [Provider] covers model
// listing and buffered completions, [StreamProvider] adds incremental
// delivery through a [event.Emitter].
package ai
