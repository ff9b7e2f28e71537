// Package event implements the synchronous publish/subscribe mechanism used to
// deliver streaming output.
//
// Channels form a closed set ([ChannelDelta], [ChannelError], [ChannelDone]).
// Publishing on a channel invokes every listener registered on it, in
// registration order, on the publishing goroutine, before Emit returns.
// There is no unsubscribe, no wildcard and no backpressure, and a listener
// that panics unwinds through Emit to its caller.
package event
