package event

import (
	"errors"
	"fmt"
	"sync"
)

// ErrUnknownChannel is returned when registering on a channel outside the
// closed set defined in this package.
var ErrUnknownChannel = errors.New("event: unknown channel")

// Channel identifies a category of events.
type Channel int

const (
	// ChannelDelta carries each decoded text fragment as a string.
	ChannelDelta Channel = iota
	// ChannelError carries an error that ended the request.
	ChannelError
	// ChannelDone carries the fully assembled ai.Message.
	ChannelDone

	channelCount
)

// Valid reports whether c is one of the defined channels.
func (c Channel) Valid() bool {
	return c >= 0 && c < channelCount
}

func (c Channel) String() string {
	switch c {
	case ChannelDelta:
		return "delta"
	case ChannelError:
		return "error"
	case ChannelDone:
		return "done"
	default:
		return fmt.Sprintf("channel(%d)", int(c))
	}
}

// Listener receives the optional value published on a channel.
type Listener func(data any)

// Emitter dispatches events to listeners. The zero value is ready to use.
type Emitter struct {
	mu        sync.RWMutex
	listeners [channelCount][]Listener
}

// NewEmitter returns an empty Emitter.
func NewEmitter() *Emitter {
	return &Emitter{}
}

// On registers listener on channel. Listeners run in registration order.
// On a nil Emitter registration is a no-op, matching Emit.
func (e *Emitter) On(channel Channel, listener Listener) error {
	if !channel.Valid() {
		return fmt.Errorf("%w: %s", ErrUnknownChannel, channel)
	}
	if e == nil || listener == nil {
		return nil
	}

	e.mu.Lock()
	e.listeners[channel] = append(e.listeners[channel], listener)
	e.mu.Unlock()
	return nil
}

// Emit synchronously invokes every listener registered on channel with data.
// Panics raised by a listener are not recovered. Emitting on a channel
// without listeners, or on an invalid channel, does nothing.
func (e *Emitter) Emit(channel Channel, data any) {
	if e == nil || !channel.Valid() {
		return
	}

	// Snapshot so a listener may register further listeners without deadlocking;
	// those only see later emissions.
	e.mu.RLock()
	listeners := e.listeners[channel]
	e.mu.RUnlock()

	for _, listener := range listeners {
		listener(data)
	}
}

// ListenerCount returns the number of listeners registered on channel.
func (e *Emitter) ListenerCount(channel Channel) int {
	if e == nil || !channel.Valid() {
		return 0
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.listeners[channel])
}

// Subscribe registers a typed listener on channel. Values that are not of
// type T (including a nil payload) are skipped for this listener.
//
// Example:
//
//	event.Subscribe(emitter, event.ChannelDelta, func(delta string) {
//	    fmt.Print(delta)
//	})
func Subscribe[T any](emitter *Emitter, channel Channel, listener func(T)) error {
	if listener == nil {
		return emitter.On(channel, nil)
	}
	return emitter.On(channel, func(data any) {
		if value, ok := data.(T); ok {
			listener(value)
		}
	})
}
