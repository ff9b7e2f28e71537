package event

import (
	"errors"
	"testing"
)

// ========== On / Emit ==========

// TestEmit_InvokesListenersInRegistrationOrder verifies that every listener on a
// channel runs, in the order it was registered, with the emitted value.
func TestEmit_InvokesListenersInRegistrationOrder(t *testing.T) {
	emitter := NewEmitter()

	var calls []string
	for _, name := range []string{"first", "second", "third"} {
		if err := emitter.On(ChannelDelta, func(data any) {
			calls = append(calls, name+":"+data.(string))
		}); err != nil {
			t.Fatalf("On returned error: %v", err)
		}
	}

	emitter.Emit(ChannelDelta, "Hi")

	want := []string{"first:Hi", "second:Hi", "third:Hi"}
	if len(calls) != len(want) {
		t.Fatalf("expected %d calls, got %d (%v)", len(want), len(calls), calls)
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Errorf("call %d: expected %q, got %q", i, want[i], calls[i])
		}
	}
}

// TestEmit_IsolatesChannels verifies that emitting on one channel never reaches
// listeners of another channel.
func TestEmit_IsolatesChannels(t *testing.T) {
	emitter := NewEmitter()

	deltaCalls, doneCalls := 0, 0
	_ = emitter.On(ChannelDelta, func(any) { deltaCalls++ })
	_ = emitter.On(ChannelDone, func(any) { doneCalls++ })

	emitter.Emit(ChannelDone, nil)

	if deltaCalls != 0 {
		t.Errorf("expected no delta calls, got %d", deltaCalls)
	}
	if doneCalls != 1 {
		t.Errorf("expected 1 done call, got %d", doneCalls)
	}
}

// TestEmit_NoListeners verifies that emitting without listeners is a no-op, on
// both a fresh emitter and the zero value.
func TestEmit_NoListeners(t *testing.T) {
	NewEmitter().Emit(ChannelError, errors.New("nobody listens"))

	var zero Emitter
	zero.Emit(ChannelDelta, "x")

	var nilEmitter *Emitter
	nilEmitter.Emit(ChannelDelta, "x")
}

// TestEmit_NilPayload verifies that the data value is optional.
func TestEmit_NilPayload(t *testing.T) {
	emitter := NewEmitter()

	received := false
	var got any = "sentinel"
	_ = emitter.On(ChannelDone, func(data any) {
		received = true
		got = data
	})

	emitter.Emit(ChannelDone, nil)

	if !received {
		t.Fatal("expected listener to be invoked")
	}
	if got != nil {
		t.Errorf("expected nil payload, got %v", got)
	}
}

// TestEmit_ListenerPanicPropagates verifies that a panicking listener unwinds
// through Emit and that later listeners do not run.
func TestEmit_ListenerPanicPropagates(t *testing.T) {
	emitter := NewEmitter()

	laterCalled := false
	_ = emitter.On(ChannelDelta, func(any) { panic("listener failed") })
	_ = emitter.On(ChannelDelta, func(any) { laterCalled = true })

	defer func() {
		recovered := recover()
		if recovered != "listener failed" {
			t.Errorf("expected listener panic to reach the caller, got %v", recovered)
		}
		if laterCalled {
			t.Error("listener registered after the panicking one must not run")
		}
	}()

	emitter.Emit(ChannelDelta, "boom")
	t.Fatal("Emit should have panicked")
}

// TestEmit_RegisterDuringEmit verifies that a listener registering another
// listener does not deadlock and that the new listener only sees later events.
func TestEmit_RegisterDuringEmit(t *testing.T) {
	emitter := NewEmitter()

	lateCalls := 0
	registered := false
	_ = emitter.On(ChannelDelta, func(any) {
		if !registered {
			registered = true
			_ = emitter.On(ChannelDelta, func(any) { lateCalls++ })
		}
	})

	emitter.Emit(ChannelDelta, "a")
	if lateCalls != 0 {
		t.Fatalf("late listener must not see the emission that registered it, got %d calls", lateCalls)
	}

	emitter.Emit(ChannelDelta, "b")
	if lateCalls != 1 {
		t.Errorf("expected late listener to see the next emission, got %d calls", lateCalls)
	}
}

// ========== Channel ==========

// TestOn_UnknownChannel verifies that channels outside the closed set are rejected.
func TestOn_UnknownChannel(t *testing.T) {
	emitter := NewEmitter()

	err := emitter.On(Channel(42), func(any) {})
	if !errors.Is(err, ErrUnknownChannel) {
		t.Fatalf("expected ErrUnknownChannel, got %v", err)
	}

	// Emitting on an unknown channel is ignored.
	emitter.Emit(Channel(-1), "ignored")

	if got := emitter.ListenerCount(Channel(42)); got != 0 {
		t.Errorf("expected 0 listeners on unknown channel, got %d", got)
	}
}

// TestEmitter_Nil verifies that a nil emitter drops registrations and events.
func TestEmitter_Nil(t *testing.T) {
	var emitter *Emitter

	if err := emitter.On(ChannelDelta, func(any) { t.Error("listener must not run") }); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := Subscribe(emitter, ChannelDone, func(string) {}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := emitter.On(Channel(42), func(any) {}); !errors.Is(err, ErrUnknownChannel) {
		t.Errorf("expected ErrUnknownChannel, got %v", err)
	}

	emitter.Emit(ChannelDelta, "dropped")

	if got := emitter.ListenerCount(ChannelDelta); got != 0 {
		t.Errorf("expected 0 listeners, got %d", got)
	}
}

// TestChannel_String checks the names of the defined channels.
func TestChannel_String(t *testing.T) {
	cases := map[Channel]string{
		ChannelDelta: "delta",
		ChannelError: "error",
		ChannelDone:  "done",
		Channel(9):   "channel(9)",
	}
	for channel, want := range cases {
		if got := channel.String(); got != want {
			t.Errorf("Channel(%d).String() = %q, want %q", int(channel), got, want)
		}
	}
}

// ========== Subscribe ==========

// TestSubscribe_TypedListener verifies that typed listeners receive matching
// values and skip values of other types.
func TestSubscribe_TypedListener(t *testing.T) {
	emitter := NewEmitter()

	var deltas []string
	if err := Subscribe(emitter, ChannelDelta, func(delta string) {
		deltas = append(deltas, delta)
	}); err != nil {
		t.Fatalf("Subscribe returned error: %v", err)
	}

	var failures []error
	_ = Subscribe(emitter, ChannelError, func(err error) {
		failures = append(failures, err)
	})

	emitter.Emit(ChannelDelta, "A")
	emitter.Emit(ChannelDelta, 42)
	emitter.Emit(ChannelDelta, "B")
	emitter.Emit(ChannelError, errors.New("bad request"))
	emitter.Emit(ChannelError, nil)

	if len(deltas) != 2 || deltas[0] != "A" || deltas[1] != "B" {
		t.Errorf("expected deltas [A B], got %v", deltas)
	}
	if len(failures) != 1 || failures[0].Error() != "bad request" {
		t.Errorf("expected one error 'bad request', got %v", failures)
	}
	if got := emitter.ListenerCount(ChannelDelta); got != 1 {
		t.Errorf("expected 1 delta listener, got %d", got)
	}
}
