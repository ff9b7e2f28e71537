package deepinfra

import (
	"strings"

	"github.com/leofalp/deepchat/core/event"
	"github.com/leofalp/deepchat/providers/ai"
)

// Session owns the in-progress assistant message of one streamed completion
// and publishes decoded records on an emitter. It is not safe for concurrent
// use; one goroutine drives it from the first chunk to Finish or Fail.
type Session struct {
	emitter  *event.Emitter
	content  strings.Builder
	deltas   int
	noops    int
	finished bool
}

// NewSession starts a session publishing on emitter. A nil emitter is
// allowed and drops every event.
func NewSession(emitter *event.Emitter) *Session {
	return &Session{emitter: emitter}
}

// Apply appends and emits every delta record in order and reports whether a
// done record was reached. Records after the first done are ignored, as are
// all records once the session has finished.
func (s *Session) Apply(records []Record) (done bool) {
	if s.finished {
		return true
	}

	for _, record := range records {
		switch record.Kind {
		case RecordDelta:
			s.content.WriteString(record.Content)
			s.deltas++
			s.emitter.Emit(event.ChannelDelta, record.Content)
		case RecordDone:
			return true
		default:
			s.noops++
		}
	}
	return false
}

// Message returns the assistant message assembled so far.
func (s *Session) Message() ai.Message {
	return ai.Message{Role: ai.RoleAssistant, Content: s.content.String()}
}

// Deltas returns the number of deltas emitted.
func (s *Session) Deltas() int {
	return s.deltas
}

// Discarded returns the number of lines decoded as no-ops.
func (s *Session) Discarded() int {
	return s.noops
}

// Finish emits the assembled message on the done channel and returns it.
// Only the first call to Finish or Fail emits anything.
func (s *Session) Finish() ai.Message {
	message := s.Message()
	if s.finished {
		return message
	}
	s.finished = true
	s.emitter.Emit(event.ChannelDone, message)
	return message
}

// Fail emits err on the error channel and closes the session.
// Only the first call to Finish or Fail emits anything.
func (s *Session) Fail(err error) {
	if s.finished {
		return
	}
	s.finished = true
	s.emitter.Emit(event.ChannelError, err)
}
