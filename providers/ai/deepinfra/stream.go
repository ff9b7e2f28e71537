package deepinfra

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/leofalp/deepchat/core/event"
	"github.com/leofalp/deepchat/internal/utils"
	"github.com/leofalp/deepchat/providers/ai"
	"github.com/leofalp/deepchat/providers/observability"
)

// StreamMessage sends a streamed completion and decodes the body chunk by
// chunk as it arrives. Every delta is emitted on emitter in arrival order.
// On the [DONE] sentinel or end of body the assembled message is emitted on
// the done channel and returned. Any failure is emitted on the error channel
// and returned; no done event follows it.
//
// request.Stream is forced to true. Cancelling ctx closes the connection and
// ends the stream with ctx's error.
func (p *Provider) StreamMessage(ctx context.Context, request ai.ChatRequest, emitter *event.Emitter) (*ai.Message, error) {
	request.Stream = true
	in := instrument(ctx, chatCompletionsEndpoint, request.Model,
		observability.Int(observability.AttrRequestMessagesCount, len(request.Messages)),
		observability.Bool(observability.AttrLLMStream, true),
	)
	session := NewSession(emitter)

	fail := func(err error) (*ai.Message, error) {
		session.Fail(err)
		return nil, in.fail(err)
	}

	payload, err := json.Marshal(request)
	if err != nil {
		return fail(fmt.Errorf("error marshaling request: %w", err))
	}

	response, err := p.do(ctx, chatCompletionsEndpoint, http.MethodPost, payload)
	if err != nil {
		return fail(err)
	}
	defer utils.CloseWithLog(response.Body)

	if !utils.IsSuccessStatus(response.StatusCode) {
		body, readErr := utils.ReadLimited(response.Body)
		if readErr != nil {
			return fail(readErr)
		}
		return fail(newAPIError(response.StatusCode, body))
	}

	buffer := make([]byte, p.chunkSize)
	for {
		n, readErr := response.Body.Read(buffer)
		if n > 0 {
			records := DecodeChunk(buffer[:n])
			in.event(observability.EventStreamChunk, observability.Int(observability.AttrStreamChunkSize, n))
			in.traceNoops(records)

			if session.Apply(records) {
				in.trace("deepinfra stream sentinel", observability.String(observability.AttrStreamSentinel, doneSentinel))
				break
			}
		}

		if errors.Is(readErr, io.EOF) {
			break
		}
		if readErr != nil {
			if ctx.Err() != nil {
				return fail(ctx.Err())
			}
			return fail(fmt.Errorf("error reading stream: %w", readErr))
		}
	}

	message := session.Finish()

	in.count(observability.MetricStreamDeltas, session.Deltas())
	in.count(observability.MetricStreamDiscarded, session.Discarded())
	in.event(observability.EventStreamDone, observability.Int(observability.AttrStreamDeltas, session.Deltas()))
	in.succeed(observability.Int(observability.AttrResponseLength, len(message.Content)))
	return &message, nil
}

// traceNoops logs discarded lines at TRACE. They never reach the emitter.
func (in *instrumentation) traceNoops(records []Record) {
	if in.observer == nil {
		return
	}
	for _, record := range records {
		if record.Kind == RecordNoop {
			in.trace("deepinfra stream line discarded",
				observability.String(observability.AttrStreamLine, utils.TruncateString(record.Line, utils.DefaultMaxStringLength)),
			)
		}
	}
}
