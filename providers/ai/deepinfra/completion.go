package deepinfra

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/leofalp/deepchat/internal/utils"
	"github.com/leofalp/deepchat/providers/ai"
	"github.com/leofalp/deepchat/providers/observability"
)

// SendMessage sends a buffered completion and returns choices[0].message.
// request.Stream is forced to false.
func (p *Provider) SendMessage(ctx context.Context, request ai.ChatRequest) (*ai.Message, error) {
	request.Stream = false
	in := instrument(ctx, chatCompletionsEndpoint, request.Model,
		observability.Int(observability.AttrRequestMessagesCount, len(request.Messages)),
		observability.Bool(observability.AttrLLMStream, false),
	)

	payload, err := json.Marshal(request)
	if err != nil {
		return nil, in.fail(fmt.Errorf("error marshaling request: %w", err))
	}

	response, err := p.do(ctx, chatCompletionsEndpoint, http.MethodPost, payload)
	if err != nil {
		return nil, in.fail(err)
	}
	defer utils.CloseWithLog(response.Body)

	body, err := utils.ReadLimited(response.Body)
	if err != nil {
		return nil, in.fail(err)
	}
	if !utils.IsSuccessStatus(response.StatusCode) {
		return nil, in.fail(newAPIError(response.StatusCode, body))
	}

	var completion completionResponse
	if err := json.Unmarshal(body, &completion); err != nil {
		return nil, in.fail(malformed(err))
	}
	if len(completion.Choices) == 0 {
		return nil, in.fail(ErrNoChoices)
	}

	message := completion.Choices[0].Message
	if message.Role == "" {
		message.Role = ai.RoleAssistant
	}

	in.succeed(observability.Int(observability.AttrResponseLength, len(message.Content)))
	in.trace("deepinfra completion received",
		observability.String(observability.AttrResponseContent, utils.TruncateString(message.Content, utils.DefaultMaxStringLength)),
	)
	return &message, nil
}
