package deepinfra

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/leofalp/deepchat/internal/utils"
)

// genericErrorMessage is used when a non-2xx body carries no known message.
const genericErrorMessage = "failed to fetch"

var (
	// ErrMalformedResponse wraps a complete response body that is not the
	// expected JSON.
	ErrMalformedResponse = errors.New("deepinfra: malformed response")

	// ErrNoChoices is returned when a buffered completion has no choices.
	ErrNoChoices = errors.New("deepinfra: no choices in response")
)

// APIError is a non-2xx answer from the API. Error returns the message the
// server gave, unchanged.
type APIError struct {
	StatusCode int
	Message    string
	Body       string
}

func (e *APIError) Error() string {
	return e.Message
}

// newAPIError builds an APIError from a non-2xx body. The message is
// detail.error, else error.message, else "failed to fetch". Each field is
// decoded on its own, so a detail of another shape falls through to
// error.message. Bodies that are not quite JSON are repaired before giving up.
func newAPIError(statusCode int, body []byte) *APIError {
	apiError := &APIError{
		StatusCode: statusCode,
		Message:    genericErrorMessage,
		Body:       string(body),
	}

	var envelope errorEnvelope
	if err := utils.UnmarshalLenient(body, &envelope); err != nil {
		return apiError
	}

	var detail errorDetail
	var errBody errorBody
	switch {
	case json.Unmarshal(envelope.Detail, &detail) == nil && detail.Error != "":
		apiError.Message = detail.Error
	case json.Unmarshal(envelope.Error, &errBody) == nil && errBody.Message != "":
		apiError.Message = errBody.Message
	}
	return apiError
}

func malformed(err error) error {
	return fmt.Errorf("%w: %w", ErrMalformedResponse, err)
}
