package conversation

import "errors"

var (
	// ErrModelNotFound is returned by SetModel for a name missing from the
	// fetched catalogue.
	ErrModelNotFound = errors.New("model not found")

	// ErrInvalidModel is returned by Completion when the selected model is not
	// in the fetched catalogue, including when none was selected.
	ErrInvalidModel = errors.New("invalid model name")

	// ErrEmptyContent is returned by Completion for empty content unless the
	// last message in the history is the user's.
	ErrEmptyContent = errors.New("content cannot be empty")
)
