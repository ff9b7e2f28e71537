package transport

import "errors"

// ErrRetryExhausted is returned by the retry middleware when every attempt
// failed without an HTTP response. It wraps the last transport error, so
// both can be matched with errors.Is / errors.As.
var ErrRetryExhausted = errors.New("deepchat: all retry attempts exhausted")
