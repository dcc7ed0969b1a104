package llm

import "errors"

// ErrThreadContentRequired is returned when the submitted thread text is
// empty after trimming. The request is rejected before any network call.
var ErrThreadContentRequired = errors.New("thread content is required")

// ErrAPIKeyMissing is a configuration error: the completion service
// credential was not provided. Fatal, not user-recoverable.
var ErrAPIKeyMissing = errors.New("completion service API key not configured")

// UpstreamError carries the error message returned by the completion service.
// Recoverable: the user may retry manually, no automatic retry happens.
type UpstreamError struct {
	Message string
}

func (e *UpstreamError) Error() string {
	return e.Message
}

// ParseError marks a malformed or non-JSON completion reply.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return e.Err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
