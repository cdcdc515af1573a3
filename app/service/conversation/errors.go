package conversation

import "errors"

var (
	ErrCompletionFailed = errors.New("completion failed")
	ErrDataFormat       = errors.New("reply is not in the expected format")
)
