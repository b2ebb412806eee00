package answer

import "errors"

// ErrAnswerUnavailable indicates the chat-completion call failed.
var ErrAnswerUnavailable = errors.New("answer service unavailable")
