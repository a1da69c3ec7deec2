package chat

import "errors"

var (
	ErrEmptyMessage    = errors.New("message is required")
	ErrEmptyVisualHint = errors.New("empty visual prompt")
)
