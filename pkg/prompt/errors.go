package prompt

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("prompt: aborted")
	// ErrTooManyAttempts is returned when a field stays invalid after the
	// configured number of prompts.
	ErrTooManyAttempts = errors.New("prompt: too many invalid attempts")
	// ErrIncomplete is returned when the form is still invalid once every
	// field has been answered.
	ErrIncomplete = errors.New("prompt: order is incomplete")
)
