package dispatch

import "errors"

var (
	// ErrClosed is returned for tasks submitted to, or still pending in, a
	// stopped dispatcher.
	ErrClosed = errors.New("dispatcher closed")

	// ErrTimeout is returned by Wait when the caller's deadline passes
	// before the task finishes.
	ErrTimeout = errors.New("task timed out")
)
