package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrNoBuilder is returned when the runner has nothing to drive.
	ErrNoBuilder = errors.New("tui: builder is nil")
)
