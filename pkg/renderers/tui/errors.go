package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrNoTransport is returned by Run when no submission transport was
	// configured.
	ErrNoTransport = errors.New("tui: submission transport is nil")
)
