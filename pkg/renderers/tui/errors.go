package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrNoSession is returned when Run is called without a session.
	ErrNoSession = errors.New("tui: session is required")
	// ErrTooManyRounds is returned when the runner gives up before the
	// assignment completes.
	ErrTooManyRounds = errors.New("tui: too many rounds")
)
