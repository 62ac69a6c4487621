package session

import "errors"

var (
	// ErrNoAssignment is returned by assignment operations on a session
	// that has no open assignment.
	ErrNoAssignment = errors.New("session: no open assignment")
	// ErrNoBackend is returned when a network operation runs without a
	// backend.
	ErrNoBackend = errors.New("session: backend not configured")
	// ErrNoPrompter is returned by page group grid operations without a
	// prompter.
	ErrNoPrompter = errors.New("session: prompter not configured")
	// ErrClosed is returned by operations on a closed session.
	ErrClosed = errors.New("session: closed")
	// ErrUnknownField is returned when a field id is not on the screen.
	ErrUnknownField = errors.New("session: unknown field")
)
