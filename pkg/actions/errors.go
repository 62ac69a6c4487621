package actions

import "errors"

var (
	// ErrScriptNotFound is returned when runScript names a function the
	// registry does not hold.
	ErrScriptNotFound = errors.New("actions: script function not found")
	// ErrNoOpener is returned when openURL runs without a window opener.
	ErrNoOpener = errors.New("actions: window opener not configured")
	// ErrNoHost is returned when a handler runs without a host.
	ErrNoHost = errors.New("actions: host is nil")
)
