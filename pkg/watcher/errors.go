package watcher

import "errors"

// Saves watcher errors.
var (
	// ErrWatcherClosed is returned by Start and Stop after Close.
	ErrWatcherClosed = errors.New("saves watcher is closed")

	// ErrAlreadyStarted is returned by a second Start, including one after Stop.
	ErrAlreadyStarted = errors.New("saves watcher already started")

	// ErrNotStarted is returned by Stop before Start.
	ErrNotStarted = errors.New("saves watcher not started")

	// ErrCircuitBreakerOpen is sent on Errors after too many consecutive
	// fsnotify failures; the saves directory is no longer reliably watched.
	ErrCircuitBreakerOpen = errors.New("saves watcher failing repeatedly")

	// ErrInvalidPath is returned by Start when the saves directory is missing
	// or is not a directory.
	ErrInvalidPath = errors.New("saves directory cannot be watched")
)
