package recent

import "errors"

// Common errors returned by the bookmark store.
var (
	// ErrNoActive is returned when no save is bookmarked as active.
	ErrNoActive = errors.New("no active save; run 'gala new' or 'gala open' first")

	// ErrEmptyFileName is returned when an entry has no file name.
	ErrEmptyFileName = errors.New("bookmark file name cannot be empty")
)
