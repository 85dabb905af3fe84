// Package watcher reports changes to the save files in a saves directory.
//
// It uses fsnotify on the directory itself (saves are never nested) and
// passes on events only for files with the save extension, so SQLite's
// journal and WAL side files stay invisible. Bursts of events for one file
// are debounced into a single Event.
//
// Example usage:
//
//	w, err := watcher.New(watcher.Config{
//	    DebounceInterval: 100 * time.Millisecond,
//	}, logger.Default())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer w.Close()
//
//	if err := w.Start(ctx, savesDir); err != nil {
//	    log.Fatal(err)
//	}
//
//	for event := range w.Events() {
//	    fmt.Printf("save %s: %s\n", filepath.Base(event.Path), event.Op)
//	}
package watcher

import (
	"context"
	"time"
)

// Op describes a file operation type.
type Op uint32

// File operation types.
const (
	OpCreate Op = 1 << iota // Save created
	OpWrite                 // Save modified
	OpRemove                // Save deleted
	OpRename                // Save renamed or moved away
)

// String returns a human-readable operation name.
func (op Op) String() string {
	switch op {
	case OpCreate:
		return "CREATE"
	case OpWrite:
		return "WRITE"
	case OpRemove:
		return "REMOVE"
	case OpRename:
		return "RENAME"
	default:
		return "UNKNOWN"
	}
}

// Event represents a change to one save file.
type Event struct {
	// Path is the path of the save file.
	Path string

	// Op is the last operation seen in the debounce window.
	Op Op

	// Timestamp is when that operation was observed.
	Timestamp time.Time
}

// Watcher monitors a saves directory.
type Watcher interface {
	// Start begins watching dir. It returns once the watch is installed;
	// events are delivered until ctx is cancelled, Stop or Close is called.
	//
	// Returns ErrInvalidPath if dir does not exist or is not a directory.
	Start(ctx context.Context, dir string) error

	// Stop halts event delivery. The watcher cannot be restarted.
	Stop() error

	// Events returns the debounced save events.
	// The channel is closed by Close.
	Events() <-chan Event

	// Errors returns non-fatal watcher errors, and ErrCircuitBreakerOpen once
	// too many arrive in a row. The channel is closed by Close.
	Errors() <-chan error

	// Close stops the watcher and releases resources.
	Close() error
}

// Config contains watcher configuration.
type Config struct {
	// DebounceInterval is the time to wait before emitting an event.
	// Multiple events for the same file within this interval are coalesced.
	// Default: 100ms.
	DebounceInterval time.Duration

	// CircuitBreakerThreshold is the number of consecutive fsnotify errors
	// after which ErrCircuitBreakerOpen is reported.
	// Default: 5.
	CircuitBreakerThreshold int
}
