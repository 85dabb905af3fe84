// Package saveerr defines the error taxonomy shared by the save-file layer.
//
// Every failure that crosses a package boundary is an *Error tagged with a
// Kind. The Error() string is the stable, human-readable message shown to
// users; the wrapped Cause keeps the underlying os or driver error available
// to errors.Is / errors.As.
//
// Example usage:
//
//	if errors.Is(err, saveerr.ErrNoActiveSave) {
//	    fmt.Println("open or create a save first")
//	}
package saveerr

import (
	"errors"
	"fmt"
)

// Kind classifies a save-layer failure.
type Kind string

// Error kinds.
const (
	// KindInvalidName marks a malformed requested file name.
	KindInvalidName Kind = "InvalidName"

	// KindNotFound marks a selector or path that matches no save.
	KindNotFound Kind = "NotFound"

	// KindIO marks directory creation, listing or stat failures.
	KindIO Kind = "IoFailure"

	// KindDB marks connection, schema or query failures against a store.
	KindDB Kind = "DbFailure"

	// KindNoActiveSave marks a state operation issued with nothing open.
	KindNoActiveSave Kind = "NoActiveSave"
)

// Sentinels for errors.Is comparisons. They match any *Error of the same kind.
var (
	ErrInvalidName  = &Error{Kind: KindInvalidName, Message: "invalid save name"}
	ErrNotFound     = &Error{Kind: KindNotFound, Message: "save not found"}
	ErrIO           = &Error{Kind: KindIO, Message: "i/o failure"}
	ErrDB           = &Error{Kind: KindDB, Message: "database failure"}
	ErrNoActiveSave = &Error{Kind: KindNoActiveSave, Message: "No DB open"}
)

// Error is a tagged save-layer error.
type Error struct {
	Kind    Kind   // Classification
	Message string // Human-readable message, without the cause
	File    string // Offending save file, when known
	Cause   error  // Wrapped underlying error
}

// Error implements the error interface.
//
// The format is "<message>: <cause>" so the driver or os message survives
// the trip to the user, matching what the command surface prints.
func (e *Error) Error() string {
	if e.Cause == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Cause)
}

// Unwrap returns the underlying cause for error chain traversal.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Kind == t.Kind
	}
	return false
}

// InvalidName creates an InvalidName error.
func InvalidName(format string, args ...interface{}) *Error {
	return &Error{Kind: KindInvalidName, Message: fmt.Sprintf(format, args...)}
}

// NotFound creates a NotFound error.
func NotFound(format string, args ...interface{}) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// IO wraps an os-level failure.
func IO(message string, cause error) *Error {
	return &Error{Kind: KindIO, Message: message, Cause: cause}
}

// DB wraps a database failure.
func DB(message string, cause error) *Error {
	return &Error{Kind: KindDB, Message: message, Cause: cause}
}

// DBFile wraps a database failure attributed to a specific save file.
func DBFile(message, file string, cause error) *Error {
	return &Error{
		Kind:    KindDB,
		Message: fmt.Sprintf("%s %s", message, file),
		File:    file,
		Cause:   cause,
	}
}

// NoActive returns a fresh NoActiveSave error.
func NoActive() *Error {
	return &Error{Kind: KindNoActiveSave, Message: ErrNoActiveSave.Message}
}

// KindOf returns the Kind of the first *Error in err's chain.
// It returns the empty Kind when err carries no tagged error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
