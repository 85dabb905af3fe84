// Package sqlitedb opens SQLite save files through modernc.org/sqlite.
//
// Save files are addressed with "file:" URIs so the open mode can be
// enforced by SQLite itself: ModeCreate creates a missing file, ModeReadWrite
// refuses to, and ModeReadOnly is used for short-lived catalog probes.
package sqlitedb

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	// Pure-Go SQLite driver, registered as "sqlite".
	_ "modernc.org/sqlite"
)

// DriverName is the database/sql driver name registered by modernc.org/sqlite.
const DriverName = "sqlite"

// Mode selects how a save file is opened.
type Mode string

// Open modes, passed to SQLite as the URI "mode" parameter.
const (
	ModeCreate    Mode = "rwc"
	ModeReadWrite Mode = "rw"
	ModeReadOnly  Mode = "ro"
)

// Options controls pool sizing and connection pragmas.
type Options struct {
	// Mode is the open mode. Default: ModeReadWrite.
	Mode Mode

	// MaxConnections bounds the pool. Default: 5.
	MaxConnections int

	// BusyTimeout is how long SQLite waits on a locked database.
	// Default: 5s.
	BusyTimeout time.Duration
}

// DSN builds the modernc.org/sqlite data source name for path.
func DSN(path string, opts Options) string {
	opts = withDefaults(opts)

	abs, err := filepath.Abs(path)
	if err == nil {
		path = abs
	}

	query := url.Values{}
	query.Set("mode", string(opts.Mode))
	query.Add("_pragma", fmt.Sprintf("busy_timeout(%d)", opts.BusyTimeout.Milliseconds()))

	u := url.URL{
		Scheme:   "file",
		Path:     filepath.ToSlash(path),
		RawQuery: query.Encode(),
	}
	return u.String()
}

// Open opens a pool against the save file at path and verifies it with a ping.
//
// Returns the pool or the driver error; callers wrap it into their own
// taxonomy. The pool is closed again if the ping fails.
func Open(ctx context.Context, path string, opts Options) (*sql.DB, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	opts = withDefaults(opts)

	db, err := sql.Open(DriverName, DSN(path, opts))
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	db.SetMaxOpenConns(opts.MaxConnections)
	db.SetMaxIdleConns(opts.MaxConnections)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	return db, nil
}

func withDefaults(opts Options) Options {
	if opts.Mode == "" {
		opts.Mode = ModeReadWrite
	}
	if opts.MaxConnections <= 0 {
		opts.MaxConnections = 5
	}
	if opts.BusyTimeout <= 0 {
		opts.BusyTimeout = 5 * time.Second
	}
	return opts
}

// BoolToInt converts a flag to SQLite's 0/1 storage form.
func BoolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
