// Package store manages the single active save and reads/writes its state.
//
// A Manager owns at most one open connection pool at a time. Creating or
// opening a save swaps the new pool in under an exclusive lock; the previous
// pool is retired and closed once the last operation holding it finishes.
// Board and match-result operations take the shared lock only long enough to
// pick up a reference to the current pool, so any number of them run in
// parallel against it.
//
// Example usage:
//
//	mgr := store.New(store.Config{}, catalog.New(catalog.Config{}, log), log)
//	defer mgr.Close()
//
//	if _, err := mgr.CreateNew(ctx, dir, "bracket", "Spring Open"); err != nil {
//	    log.Fatal(err)
//	}
//	if err := mgr.UpdateTile(ctx, 5, true, false, true, false); err != nil {
//	    log.Fatal(err)
//	}
//	tiles, err := mgr.Board(ctx)
package store

import (
	"time"

	"github.com/0xmhha/gala/pkg/schema"
)

// Tile is one bracket position in a GameBoard or MatchResults table.
type Tile struct {
	// ID is the position, 1..150.
	ID int

	EliminatedInWinners bool
	EliminatedInLosers  bool
	WinnerInWinners     bool
	WinnerInLosers      bool
}

// Info describes the active save.
type Info struct {
	// FileName is the bare save file name.
	FileName string

	// Path is the absolute path of the save file.
	Path string

	// Variant is the state table the save carries.
	Variant schema.Variant

	// OpenedAt is when the save became active.
	OpenedAt time.Time
}

// Config contains store configuration.
type Config struct {
	// MaxConnections bounds the active save's pool.
	// Default: 5.
	MaxConnections int

	// BusyTimeout is how long a connection waits on a locked database.
	// Default: 5s.
	BusyTimeout time.Duration

	// Variant is the state table created for new saves.
	// Default: schema.VariantGameBoard.
	Variant schema.Variant
}
