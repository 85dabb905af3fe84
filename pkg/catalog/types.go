// Package catalog enumerates save files and reads their metadata.
//
// Each save is probed by briefly opening it read-only through a
// single-connection pool, independent of whichever save is currently active.
// Probing is sequential by default; a bounded worker count may be configured.
// The first file that cannot be opened or queried aborts the whole listing.
//
// Example usage:
//
//	c := catalog.New(catalog.Config{}, logger.Default())
//	games, err := c.ListSaveGames(ctx, dir)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, g := range games {
//	    fmt.Printf("%s: %s\n", g.FileName, g.GameName)
//	}
package catalog

import "time"

// UnknownGameName is reported for saves without a gameName config value.
const UnknownGameName = "<unknown>"

// GameMetadata describes one save, derived from its Config rows.
//
// Timestamps are the stored ISO-8601 strings; they are empty when absent.
type GameMetadata struct {
	FileName       string
	GameName       string
	CreateTime     string
	LastUpdateTime string
}

// Config contains catalog configuration.
type Config struct {
	// ProbeWorkers bounds how many saves are probed at once.
	// Values <= 1 probe strictly sequentially.
	// Default: 1.
	ProbeWorkers int

	// BusyTimeout is passed to each probe connection.
	// Default: 5s.
	BusyTimeout time.Duration
}
