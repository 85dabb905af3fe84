// Package display renders saves, boards and status for the command line.
//
// Values cross into this package as internal types (catalog.GameMetadata,
// store.Tile, ...) and are converted to wire structs that carry the external
// key casing before any formatter sees them. Formatters write tables, JSON or
// plain lines.
package display

import (
	"io"
)

// Format represents an output format.
type Format string

const (
	// FormatTable displays tables, and the board as a grid.
	FormatTable Format = "table"

	// FormatJSON displays the wire structs as JSON.
	FormatJSON Format = "json"

	// FormatSimple displays one line per record.
	FormatSimple Format = "simple"
)

// ParseFormat converts a flag value into a Format.
func ParseFormat(s string) (Format, bool) {
	switch Format(s) {
	case FormatTable, FormatJSON, FormatSimple:
		return Format(s), true
	default:
		return "", false
	}
}

// Formatter writes command output.
type Formatter interface {
	// FormatFiles writes bare save file names.
	FormatFiles(w io.Writer, files []string) error

	// FormatGames writes save metadata records.
	FormatGames(w io.Writer, games []SaveGame) error

	// FormatBoard writes the rows of a state table.
	//
	// Parameters:
	//   - w: Output writer
	//   - title: Table name shown above the board
	//   - tiles: Rows in id order
	//
	// Returns error if writing fails.
	FormatBoard(w io.Writer, title string, tiles []BoardTile) error

	// FormatStatus writes the active save and bookmark history.
	FormatStatus(w io.Writer, status Status) error
}

// Config contains formatter configuration.
type Config struct {
	// Format specifies the output format.
	// Default: FormatTable.
	Format Format

	// Unicode enables box-drawing and dot glyphs in tables.
	// Default: false (plain ASCII).
	Unicode bool

	// Compact lists only set tiles instead of the full grid and drops
	// separators and JSON indentation.
	// Default: false.
	Compact bool
}
