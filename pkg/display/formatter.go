package display

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Board grid dimensions used by the table formatter.
const (
	BoardColumns = 15
	BoardRows    = 10
)

// gridWidth is the narrowest terminal that fits a full board row.
const gridWidth = BoardColumns * 9

// New creates a new formatter based on configuration.
//
// Parameters:
//   - cfg: Formatter configuration
//
// Returns a configured Formatter.
func New(cfg Config) Formatter {
	if cfg.Format == "" {
		cfg.Format = FormatTable
	}

	switch cfg.Format {
	case FormatJSON:
		return &jsonFormatter{config: cfg}
	case FormatSimple:
		return &simpleFormatter{config: cfg}
	default:
		return &tableFormatter{config: cfg}
	}
}

// ForTerminal returns cfg adjusted to the file it will be written to.
//
// When f is a terminal, Unicode glyphs are enabled, and the board falls back
// to the compact list if the terminal is too narrow for the grid. Output to
// pipes and files is left unchanged.
func ForTerminal(cfg Config, f *os.File) Config {
	fd := int(f.Fd())
	if !term.IsTerminal(fd) {
		return cfg
	}

	cfg.Unicode = true
	if width, _, err := term.GetSize(fd); err == nil && width < gridWidth {
		cfg.Compact = true
	}
	return cfg
}

// flagGlyphs returns the four per-flag markers of a tile, in column order:
// X eliminated in winners, x eliminated in losers, W winner in winners,
// w winner in losers.
func flagGlyphs(t BoardTile, empty string) string {
	var b strings.Builder
	for _, f := range []struct {
		set   bool
		glyph string
	}{
		{t.IsEliminatedInWinners, "X"},
		{t.IsEliminatedInLosers, "x"},
		{t.IsWinnerInWinners, "W"},
		{t.IsWinnerInLosers, "w"},
	} {
		if f.set {
			b.WriteString(f.glyph)
		} else {
			b.WriteString(empty)
		}
	}
	return b.String()
}

func anySet(t BoardTile) bool {
	return t.IsEliminatedInWinners || t.IsEliminatedInLosers || t.IsWinnerInWinners || t.IsWinnerInLosers
}

func boolBit(b bool) int {
	if b {
		return 1
	}
	return 0
}

// writeHeader writes a section header.
func writeHeader(w io.Writer, title string, cfg Config) error {
	if cfg.Compact {
		_, err := fmt.Fprintf(w, "%s\n", title)
		return err
	}

	rule := "="
	if cfg.Unicode {
		rule = "═"
	}

	_, err := fmt.Fprintf(w, "\n%s\n%s\n\n", title, strings.Repeat(rule, len(title)))
	return err
}
