package display

import (
	"encoding/json"
	"io"
)

// jsonFormatter formats output as JSON.
type jsonFormatter struct {
	config Config
}

// FormatFiles implements Formatter.FormatFiles.
func (f *jsonFormatter) FormatFiles(w io.Writer, files []string) error {
	if files == nil {
		files = []string{}
	}
	return f.encode(w, files)
}

// FormatGames implements Formatter.FormatGames.
func (f *jsonFormatter) FormatGames(w io.Writer, games []SaveGame) error {
	if games == nil {
		games = []SaveGame{}
	}
	return f.encode(w, games)
}

// FormatBoard implements Formatter.FormatBoard. The title is not encoded.
func (f *jsonFormatter) FormatBoard(w io.Writer, _ string, tiles []BoardTile) error {
	if tiles == nil {
		tiles = []BoardTile{}
	}
	return f.encode(w, tiles)
}

// FormatStatus implements Formatter.FormatStatus.
func (f *jsonFormatter) FormatStatus(w io.Writer, status Status) error {
	if status.History == nil {
		status.History = []ActiveSave{}
	}
	return f.encode(w, status)
}

func (f *jsonFormatter) encode(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	if !f.config.Compact {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(v)
}
