package display

import (
	"fmt"
	"io"
)

// simpleFormatter writes one tab-separated line per record, for scripts.
type simpleFormatter struct {
	config Config
}

// FormatFiles implements Formatter.FormatFiles.
func (f *simpleFormatter) FormatFiles(w io.Writer, files []string) error {
	for _, name := range files {
		if _, err := fmt.Fprintln(w, name); err != nil {
			return err
		}
	}
	return nil
}

// FormatGames implements Formatter.FormatGames.
func (f *simpleFormatter) FormatGames(w io.Writer, games []SaveGame) error {
	for _, g := range games {
		if _, err := fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			g.FileName, g.GameName, g.CreateTime, g.LastUpdateTime); err != nil {
			return err
		}
	}
	return nil
}

// FormatBoard implements Formatter.FormatBoard.
//
// Each line is the id followed by the four flags as 0/1.
func (f *simpleFormatter) FormatBoard(w io.Writer, _ string, tiles []BoardTile) error {
	for _, t := range tiles {
		if _, err := fmt.Fprintf(w, "%d %d %d %d %d\n",
			t.ID,
			boolBit(t.IsEliminatedInWinners),
			boolBit(t.IsEliminatedInLosers),
			boolBit(t.IsWinnerInWinners),
			boolBit(t.IsWinnerInLosers)); err != nil {
			return err
		}
	}
	return nil
}

// FormatStatus implements Formatter.FormatStatus.
func (f *simpleFormatter) FormatStatus(w io.Writer, status Status) error {
	if status.Active == nil {
		_, err := fmt.Fprintln(w, "none")
		return err
	}
	_, err := fmt.Fprintf(w, "%s\t%s\n", status.Active.FileName, status.Active.GameName)
	return err
}
