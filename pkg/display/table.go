package display

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

// tableFormatter formats output as tables.
type tableFormatter struct {
	config Config
}

// FormatFiles implements Formatter.FormatFiles.
func (f *tableFormatter) FormatFiles(w io.Writer, files []string) error {
	if len(files) == 0 {
		_, err := fmt.Fprintln(w, "No saves")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if err := f.writeTableHeader(tw, "#", "FILE"); err != nil {
		return err
	}
	for i, name := range files {
		if _, err := fmt.Fprintf(tw, "%d\t%s\n", i+1, name); err != nil {
			return fmt.Errorf("failed to write file row: %w", err)
		}
	}
	return tw.Flush()
}

// FormatGames implements Formatter.FormatGames.
func (f *tableFormatter) FormatGames(w io.Writer, games []SaveGame) error {
	if len(games) == 0 {
		_, err := fmt.Fprintln(w, "No saves")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if err := f.writeTableHeader(tw, "FILE", "GAME", "CREATED", "LAST UPDATED"); err != nil {
		return err
	}
	for _, g := range games {
		if _, err := fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			g.FileName, g.GameName, orDash(g.CreateTime), orDash(g.LastUpdateTime)); err != nil {
			return fmt.Errorf("failed to write game row: %w", err)
		}
	}
	return tw.Flush()
}

// FormatBoard implements Formatter.FormatBoard.
//
// The full form is a BoardColumns x BoardRows grid in id order. Compact form
// lists only tiles with at least one flag set.
func (f *tableFormatter) FormatBoard(w io.Writer, title string, tiles []BoardTile) error {
	if err := writeHeader(w, title, f.config); err != nil {
		return err
	}

	empty := "."
	if f.config.Unicode {
		empty = "·"
	}

	if f.config.Compact {
		return f.writeSetTiles(w, tiles, empty)
	}

	byID := make(map[int]BoardTile, len(tiles))
	for _, t := range tiles {
		byID[t.ID] = t
	}

	for row := 0; row < BoardRows; row++ {
		cells := make([]string, BoardColumns)
		for col := 0; col < BoardColumns; col++ {
			id := row*BoardColumns + col + 1
			t, ok := byID[id]
			if !ok {
				cells[col] = strings.Repeat(" ", 8)
				continue
			}
			cells[col] = fmt.Sprintf("%3d %s", id, flagGlyphs(t, empty))
		}
		if _, err := fmt.Fprintln(w, strings.TrimRight(strings.Join(cells, " "), " ")); err != nil {
			return fmt.Errorf("failed to write board row: %w", err)
		}
	}

	_, err := fmt.Fprintf(w, "\nX eliminated (winners)  x eliminated (losers)  W winner (winners)  w winner (losers)\n")
	return err
}

// FormatStatus implements Formatter.FormatStatus.
func (f *tableFormatter) FormatStatus(w io.Writer, status Status) error {
	if status.Active == nil {
		if _, err := fmt.Fprintln(w, "Active save: none"); err != nil {
			return err
		}
	} else {
		a := status.Active
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		for _, kv := range [][2]string{
			{"Active save:", a.FileName},
			{"Game:", orDash(a.GameName)},
			{"Variant:", orDash(a.Variant)},
			{"Path:", orDash(a.Path)},
			{"Opened:", orDash(a.OpenedAt)},
		} {
			if _, err := fmt.Fprintf(tw, "%s\t%s\n", kv[0], kv[1]); err != nil {
				return fmt.Errorf("failed to write status: %w", err)
			}
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	if len(status.History) == 0 {
		return nil
	}

	if err := writeHeader(w, "Recent saves", f.config); err != nil {
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if err := f.writeTableHeader(tw, "FILE", "GAME", "OPENED"); err != nil {
		return err
	}
	for _, h := range status.History {
		if _, err := fmt.Fprintf(tw, "%s\t%s\t%s\n", h.FileName, orDash(h.GameName), orDash(h.OpenedAt)); err != nil {
			return fmt.Errorf("failed to write history row: %w", err)
		}
	}
	return tw.Flush()
}

func (f *tableFormatter) writeSetTiles(w io.Writer, tiles []BoardTile, empty string) error {
	set := 0
	for _, t := range tiles {
		if !anySet(t) {
			continue
		}
		set++
		if _, err := fmt.Fprintf(w, "%3d %s\n", t.ID, flagGlyphs(t, empty)); err != nil {
			return fmt.Errorf("failed to write tile: %w", err)
		}
	}
	_, err := fmt.Fprintf(w, "%d of %d tiles set\n", set, len(tiles))
	return err
}

// writeTableHeader writes column names and, unless compact, a rule under each.
func (f *tableFormatter) writeTableHeader(tw *tabwriter.Writer, columns ...string) error {
	if _, err := fmt.Fprintln(tw, strings.Join(columns, "\t")); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if f.config.Compact {
		return nil
	}

	rule := "-"
	if f.config.Unicode {
		rule = "─"
	}
	rules := make([]string, len(columns))
	for i, c := range columns {
		rules[i] = strings.Repeat(rule, len(c))
	}
	if _, err := fmt.Fprintln(tw, strings.Join(rules, "\t")); err != nil {
		return fmt.Errorf("failed to write header separator: %w", err)
	}
	return nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
