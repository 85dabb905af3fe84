package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"strconv"

	"github.com/0xmhha/gala/pkg/display"
	"github.com/0xmhha/gala/pkg/saveerr"
	"github.com/0xmhha/gala/pkg/schema"
	"github.com/0xmhha/gala/pkg/store"
)

// outputFlags are the flags shared by commands that print records.
type outputFlags struct {
	format  string
	compact bool
}

func (o *outputFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&o.format, "format", "", "output format (table, json, simple)")
	fs.BoolVar(&o.compact, "compact", false, "compact output")
}

// boardKind selects the state table a board command works on.
type boardKind int

const (
	boardTiles boardKind = iota
	boardResults
)

func (k boardKind) variant() schema.Variant {
	if k == boardResults {
		return schema.VariantMatchResults
	}
	return schema.VariantGameBoard
}

func (k boardKind) read(ctx context.Context, mgr *store.Manager) ([]store.Tile, error) {
	if k == boardResults {
		return mgr.MatchResults(ctx)
	}
	return mgr.Board(ctx)
}

func (k boardKind) update(ctx context.Context, mgr *store.Manager, t store.Tile) error {
	if k == boardResults {
		return mgr.UpdateMatchResult(ctx, t.ID, t.EliminatedInWinners, t.EliminatedInLosers, t.WinnerInWinners, t.WinnerInLosers)
	}
	return mgr.UpdateTile(ctx, t.ID, t.EliminatedInWinners, t.EliminatedInLosers, t.WinnerInWinners, t.WinnerInLosers)
}

// listCommand prints save file names.
type listCommand struct {
	output outputFlags
}

func parseListCommand(args []string) (command, error) {
	cmd := &listCommand{}
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	cmd.output.register(fs)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, fmt.Errorf("list takes no arguments")
	}
	return cmd, nil
}

// Execute runs the list command.
func (c *listCommand) Execute(_ context.Context, a *app) error {
	f, err := a.formatter(c.output.format, c.output.compact)
	if err != nil {
		return err
	}

	files, err := a.catalog.ListSaveFiles(a.savesDir)
	if err != nil {
		return err
	}
	return f.FormatFiles(a.out, files)
}

// gamesCommand prints every save's metadata.
type gamesCommand struct {
	output outputFlags
}

func parseGamesCommand(args []string) (command, error) {
	cmd := &gamesCommand{}
	fs := flag.NewFlagSet("games", flag.ContinueOnError)
	cmd.output.register(fs)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, fmt.Errorf("games takes no arguments")
	}
	return cmd, nil
}

// Execute runs the games command.
func (c *gamesCommand) Execute(ctx context.Context, a *app) error {
	f, err := a.formatter(c.output.format, c.output.compact)
	if err != nil {
		return err
	}

	games, err := a.catalog.ListSaveGames(ctx, a.savesDir)
	if err != nil {
		return err
	}
	return f.FormatGames(a.out, display.FromGames(games))
}

// newCommand creates a save and makes it active.
type newCommand struct {
	fileName string
	gameName string
}

func parseNewCommand(args []string) (command, error) {
	fs := flag.NewFlagSet("new", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 2 {
		return nil, fmt.Errorf("usage: gala new <file> <game name>")
	}
	return &newCommand{fileName: fs.Arg(0), gameName: fs.Arg(1)}, nil
}

// Execute runs the new command.
func (c *newCommand) Execute(ctx context.Context, a *app) error {
	info, err := a.store.CreateNew(ctx, a.savesDir, c.fileName, c.gameName)
	if err != nil {
		return err
	}
	if err := a.bookmark(ctx, info); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Created %s (%s)\n", info.FileName, c.gameName)
	return nil
}

// openCommand makes an existing save active.
type openCommand struct {
	selector string
}

func parseOpenCommand(args []string) (command, error) {
	fs := flag.NewFlagSet("open", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 1 {
		return nil, fmt.Errorf("usage: gala open <file | game name>")
	}
	return &openCommand{selector: fs.Arg(0)}, nil
}

// Execute runs the open command.
func (c *openCommand) Execute(ctx context.Context, a *app) error {
	info, err := a.store.OpenExisting(ctx, a.savesDir, c.selector)
	if err != nil {
		return err
	}
	if err := a.bookmark(ctx, info); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Opened %s\n", info.FileName)
	return nil
}

// boardCommand prints the GameBoard or MatchResults rows of the active save.
type boardCommand struct {
	kind   boardKind
	output outputFlags
}

func parseBoardCommand(name string, kind boardKind, args []string) (command, error) {
	cmd := &boardCommand{kind: kind}
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	cmd.output.register(fs)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, fmt.Errorf("%s takes no arguments", name)
	}
	return cmd, nil
}

// Execute runs the board or results command.
func (c *boardCommand) Execute(ctx context.Context, a *app) error {
	f, err := a.formatter(c.output.format, c.output.compact)
	if err != nil {
		return err
	}

	if _, err := a.restoreActive(ctx); err != nil {
		return err
	}

	tiles, err := c.kind.read(ctx, a.store)
	if err != nil {
		return err
	}
	return f.FormatBoard(a.out, c.kind.variant().Table(), display.FromTiles(tiles))
}

// setCommand overwrites the flags of one row of the active save.
type setCommand struct {
	kind boardKind
	tile store.Tile
}

func parseSetCommand(name string, kind boardKind, args []string) (command, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 5 {
		return nil, fmt.Errorf("usage: gala %s <id> <ew> <el> <ww> <wl>", name)
	}

	id, err := strconv.Atoi(fs.Arg(0))
	if err != nil {
		return nil, fmt.Errorf("invalid tile id %q: %w", fs.Arg(0), err)
	}

	var flags [4]bool
	for i := range flags {
		raw := fs.Arg(i + 1)
		flags[i], err = strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid %s value %q: must be true or false", schema.FlagColumns[i], raw)
		}
	}

	return &setCommand{
		kind: kind,
		tile: store.Tile{
			ID:                  id,
			EliminatedInWinners: flags[0],
			EliminatedInLosers:  flags[1],
			WinnerInWinners:     flags[2],
			WinnerInLosers:      flags[3],
		},
	}, nil
}

// Execute runs the set or set-result command.
func (c *setCommand) Execute(ctx context.Context, a *app) error {
	if _, err := a.restoreActive(ctx); err != nil {
		return err
	}
	return c.kind.update(ctx, a.store, c.tile)
}

// statusCommand prints the active save and the bookmark history.
type statusCommand struct {
	output outputFlags
}

func parseStatusCommand(args []string) (command, error) {
	cmd := &statusCommand{}
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	cmd.output.register(fs)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, fmt.Errorf("status takes no arguments")
	}
	return cmd, nil
}

// Execute runs the status command.
//
// A missing or stale bookmark is reported as no active save rather than as
// an error.
func (c *statusCommand) Execute(ctx context.Context, a *app) error {
	f, err := a.formatter(c.output.format, c.output.compact)
	if err != nil {
		return err
	}

	var status display.Status

	info, err := a.restoreActive(ctx)
	switch {
	case err == nil:
		meta, err := a.store.GameInfo(ctx)
		if err != nil {
			return err
		}
		active := display.FromInfo(info, meta.GameName)
		status.Active = &active
	case errors.Is(err, saveerr.ErrNoActiveSave), errors.Is(err, saveerr.ErrNotFound):
	default:
		return err
	}

	bm, err := a.openBookmarks()
	if err != nil {
		return err
	}
	history, err := bm.History()
	if err != nil {
		return err
	}
	status.History = display.FromEntries(history)

	return f.FormatStatus(a.out, status)
}
