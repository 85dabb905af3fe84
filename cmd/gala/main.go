// Package main provides the gala CLI application.
//
// gala manages bracket save files: each save is a SQLite database holding a
// 150-tile game board (or match results) plus a few config values. Commands
// create and open saves, list them, and read or update the active save.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
)

// version is set during build time.
var version = "dev"

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run executes the main application logic.
//
// Command output goes to out; diagnostics and logs go to stderr.
func run(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("gala", flag.ContinueOnError)
	configPath := fs.String("config", "", "path to configuration file")
	showVersion := fs.Bool("version", false, "show version information")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return showUsage(out)
		}
		return err
	}

	if *showVersion {
		fmt.Fprintf(out, "gala %s\n", version)
		return nil
	}

	rest := fs.Args()
	if len(rest) == 0 {
		return showUsage(out)
	}

	command, cmdArgs := rest[0], rest[1:]

	// Commands that do not need the saves directory.
	switch command {
	case "help":
		return showUsage(out)
	case "config":
		cmd := &configCommand{configPath: *configPath, out: out}
		return cmd.Execute(cmdArgs)
	}

	cmd, err := parseCommand(command, cmdArgs)
	if err != nil {
		return err
	}

	a, err := newApp(*configPath, out)
	if err != nil {
		return err
	}
	defer a.close()

	return cmd.Execute(context.Background(), a)
}

// command is one parsed gala subcommand.
type command interface {
	Execute(ctx context.Context, a *app) error
}

// parseCommand builds the command named name from its arguments.
func parseCommand(name string, args []string) (command, error) {
	switch name {
	case "list":
		return parseListCommand(args)
	case "games":
		return parseGamesCommand(args)
	case "new":
		return parseNewCommand(args)
	case "open":
		return parseOpenCommand(args)
	case "board":
		return parseBoardCommand("board", boardTiles, args)
	case "results":
		return parseBoardCommand("results", boardResults, args)
	case "set":
		return parseSetCommand("set", boardTiles, args)
	case "set-result":
		return parseSetCommand("set-result", boardResults, args)
	case "status":
		return parseStatusCommand(args)
	case "watch":
		return parseWatchCommand(args)
	default:
		return nil, fmt.Errorf("unknown command: %s", name)
	}
}

// showUsage displays usage information.
func showUsage(out io.Writer) error {
	usage := `gala - bracket save file manager

Usage:
  gala [flags] <command> [command flags] [arguments]

Commands:
  list                              List save file names
  games                             List saves with game name and timestamps
  new <file> <game name>            Create a save and make it active
  open <file | game name>           Open a save and make it active
  board                             Show the active save's game board
  results                           Show the active save's match results
  set <id> <ew> <el> <ww> <wl>      Update one game board tile
  set-result <id> <ew> <el> <ww> <wl>
                                    Update one match result
  status                            Show the active save and recent saves
  watch                             Reprint the save list whenever it changes
  config                            Configuration management (show, path, reset)
  help                              Show this help message

Global Flags:
  -config     Path to configuration file
  -version    Show version information

Output Flags (games, board, results, status):
  -format     Output format (table, json, simple)
  -compact    Compact output

Tile flags are booleans in the order eliminated in winners, eliminated in
losers, winner in winners, winner in losers (true/false, 1/0, t/f).

Examples:
  # Create a save and mark tile 5
  gala new bracket "Spring Open"
  gala set 5 true false true false

  # Reopen it later by game name
  gala open "Spring Open"

  # Board as JSON
  gala board -format json

  # Watch the saves directory
  gala watch

Version: %s
`

	fmt.Fprintf(out, usage, version)
	return nil
}
