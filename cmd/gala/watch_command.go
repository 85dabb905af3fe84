package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/0xmhha/gala/pkg/display"
	"github.com/0xmhha/gala/pkg/watcher"
)

// watchCommand reprints the save list whenever the saves directory changes.
type watchCommand struct {
	output      outputFlags
	debounce    time.Duration
	clearScreen bool
}

func parseWatchCommand(args []string) (command, error) {
	cmd := &watchCommand{}
	fs := flag.NewFlagSet("watch", flag.ContinueOnError)
	cmd.output.register(fs)
	fs.DurationVar(&cmd.debounce, "debounce", 0, "quiet period before reprinting (default: from config)")
	history := fs.Bool("history", false, "keep previous listings (append mode)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, fmt.Errorf("watch takes no arguments")
	}
	cmd.clearScreen = !*history
	return cmd, nil
}

// Execute runs the watch command until interrupted.
func (c *watchCommand) Execute(ctx context.Context, a *app) error {
	f, err := a.formatter(c.output.format, c.output.compact)
	if err != nil {
		return err
	}

	debounce := c.debounce
	if debounce <= 0 {
		debounce = a.cfg.Watch.DebounceInterval
	}

	w, err := watcher.New(watcher.Config{DebounceInterval: debounce}, a.log)
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer w.Close()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := w.Start(ctx, a.savesDir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", a.savesDir, err)
	}

	c.render(ctx, a, f, "")

	for {
		select {
		case <-ctx.Done():
			fmt.Fprint(a.out, "\n")
			fmt.Fprintln(a.out, "Stopping watch...")
			return nil

		case event, ok := <-w.Events():
			if !ok {
				return nil
			}
			c.render(ctx, a, f, fmt.Sprintf("%s %s", event.Op, filepath.Base(event.Path)))

		case err, ok := <-w.Errors():
			if !ok {
				return nil
			}
			if errors.Is(err, watcher.ErrCircuitBreakerOpen) {
				return fmt.Errorf("watch stopped: %w", err)
			}
			a.log.Warn("watch error", "error", err)
		}
	}
}

// render prints the header and current catalog. A catalog failure is shown
// and logged; the watch keeps running so a later change can recover.
func (c *watchCommand) render(ctx context.Context, a *app, f display.Formatter, change string) {
	if c.clearScreen {
		fmt.Fprint(a.out, "\033[2J\033[H")
	}

	fmt.Fprintf(a.out, "Watching %s - Press Ctrl+C to stop\n", a.savesDir)
	if change != "" {
		fmt.Fprintf(a.out, "Last change: %s at %s\n", change, time.Now().Format(time.TimeOnly))
	}
	fmt.Fprintln(a.out, strings.Repeat("-", 60))

	games, err := a.catalog.ListSaveGames(ctx, a.savesDir)
	if err != nil {
		a.log.Error("failed to list saves", "error", err)
		fmt.Fprintf(a.out, "Error: %v\n", err)
		return
	}
	if err := f.FormatGames(a.out, display.FromGames(games)); err != nil {
		a.log.Error("failed to render saves", "error", err)
	}
}
