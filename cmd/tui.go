package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/tunedeck/tunedeck/internal/shared"
	"github.com/tunedeck/tunedeck/internal/ui"
	"github.com/urfave/cli/v3"
)

// Deck launches the interactive terminal UI for browsing and playback.
func (r *Runner) Deck(ctx context.Context, cmd *cli.Command) error {
	if r.ids.Current() == nil {
		return fmt.Errorf("%w: run 'tunedeck auth sign-in' first", shared.ErrNotAuthenticated)
	}

	session, err := r.playback()
	if err != nil {
		return err
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/tunedeck-deck.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	model := ui.NewModel(ctx, r.store, r.engine, session)
	p := tea.NewProgram(model, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	if err := session.Stop(); err != nil {
		r.logger.Debug("stop on exit failed", "err", err)
	}

	return nil
}
