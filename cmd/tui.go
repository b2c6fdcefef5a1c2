package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/songcap/internal/capture"
	"github.com/desertthunder/songcap/internal/ui"
)

// captureTUI runs the interactive capture monitor until the operator downloads or quits.
func (r *Runner) captureTUI(ctx context.Context, session *capture.Session, progress <-chan capture.Progress) error {
	model := ui.NewModel(session, progress)
	p := tea.NewProgram(model, tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		session.Stop()
		if ctx.Err() != nil {
			r.writePlain("Capture interrupted, nothing downloaded\n")
			return nil
		}
		return fmt.Errorf("error running TUI: %w", err)
	}

	if model.Abandoned() {
		session.Stop()
		r.writePlain("Capture abandoned with %d songs, nothing downloaded\n", session.Len())
		return nil
	}

	result, err := model.Result()
	if err != nil {
		return err
	}
	if result == nil {
		session.Stop()
		return nil
	}
	r.writeResult(result)
	return nil
}
