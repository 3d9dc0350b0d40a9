package system

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"ritual/internal/cli"
	"ritual/internal/tui"
)

type TuiCmd struct{}

// Run starts the full-screen dashboard.
func (c *TuiCmd) Run(ctx *cli.Context) error {
	ctx.PerformAutomaticBackup()

	program := tea.NewProgram(tui.NewModel(ctx.Store), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}
