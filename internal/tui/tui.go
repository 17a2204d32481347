// Package tui implements the interactive settings editor of the Clockbar CLI.
package tui

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/clockbar/clockbar/internal/models"
)

// EditSettings opens the settings form on the terminal. It returns the
// edited document when the user saved a change, or nil when they quit or
// saved nothing.
func EditSettings(settings *models.Settings) (*models.Settings, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return nil, fmt.Errorf("settings edit needs an interactive terminal; use `clockbar settings set` instead")
	}

	model := newSettingsModel(settings)
	final, err := tea.NewProgram(model).Run()
	if err != nil {
		return nil, fmt.Errorf("settings editor failed: %w", err)
	}
	return final.(*settingsModel).Result(), nil
}
