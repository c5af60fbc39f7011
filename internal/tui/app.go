package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"stockroom/internal/catalog"
)

// Run starts the interactive catalog TUI over an already-wired
// orchestrator. Blocks until the user quits.
func Run(orc *catalog.Orchestrator, collection string) error {
	applyColorProfilePreference()
	applyThemePreference()

	p := tea.NewProgram(newAppModel(orc, collection), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
