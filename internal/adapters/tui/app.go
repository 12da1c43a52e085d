// Package tui provides the interactive archive browser.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"chipwarden/internal/adapters/tui/views"
	"chipwarden/internal/ports"
)

// ViewState represents the current view
type ViewState int

const (
	ViewBrowser ViewState = iota
	ViewChangelog
)

// App is the main TUI application model
type App struct {
	archive ports.Archive

	state     ViewState
	browser   *views.BrowserModel
	changelog *views.ChangelogModel

	width  int
	height int
}

// NewApp creates a new TUI application
func NewApp(archive ports.Archive) *App {
	return &App{
		archive:   archive,
		state:     ViewBrowser,
		browser:   views.NewBrowserModel(archive),
		changelog: views.NewChangelogModel(archive),
	}
}

// Init initializes the application
func (a *App) Init() tea.Cmd {
	return a.browser.Init()
}

// Update handles messages for the application
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.browser.SetSize(msg.Width, msg.Height)
		_, cmd := a.changelog.Update(msg)
		return a, cmd

	// View switching messages
	case views.SwitchToChangelogMsg:
		a.state = ViewChangelog
		return a, a.changelog.Show(msg.Project, msg.Part)

	case views.SwitchToBrowserMsg:
		a.state = ViewBrowser
		return a, nil
	}

	// Delegate to current view
	var cmd tea.Cmd
	switch a.state {
	case ViewBrowser:
		_, cmd = a.browser.Update(msg)
	case ViewChangelog:
		_, cmd = a.changelog.Update(msg)
	}

	return a, cmd
}

// View renders the current view
func (a *App) View() string {
	switch a.state {
	case ViewChangelog:
		return a.changelog.View()
	default:
		return a.browser.View()
	}
}
