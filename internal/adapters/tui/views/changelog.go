package views

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"chipwarden/internal/adapters/tui/styles"
	"chipwarden/internal/ports"
)

// ChangelogKeyMap defines key bindings for the changelog view
type ChangelogKeyMap struct {
	Back key.Binding
	Quit key.Binding
}

var ChangelogKeys = ChangelogKeyMap{
	Back: key.NewBinding(
		key.WithKeys("esc", "h"),
		key.WithHelp("esc", "back"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// ChangelogModel shows one part's changelog in a scrollable viewport
type ChangelogModel struct {
	ViewState

	archive ports.Archive
	project string
	part    string
	view    viewport.Model
	loaded  bool
}

// NewChangelogModel creates a new changelog model
func NewChangelogModel(archive ports.Archive) *ChangelogModel {
	return &ChangelogModel{
		archive: archive,
		view:    viewport.New(80, 24),
	}
}

// Show targets the model at a (project, part) key
func (m *ChangelogModel) Show(project, part string) tea.Cmd {
	m.project = project
	m.part = part
	m.loaded = false
	return m.load
}

func (m *ChangelogModel) load() tea.Msg {
	content, err := m.archive.Changelog(m.project, m.part)
	if err != nil {
		return errMsg{err}
	}
	return changelogLoadedMsg{content}
}

type changelogLoadedMsg struct {
	content string
}

// Init implements tea.Model; loading is triggered by Show instead.
func (m *ChangelogModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the changelog view
func (m *ChangelogModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		m.view.Width = msg.Width - 4
		m.view.Height = msg.Height - 6
		return m, nil

	case changelogLoadedMsg:
		m.view.SetContent(msg.content)
		m.view.GotoTop()
		m.loaded = true
		return m, nil

	case errMsg:
		m.SetMessage(msg.err.Error(), true)
		m.loaded = true
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, ChangelogKeys.Quit):
			return m, tea.Quit
		case key.Matches(msg, ChangelogKeys.Back):
			return m, func() tea.Msg { return SwitchToBrowserMsg{} }
		}
	}

	var cmd tea.Cmd
	m.view, cmd = m.view.Update(msg)
	return m, cmd
}

// View renders the changelog view
func (m *ChangelogModel) View() string {
	title := styles.Title.Render(fmt.Sprintf("%s / %s", m.project, m.part))

	body := "Loading..."
	if m.loaded {
		if m.MessageErr {
			body = styles.ErrorMsg.Render(m.Message)
		} else {
			body = m.view.View()
		}
	}

	help := fmt.Sprintf("%s %s%s%s %s",
		styles.HelpKey.Render("esc"),
		styles.HelpDesc.Render("back"),
		styles.HelpSeparator.String(),
		styles.HelpKey.Render("q"),
		styles.HelpDesc.Render("quit"),
	)

	return styles.App.Render(title + "\n\n" + body + "\n\n" + help)
}
