package views

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"chipwarden/internal/adapters/tui/styles"
	"chipwarden/internal/domain"
	"chipwarden/internal/ports"
)

// BrowserKeyMap defines key bindings for the archive browser
type BrowserKeyMap struct {
	Up        key.Binding
	Down      key.Binding
	Left      key.Binding
	Right     key.Binding
	Enter     key.Binding
	Copy      key.Binding
	Changelog key.Binding
	Reload    key.Binding
	Quit      key.Binding
}

var BrowserKeys = BrowserKeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	Left: key.NewBinding(
		key.WithKeys("h", "left"),
		key.WithHelp("h/←", "collapse"),
	),
	Right: key.NewBinding(
		key.WithKeys("l", "right"),
		key.WithHelp("l/→", "expand"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "toggle"),
	),
	Copy: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "copy path"),
	),
	Changelog: key.NewBinding(
		key.WithKeys("v"),
		key.WithHelp("v", "changelog"),
	),
	Reload: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "reload"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// flatNode pairs a tree node with its display depth
type flatNode struct {
	node  *domain.TreeNode
	depth int
}

// BrowserModel is the model for the archive tree browser
type BrowserModel struct {
	ViewState

	archive   ports.Archive
	root      *domain.TreeNode
	flatNodes []flatNode
	cursor    int
}

// NewBrowserModel creates a new browser model
func NewBrowserModel(archive ports.Archive) *BrowserModel {
	return &BrowserModel{
		archive: archive,
	}
}

// Init initializes the browser
func (m *BrowserModel) Init() tea.Cmd {
	return m.loadTree
}

func (m *BrowserModel) loadTree() tea.Msg {
	root, err := m.archive.BuildTree()
	if err != nil {
		return errMsg{err}
	}
	return treeLoadedMsg{root}
}

type treeLoadedMsg struct {
	root *domain.TreeNode
}

type errMsg struct {
	err error
}

type childrenLoadedMsg struct {
	node *domain.TreeNode
}

type successMsg struct {
	message string
}

// Update handles messages for the browser
func (m *BrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case treeLoadedMsg:
		m.root = msg.root
		m.refreshFlatNodes()
		return m, nil

	case childrenLoadedMsg:
		m.refreshFlatNodes()
		return m, nil

	case errMsg:
		m.SetMessage(msg.err.Error(), true)
		return m, nil

	case successMsg:
		m.SetMessage(msg.message, false)
		return m, nil

	case tea.KeyMsg:
		m.ClearMessage()

		switch {
		case key.Matches(msg, BrowserKeys.Quit):
			return m, tea.Quit

		case key.Matches(msg, BrowserKeys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil

		case key.Matches(msg, BrowserKeys.Down):
			if m.cursor < len(m.flatNodes)-1 {
				m.cursor++
			}
			return m, nil

		case key.Matches(msg, BrowserKeys.Left):
			if node := m.selectedNode(); node != nil && node.Expanded {
				node.Expanded = false
				m.refreshFlatNodes()
			}
			return m, nil

		case key.Matches(msg, BrowserKeys.Right), key.Matches(msg, BrowserKeys.Enter):
			if node := m.selectedNode(); node != nil {
				if node.Kind == domain.TreeVersion {
					return m, nil
				}
				if !node.Expanded {
					node.Expanded = true
					return m, m.loadNodeChildren(node)
				} else if key.Matches(msg, BrowserKeys.Enter) {
					node.Expanded = false
					m.refreshFlatNodes()
				}
			}
			return m, nil

		case key.Matches(msg, BrowserKeys.Copy):
			if node := m.selectedNode(); node != nil && node.Version != nil {
				return m, m.copyPath(node.Version.Path)
			}
			return m, nil

		case key.Matches(msg, BrowserKeys.Changelog):
			if node := m.selectedNode(); node != nil && node.Part != "" {
				return m, func() tea.Msg {
					return SwitchToChangelogMsg{Project: node.Project, Part: node.Part}
				}
			}
			return m, nil

		case key.Matches(msg, BrowserKeys.Reload):
			return m, m.Reload()
		}
	}

	return m, nil
}

func (m *BrowserModel) loadNodeChildren(node *domain.TreeNode) tea.Cmd {
	return func() tea.Msg {
		if err := m.archive.LoadChildren(node); err != nil {
			return errMsg{err}
		}
		return childrenLoadedMsg{node}
	}
}

func (m *BrowserModel) copyPath(path string) tea.Cmd {
	return func() tea.Msg {
		if err := clipboard.WriteAll(path); err != nil {
			return errMsg{fmt.Errorf("failed to copy path: %w", err)}
		}
		return successMsg{"Path copied to clipboard"}
	}
}

func (m *BrowserModel) selectedNode() *domain.TreeNode {
	if m.cursor >= 0 && m.cursor < len(m.flatNodes) {
		return m.flatNodes[m.cursor].node
	}
	return nil
}

func (m *BrowserModel) refreshFlatNodes() {
	if m.root == nil {
		return
	}
	m.flatNodes = m.flatNodes[:0]
	for _, child := range m.root.Children {
		m.appendFlat(child, 0)
	}
	// Clamp cursor
	if m.cursor >= len(m.flatNodes) {
		m.cursor = len(m.flatNodes) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *BrowserModel) appendFlat(node *domain.TreeNode, depth int) {
	m.flatNodes = append(m.flatNodes, flatNode{node: node, depth: depth})
	if !node.Expanded {
		return
	}
	for _, child := range node.Children {
		m.appendFlat(child, depth+1)
	}
}

// View renders the browser
func (m *BrowserModel) View() string {
	if m.root == nil {
		return "Loading..."
	}

	var b strings.Builder

	// Title
	b.WriteString(styles.Title.Render("Chipwarden"))
	b.WriteString("\n")
	b.WriteString(styles.Subtitle.Render("CNC Program Archive"))
	b.WriteString("\n\n")

	if len(m.flatNodes) == 0 {
		b.WriteString(styles.Subtitle.Render("Archive is empty."))
		b.WriteString("\n")
	}

	// Tree
	for i, fn := range m.flatNodes {
		b.WriteString(m.renderNode(fn, i == m.cursor))
		b.WriteString("\n")
	}

	// Message
	if m.Message != "" {
		b.WriteString("\n")
		if m.MessageErr {
			b.WriteString(styles.ErrorMsg.Render(m.Message))
		} else {
			b.WriteString(styles.Success.Render(m.Message))
		}
	}

	// Help line
	b.WriteString("\n")
	b.WriteString(m.renderHelpLine())

	return styles.App.Render(b.String())
}

func (m *BrowserModel) renderNode(fn flatNode, selected bool) string {
	node := fn.node
	indent := strings.Repeat("  ", fn.depth)

	// Prefix (expand indicator)
	var prefix string
	if node.Kind == domain.TreeVersion {
		prefix = styles.TreeLeaf
	} else if node.Expanded {
		prefix = styles.TreeExpanded
	} else {
		prefix = styles.TreeCollapsed
	}

	var style lipgloss.Style
	switch node.Kind {
	case domain.TreeProject:
		style = styles.NodeProject
	case domain.TreePart:
		style = styles.NodePart
	default:
		style = styles.NodeVersion
	}

	styledText := style.Render(node.Label)
	if selected {
		styledText = styles.NodeSelected.Render(node.Label)
	}

	return fmt.Sprintf("%s%s%s", indent, styles.TreeBranch.Render(prefix), styledText)
}

func (m *BrowserModel) renderHelpLine() string {
	keys := []struct {
		key  string
		desc string
	}{
		{"j/k", "navigate"},
		{"h/l", "collapse/expand"},
		{"c", "copy path"},
		{"v", "changelog"},
		{"r", "reload"},
		{"q", "quit"},
	}

	var parts []string
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s %s",
			styles.HelpKey.Render(k.key),
			styles.HelpDesc.Render(k.desc),
		))
	}

	return strings.Join(parts, styles.HelpSeparator.String())
}

// Reload reloads the tree from disk
func (m *BrowserModel) Reload() tea.Cmd {
	m.root = nil
	m.flatNodes = nil
	m.cursor = 0
	return m.loadTree
}

// Messages for view switching
type SwitchToChangelogMsg struct {
	Project string
	Part    string
}

type SwitchToBrowserMsg struct{}
