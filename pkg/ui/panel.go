package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/poemtyper/pkg/keys"
)

// Panel is an informational overlay opened from the header or a chord.
type Panel struct {
	Action   keys.Action
	Title    string
	Markdown string
}

// PanelClosedMsg is sent once when a modal is dismissed.
type PanelClosedMsg struct {
	Action keys.Action
}

// PanelModal shows one Panel over the card. It owns the keyboard while open:
// esc, enter and q close it, arrows and page keys scroll it.
type PanelModal struct {
	panel    Panel
	theme    Theme
	viewport viewport.Model
	width    int
	height   int
	closed   bool
}

// NewPanelModal renders p for a terminal of the given size.
func NewPanelModal(p Panel, theme Theme, termWidth, termHeight int) PanelModal {
	m := PanelModal{panel: p, theme: theme}
	m.SetSize(termWidth, termHeight)
	return m
}

// SetSize re-renders the markdown for a new terminal size.
func (m *PanelModal) SetSize(termWidth, termHeight int) {
	m.width = min(72, max(24, termWidth-4))
	m.height = max(6, termHeight-4)

	inner := m.width - 2 - 2*SpaceSM
	content := renderMarkdown(m.panel.Markdown, inner)
	lines := strings.Count(content, "\n") + 1

	// Title, rule, footer and border take five rows.
	vpHeight := min(lines, m.height-5)
	m.viewport = viewport.New(inner, max(1, vpHeight))
	m.viewport.SetContent(content)
}

// renderMarkdown renders md with glamour, falling back to the raw text.
func renderMarkdown(md string, width int) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.Trim(out, "\n")
}

// Update handles input for the modal. The command it returns on dismissal
// yields a PanelClosedMsg.
func (m PanelModal) Update(msg tea.Msg) (PanelModal, tea.Cmd) {
	if m.closed {
		return m, nil
	}
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "enter", "q":
			m.closed = true
		case "up", "k":
			m.viewport.ScrollUp(1)
		case "down", "j":
			m.viewport.ScrollDown(1)
		case "pgup":
			m.viewport.PageUp()
		case "pgdown", " ":
			m.viewport.PageDown()
		case "home", "g":
			m.viewport.GotoTop()
		case "end", "G":
			m.viewport.GotoBottom()
		}
	case tea.MouseMsg:
		if msg.Action != tea.MouseActionPress {
			break
		}
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			m.viewport.ScrollUp(3)
		case tea.MouseButtonWheelDown:
			m.viewport.ScrollDown(3)
		case tea.MouseButtonLeft:
			m.closed = true
		}
	}
	if m.closed {
		action := m.panel.Action
		return m, func() tea.Msg { return PanelClosedMsg{Action: action} }
	}
	return m, nil
}

// Closed reports whether the user dismissed the modal.
func (m PanelModal) Closed() bool {
	return m.closed
}

// Panel returns the panel being shown.
func (m PanelModal) Panel() Panel {
	return m.panel
}

// View renders the modal box.
func (m PanelModal) View() string {
	t := m.theme
	inner := m.width - 2 - 2*SpaceSM

	var b strings.Builder
	b.WriteString(t.PanelTitle.Render(m.panel.Title))
	b.WriteString("\n")
	b.WriteString(t.Renderer.NewStyle().Foreground(t.Border).Render(strings.Repeat("─", inner)))
	b.WriteString("\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")

	hint := "Échap pour fermer"
	if !m.viewport.AtTop() || !m.viewport.AtBottom() {
		hint = "↑↓ pour défiler • " + hint
	}
	b.WriteString(t.Hint.Render(hint))

	return t.PanelFrame.Width(m.width - 2).Render(b.String())
}

// CenterModal returns the modal view centered in the given dimensions.
func (m PanelModal) CenterModal(termWidth, termHeight int) string {
	return lipgloss.Place(termWidth, termHeight, lipgloss.Center, lipgloss.Center, m.View())
}
