package ui

import (
	"github.com/atomicstack/git-branch-control/internal/logging/events"
	"github.com/charmbracelet/lipgloss"
)

// View implements tea.Model. It returns the cached frame; only Render and
// Resize rebuild it.
func (m *Model) View() string {
	return m.frame
}

func (m *Model) rebuild() {
	var body string
	switch {
	case m.mode == ModeError:
		body = m.errors.View()
	default:
		body = m.activeList().View()
	}
	if m.confirm != nil {
		body = lipgloss.JoinVertical(lipgloss.Left, body, m.confirm.View())
	}
	if m.width > 0 && m.height > 0 {
		body = lipgloss.NewStyle().MaxWidth(m.width).MaxHeight(m.height).Render(body)
	}
	m.frame = body
}

func (m *Model) applyResize(width, height int) {
	if !m.fixedWidth {
		m.width = width
	}
	if !m.fixedHeight {
		m.height = height
	}
	events.UI.Resize(m.width, m.height)
	m.resizeViews()
	m.rebuild()
}

// resizeViews hands the frame size to every view. The confirm dialog takes
// rows from the bottom of the list while it is open.
func (m *Model) resizeViews() {
	listHeight := m.height
	if m.confirm != nil && listHeight > 0 {
		listHeight -= m.confirm.Height()
		if listHeight < 3 {
			listHeight = 3
		}
	}
	for _, l := range m.lists {
		l.SetSize(m.width, listHeight)
	}
	m.errors.SetSize(m.width, m.height)
	if m.confirm != nil {
		m.confirm.SetWidth(m.width)
	}
}
