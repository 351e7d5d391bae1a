package ui

import (
	"github.com/atomicstack/git-branch-control/internal/logging/events"
	"github.com/atomicstack/git-branch-control/internal/ui/action"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

const confirmFieldKey = "confirm_bulk_delete"

// confirmDialog asks before a bulk delete of the staged items of one list.
type confirmDialog struct {
	list      action.ListID
	form      *huh.Form
	confirmed bool
}

func newConfirmDialog(list action.ListID, width int) *confirmDialog {
	d := &confirmDialog{list: list}
	title := "Delete all staged branches?"
	if list == action.ListStashes {
		title = "Drop all staged stashes?"
	}
	confirm := huh.NewConfirm().
		Key(confirmFieldKey).
		Title(title).
		Affirmative("Yes").
		Negative("No").
		Value(&d.confirmed)
	d.form = huh.NewForm(huh.NewGroup(confirm)).
		WithShowHelp(false).
		WithTheme(huh.ThemeBase())
	d.SetWidth(width)
	return d
}

func (d *confirmDialog) SetWidth(width int) {
	if width > 0 {
		d.form = d.form.WithWidth(width)
	}
}

// Height is the number of rows the dialog occupies.
func (d *confirmDialog) Height() int {
	return lipgloss.Height(d.form.View())
}

func (d *confirmDialog) View() string {
	return d.form.View()
}

// Update feeds msg to the form and reports whether it was answered, and
// how.
func (d *confirmDialog) Update(msg tea.Msg) (cmd tea.Cmd, done, confirmed bool) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc", "ctrl+c":
			return nil, true, false
		}
	}
	model, cmd := d.form.Update(msg)
	if form, ok := model.(*huh.Form); ok {
		d.form = form
	}
	switch d.form.State {
	case huh.StateCompleted:
		return cmd, true, d.confirmed
	case huh.StateAborted:
		return cmd, true, false
	}
	return cmd, false, false
}

func (m *Model) openConfirm(list action.ListID) tea.Cmd {
	if m.confirm != nil {
		return nil
	}
	m.confirm = newConfirmDialog(list, m.width)
	events.UI.Mode(m.mode.String(), "confirm")
	m.resizeViews()
	m.send(action.Render{})
	return m.confirm.form.Init()
}

// handleActiveForm routes every message except bus and watcher wake-ups to
// the open confirm dialog.
func (m *Model) handleActiveForm(msg tea.Msg) (bool, tea.Cmd) {
	if m.confirm == nil {
		return false, nil
	}
	switch msg.(type) {
	case actionsReadyMsg, busClosedMsg, backendEventMsg, backendDoneMsg, tea.WindowSizeMsg:
		return false, nil
	}
	cmd, done, confirmed := m.confirm.Update(msg)
	if !done {
		m.send(action.Render{})
		return true, cmd
	}
	list := m.confirm.list
	m.confirm = nil
	events.UI.Mode("confirm", m.mode.String())
	m.resizeViews()
	if confirmed {
		m.routeTo(list, action.DeleteStaged{})
	}
	m.send(action.Render{})
	return true, nil
}

// ConfirmOpen reports whether the bulk delete confirmation is showing.
func (m *Model) ConfirmOpen() bool { return m.confirm != nil }
