package ui

import (
	"errors"
	"fmt"

	"github.com/atomicstack/git-branch-control/internal/git"
	"github.com/atomicstack/git-branch-control/internal/logging"
	"github.com/atomicstack/git-branch-control/internal/logging/events"
	"github.com/atomicstack/git-branch-control/internal/ui/action"
	tea "github.com/charmbracelet/bubbletea"
)

// actionsReadyMsg wakes the loop after something was queued on the bus.
type actionsReadyMsg struct{}

type busClosedMsg struct{}

func waitForActions(bus *action.Bus) tea.Cmd {
	return func() tea.Msg {
		select {
		case <-bus.Ready():
			return actionsReadyMsg{}
		case <-bus.Done():
			return busClosedMsg{}
		}
	}
}

func (m *Model) handleActionsReadyMsg(tea.Msg) tea.Cmd {
	cmd := m.drain()
	if m.quitting || m.manualPump {
		return cmd
	}
	wait := waitForActions(m.bus)
	if cmd != nil {
		return tea.Batch(cmd, wait)
	}
	return wait
}

func (m *Model) handleBusClosedMsg(tea.Msg) tea.Cmd {
	if !m.quitting {
		m.fatal = action.ErrClosed
		m.quitting = true
	}
	return nil
}

// drain applies everything queued when it is called. Actions queued while
// draining wait for the next wake-up.
func (m *Model) drain() tea.Cmd {
	batch := m.bus.TryReceiveAll()
	events.Bus.Drain(len(batch))
	var cmds []tea.Cmd
	for _, a := range batch {
		if m.quitting {
			break
		}
		if cmd := m.apply(a); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return tea.Batch(cmds...)
}

// send queues a on the bus. A closed bus outside shutdown is fatal.
func (m *Model) send(a action.Action) {
	err := m.bus.Send(a)
	if err == nil || m.quitting {
		return
	}
	if errors.Is(err, action.ErrClosed) {
		m.fatal = fmt.Errorf("send %s: %w", action.Name(a), err)
		m.quitting = true
		return
	}
	logging.Error(err)
}

// apply performs the loop-level transition for a and forwards the rest to
// the list views.
func (m *Model) apply(a action.Action) tea.Cmd {
	switch a := a.(type) {
	case action.Quit:
		m.quit()
	case action.Suspend:
		return tea.Suspend
	case action.Resume:
		m.rebuild()
	case action.Tick:
		m.pending = m.pending[:0]
	case action.Render:
		m.rebuild()
	case action.Resize:
		m.applyResize(a.Width, a.Height)
	case action.Error:
		m.showError(a.Message)
	case action.ExitError:
		m.setMode(m.prevMode)
		m.rebuild()
	case action.ToggleView:
		m.toggleView()
	case action.StartInputMode:
		if m.mode != ModeError {
			m.setMode(ModeInput)
		}
	case action.EndInputMode:
		m.leaveInput()
		m.activeList().Update(a)
	case action.EndFilter:
		m.leaveInput()
		m.activeList().Update(a)
	case action.ConfirmDeleteStaged:
		return m.confirmDeleteStaged()
	case action.Refresh:
		if a.List != "" {
			if l, ok := m.lists[a.List]; ok {
				l.Update(a)
			}
			return nil
		}
		m.broadcast(a)
	case action.RepoChanged:
		git.Invalidate(m.gw)
		m.broadcast(a)
	case action.ItemsLoaded:
		m.routeTo(a.List, a)
	case action.LoadingComplete:
		m.routeTo(a.List, a)
	case action.OperationDone:
		m.routeTo(a.List, a)
	default:
		m.activeList().Update(a)
	}
	return nil
}

func (m *Model) broadcast(a action.Action) {
	for _, id := range []action.ListID{action.ListBranches, action.ListStashes} {
		m.lists[id].Update(a)
	}
}

func (m *Model) routeTo(id action.ListID, a action.Action) {
	if l, ok := m.lists[id]; ok {
		l.Update(a)
	}
}

func (m *Model) quit() {
	if m.quitting {
		return
	}
	m.quitting = true
	m.cancel()
	if m.backend != nil {
		m.backend.Stop()
	}
	m.bus.Close()
}

func (m *Model) setMode(mode Mode) {
	if m.mode == mode {
		return
	}
	events.UI.Mode(m.mode.String(), mode.String())
	m.mode = mode
}

func (m *Model) leaveInput() {
	if m.mode == ModeInput {
		m.setMode(ModeDefault)
	}
}

// showError switches to the error view. The mode in effect before the
// first error is restored on ExitError.
func (m *Model) showError(message string) {
	events.UI.Error(message)
	if m.mode != ModeError {
		m.prevMode = m.mode
	}
	m.errors.SetMessage(message)
	m.setMode(ModeError)
	m.rebuild()
}

func (m *Model) toggleView() {
	if m.mode != ModeDefault {
		return
	}
	if m.active == action.ListStashes {
		m.active = action.ListBranches
	} else {
		m.active = action.ListStashes
	}
	events.UI.View(string(m.active))
	m.rebuild()
}

func (m *Model) confirmDeleteStaged() tea.Cmd {
	l := m.activeList()
	if !l.HasStaged() {
		return nil
	}
	if !m.confirmBulk {
		l.Update(action.DeleteStaged{})
		return nil
	}
	return m.openConfirm(l.ID())
}
