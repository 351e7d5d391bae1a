package ui

import (
	"fmt"

	"github.com/atomicstack/git-branch-control/internal/backend"
	"github.com/atomicstack/git-branch-control/internal/logging"
	tea "github.com/charmbracelet/bubbletea"
)

func waitForBackendEvent(w *backend.Watcher) tea.Cmd {
	return func() tea.Msg {
		evt, ok := <-w.Events()
		if !ok {
			return backendDoneMsg{}
		}
		return backendEventMsg{event: evt}
	}
}

type backendEventMsg struct {
	event backend.Event
}

type backendDoneMsg struct{}

func (m *Model) handleBackendEventMsg(msg tea.Msg) tea.Cmd {
	eventMsg, ok := msg.(backendEventMsg)
	if !ok {
		return nil
	}
	m.applyBackendEvent(eventMsg.event)
	if m.backend != nil && !m.quitting {
		return waitForBackendEvent(m.backend)
	}
	return nil
}

func (m *Model) handleBackendDoneMsg(tea.Msg) tea.Cmd {
	m.backend = nil
	return nil
}

// applyBackendEvent turns a watcher event into bus actions. Probe errors
// are logged once per distinct message and otherwise ignored.
func (m *Model) applyBackendEvent(evt backend.Event) {
	res := m.dispatch.Handle(evt)
	if res.Err != nil {
		logging.Error(fmt.Errorf("watch %s: %w", evt.Kind, res.Err))
	}
	for _, a := range res.Actions {
		m.send(a)
	}
}
