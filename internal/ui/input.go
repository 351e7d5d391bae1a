package ui

import (
	"strings"

	"github.com/atomicstack/git-branch-control/internal/keymap"
	"github.com/atomicstack/git-branch-control/internal/logging/events"
	"github.com/atomicstack/git-branch-control/internal/ui/action"
	"github.com/atomicstack/git-branch-control/internal/ui/input"
	tea "github.com/charmbracelet/bubbletea"
)

// maxPendingKeys bounds the pending sequence between ticks.
const maxPendingKeys = 4

func (m *Model) handleKeyMsg(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	key := keyMsg.String()
	if a, ok := m.lookupKey(key); ok {
		events.UI.Key(m.mode.String(), key, action.Name(a))
		m.send(a)
		return nil
	}

	switch m.mode {
	case ModeError:
		if a := m.errors.HandleKey(keyMsg); a != nil {
			events.UI.Key(m.mode.String(), key, action.Name(a))
			m.send(a)
		}
		return nil
	case ModeInput:
		a, cmd := m.activeList().HandleKey(keyMsg)
		events.UI.Key(m.mode.String(), key, action.Name(a))
		if a != nil {
			m.send(a)
		}
		m.send(action.Render{})
		return cmd
	}

	a, cmd := m.activeList().HandleKey(keyMsg)
	events.UI.Key(m.mode.String(), key, action.Name(a))
	if a != nil {
		m.send(a)
	}
	return cmd
}

// lookupKey resolves key against the keymap of the current mode: first on
// its own, then appended to the pending sequence. A matched sequence clears
// the pending keys; the pending keys are also cleared on every Tick.
func (m *Model) lookupKey(key string) (action.Action, bool) {
	mode := m.mode.keymapMode()
	if bound, ok := m.keys.Lookup(mode, key); ok {
		m.pending = m.pending[:0]
		return keymapAction(bound), true
	}
	if mode != keymap.ModeDefault {
		return nil, false
	}
	m.pending = append(m.pending, key)
	if len(m.pending) > maxPendingKeys {
		m.pending = append(m.pending[:0], m.pending[len(m.pending)-maxPendingKeys:]...)
	}
	for start := 0; start < len(m.pending)-1; start++ {
		if bound, ok := m.keys.Lookup(mode, m.pending[start:]...); ok {
			m.pending = m.pending[:0]
			return keymapAction(bound), true
		}
	}
	return nil, false
}

// PendingKeys returns the unresolved key sequence.
func (m *Model) PendingKeys() string {
	return strings.Join(m.pending, " ")
}

func keymapAction(a keymap.Action) action.Action {
	switch a {
	case keymap.ActionQuit:
		return action.Quit{}
	case keymap.ActionSuspend:
		return action.Suspend{}
	case keymap.ActionToggleView:
		return action.ToggleView{}
	case keymap.ActionRefresh:
		return action.Refresh{}
	}
	return nil
}

func (m *Model) handleValidatedMsg(msg tea.Msg) tea.Cmd {
	validated, ok := msg.(input.ValidatedMsg)
	if !ok {
		return nil
	}
	if l, ok := m.lists[validated.Owner]; ok {
		l.ApplyValidation(validated)
	}
	return nil
}

func (m *Model) handleWindowSizeMsg(msg tea.Msg) tea.Cmd {
	size, ok := msg.(tea.WindowSizeMsg)
	if !ok {
		return nil
	}
	m.send(action.Resize{Width: size.Width, Height: size.Height})
	return nil
}

func (m *Model) handleResumeMsg(tea.Msg) tea.Cmd {
	m.send(action.Resume{})
	return nil
}
