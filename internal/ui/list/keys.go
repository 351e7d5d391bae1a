package list

import (
	"github.com/atomicstack/git-branch-control/internal/logging/events"
	"github.com/atomicstack/git-branch-control/internal/ui/action"
	"github.com/atomicstack/git-branch-control/internal/ui/input"
	"github.com/atomicstack/git-branch-control/internal/ui/state"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// navKeys are shared by every list.
var navKeys = struct {
	Up, Down, Home, End, PageUp, PageDown, Filter, Copy key.Binding
}{
	Up:       key.NewBinding(key.WithKeys("up", "k")),
	Down:     key.NewBinding(key.WithKeys("down", "j")),
	Home:     key.NewBinding(key.WithKeys("home")),
	End:      key.NewBinding(key.WithKeys("end")),
	PageUp:   key.NewBinding(key.WithKeys("pgup")),
	PageDown: key.NewBinding(key.WithKeys("pgdown")),
	Filter:   key.NewBinding(key.WithKeys("/")),
	Copy:     key.NewBinding(key.WithKeys("y")),
}

// HandleKey translates a key press into an action for the current mode.
// The returned command carries asynchronous input validation.
func (e *Engine[T]) HandleKey(msg tea.KeyMsg) (action.Action, tea.Cmd) {
	switch e.mode {
	case ModeInput:
		return e.input.HandleKey(msg, e.validator(), e.cfg.Input.SubmitAction)
	case ModeFilter:
		return e.handleFilterKey(msg)
	}
	switch {
	case key.Matches(msg, navKeys.Up):
		return action.SelectPrevious{}, nil
	case key.Matches(msg, navKeys.Down):
		return action.SelectNext{}, nil
	case key.Matches(msg, navKeys.Home):
		return action.SelectFirst{}, nil
	case key.Matches(msg, navKeys.End):
		return action.SelectLast{}, nil
	case key.Matches(msg, navKeys.PageUp):
		return action.PageUp{}, nil
	case key.Matches(msg, navKeys.PageDown):
		return action.PageDown{}, nil
	case key.Matches(msg, navKeys.Filter):
		return action.StartFilter{}, nil
	case key.Matches(msg, navKeys.Copy):
		return action.CopySelected{}, nil
	}
	var selected *state.Wrapper[T]
	if w, ok := e.state.Selected(); ok {
		selected = &w
	}
	return e.cfg.Actions.MapKey(msg, selected), nil
}

func (e *Engine[T]) handleFilterKey(msg tea.KeyMsg) (action.Action, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		e.filter.SetValue("")
		e.applyFilter()
		events.Filter.Cleared(string(e.cfg.ID))
		return action.EndFilter{}, nil
	case tea.KeyEnter:
		return action.EndFilter{}, nil
	case tea.KeyUp:
		return action.SelectPrevious{}, nil
	case tea.KeyDown:
		return action.SelectNext{}, nil
	}
	before := e.filter.Value()
	var cmd tea.Cmd
	e.filter, cmd = e.filter.Update(msg)
	if e.filter.Value() == before {
		return nil, cmd
	}
	e.applyFilter()
	events.Filter.Changed(string(e.cfg.ID), e.filter.Value())
	return action.Render{}, cmd
}

func (e *Engine[T]) applyFilter() {
	e.state.SetFilter(e.filter.Value())
	e.follow()
}

// validator binds the input handler to the current items. It runs inside
// a tea.Cmd, off the loop.
func (e *Engine[T]) validator() input.Validator {
	items := e.state.Items()
	current := make([]T, len(items))
	for i, w := range items {
		current[i] = w.Item
	}
	ctx, gw, handler := e.deps.Ctx, e.deps.Gateway, e.cfg.Input
	return func(text string) bool {
		return handler.Validate(ctx, gw, current, text)
	}
}
