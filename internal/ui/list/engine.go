// Package list implements the generic list engine that drives both the
// branch and the stash view.
package list

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/atotto/clipboard"
	"github.com/atomicstack/git-branch-control/internal/git"
	"github.com/atomicstack/git-branch-control/internal/logging/events"
	"github.com/atomicstack/git-branch-control/internal/theme"
	"github.com/atomicstack/git-branch-control/internal/ui/action"
	"github.com/atomicstack/git-branch-control/internal/ui/command"
	"github.com/atomicstack/git-branch-control/internal/ui/input"
	"github.com/atomicstack/git-branch-control/internal/ui/state"
	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
)

// Mode is the engine's interaction mode.
type Mode int

const (
	ModeSelection Mode = iota
	ModeInput
	ModeFilter
)

func (m Mode) String() string {
	switch m {
	case ModeInput:
		return "input"
	case ModeFilter:
		return "filter"
	}
	return "selection"
}

// Sender posts actions to the loop.
type Sender interface {
	Send(action.Action) error
}

// Spawner runs background operations.
type Spawner interface {
	Spawn(command.Request)
}

// Config binds an engine to one domain.
type Config[T any] struct {
	ID        action.ListID
	Source    DataSource[T]
	Actions   ActionHandler[T]
	Input     InputHandler[T]
	Presenter Presenter[T]
	State     state.Options[T]
}

// Deps are the collaborators shared by every engine.
type Deps struct {
	Ctx       context.Context
	Gateway   git.Gateway
	Bus       Sender
	Exec      Spawner
	Styles    *theme.Styles
	Clipboard func(string) error
	Now       func() time.Time
}

// Engine is a list controller. Its exported methods must be called from
// the UI loop only; background operations touch nothing but the shared
// state and the bus.
type Engine[T any] struct {
	cfg  Config[T]
	deps Deps

	state    *state.List[T]
	input    *input.Input
	filter   textinput.Model
	mode     Mode
	viewport state.Viewport

	width, height  int
	pendingRefresh bool
	seq            int
}

// New builds an engine with empty state.
func New[T any](cfg Config[T], deps Deps) *Engine[T] {
	if deps.Ctx == nil {
		deps.Ctx = context.Background()
	}
	if deps.Styles == nil {
		deps.Styles = theme.Default()
	}
	if deps.Clipboard == nil {
		deps.Clipboard = clipboard.WriteAll
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if cfg.State.Now == nil {
		cfg.State.Now = deps.Now
	}
	filter := textinput.New()
	filter.Prompt = ""
	filter.Cursor.SetMode(cursor.CursorStatic)
	filter.Placeholder = "type to filter"
	return &Engine[T]{
		cfg:    cfg,
		deps:   deps,
		state:  state.New(cfg.State),
		input:  input.New(cfg.ID),
		filter: filter,
	}
}

func (e *Engine[T]) ID() action.ListID { return e.cfg.ID }

func (e *Engine[T]) Mode() Mode { return e.mode }

// State exposes the shared list state.
func (e *Engine[T]) State() *state.List[T] { return e.state }

// Register queues the initial load of this list.
func (e *Engine[T]) Register() {
	e.send(action.Refresh{List: e.cfg.ID})
}

// HasStaged reports whether any item is staged for deletion.
func (e *Engine[T]) HasStaged() bool { return e.state.HasStaged() }

// SetSize records the area available to the list.
func (e *Engine[T]) SetSize(width, height int) {
	e.width, e.height = width, height
	e.input.SetWidth(width - 2)
	e.filter.Width = width - 4
	e.follow()
}

// Update applies an action addressed to this list.
func (e *Engine[T]) Update(a action.Action) {
	switch a := a.(type) {
	case action.Refresh, action.RepoChanged:
		e.load()
	case action.ItemsLoaded, action.LoadingComplete, action.OperationDone:
		if e.pendingRefresh {
			e.pendingRefresh = false
			e.load()
		}
		e.follow()
	case action.Resize:
		e.SetSize(a.Width, a.Height)
	case action.SelectNext:
		e.navigate(e.state.SelectNext)
	case action.SelectPrevious:
		e.navigate(e.state.SelectPrevious)
	case action.SelectFirst:
		e.navigate(e.state.SelectFirst)
	case action.SelectLast:
		e.navigate(e.state.SelectLast)
	case action.PageUp:
		e.navigate(func() bool { return e.state.PageUp(e.visibleRows()) })
	case action.PageDown:
		e.navigate(func() bool { return e.state.PageDown(e.visibleRows()) })
	case action.StageForDeletion:
		e.stage(true)
	case action.UnstageForDeletion:
		e.stage(false)
	case action.PrimaryAction:
		e.onSelected(action.OpCheckout, e.cfg.Actions.PrimaryAction)
	case action.SecondaryAction:
		e.onSelected(action.OpPop, e.cfg.Actions.SecondaryAction)
	case action.DeleteSelected:
		e.onSelected(action.OpDelete, e.cfg.Actions.DeleteAction)
	case action.DeleteStaged:
		e.deleteStaged()
	case action.InitNew:
		e.startInput()
	case action.EndInputMode:
		if e.mode == ModeInput {
			e.input.Reset()
			e.setMode(ModeSelection)
		}
	case action.CreateItem:
		e.create(a.Text)
	case action.CreateBranch:
		e.create(a.Name)
	case action.CreateStash:
		e.create(a.Message)
	case action.StartFilter:
		e.startFilter()
	case action.EndFilter:
		if e.mode == ModeFilter {
			e.filter.Blur()
			e.setMode(ModeSelection)
		}
	case action.CopySelected:
		e.copySelected()
	}
}

// ApplyValidation records an asynchronous validation result.
func (e *Engine[T]) ApplyValidation(msg input.ValidatedMsg) {
	if e.input.Apply(msg) {
		e.send(action.Render{})
	}
}

func (e *Engine[T]) send(a action.Action) {
	if err := e.deps.Bus.Send(a); err != nil {
		events.UI.Error(fmt.Sprintf("send %s: %v", action.Name(a), err))
	}
}

func (e *Engine[T]) setMode(m Mode) {
	if e.mode == m {
		return
	}
	events.UI.Mode(fmt.Sprintf("%s:%s", e.cfg.ID, e.mode), fmt.Sprintf("%s:%s", e.cfg.ID, m))
	e.mode = m
	e.send(action.Render{})
}

func (e *Engine[T]) navigate(move func() bool) {
	if !move() {
		return
	}
	e.follow()
	events.List.Select(string(e.cfg.ID), e.state.SelectedIndex())
	e.send(action.Render{})
}

func (e *Engine[T]) stage(stage bool) {
	key, err := e.state.Stage(stage)
	switch {
	case errors.Is(err, state.ErrEmpty):
		events.List.Rejected(string(e.cfg.ID), "stage", events.ListReasonEmpty)
		return
	case errors.Is(err, state.ErrProtected):
		events.List.Rejected(string(e.cfg.ID), "stage", events.ListReasonProtected)
		return
	}
	events.List.Stage(string(e.cfg.ID), key, stage)
	e.send(action.Render{})
}

func (e *Engine[T]) startInput() {
	if e.mode == ModeInput {
		return
	}
	e.input.Reset()
	e.setMode(ModeInput)
	e.send(action.StartInputMode{})
}

func (e *Engine[T]) startFilter() {
	if e.mode != ModeSelection {
		return
	}
	e.filter.SetValue(e.state.Filter())
	e.filter.CursorEnd()
	e.filter.Focus()
	e.setMode(ModeFilter)
	e.send(action.StartInputMode{})
}

func (e *Engine[T]) copySelected() {
	w, ok := e.state.Selected()
	if !ok {
		return
	}
	text := e.cfg.Presenter.Copy(w.Item)
	if err := e.deps.Clipboard(text); err != nil {
		e.send(action.Error{Message: fmt.Sprintf("copy to clipboard: %v", err)})
		return
	}
	events.UI.Copy(string(e.cfg.ID), text)
}

// visibleRows is the number of item rows that fit on screen.
func (e *Engine[T]) visibleRows() int {
	rows := e.height - e.chromeRows()
	if rows < 1 {
		return 1
	}
	return rows
}

func (e *Engine[T]) follow() {
	snap := e.state.Snapshot()
	e.viewport.Follow(snap.Position(), len(snap.Visible), e.visibleRows())
}
