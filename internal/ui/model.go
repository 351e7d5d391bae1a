package ui

import (
	"context"
	"reflect"
	"time"

	"github.com/atomicstack/git-branch-control/internal/backend"
	"github.com/atomicstack/git-branch-control/internal/data/dispatcher"
	"github.com/atomicstack/git-branch-control/internal/git"
	"github.com/atomicstack/git-branch-control/internal/keymap"
	"github.com/atomicstack/git-branch-control/internal/theme"
	"github.com/atomicstack/git-branch-control/internal/ui/action"
	"github.com/atomicstack/git-branch-control/internal/ui/command"
	"github.com/atomicstack/git-branch-control/internal/ui/input"
	"github.com/atomicstack/git-branch-control/internal/ui/list"
	"github.com/atomicstack/git-branch-control/internal/ui/views"
	tea "github.com/charmbracelet/bubbletea"
)

// Mode is the application-level mode. It selects the keymap table and
// whether keys reach the active list or the error view.
type Mode int

const (
	ModeDefault Mode = iota
	ModeInput
	ModeError
)

func (m Mode) String() string {
	switch m {
	case ModeInput:
		return "input"
	case ModeError:
		return "error"
	}
	return "default"
}

func (m Mode) keymapMode() keymap.Mode {
	switch m {
	case ModeInput:
		return keymap.ModeInput
	case ModeError:
		return keymap.ModeError
	}
	return keymap.ModeDefault
}

type msgHandler func(tea.Msg) tea.Cmd

// listView is the part of a list engine the loop drives.
type listView interface {
	ID() action.ListID
	Mode() list.Mode
	Register()
	Update(action.Action)
	HandleKey(tea.KeyMsg) (action.Action, tea.Cmd)
	ApplyValidation(input.ValidatedMsg)
	HasStaged() bool
	SetSize(width, height int)
	View() string
}

// Options configure a Model.
type Options struct {
	Gateway git.Gateway
	Keymap  *keymap.Keymap
	// View is the list shown first. Defaults to the stash list.
	View        action.ListID
	Watcher     *backend.Watcher
	ConfirmBulk bool
	// Width and Height fix the frame size; zero follows the terminal.
	Width, Height int
	Styles        *theme.Styles
	Clipboard     func(string) error
	Now           func() time.Time
}

// Model is the event/render loop. It owns the action bus, drains it on
// every wake-up and routes each action to the loop itself, the active list
// or the error view.
type Model struct {
	ctx    context.Context
	cancel context.CancelFunc

	bus  *action.Bus
	exec *command.Executor
	gw   git.Gateway

	lists  map[action.ListID]listView
	active action.ListID
	errors *views.ErrorView

	keys    *keymap.Keymap
	pending []string

	mode     Mode
	prevMode Mode

	confirmBulk bool
	confirm     *confirmDialog

	width, height int
	fixedWidth    bool
	fixedHeight   bool

	frame    string
	styles   *theme.Styles
	backend  *backend.Watcher
	dispatch *dispatcher.Dispatcher

	// manualPump is set by the harness, which drains the bus itself
	// instead of waiting on it from a command.
	manualPump bool
	quitting   bool
	fatal      error

	handlers map[reflect.Type]msgHandler
}

// NewModel wires both list views to a fresh bus and executor.
func NewModel(ctx context.Context, opts Options) *Model {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)
	if opts.Keymap == nil {
		opts.Keymap = keymap.Default()
	}
	if opts.Styles == nil {
		opts.Styles = theme.Default()
	}
	if opts.View == "" {
		opts.View = action.ListStashes
	}
	bus := action.NewBus()
	exec := command.New(ctx, bus)
	deps := list.Deps{
		Ctx:       ctx,
		Gateway:   opts.Gateway,
		Bus:       bus,
		Exec:      exec,
		Styles:    opts.Styles,
		Clipboard: opts.Clipboard,
		Now:       opts.Now,
	}
	m := &Model{
		ctx:         ctx,
		cancel:      cancel,
		bus:         bus,
		exec:        exec,
		gw:          opts.Gateway,
		active:      opts.View,
		errors:      views.NewErrorView(opts.Styles),
		keys:        opts.Keymap,
		confirmBulk: opts.ConfirmBulk,
		styles:      opts.Styles,
		backend:     opts.Watcher,
		dispatch:    dispatcher.New(),
	}
	m.lists = map[action.ListID]listView{
		action.ListBranches: views.NewBranchList(deps),
		action.ListStashes:  views.NewStashList(deps),
	}
	if _, ok := m.lists[m.active]; !ok {
		m.active = action.ListStashes
	}
	if opts.Width > 0 {
		m.width = opts.Width
		m.fixedWidth = true
	}
	if opts.Height > 0 {
		m.height = opts.Height
		m.fixedHeight = true
	}
	m.resizeViews()
	m.registerHandlers()
	for _, id := range []action.ListID{action.ListBranches, action.ListStashes} {
		m.lists[id].Register()
	}
	m.rebuild()
	return m
}

// Init is part of the tea.Model interface.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{}
	if !m.manualPump {
		cmds = append(cmds, waitForActions(m.bus))
	}
	if m.backend != nil {
		cmds = append(cmds, waitForBackendEvent(m.backend))
	}
	if len(cmds) == 0 {
		return nil
	}
	return tea.Batch(cmds...)
}

// Update responds to Bubble Tea messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmds := make([]tea.Cmd, 0, 4)
	if handled, cmd := m.handleActiveForm(msg); handled {
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
		return m, m.finishUpdate(cmds)
	}
	if handler := m.handlerFor(msg); handler != nil {
		if cmd := handler(msg); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return m, m.finishUpdate(cmds)
}

// Err returns the fatal error that ended the loop, if any.
func (m *Model) Err() error { return m.fatal }

// Shutdown stops background producers and waits for running operations.
func (m *Model) Shutdown() {
	m.cancel()
	if m.backend != nil {
		m.backend.Stop()
	}
	m.bus.Close()
	m.exec.Wait()
}

func (m *Model) registerHandlers() {
	m.handlers = map[reflect.Type]msgHandler{
		reflect.TypeOf(tea.KeyMsg{}):         m.handleKeyMsg,
		reflect.TypeOf(tea.WindowSizeMsg{}):  m.handleWindowSizeMsg,
		reflect.TypeOf(tea.ResumeMsg{}):      m.handleResumeMsg,
		reflect.TypeOf(actionsReadyMsg{}):    m.handleActionsReadyMsg,
		reflect.TypeOf(busClosedMsg{}):       m.handleBusClosedMsg,
		reflect.TypeOf(input.ValidatedMsg{}): m.handleValidatedMsg,
		reflect.TypeOf(backendEventMsg{}):    m.handleBackendEventMsg,
		reflect.TypeOf(backendDoneMsg{}):     m.handleBackendDoneMsg,
	}
}

func (m *Model) handlerFor(msg tea.Msg) msgHandler {
	if msg == nil || m.handlers == nil {
		return nil
	}
	t := reflect.TypeOf(msg)
	if handler, ok := m.handlers[t]; ok {
		return handler
	}
	if t.Kind() == reflect.Ptr {
		if handler, ok := m.handlers[t.Elem()]; ok {
			return handler
		}
	}
	return nil
}

func (m *Model) finishUpdate(cmds []tea.Cmd) tea.Cmd {
	if m.quitting {
		cmds = append(cmds, tea.Quit)
	}
	if len(cmds) == 0 {
		return nil
	}
	return tea.Batch(cmds...)
}

func (m *Model) activeList() listView {
	return m.lists[m.active]
}

// Mode returns the application mode.
func (m *Model) Mode() Mode { return m.mode }

// ActiveView returns the list currently shown.
func (m *Model) ActiveView() action.ListID { return m.active }
