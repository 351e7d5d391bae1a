package views

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/atomicstack/git-branch-control/internal/git"
	"github.com/atomicstack/git-branch-control/internal/logging"
	"github.com/atomicstack/git-branch-control/internal/theme"
	"github.com/atomicstack/git-branch-control/internal/ui/action"
	"github.com/atomicstack/git-branch-control/internal/ui/command"
	"github.com/atomicstack/git-branch-control/internal/ui/input"
	"github.com/atomicstack/git-branch-control/internal/ui/list"
	tea "github.com/charmbracelet/bubbletea"
)

type fixture struct {
	gw      *git.Mock
	bus     *action.Bus
	exec    *command.Executor
	copied  []string
	errors  []string
	now     time.Time
	handled []action.Action
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	theme.Configure(true)
	logging.Configure(filepath.Join(t.TempDir(), "views.log"))
	t.Cleanup(func() { logging.Configure("") })
	bus := action.NewBus()
	return &fixture{
		gw:   git.NewMock(),
		bus:  bus,
		exec: command.New(context.Background(), bus),
		now:  time.Unix(1_700_000_000, 0),
	}
}

func (f *fixture) deps() list.Deps {
	return list.Deps{
		Ctx:     context.Background(),
		Gateway: f.gw,
		Bus:     f.bus,
		Exec:    f.exec,
		Clipboard: func(text string) error {
			f.copied = append(f.copied, text)
			return nil
		},
		Now: func() time.Time { return f.now },
	}
}

// settle waits for background work and feeds list-level actions back into
// the engine until the bus is quiet, as the loop would.
func settle[T any](f *fixture, e *list.Engine[T]) {
	for i := 0; i < 100; i++ {
		f.exec.Wait()
		batch := f.bus.TryReceiveAll()
		if len(batch) == 0 && f.exec.InFlight() == 0 {
			return
		}
		for _, a := range batch {
			f.handled = append(f.handled, a)
			switch a := a.(type) {
			case action.Error:
				f.errors = append(f.errors, a.Message)
			case action.Render, action.StartInputMode, action.EndInputMode:
			default:
				e.Update(a)
			}
		}
	}
}

// press runs a key through the engine and applies the resulting action.
func press[T any](f *fixture, e *list.Engine[T], msg tea.KeyMsg) action.Action {
	a, cmd := e.HandleKey(msg)
	resolve(e, cmd)
	if a != nil {
		e.Update(a)
	}
	settle(f, e)
	return a
}

func resolve[T any](e *list.Engine[T], cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	switch msg := cmd().(type) {
	case input.ValidatedMsg:
		e.ApplyValidation(msg)
	case tea.BatchMsg:
		for _, c := range msg {
			resolve(e, c)
		}
	}
}

func typeInto[T any](f *fixture, e *list.Engine[T], text string) {
	for _, r := range text {
		press(f, e, keyRunes(string(r)))
	}
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func branchNames(e *BranchList) []string {
	var out []string
	for _, w := range e.State().Items() {
		out = append(out, w.Item.Name)
	}
	return out
}

func stashMessages(e *StashList) []string {
	var out []string
	for _, w := range e.State().Items() {
		out = append(out, w.Item.Message)
	}
	return out
}

func loadedBranches(t *testing.T, f *fixture, branches ...git.Branch) *BranchList {
	t.Helper()
	if len(branches) > 0 {
		f.gw.SetBranches(branches...)
	}
	e := NewBranchList(f.deps())
	e.SetSize(80, 20)
	e.Register()
	settle(f, e)
	return e
}

func loadedStashes(t *testing.T, f *fixture, messages ...string) *StashList {
	t.Helper()
	if len(messages) > 0 {
		f.gw.SetStashes(messages...)
	}
	e := NewStashList(f.deps())
	e.SetSize(80, 20)
	e.Register()
	settle(f, e)
	return e
}
