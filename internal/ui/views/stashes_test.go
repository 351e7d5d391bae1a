package views

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/atomicstack/git-branch-control/internal/git"
	"github.com/atomicstack/git-branch-control/internal/ui/action"
	"github.com/atomicstack/git-branch-control/internal/ui/list"
	"github.com/atomicstack/git-branch-control/internal/ui/state"
	tea "github.com/charmbracelet/bubbletea"
)

func TestStashListLoads(t *testing.T) {
	f := newFixture(t)
	e := loadedStashes(t, f)
	if got := stashMessages(e); !reflect.DeepEqual(got, []string{"message1"}) {
		t.Fatalf("expected message1, got %v", got)
	}
	if view := e.View(); !strings.Contains(view, "0: message1") || !strings.Contains(view, "Stashes (1)") {
		t.Fatalf("unexpected view:\n%s", view)
	}
}

func TestApplyFailureSurfacesError(t *testing.T) {
	f := newFixture(t)
	e := loadedStashes(t, f, "should fail on apply")
	if a := press(f, e, keyRunes("a")); a != (action.PrimaryAction{}) {
		t.Fatalf("expected PrimaryAction, got %#v", a)
	}
	if len(f.errors) != 1 || f.errors[0] != "Apply stash failed" {
		t.Fatalf("expected apply error, got %v", f.errors)
	}
	if e.State().Loading().Active() {
		t.Fatal("expected loading cleared")
	}
}

func TestPopRemovesStash(t *testing.T) {
	f := newFixture(t)
	e := loadedStashes(t, f, "one", "two")
	e.Update(action.SelectNext{})
	press(f, e, keyRunes("p"))
	if got := stashMessages(e); !reflect.DeepEqual(got, []string{"one"}) {
		t.Fatalf("expected only one left, got %v", got)
	}
	if e.State().SelectedIndex() != 0 {
		t.Fatalf("expected selection clamped, got %d", e.State().SelectedIndex())
	}
}

func TestBulkDropRunsFromHighestIndex(t *testing.T) {
	f := newFixture(t)
	e := loadedStashes(t, f, "a", "b", "c", "d")
	e.Update(action.SelectNext{})
	e.Update(action.StageForDeletion{})
	e.Update(action.SelectLast{})
	e.Update(action.StageForDeletion{})
	e.Update(action.DeleteStaged{})
	settle(f, e)

	var drops []string
	for _, call := range f.gw.Calls() {
		if strings.HasPrefix(call, "drop:") {
			drops = append(drops, call)
		}
	}
	if !reflect.DeepEqual(drops, []string{"drop:stash@{3}", "drop:stash@{1}"}) {
		t.Fatalf("expected descending drops, got %v", drops)
	}
	if got := stashMessages(e); !reflect.DeepEqual(got, []string{"a", "c"}) {
		t.Fatalf("expected a,c left, got %v", got)
	}
	if e.State().HasStaged() {
		t.Fatal("expected no staged stashes left")
	}
	if e.State().SelectedIndex() != 1 {
		t.Fatalf("expected selection at first dropped index, got %d", e.State().SelectedIndex())
	}
}

func TestBulkDropKeepsFailedStashStaged(t *testing.T) {
	f := newFixture(t)
	e := loadedStashes(t, f, "keep", "fail to drop", "gone")
	e.Update(action.SelectNext{})
	e.Update(action.StageForDeletion{})
	e.Update(action.SelectNext{})
	e.Update(action.StageForDeletion{})
	e.Update(action.DeleteStaged{})
	settle(f, e)
	if got := stashMessages(e); !reflect.DeepEqual(got, []string{"keep", "fail to drop"}) {
		t.Fatalf("expected failed stash to remain, got %v", got)
	}
	items := e.State().Items()
	if !items[1].StagedForDeletion {
		t.Fatal("expected failed stash to stay staged across reload")
	}
}

func TestCreateStash(t *testing.T) {
	f := newFixture(t)
	e := loadedStashes(t, f)
	press(f, e, keyRunes("s"))
	typeInto(f, e, "wip")
	a, _ := e.HandleKey(tea.KeyMsg{Type: tea.KeyEnter})
	if a != (action.CreateStash{Message: "wip"}) {
		t.Fatalf("expected CreateStash(wip), got %#v", a)
	}
	e.Update(a)
	settle(f, e)
	if got := stashMessages(e); len(got) != 2 || got[0] != "On main: wip" {
		t.Fatalf("expected new stash on top, got %v", got)
	}
}

func TestCreateStashFailure(t *testing.T) {
	f := newFixture(t)
	e := loadedStashes(t, f)
	e.Update(action.InitNew{})
	e.Update(action.CreateStash{Message: "should fail"})
	settle(f, e)
	if len(f.errors) != 1 || f.errors[0] != "Stash with message failed" {
		t.Fatalf("expected stash error, got %v", f.errors)
	}
	if e.Mode() != list.ModeSelection {
		t.Fatalf("expected selection mode after submit, got %v", e.Mode())
	}
}

func TestNothingToStash(t *testing.T) {
	op := stashActions{}.CreateAction("")
	_, err := op.Run(context.Background(), git.NewMock())
	if !errors.Is(err, git.ErrNothingToStash) {
		t.Fatalf("expected ErrNothingToStash, got %v", err)
	}
	if err.Error() != "No local changes to stash" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestStashInstructions(t *testing.T) {
	actions := stashActions{}
	sel := &state.Wrapper[git.Stash]{Item: git.Stash{Message: "x"}}
	got := strings.Join(actions.Instructions(sel, false), " | ")
	want := "esc: Exit | s: New Stash | a: Apply | p: Pop | d: Stage for Deletion | /: Filter | y: Copy | tab: Switch to Branches"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
	sel.StagedForDeletion = true
	got = strings.Join(actions.Instructions(sel, true), " | ")
	if !strings.Contains(got, "d: Drop | shift+d: Unstage") || !strings.Contains(got, "ctrl+d: Drop All Staged") {
		t.Fatalf("unexpected staged instructions %q", got)
	}
}

func TestStashTitles(t *testing.T) {
	now := time.Unix(100, 0)
	p := stashPresenter{}
	cases := []struct {
		op   state.LoadingOperation
		want string
	}{
		{state.LoadingOperation{Kind: state.Loading, Op: action.OpLoad, Started: now}, "Loading Stashes...(0.0s)"},
		{state.LoadingOperation{Kind: state.Processing, Op: action.OpApply, Started: now}, "Applying Stash...(0.0s)"},
		{state.LoadingOperation{Kind: state.Processing, Op: action.OpPop, Started: now}, "Popping Stash...(0.0s)"},
		{state.LoadingOperation{Kind: state.Processing, Op: action.OpCreate, Started: now}, "Stashing...(0.0s)"},
		{state.LoadingOperation{Kind: state.ProcessingWithProgress, Op: action.OpBulkDelete, Started: now, Done: 2, Total: 3}, "Dropping Stash 2/3...(0.0s)"},
	}
	for _, tc := range cases {
		if got := p.Title(state.Snapshot[git.Stash]{Loading: tc.op}, now); got != tc.want {
			t.Fatalf("expected %q, got %q", tc.want, got)
		}
	}
}

func TestMockStashKeysSurviveRenumbering(t *testing.T) {
	f := newFixture(t)
	e := loadedStashes(t, f, "a", "b", "c")
	e.Update(action.SelectLast{})
	e.Update(action.StageForDeletion{})
	e.Update(action.SelectFirst{})
	e.Update(action.SecondaryAction{})
	settle(f, e)
	items := e.State().Items()
	if len(items) != 2 || items[1].Item.Message != "c" || !items[1].StagedForDeletion {
		t.Fatalf("expected c to stay staged after pop renumbering, got %#v", items)
	}
}
