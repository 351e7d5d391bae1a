// Package views binds the generic list engine to branches and stashes and
// provides the modal error view.
package views

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/atomicstack/git-branch-control/internal/git"
	"github.com/atomicstack/git-branch-control/internal/logging"
	"github.com/atomicstack/git-branch-control/internal/ui/action"
	"github.com/atomicstack/git-branch-control/internal/ui/list"
	"github.com/atomicstack/git-branch-control/internal/ui/state"
	tea "github.com/charmbracelet/bubbletea"
)

// BranchList is the engine type of the branch view.
type BranchList = list.Engine[git.Branch]

// NewBranchList wires the branch strategies into a list engine.
func NewBranchList(deps list.Deps) *BranchList {
	return list.New(BranchConfig(), deps)
}

// BranchConfig returns the branch strategies.
func BranchConfig() list.Config[git.Branch] {
	return list.Config[git.Branch]{
		ID:        action.ListBranches,
		Source:    branchSource{},
		Actions:   branchActions{},
		Input:     branchInput{},
		Presenter: branchPresenter{},
		State: state.Options[git.Branch]{
			Key:       func(b git.Branch) string { return b.Name },
			Protected: func(b git.Branch) bool { return b.IsHead },
		},
	}
}

type branchSource struct{}

func (branchSource) Fetch(ctx context.Context, gw git.Gateway) ([]git.Branch, error) {
	return gw.ListBranches(ctx)
}

type branchActions struct{}

func (branchActions) PrimaryAction(b git.Branch) *list.Operation[git.Branch] {
	if b.IsHead {
		return nil
	}
	return &list.Operation[git.Branch]{
		Op:     action.OpCheckout,
		Target: b.Name,
		Run: func(ctx context.Context, gw git.Gateway) (list.Effect[git.Branch], error) {
			if err := gw.Checkout(ctx, b.Name); err != nil {
				return list.Effect[git.Branch]{}, err
			}
			return list.Effect[git.Branch]{Reload: true, Select: b.Name}, nil
		},
	}
}

func (branchActions) SecondaryAction(git.Branch) *list.Operation[git.Branch] {
	return nil
}

func (branchActions) DeleteAction(b git.Branch) *list.Operation[git.Branch] {
	if b.IsHead {
		return nil
	}
	return &list.Operation[git.Branch]{
		Op:     action.OpDelete,
		Target: b.Name,
		Run: func(ctx context.Context, gw git.Gateway) (list.Effect[git.Branch], error) {
			if err := gw.DeleteBranch(ctx, b); err != nil {
				return list.Effect[git.Branch]{}, err
			}
			return list.Effect[git.Branch]{Splice: removeBranch(b.Name)}, nil
		},
	}
}

func (branchActions) BulkDeleteAction(items []git.Branch) *list.BulkOperation[git.Branch] {
	var targets []git.Branch
	for _, b := range items {
		if !b.IsHead {
			targets = append(targets, b)
		}
	}
	if len(targets) == 0 {
		return nil
	}
	return &list.BulkOperation[git.Branch]{
		Op:    action.OpBulkDelete,
		Items: targets,
		Delete: func(ctx context.Context, gw git.Gateway, b git.Branch) error {
			return gw.DeleteBranch(ctx, b)
		},
	}
}

// CreateAction creates name from HEAD and checks it out.
func (branchActions) CreateAction(name string) *list.Operation[git.Branch] {
	return &list.Operation[git.Branch]{
		Op:     action.OpCreate,
		Target: name,
		Run: func(ctx context.Context, gw git.Gateway) (list.Effect[git.Branch], error) {
			branch := git.Branch{Name: name, IsHead: true}
			if err := gw.CreateBranch(ctx, branch); err != nil {
				return list.Effect[git.Branch]{}, err
			}
			return list.Effect[git.Branch]{Splice: insertHead(branch), Select: name}, nil
		},
	}
}

func (branchActions) MapKey(msg tea.KeyMsg, selected *state.Wrapper[git.Branch]) action.Action {
	switch msg.String() {
	case "C":
		return action.InitNew{}
	case "c":
		if selected != nil {
			return action.PrimaryAction{}
		}
	case "D":
		if selected != nil && selected.StagedForDeletion {
			return action.UnstageForDeletion{}
		}
	case "ctrl+d":
		return action.ConfirmDeleteStaged{}
	case "d":
		switch {
		case selected == nil, selected.Item.IsHead:
			return nil
		case selected.StagedForDeletion:
			return action.DeleteSelected{}
		default:
			return action.StageForDeletion{}
		}
	}
	return nil
}

func (branchActions) Instructions(selected *state.Wrapper[git.Branch], hasStaged bool) []string {
	instructions := []string{"esc: Exit", "shift+c: Create New"}
	if selected != nil {
		switch {
		case selected.StagedForDeletion:
			instructions = append(instructions, "d: Delete", "shift+d: Unstage")
		case selected.Item.IsHead:
		default:
			instructions = append(instructions, "c: Checkout", "d: Stage for Deletion")
		}
		instructions = append(instructions, "/: Filter", "y: Copy")
	}
	if hasStaged {
		instructions = append(instructions, "ctrl+d: Delete All Staged")
	}
	return append(instructions, "tab: Switch to Stashes")
}

type branchInput struct{}

// Validate accepts a non-empty name that is not already a branch and that
// git accepts as a ref name.
func (branchInput) Validate(ctx context.Context, gw git.Gateway, items []git.Branch, text string) bool {
	if text == "" {
		return false
	}
	for _, b := range items {
		if b.Name == text {
			return false
		}
	}
	ok, err := gw.ValidateBranchName(ctx, text)
	if err != nil {
		logging.Error(fmt.Errorf("validate branch name %q: %w", text, err))
		return false
	}
	return ok
}

func (branchInput) SubmitAction(text string) action.Action {
	return action.CreateBranch{Name: text}
}

func (branchInput) Prompt() string { return "Enter new branch name:" }

type branchPresenter struct{}

func (branchPresenter) Title(snap state.Snapshot[git.Branch], now time.Time) string {
	op := snap.Loading
	switch op.Kind {
	case state.Loading:
		return fmt.Sprintf("Loading... (%s)", op.Seconds(now))
	case state.Processing:
		return fmt.Sprintf("Processing... (%s)", op.Seconds(now))
	case state.ProcessingWithProgress:
		return fmt.Sprintf("Processing %d/%d... (%s)", op.Done, op.Total, op.Seconds(now))
	}
	return fmt.Sprintf("Branches (%d)", len(snap.Items))
}

func (branchPresenter) Row(w state.Wrapper[git.Branch]) list.Row {
	row := list.Row{
		Text:     w.Item.Name,
		Staged:   w.StagedForDeletion,
		Creation: w.StagedForCreation,
		Valid:    w.ValidName,
	}
	if w.Item.IsHead && !w.StagedForCreation {
		row.Annotation += " (HEAD)"
	}
	if up := w.Item.Upstream; up != nil {
		if up.Gone {
			row.Annotation += fmt.Sprintf(" [%s: gone]", up.Name)
		} else {
			row.Annotation += fmt.Sprintf(" [%s]", up.Name)
		}
	}
	return row
}

func (branchPresenter) Copy(b git.Branch) string { return b.Name }

func (branchPresenter) Preview(text string, valid bool) state.Wrapper[git.Branch] {
	return state.Wrapper[git.Branch]{
		Item:              git.Branch{Name: text},
		StagedForCreation: true,
		ValidName:         valid,
	}
}

func removeBranch(name string) func([]state.Wrapper[git.Branch]) []state.Wrapper[git.Branch] {
	return func(items []state.Wrapper[git.Branch]) []state.Wrapper[git.Branch] {
		out := items[:0]
		for _, w := range items {
			if w.Item.Name != name {
				out = append(out, w)
			}
		}
		return out
	}
}

// insertHead adds branch as the new HEAD and keeps the list sorted by name.
func insertHead(branch git.Branch) func([]state.Wrapper[git.Branch]) []state.Wrapper[git.Branch] {
	return func(items []state.Wrapper[git.Branch]) []state.Wrapper[git.Branch] {
		out := make([]state.Wrapper[git.Branch], 0, len(items)+1)
		for _, w := range items {
			if w.Item.Name == branch.Name {
				continue
			}
			w.Item.IsHead = false
			out = append(out, w)
		}
		out = append(out, state.Wrapper[git.Branch]{Item: branch})
		sort.SliceStable(out, func(i, j int) bool { return out[i].Item.Name < out[j].Item.Name })
		return out
	}
}
