package views

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/atomicstack/git-branch-control/internal/git"
	"github.com/atomicstack/git-branch-control/internal/ui/action"
	"github.com/atomicstack/git-branch-control/internal/ui/list"
	"github.com/atomicstack/git-branch-control/internal/ui/state"
	tea "github.com/charmbracelet/bubbletea"
)

// StashList is the engine type of the stash view.
type StashList = list.Engine[git.Stash]

// NewStashList wires the stash strategies into a list engine.
func NewStashList(deps list.Deps) *StashList {
	return list.New(StashConfig(), deps)
}

// StashConfig returns the stash strategies. Stashes are keyed by commit
// hash because their indices shift after every pop or drop.
func StashConfig() list.Config[git.Stash] {
	return list.Config[git.Stash]{
		ID:        action.ListStashes,
		Source:    stashSource{},
		Actions:   stashActions{},
		Input:     stashInput{},
		Presenter: stashPresenter{},
		State: state.Options[git.Stash]{
			Key:   stashKey,
			Label: func(s git.Stash) string { return s.Message },
		},
	}
}

func stashKey(s git.Stash) string {
	if s.Hash != "" {
		return s.Hash
	}
	return s.Ref()
}

type stashSource struct{}

func (stashSource) Fetch(ctx context.Context, gw git.Gateway) ([]git.Stash, error) {
	return gw.ListStashes(ctx)
}

type stashActions struct{}

func reloadAfter(op action.Op, s git.Stash, call func(context.Context, git.Gateway, git.Stash) error) *list.Operation[git.Stash] {
	return &list.Operation[git.Stash]{
		Op:     op,
		Target: s.Ref(),
		Run: func(ctx context.Context, gw git.Gateway) (list.Effect[git.Stash], error) {
			if err := call(ctx, gw, s); err != nil {
				return list.Effect[git.Stash]{}, err
			}
			return list.Effect[git.Stash]{Reload: true}, nil
		},
	}
}

func (stashActions) PrimaryAction(s git.Stash) *list.Operation[git.Stash] {
	return reloadAfter(action.OpApply, s, func(ctx context.Context, gw git.Gateway, s git.Stash) error {
		return gw.ApplyStash(ctx, s)
	})
}

func (stashActions) SecondaryAction(s git.Stash) *list.Operation[git.Stash] {
	return reloadAfter(action.OpPop, s, func(ctx context.Context, gw git.Gateway, s git.Stash) error {
		return gw.PopStash(ctx, s)
	})
}

func (stashActions) DeleteAction(s git.Stash) *list.Operation[git.Stash] {
	return reloadAfter(action.OpDelete, s, func(ctx context.Context, gw git.Gateway, s git.Stash) error {
		return gw.DropStash(ctx, s)
	})
}

// BulkDeleteAction drops from the highest index down so that the
// remaining stash@{n} references stay valid.
func (stashActions) BulkDeleteAction(items []git.Stash) *list.BulkOperation[git.Stash] {
	if len(items) == 0 {
		return nil
	}
	targets := append([]git.Stash(nil), items...)
	sort.SliceStable(targets, func(i, j int) bool { return targets[i].Index > targets[j].Index })
	return &list.BulkOperation[git.Stash]{
		Op:     action.OpBulkDelete,
		Items:  targets,
		Reload: true,
		Delete: func(ctx context.Context, gw git.Gateway, s git.Stash) error {
			return gw.DropStash(ctx, s)
		},
	}
}

func (stashActions) CreateAction(message string) *list.Operation[git.Stash] {
	return &list.Operation[git.Stash]{
		Op:     action.OpCreate,
		Target: message,
		Run: func(ctx context.Context, gw git.Gateway) (list.Effect[git.Stash], error) {
			stashed, err := gw.StashWithMessage(ctx, message)
			if err != nil {
				return list.Effect[git.Stash]{}, err
			}
			if !stashed {
				return list.Effect[git.Stash]{}, git.ErrNothingToStash
			}
			return list.Effect[git.Stash]{Reload: true}, nil
		},
	}
}

func (stashActions) MapKey(msg tea.KeyMsg, selected *state.Wrapper[git.Stash]) action.Action {
	switch msg.String() {
	case "s":
		return action.InitNew{}
	case "a":
		if selected != nil {
			return action.PrimaryAction{}
		}
	case "p":
		if selected != nil {
			return action.SecondaryAction{}
		}
	case "D":
		if selected != nil && selected.StagedForDeletion {
			return action.UnstageForDeletion{}
		}
	case "ctrl+d":
		return action.ConfirmDeleteStaged{}
	case "d":
		switch {
		case selected == nil:
			return nil
		case selected.StagedForDeletion:
			return action.DeleteSelected{}
		default:
			return action.StageForDeletion{}
		}
	}
	return nil
}

func (stashActions) Instructions(selected *state.Wrapper[git.Stash], hasStaged bool) []string {
	instructions := []string{"esc: Exit", "s: New Stash"}
	if selected != nil {
		instructions = append(instructions, "a: Apply", "p: Pop")
		if selected.StagedForDeletion {
			instructions = append(instructions, "d: Drop", "shift+d: Unstage")
		} else {
			instructions = append(instructions, "d: Stage for Deletion")
		}
		instructions = append(instructions, "/: Filter", "y: Copy")
	}
	if hasStaged {
		instructions = append(instructions, "ctrl+d: Drop All Staged")
	}
	return append(instructions, "tab: Switch to Branches")
}

type stashInput struct{}

func (stashInput) Validate(_ context.Context, _ git.Gateway, _ []git.Stash, text string) bool {
	return text != ""
}

func (stashInput) SubmitAction(text string) action.Action {
	return action.CreateStash{Message: text}
}

func (stashInput) Prompt() string { return "Enter stash message:" }

type stashPresenter struct{}

var stashVerbs = map[action.Op]string{
	action.OpLoad:       "Loading Stashes",
	action.OpApply:      "Applying Stash",
	action.OpPop:        "Popping Stash",
	action.OpDelete:     "Dropping Stash",
	action.OpBulkDelete: "Dropping Stash",
	action.OpCreate:     "Stashing",
}

func (stashPresenter) Title(snap state.Snapshot[git.Stash], now time.Time) string {
	op := snap.Loading
	if !op.Active() {
		return fmt.Sprintf("Stashes (%d)", len(snap.Items))
	}
	verb, ok := stashVerbs[op.Op]
	if !ok {
		verb = "Processing"
	}
	if op.Kind == state.ProcessingWithProgress {
		return fmt.Sprintf("%s %d/%d...(%s)", verb, op.Done, op.Total, op.Seconds(now))
	}
	return fmt.Sprintf("%s...(%s)", verb, op.Seconds(now))
}

func (stashPresenter) Row(w state.Wrapper[git.Stash]) list.Row {
	return list.Row{
		Prefix: fmt.Sprintf("%d: ", w.Item.Index),
		Text:   w.Item.Message,
		Staged: w.StagedForDeletion,
	}
}

func (stashPresenter) Copy(s git.Stash) string { return s.Ref() }
