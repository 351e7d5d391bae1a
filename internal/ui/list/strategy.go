package list

import (
	"context"
	"time"

	"github.com/atomicstack/git-branch-control/internal/git"
	"github.com/atomicstack/git-branch-control/internal/ui/action"
	"github.com/atomicstack/git-branch-control/internal/ui/state"
	tea "github.com/charmbracelet/bubbletea"
)

// DataSource loads the full item set of a list.
type DataSource[T any] interface {
	Fetch(ctx context.Context, gw git.Gateway) ([]T, error)
}

// Effect describes how a finished operation changes the list.
type Effect[T any] struct {
	// Splice rewrites the items in place, under the state lock.
	Splice func([]state.Wrapper[T]) []state.Wrapper[T]
	// Select moves the selection to this key after Splice.
	Select string
	// Reload refetches the whole list from the data source.
	Reload bool
}

// Operation is a deferred single-item repository call.
type Operation[T any] struct {
	Op     action.Op
	Target string
	Run    func(ctx context.Context, gw git.Gateway) (Effect[T], error)
}

// BulkOperation deletes Items one by one. Failures are logged and skipped.
type BulkOperation[T any] struct {
	Op     action.Op
	Items  []T
	Delete func(ctx context.Context, gw git.Gateway, item T) error
	// Reload refetches after the last item instead of removing the
	// deleted keys.
	Reload bool
}

// ActionHandler supplies the domain behaviour of a list. Every method
// returning a pointer may return nil, which makes the request a no-op.
type ActionHandler[T any] interface {
	PrimaryAction(item T) *Operation[T]
	SecondaryAction(item T) *Operation[T]
	DeleteAction(item T) *Operation[T]
	BulkDeleteAction(items []T) *BulkOperation[T]
	CreateAction(text string) *Operation[T]
	MapKey(msg tea.KeyMsg, selected *state.Wrapper[T]) action.Action
	Instructions(selected *state.Wrapper[T], hasStaged bool) []string
}

// InputHandler configures the creation input.
type InputHandler[T any] interface {
	Validate(ctx context.Context, gw git.Gateway, items []T, text string) bool
	SubmitAction(text string) action.Action
	Prompt() string
}

// Row is the display form of one item.
type Row struct {
	Prefix     string
	Text       string
	Annotation string
	Staged     bool
	Creation   bool
	Valid      bool
}

// Presenter turns state into display text.
type Presenter[T any] interface {
	Title(snap state.Snapshot[T], now time.Time) string
	Row(w state.Wrapper[T]) Row
	// Copy returns the text copied to the clipboard for item.
	Copy(item T) string
}

// CreationPreviewer is implemented by presenters that show the item being
// created while its name is typed.
type CreationPreviewer[T any] interface {
	Preview(text string, valid bool) state.Wrapper[T]
}
