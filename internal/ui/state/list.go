// Package state holds the lock-guarded list state shared between the UI
// loop and background operations.
package state

import (
	"errors"
	"sync"
	"time"

	"github.com/atomicstack/git-branch-control/internal/ui/action"
)

var (
	ErrEmpty     = errors.New("list is empty")
	ErrProtected = errors.New("item is protected")
	ErrBusy      = errors.New("operation already running")
)

// Wrapper decorates an item with UI-only flags.
type Wrapper[T any] struct {
	Item              T
	StagedForDeletion bool
	StagedForCreation bool
	ValidName         bool
}

// Options configure how a list identifies and protects its items.
type Options[T any] struct {
	// Key identifies an item across reloads.
	Key func(T) string
	// Protected items can never be staged for deletion.
	Protected func(T) bool
	// Label is matched by the filter. Defaults to Key.
	Label func(T) string
	Now   func() time.Time
}

// List is the shared state of one list view. All methods are safe for
// concurrent use and never hold the lock while calling out, except for
// the function passed to Splice.
type List[T any] struct {
	mu       sync.Mutex
	opts     Options[T]
	items    []Wrapper[T]
	selected int
	loading  LoadingOperation

	filter     string
	visible    []int
	lastCursor int
}

// New returns an empty list.
func New[T any](opts Options[T]) *List[T] {
	if opts.Key == nil {
		panic("state: Options.Key is required")
	}
	if opts.Label == nil {
		opts.Label = opts.Key
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &List[T]{opts: opts, lastCursor: -1}
}

// Snapshot is a consistent copy of a list, safe to read without the lock.
type Snapshot[T any] struct {
	Items    []Wrapper[T]
	Visible  []int
	Selected int
	Loading  LoadingOperation
	Filter   string
}

// SelectedItem returns the wrapper at the selected index.
func (s Snapshot[T]) SelectedItem() (Wrapper[T], bool) {
	if len(s.Visible) == 0 || s.Selected >= len(s.Items) {
		var zero Wrapper[T]
		return zero, false
	}
	return s.Items[s.Selected], true
}

// Position returns the selected item's offset within Visible, or 0.
func (s Snapshot[T]) Position() int {
	for i, idx := range s.Visible {
		if idx == s.Selected {
			return i
		}
	}
	return 0
}

// HasStaged reports whether any item is staged for deletion.
func (s Snapshot[T]) HasStaged() bool {
	for _, w := range s.Items {
		if w.StagedForDeletion {
			return true
		}
	}
	return false
}

func (l *List[T]) Snapshot() Snapshot[T] {
	l.mu.Lock()
	defer l.mu.Unlock()
	items := make([]Wrapper[T], len(l.items))
	copy(items, l.items)
	visible := make([]int, len(l.visible))
	copy(visible, l.visible)
	return Snapshot[T]{
		Items:    items,
		Visible:  visible,
		Selected: l.selected,
		Loading:  l.loading,
		Filter:   l.filter,
	}
}

func (l *List[T]) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.items)
}

func (l *List[T]) SelectedIndex() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.selected
}

// Selected returns the selected wrapper. It reports false when nothing is
// visible.
func (l *List[T]) Selected() (Wrapper[T], bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.visible) == 0 {
		var zero Wrapper[T]
		return zero, false
	}
	return l.items[l.selected], true
}

// Items returns a copy of the wrapped items.
func (l *List[T]) Items() []Wrapper[T] {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Wrapper[T], len(l.items))
	copy(out, l.items)
	return out
}

// Stage sets the deletion flag on the selected item.
func (l *List[T]) Stage(stage bool) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.visible) == 0 {
		return "", ErrEmpty
	}
	w := &l.items[l.selected]
	key := l.opts.Key(w.Item)
	if stage && l.protected(w.Item) {
		return key, ErrProtected
	}
	w.StagedForDeletion = stage
	return key, nil
}

// Staged returns the items currently staged for deletion, in list order.
func (l *List[T]) Staged() []T {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []T
	for _, w := range l.items {
		if w.StagedForDeletion {
			out = append(out, w.Item)
		}
	}
	return out
}

func (l *List[T]) HasStaged() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, w := range l.items {
		if w.StagedForDeletion {
			return true
		}
	}
	return false
}

// Loading returns the current loading marker.
func (l *List[T]) Loading() LoadingOperation {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loading
}

// TryBegin marks an operation as running. It fails with ErrBusy while
// another operation on this list has not cleared its marker.
func (l *List[T]) TryBegin(kind LoadingKind, op action.Op) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.loading.Active() {
		return ErrBusy
	}
	l.loading = LoadingOperation{Kind: kind, Op: op, Started: l.opts.Now()}
	return nil
}

// SetProgress switches the running operation to progress reporting.
func (l *List[T]) SetProgress(done, total int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.loading.Active() {
		return
	}
	l.loading.Kind = ProcessingWithProgress
	l.loading.Done = done
	l.loading.Total = total
}

func (l *List[T]) ClearLoading() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.loading = LoadingOperation{}
}

// Replace swaps in a freshly loaded item set. Deletion flags carry over by
// key unless the item has become protected.
func (l *List[T]) Replace(items []T) {
	l.mu.Lock()
	defer l.mu.Unlock()
	staged := make(map[string]bool, len(l.items))
	for _, w := range l.items {
		if w.StagedForDeletion {
			staged[l.opts.Key(w.Item)] = true
		}
	}
	next := make([]Wrapper[T], len(items))
	for i, item := range items {
		next[i] = Wrapper[T]{Item: item}
		if staged[l.opts.Key(item)] && !l.protected(item) {
			next[i].StagedForDeletion = true
		}
	}
	l.items = next
	l.settle()
}

// Splice rewrites the item set in place. fn runs under the lock and must
// not call back into the list.
func (l *List[T]) Splice(fn func([]Wrapper[T]) []Wrapper[T]) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = fn(l.items)
	for i := range l.items {
		if l.protected(l.items[i].Item) {
			l.items[i].StagedForDeletion = false
		}
	}
	l.settle()
}

// RemoveKeys drops every item whose key is listed.
func (l *List[T]) RemoveKeys(keys ...string) {
	if len(keys) == 0 {
		return
	}
	drop := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		drop[k] = struct{}{}
	}
	l.Splice(func(items []Wrapper[T]) []Wrapper[T] {
		kept := items[:0]
		for _, w := range items {
			if _, ok := drop[l.opts.Key(w.Item)]; !ok {
				kept = append(kept, w)
			}
		}
		return kept
	})
}

// SelectKey moves the selection to the item with the given key.
func (l *List[T]) SelectKey(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, idx := range l.visible {
		if l.opts.Key(l.items[idx].Item) == key {
			l.selected = idx
			return true
		}
	}
	return false
}

// Select moves the selection to an absolute index, clamped to the list.
func (l *List[T]) Select(index int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.selected = index
	l.settle()
}

func (l *List[T]) protected(item T) bool {
	return l.opts.Protected != nil && l.opts.Protected(item)
}

// settle recomputes the visible set and restores the selection invariant.
func (l *List[T]) settle() {
	l.visible = l.matching()
	if len(l.items) == 0 {
		l.selected = 0
		return
	}
	if l.selected < 0 {
		l.selected = 0
	}
	if l.selected >= len(l.items) {
		l.selected = len(l.items) - 1
	}
	if len(l.visible) == 0 || l.position() >= 0 {
		return
	}
	// snap to the nearest visible item at or after the old selection
	for _, idx := range l.visible {
		if idx >= l.selected {
			l.selected = idx
			return
		}
	}
	l.selected = l.visible[len(l.visible)-1]
}

// position returns the offset of the selection within the visible set.
func (l *List[T]) position() int {
	for i, idx := range l.visible {
		if idx == l.selected {
			return i
		}
	}
	return -1
}
