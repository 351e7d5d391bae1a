package list

import (
	"context"
	"errors"
	"fmt"

	"github.com/atomicstack/git-branch-control/internal/logging"
	"github.com/atomicstack/git-branch-control/internal/logging/events"
	"github.com/atomicstack/git-branch-control/internal/ui/action"
	"github.com/atomicstack/git-branch-control/internal/ui/command"
	"github.com/atomicstack/git-branch-control/internal/ui/state"
)

func (e *Engine[T]) requestID(op action.Op) string {
	e.seq++
	return fmt.Sprintf("%s:%s:%d", e.cfg.ID, op, e.seq)
}

// load refetches the list. A refresh requested while another operation
// runs is deferred until that operation completes.
func (e *Engine[T]) load() {
	if err := e.state.TryBegin(state.Loading, action.OpLoad); err != nil {
		events.List.Rejected(string(e.cfg.ID), string(action.OpLoad), events.ListReasonBusy)
		e.pendingRefresh = true
		return
	}
	id := string(e.cfg.ID)
	events.List.Load(id)
	e.send(action.Render{})
	source, gw, st, bus := e.cfg.Source, e.deps.Gateway, e.state, e.deps.Bus
	abort := func() {
		st.ClearLoading()
		_ = bus.Send(action.LoadingComplete{List: e.cfg.ID})
		_ = bus.Send(action.Render{})
	}
	e.deps.Exec.Spawn(command.Request{
		ID:    e.requestID(action.OpLoad),
		Label: "load " + id,
		Abort: abort,
		Run: func(ctx context.Context) {
			items, err := source.Fetch(ctx, gw)
			if err != nil {
				_ = bus.Send(action.Error{Message: fmt.Sprintf("Failed to fetch items: %v", err)})
				abort()
				return
			}
			st.Replace(items)
			st.ClearLoading()
			events.List.Loaded(id, len(items))
			_ = bus.Send(action.ItemsLoaded{List: e.cfg.ID})
			_ = bus.Send(action.Render{})
		},
	})
}

// onSelected asks factory for an operation on the selected item and runs
// it. A nil operation is ignored without report.
func (e *Engine[T]) onSelected(op action.Op, factory func(T) *Operation[T]) {
	w, ok := e.state.Selected()
	if !ok {
		events.List.Rejected(string(e.cfg.ID), string(op), events.ListReasonEmpty)
		return
	}
	operation := factory(w.Item)
	if operation == nil {
		events.List.Rejected(string(e.cfg.ID), string(op), events.ListReasonNoop)
		return
	}
	e.run(operation)
}

func (e *Engine[T]) create(text string) {
	if e.mode == ModeInput {
		e.input.Reset()
		e.setMode(ModeSelection)
		e.send(action.EndInputMode{})
	}
	if text == "" {
		return
	}
	operation := e.cfg.Actions.CreateAction(text)
	if operation == nil {
		events.List.Rejected(string(e.cfg.ID), string(action.OpCreate), events.ListReasonNoop)
		return
	}
	e.run(operation)
}

// run executes a single-item operation in the background. Every exit,
// including a panic through Abort, clears the loading marker and posts
// OperationDone.
func (e *Engine[T]) run(operation *Operation[T]) {
	if err := e.state.TryBegin(state.Processing, operation.Op); err != nil {
		events.List.Rejected(string(e.cfg.ID), string(operation.Op), events.ListReasonBusy)
		return
	}
	events.List.Operation(string(e.cfg.ID), string(operation.Op), operation.Target)
	e.send(action.Render{})
	finish := e.finisher(operation.Op)
	e.deps.Exec.Spawn(command.Request{
		ID:    e.requestID(operation.Op),
		Label: fmt.Sprintf("%s %s", operation.Op, operation.Target),
		Abort: finish,
		Run: func(ctx context.Context) {
			effect, err := operation.Run(ctx, e.deps.Gateway)
			if err != nil {
				e.fail(err)
			} else {
				e.apply(ctx, effect)
			}
			finish()
		},
	})
}

// deleteStaged runs the handler's bulk operation over every staged item.
func (e *Engine[T]) deleteStaged() {
	staged := e.state.Staged()
	if len(staged) == 0 {
		events.List.Rejected(string(e.cfg.ID), string(action.OpBulkDelete), events.ListReasonEmpty)
		return
	}
	bulk := e.cfg.Actions.BulkDeleteAction(staged)
	if bulk == nil || len(bulk.Items) == 0 {
		events.List.Rejected(string(e.cfg.ID), string(action.OpBulkDelete), events.ListReasonNoop)
		return
	}
	if err := e.state.TryBegin(state.Processing, bulk.Op); err != nil {
		events.List.Rejected(string(e.cfg.ID), string(bulk.Op), events.ListReasonBusy)
		return
	}
	total := len(bulk.Items)
	e.state.SetProgress(0, total)
	events.List.Operation(string(e.cfg.ID), string(bulk.Op), fmt.Sprintf("%d items", total))
	e.send(action.Render{})

	positions := make(map[string]int, len(staged))
	for i, w := range e.state.Items() {
		positions[e.cfg.State.Key(w.Item)] = i
	}
	finish := e.finisher(bulk.Op)
	e.deps.Exec.Spawn(command.Request{
		ID:    e.requestID(bulk.Op),
		Label: fmt.Sprintf("%s %d items", bulk.Op, total),
		Abort: finish,
		Run: func(ctx context.Context) {
			var deleted []string
			first := -1
			for i, item := range bulk.Items {
				key := e.cfg.State.Key(item)
				if err := bulk.Delete(ctx, e.deps.Gateway, item); err != nil {
					logging.Error(fmt.Errorf("%s %s: %w", bulk.Op, key, err))
				} else {
					deleted = append(deleted, key)
					if pos, ok := positions[key]; ok && (first < 0 || pos < first) {
						first = pos
					}
				}
				e.state.SetProgress(i+1, total)
				events.List.Progress(string(e.cfg.ID), i+1, total)
				_ = e.deps.Bus.Send(action.Render{})
			}
			if bulk.Reload {
				if err := e.reload(ctx); err != nil {
					e.fail(err)
				}
			} else {
				e.state.RemoveKeys(deleted...)
			}
			if first >= 0 {
				e.state.Select(first)
			}
			finish()
		},
	})
}

func (e *Engine[T]) finisher(op action.Op) func() {
	return func() {
		e.state.ClearLoading()
		_ = e.deps.Bus.Send(action.OperationDone{List: e.cfg.ID, Op: op})
		_ = e.deps.Bus.Send(action.Render{})
	}
}

func (e *Engine[T]) apply(ctx context.Context, effect Effect[T]) {
	if effect.Splice != nil {
		e.state.Splice(effect.Splice)
	}
	if effect.Reload {
		if err := e.reload(ctx); err != nil {
			e.fail(err)
			return
		}
	}
	if effect.Select != "" {
		e.state.SelectKey(effect.Select)
	}
}

func (e *Engine[T]) reload(ctx context.Context) error {
	items, err := e.cfg.Source.Fetch(ctx, e.deps.Gateway)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", e.cfg.ID, err)
	}
	e.state.Replace(items)
	events.List.Loaded(string(e.cfg.ID), len(items))
	return nil
}

func (e *Engine[T]) fail(err error) {
	if errors.Is(err, context.Canceled) {
		return
	}
	_ = e.deps.Bus.Send(action.Error{Message: err.Error()})
}
