// Package command runs background operations off the UI loop and reports
// their outcome on the action bus.
package command

import (
	"context"
	"fmt"
	"sync"

	"github.com/atomicstack/git-branch-control/internal/logging"
	"github.com/atomicstack/git-branch-control/internal/logging/events"
	"github.com/atomicstack/git-branch-control/internal/ui/action"
	"golang.org/x/sync/errgroup"
)

// Sender is the part of the action bus an executor needs.
type Sender interface {
	Send(action.Action) error
}

// Request describes one background operation.
type Request struct {
	ID    string
	Label string
	// Run performs the work. It is responsible for publishing its own
	// completion actions.
	Run func(ctx context.Context)
	// Abort runs if Run panics, so the owner can clear its loading marker
	// and post a completion.
	Abort func()
}

// Executor spawns requests as goroutines. It adds no retry, timeout or
// cancellation of its own; the context only carries process shutdown.
type Executor struct {
	ctx    context.Context
	bus    Sender
	group  errgroup.Group
	mu     sync.Mutex
	active int
}

// New creates an executor whose operations inherit ctx.
func New(ctx context.Context, bus Sender) *Executor {
	if ctx == nil {
		ctx = context.Background()
	}
	return &Executor{ctx: ctx, bus: bus}
}

// Spawn starts req in the background and returns immediately.
func (e *Executor) Spawn(req Request) {
	if req.Run == nil {
		events.Command.Skip(req.ID, req.Label)
		return
	}
	events.Command.Queue(req.ID, req.Label)
	e.mu.Lock()
	e.active++
	e.mu.Unlock()
	e.group.Go(func() error {
		defer func() {
			e.mu.Lock()
			e.active--
			e.mu.Unlock()
		}()
		err := e.run(req)
		events.Command.Result(req.ID, req.Label, err)
		return nil
	})
}

func (e *Executor) run(req Request) (err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		events.Command.Panic(req.ID, req.Label, r)
		err = fmt.Errorf("%s: panic: %v", req.Label, r)
		logging.Error(err)
		if req.Abort != nil {
			req.Abort()
		}
		if sendErr := e.bus.Send(action.Error{Message: err.Error()}); sendErr != nil {
			logging.Error(sendErr)
		}
	}()
	req.Run(e.ctx)
	return nil
}

// InFlight reports the number of running operations.
func (e *Executor) InFlight() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.active
}

// Wait blocks until every spawned operation has returned.
func (e *Executor) Wait() {
	_ = e.group.Wait()
}
