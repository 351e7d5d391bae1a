package action

import (
	"errors"
	"sync"

	"github.com/atomicstack/git-branch-control/internal/logging/events"
)

// ErrClosed is returned by Send once the bus has been closed.
var ErrClosed = errors.New("action bus closed")

// Bus is an unbounded multi-producer, single-consumer FIFO of actions.
// Send never blocks and never drops.
type Bus struct {
	mu     sync.Mutex
	queue  []Action
	closed bool

	ready chan struct{}
	done  chan struct{}
}

// NewBus returns an empty bus.
func NewBus() *Bus {
	return &Bus{
		ready: make(chan struct{}, 1),
		done:  make(chan struct{}),
	}
}

// Send appends a to the queue.
func (b *Bus) Send(a Action) error {
	if a == nil {
		return nil
	}
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return ErrClosed
	}
	b.queue = append(b.queue, a)
	depth := len(b.queue)
	b.mu.Unlock()

	if !Periodic(a) {
		events.Bus.Send(Name(a), depth)
	}
	select {
	case b.ready <- struct{}{}:
	default:
	}
	return nil
}

// TryReceiveAll removes and returns everything queued at the time of the
// call, oldest first. Actions sent while the caller processes the result are
// left for the next call.
func (b *Bus) TryReceiveAll() []Action {
	b.mu.Lock()
	out := b.queue
	b.queue = nil
	b.mu.Unlock()
	events.Bus.Drain(len(out))
	return out
}

// Len reports the number of queued actions.
func (b *Bus) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.queue)
}

// Ready is signalled after a Send. A single signal may cover several sends.
func (b *Bus) Ready() <-chan struct{} {
	return b.ready
}

// Done is closed by Close.
func (b *Bus) Done() <-chan struct{} {
	return b.done
}

// Close rejects further sends. Queued actions can still be drained.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	close(b.done)
}
