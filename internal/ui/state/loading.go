package state

import (
	"fmt"
	"time"

	"github.com/atomicstack/git-branch-control/internal/ui/action"
)

// LoadingKind distinguishes the phases of a running operation.
type LoadingKind int

const (
	LoadingNone LoadingKind = iota
	Loading
	Processing
	ProcessingWithProgress
)

func (k LoadingKind) String() string {
	switch k {
	case Loading:
		return "loading"
	case Processing:
		return "processing"
	case ProcessingWithProgress:
		return "progress"
	}
	return "none"
}

// LoadingOperation describes the operation currently running against a
// list. It is display state only.
type LoadingOperation struct {
	Kind    LoadingKind
	Op      action.Op
	Started time.Time
	Done    int
	Total   int
}

// Active reports whether an operation is running.
func (o LoadingOperation) Active() bool {
	return o.Kind != LoadingNone
}

// Elapsed returns the time since the operation started.
func (o LoadingOperation) Elapsed(now time.Time) time.Duration {
	if !o.Active() || o.Started.IsZero() {
		return 0
	}
	return now.Sub(o.Started)
}

// Seconds formats the elapsed time with one decimal place.
func (o LoadingOperation) Seconds(now time.Time) string {
	return fmt.Sprintf("%.1fs", o.Elapsed(now).Seconds())
}
