package dispatcher

import (
	"github.com/atomicstack/git-branch-control/internal/backend"
	"github.com/atomicstack/git-branch-control/internal/ui/action"
)

// Result is what the loop does with one watcher event.
type Result struct {
	Actions []action.Action
	// Err is set the first time a probe error appears, and again whenever
	// its message changes.
	Err error
}

// Dispatcher maps watcher events to actions. It remembers the last
// repository fingerprint so that only changes produce RepoChanged.
type Dispatcher struct {
	fingerprint string
	seen        bool
	lastErr     string
}

func New() *Dispatcher {
	return &Dispatcher{}
}

func (d *Dispatcher) Handle(evt backend.Event) Result {
	var res Result
	if evt.Err != nil {
		if msg := evt.Err.Error(); msg != d.lastErr {
			d.lastErr = msg
			res.Err = evt.Err
		}
		return res
	}
	switch evt.Kind {
	case backend.KindTick:
		res.Actions = append(res.Actions, action.Tick{})
	case backend.KindRender:
		res.Actions = append(res.Actions, action.Render{})
	case backend.KindRepo:
		d.lastErr = ""
		fp, ok := evt.Data.(string)
		if !ok {
			return res
		}
		if d.seen && fp != d.fingerprint {
			res.Actions = append(res.Actions, action.RepoChanged{})
		}
		d.fingerprint = fp
		d.seen = true
	}
	return res
}
