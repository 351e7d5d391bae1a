package events

import "github.com/atomicstack/git-branch-control/internal/logging"

type BusTracer struct{}

var Bus = BusTracer{}

func (BusTracer) Send(action string, depth int) {
	logging.Trace("bus.send", map[string]interface{}{"action": action, "depth": depth})
}

func (BusTracer) Drain(count int) {
	if count == 0 {
		return
	}
	logging.Trace("bus.drain", map[string]interface{}{"count": count})
}
