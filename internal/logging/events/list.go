package events

import "github.com/atomicstack/git-branch-control/internal/logging"

type ListTracer struct{}

type listReason string

const (
	ListReasonBusy      listReason = "busy"
	ListReasonEmpty     listReason = "empty"
	ListReasonProtected listReason = "protected"
	ListReasonNoop      listReason = "noop"
)

var List = ListTracer{}

func (ListTracer) Load(list string) {
	logging.Trace("list.load", map[string]interface{}{"list": list})
}

func (ListTracer) Loaded(list string, count int) {
	logging.Trace("list.loaded", map[string]interface{}{"list": list, "count": count})
}

func (ListTracer) Operation(list, op, target string) {
	logging.Trace("list.operation", map[string]interface{}{"list": list, "op": op, "target": target})
}

func (ListTracer) Rejected(list, op string, reason listReason) {
	logging.Trace("list.rejected", map[string]interface{}{"list": list, "op": op, "reason": string(reason)})
}

func (ListTracer) Progress(list string, done, total int) {
	logging.Trace("list.progress", map[string]interface{}{"list": list, "done": done, "total": total})
}

func (ListTracer) Stage(list, key string, staged bool) {
	logging.Trace("list.stage", map[string]interface{}{"list": list, "key": key, "staged": staged})
}

func (ListTracer) Select(list string, index int) {
	logging.Trace("list.select", map[string]interface{}{"list": list, "index": index})
}
