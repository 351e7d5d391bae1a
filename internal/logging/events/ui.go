package events

import "github.com/atomicstack/git-branch-control/internal/logging"

type UITracer struct{}

type FilterTracer struct{}

type CommandTracer struct{}

var (
	UI      = UITracer{}
	Filter  = FilterTracer{}
	Command = CommandTracer{}
)

func (UITracer) Mode(from, to string) {
	logging.Trace("ui.mode", map[string]interface{}{"from": from, "to": to})
}

func (UITracer) View(view string) {
	logging.Trace("ui.view", map[string]interface{}{"view": view})
}

func (UITracer) Key(mode, key, action string) {
	logging.Trace("ui.key", map[string]interface{}{"mode": mode, "key": key, "action": action})
}

func (UITracer) Resize(width, height int) {
	logging.Trace("ui.resize", map[string]interface{}{"width": width, "height": height})
}

func (UITracer) Error(message string) {
	logging.Trace("ui.error", map[string]interface{}{"message": message})
}

func (UITracer) Copy(list, text string) {
	logging.Trace("ui.copy", map[string]interface{}{"list": list, "text": text})
}

func (FilterTracer) Changed(list, filter string) {
	logging.Trace("filter.change", map[string]interface{}{"list": list, "filter": filter})
}

func (FilterTracer) Cleared(list string) {
	logging.Trace("filter.clear", map[string]interface{}{"list": list})
}

func (CommandTracer) Queue(id, label string) {
	logging.Trace("command.queue", map[string]interface{}{"id": id, "label": label})
}

func (CommandTracer) Skip(id, label string) {
	logging.Trace("command.skip", map[string]interface{}{"id": id, "label": label})
}

func (CommandTracer) Result(id, label string, err error) {
	payload := map[string]interface{}{"id": id, "label": label}
	if err != nil {
		payload["error"] = err.Error()
	}
	logging.Trace("command.result", payload)
}

func (CommandTracer) Panic(id, label string, recovered interface{}) {
	logging.Trace("command.panic", map[string]interface{}{"id": id, "label": label, "panic": recovered})
}
