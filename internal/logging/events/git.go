package events

import (
	"strings"
	"time"

	"github.com/atomicstack/git-branch-control/internal/logging"
)

type GitTracer struct{}

var Git = GitTracer{}

func (GitTracer) Command(dir string, args []string) {
	logging.Trace("git.command", map[string]interface{}{"dir": dir, "args": strings.Join(args, " ")})
}

func (GitTracer) Result(args []string, elapsed time.Duration, err error) {
	payload := map[string]interface{}{
		"args":    strings.Join(args, " "),
		"elapsed": elapsed.String(),
	}
	if err != nil {
		payload["error"] = err.Error()
	}
	logging.Trace("git.result", payload)
}

func (GitTracer) Invalidate(reason string) {
	logging.Trace("git.cache.invalidate", map[string]interface{}{"reason": reason})
}

func (GitTracer) Open(root, backend string) {
	logging.Trace("git.open", map[string]interface{}{"root": root, "backend": backend})
}
