package git

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
	"time"

	"github.com/atomicstack/git-branch-control/internal/logging/events"
)

// Runner abstracts git command execution for testability.
type Runner interface {
	Run(ctx context.Context, args ...string) (string, error)
}

// ExecRunner runs the git binary.
type ExecRunner struct {
	// Dir is the working directory for git commands. If empty, uses the current directory.
	Dir string
}

func (r *ExecRunner) Run(ctx context.Context, args ...string) (string, error) {
	events.Git.Command(r.Dir, args)
	start := time.Now()

	cmd := exec.CommandContext(ctx, "git", args...)
	if r.Dir != "" {
		cmd.Dir = r.Dir
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	out := strings.TrimRight(stdout.String(), "\n")
	if err != nil {
		msg := stderr.String()
		if strings.TrimSpace(msg) == "" {
			msg = stdout.String()
		}
		err = &CommandError{Args: append([]string(nil), args...), Output: msg, Err: err}
	}
	events.Git.Result(args, time.Since(start), err)
	return out, err
}
