package git

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotARepository is returned when no repository encloses the requested path.
	ErrNotARepository = errors.New("not in a git repository")
	// ErrNothingToStash is reported when a stash was requested on a clean worktree.
	ErrNothingToStash = errors.New("No local changes to stash")
)

// Branch is a local branch.
type Branch struct {
	Name     string
	IsHead   bool
	Upstream *RemoteBranch
}

// RemoteBranch describes the upstream a local branch tracks.
type RemoteBranch struct {
	Name string
	// Gone is set when the remote-tracking ref no longer exists.
	Gone bool
}

// Stash is an entry of the stash reflog.
type Stash struct {
	Index      int
	Message    string
	StashID    string
	BranchName string
	// Hash is the stash commit; stable while indices shift.
	Hash string
}

// Ref returns the stash@{n} selector git accepts for this entry.
func (s Stash) Ref() string {
	if s.StashID != "" {
		return s.StashID
	}
	return fmt.Sprintf("stash@{%d}", s.Index)
}

// CommandError wraps a failed git invocation.
type CommandError struct {
	Args   []string
	Output string
	Err    error
}

func (e *CommandError) Error() string {
	msg := strings.TrimSpace(e.Output)
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	return fmt.Sprintf("git %s: %s", strings.Join(e.Args, " "), msg)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

func cloneBranches(in []Branch) []Branch {
	if in == nil {
		return nil
	}
	out := make([]Branch, len(in))
	for i, b := range in {
		out[i] = b
		if b.Upstream != nil {
			up := *b.Upstream
			out[i].Upstream = &up
		}
	}
	return out
}

func cloneStashes(in []Stash) []Stash {
	if in == nil {
		return nil
	}
	return append([]Stash(nil), in...)
}
