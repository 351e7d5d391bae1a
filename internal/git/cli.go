package git

import (
	"context"
	"errors"
	"os/exec"
	"strings"
	"sync"

	"github.com/atomicstack/git-branch-control/internal/logging/events"
)

// CLI is a Gateway backed by the git executable. Listings are cached until
// the next successful mutation.
type CLI struct {
	root   string
	runner Runner

	mu       sync.Mutex
	branches []Branch
	stashes  []Stash
	haveB    bool
	haveS    bool
}

// NewCLI returns a CLI gateway rooted at root.
func NewCLI(root string, runner Runner) *CLI {
	return &CLI{root: root, runner: runner}
}

func (c *CLI) Root() string {
	return c.root
}

func (c *CLI) ListBranches(ctx context.Context) ([]Branch, error) {
	c.mu.Lock()
	if c.haveB {
		out := cloneBranches(c.branches)
		c.mu.Unlock()
		return out, nil
	}
	c.mu.Unlock()

	out, err := c.runner.Run(ctx, "branch", "--list", "-vv")
	if err != nil {
		return nil, err
	}
	branches := parseBranches(out)

	c.mu.Lock()
	c.branches, c.haveB = branches, true
	c.mu.Unlock()
	return cloneBranches(branches), nil
}

func (c *CLI) ListStashes(ctx context.Context) ([]Stash, error) {
	c.mu.Lock()
	if c.haveS {
		out := cloneStashes(c.stashes)
		c.mu.Unlock()
		return out, nil
	}
	c.mu.Unlock()

	out, err := c.runner.Run(ctx, "stash", "list", stashListFormat)
	if err != nil {
		return nil, err
	}
	stashes := parseStashes(out)

	c.mu.Lock()
	c.stashes, c.haveS = stashes, true
	c.mu.Unlock()
	return cloneStashes(stashes), nil
}

func (c *CLI) Checkout(ctx context.Context, name string) error {
	return c.mutate(ctx, "checkout", "checkout", name)
}

func (c *CLI) CreateBranch(ctx context.Context, branch Branch) error {
	return c.mutate(ctx, "create", "checkout", "-b", branch.Name)
}

func (c *CLI) DeleteBranch(ctx context.Context, branch Branch) error {
	return c.mutate(ctx, "delete", "branch", "-D", branch.Name)
}

func (c *CLI) ValidateBranchName(ctx context.Context, name string) (bool, error) {
	_, err := c.runner.Run(ctx, "check-ref-format", "--branch", name)
	if err == nil {
		return true, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return false, nil
	}
	return false, err
}

func (c *CLI) ApplyStash(ctx context.Context, stash Stash) error {
	return c.mutate(ctx, "stash-apply", "stash", "apply", stash.Ref())
}

func (c *CLI) PopStash(ctx context.Context, stash Stash) error {
	return c.mutate(ctx, "stash-pop", "stash", "pop", stash.Ref())
}

func (c *CLI) DropStash(ctx context.Context, stash Stash) error {
	return c.mutate(ctx, "stash-drop", "stash", "drop", stash.Ref())
}

func (c *CLI) StashWithMessage(ctx context.Context, message string) (bool, error) {
	out, err := c.runner.Run(ctx, "stash", "push", "-m", message)
	if err != nil {
		return false, err
	}
	if strings.Contains(out, "No local changes to save") {
		return false, nil
	}
	c.invalidate("stash-push")
	return true, nil
}

func (c *CLI) mutate(ctx context.Context, reason string, args ...string) error {
	if _, err := c.runner.Run(ctx, args...); err != nil {
		return err
	}
	c.invalidate(reason)
	return nil
}

// Invalidate drops cached listings so the next call hits git again.
func (c *CLI) Invalidate() {
	c.invalidate("external")
}

func (c *CLI) invalidate(reason string) {
	c.mu.Lock()
	c.branches, c.stashes = nil, nil
	c.haveB, c.haveS = false, false
	c.mu.Unlock()
	events.Git.Invalidate(reason)
}
