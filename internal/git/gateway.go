package git

import (
	"context"
	"fmt"
	"strings"

	"github.com/atomicstack/git-branch-control/internal/logging/events"
)

// Gateway is the repository surface the UI depends on. Implementations must
// be safe for concurrent use.
type Gateway interface {
	Root() string
	ListBranches(ctx context.Context) ([]Branch, error)
	ListStashes(ctx context.Context) ([]Stash, error)
	Checkout(ctx context.Context, name string) error
	// CreateBranch creates the branch from HEAD and checks it out.
	CreateBranch(ctx context.Context, branch Branch) error
	DeleteBranch(ctx context.Context, branch Branch) error
	ValidateBranchName(ctx context.Context, name string) (bool, error)
	ApplyStash(ctx context.Context, stash Stash) error
	PopStash(ctx context.Context, stash Stash) error
	DropStash(ctx context.Context, stash Stash) error
	// StashWithMessage returns false when there was nothing to stash.
	StashWithMessage(ctx context.Context, message string) (bool, error)
}

// Backend selects a Gateway implementation.
type Backend string

const (
	BackendCLI     Backend = "cli"
	BackendLibrary Backend = "library"
	BackendMock    Backend = "mock"
)

// Backends lists the accepted backend names.
func Backends() []Backend {
	return []Backend{BackendCLI, BackendLibrary, BackendMock}
}

// ParseBackend maps a configuration value to a Backend.
func ParseBackend(value string) (Backend, error) {
	switch Backend(strings.ToLower(strings.TrimSpace(value))) {
	case "", BackendCLI:
		return BackendCLI, nil
	case BackendLibrary:
		return BackendLibrary, nil
	case BackendMock:
		return BackendMock, nil
	}
	return "", fmt.Errorf("unknown backend %q (expected cli, library or mock)", value)
}

// Open resolves the repository enclosing path and returns the requested
// gateway for it.
func Open(ctx context.Context, path string, backend Backend) (Gateway, error) {
	if backend == BackendMock {
		return NewMock(), nil
	}
	root, err := RepoRoot(ctx, &ExecRunner{Dir: path})
	if err != nil {
		return nil, err
	}
	events.Git.Open(root, string(backend))
	runner := &ExecRunner{Dir: root}
	switch backend {
	case BackendLibrary:
		return OpenLibrary(root, runner)
	default:
		return NewCLI(root, runner), nil
	}
}

// RepoRoot returns the top-level directory of the repository the runner
// operates in.
func RepoRoot(ctx context.Context, r Runner) (string, error) {
	out, err := r.Run(ctx, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNotARepository, err)
	}
	root := strings.TrimSpace(out)
	if root == "" {
		return "", ErrNotARepository
	}
	return root, nil
}

// Invalidator is implemented by gateways that cache listings.
type Invalidator interface {
	Invalidate()
}

// Invalidate drops any cached listings held by g.
func Invalidate(g Gateway) {
	if inv, ok := g.(Invalidator); ok {
		inv.Invalidate()
	}
}

// GitDir returns the absolute path of the repository's git directory.
func GitDir(ctx context.Context, r Runner) (string, error) {
	out, err := r.Run(ctx, "rev-parse", "--absolute-git-dir")
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNotARepository, err)
	}
	dir := strings.TrimSpace(out)
	if dir == "" {
		return "", ErrNotARepository
	}
	return dir, nil
}
