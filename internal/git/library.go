package git

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// Library is a Gateway that reads and writes branches through go-git. go-git
// has no stash support, so stash operations go through the embedded CLI
// adapter.
type Library struct {
	root  string
	stash *CLI

	mu   sync.Mutex
	repo *gogit.Repository
}

// OpenLibrary opens the repository at root with go-git.
func OpenLibrary(root string, runner Runner) (*Library, error) {
	repo, err := gogit.PlainOpenWithOptions(root, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, gogit.ErrRepositoryNotExists) {
			return nil, ErrNotARepository
		}
		return nil, fmt.Errorf("open repository: %w", err)
	}
	return &Library{root: root, repo: repo, stash: NewCLI(root, runner)}, nil
}

func (l *Library) Root() string {
	return l.root
}

func (l *Library) ListBranches(ctx context.Context) ([]Branch, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	head := ""
	if ref, err := l.repo.Head(); err == nil && ref.Name().IsBranch() {
		head = ref.Name().Short()
	}
	cfg, err := l.repo.Config()
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	iter, err := l.repo.Branches()
	if err != nil {
		return nil, fmt.Errorf("list branches: %w", err)
	}
	var branches []Branch
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		name := ref.Name().Short()
		b := Branch{Name: name, IsHead: name == head}
		if bc, ok := cfg.Branches[name]; ok && bc.Remote != "" && bc.Merge != "" {
			up := &RemoteBranch{Name: bc.Remote + "/" + bc.Merge.Short()}
			if bc.Remote == "." {
				up.Name = bc.Merge.Short()
				_, lookupErr := l.repo.Reference(bc.Merge, false)
				up.Gone = lookupErr != nil
			} else {
				tracking := plumbing.NewRemoteReferenceName(bc.Remote, bc.Merge.Short())
				_, lookupErr := l.repo.Reference(tracking, false)
				up.Gone = lookupErr != nil
			}
			b.Upstream = up
		}
		branches = append(branches, b)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(branches, func(i, j int) bool { return branches[i].Name < branches[j].Name })
	return branches, nil
}

func (l *Library) ListStashes(ctx context.Context) ([]Stash, error) {
	return l.stash.ListStashes(ctx)
}

func (l *Library) Checkout(ctx context.Context, name string) error {
	return l.checkout(ctx, name, false)
}

func (l *Library) CreateBranch(ctx context.Context, branch Branch) error {
	return l.checkout(ctx, branch.Name, true)
}

func (l *Library) checkout(ctx context.Context, name string, create bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return errors.New("branch name required")
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	wt, err := l.repo.Worktree()
	if err != nil {
		return fmt.Errorf("open worktree: %w", err)
	}
	opts := &gogit.CheckoutOptions{
		Branch: plumbing.NewBranchReferenceName(name),
		Create: create,
	}
	// A new branch starts at HEAD, so local edits carry over. Switching to an
	// existing branch resets the index and files and refuses a dirty tree.
	if create {
		opts.Keep = true
		head, err := l.repo.Head()
		if err != nil {
			return fmt.Errorf("resolve HEAD: %w", err)
		}
		opts.Hash = head.Hash()
	}
	if err := wt.Checkout(opts); err != nil {
		return fmt.Errorf("checkout %s: %w", name, err)
	}
	l.stash.Invalidate()
	return nil
}

func (l *Library) DeleteBranch(ctx context.Context, branch Branch) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	refName := plumbing.NewBranchReferenceName(branch.Name)
	if _, err := l.repo.Reference(refName, false); err != nil {
		return fmt.Errorf("branch %q not found: %w", branch.Name, err)
	}
	if head, err := l.repo.Head(); err == nil && head.Name() == refName {
		return fmt.Errorf("cannot delete branch %q checked out at %s", branch.Name, l.root)
	}
	if err := l.repo.Storer.RemoveReference(refName); err != nil {
		return fmt.Errorf("delete branch %s: %w", branch.Name, err)
	}
	if err := l.repo.DeleteBranch(branch.Name); err != nil && !errors.Is(err, gogit.ErrBranchNotFound) {
		return fmt.Errorf("delete branch config %s: %w", branch.Name, err)
	}
	l.stash.Invalidate()
	return nil
}

func (l *Library) ValidateBranchName(ctx context.Context, name string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if name == "" || name == "HEAD" || strings.HasPrefix(name, "-") {
		return false, nil
	}
	return plumbing.NewBranchReferenceName(name).Validate() == nil, nil
}

func (l *Library) ApplyStash(ctx context.Context, stash Stash) error {
	return l.stash.ApplyStash(ctx, stash)
}

func (l *Library) PopStash(ctx context.Context, stash Stash) error {
	return l.stash.PopStash(ctx, stash)
}

func (l *Library) DropStash(ctx context.Context, stash Stash) error {
	return l.stash.DropStash(ctx, stash)
}

func (l *Library) StashWithMessage(ctx context.Context, message string) (bool, error) {
	return l.stash.StashWithMessage(ctx, message)
}

// Invalidate drops the stash listing cache.
func (l *Library) Invalidate() {
	l.stash.Invalidate()
}
