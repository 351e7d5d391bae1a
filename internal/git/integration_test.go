package git_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/atomicstack/git-branch-control/internal/git"
	"github.com/atomicstack/git-branch-control/internal/testutil"
)

const skipIntegration = "skipping integration test"

func openBoth(t *testing.T, repo string) map[string]git.Gateway {
	t.Helper()
	ctx := context.Background()
	cli, err := git.Open(ctx, repo, git.BackendCLI)
	if err != nil {
		t.Fatalf("open cli: %v", err)
	}
	lib, err := git.Open(ctx, repo, git.BackendLibrary)
	if err != nil {
		t.Fatalf("open library: %v", err)
	}
	return map[string]git.Gateway{"cli": cli, "library": lib}
}

func TestOpenOutsideRepository(t *testing.T) {
	if testing.Short() {
		t.Skip(skipIntegration)
	}
	testutil.RequireGit(t)
	_, err := git.Open(context.Background(), t.TempDir(), git.BackendCLI)
	if !errors.Is(err, git.ErrNotARepository) {
		t.Fatalf("expected ErrNotARepository, got %v", err)
	}
}

func TestBranchLifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip(skipIntegration)
	}
	for name := range map[string]struct{}{"cli": {}, "library": {}} {
		t.Run(name, func(t *testing.T) {
			repo := testutil.NewTestRepo(t)
			gw := openBoth(t, repo)[name]
			ctx := context.Background()

			if err := gw.CreateBranch(ctx, git.Branch{Name: "feature-b"}); err != nil {
				t.Fatalf("CreateBranch: %v", err)
			}
			if got := testutil.GitCmd(t, repo, "rev-parse", "--abbrev-ref", "HEAD"); got != "feature-b" {
				t.Fatalf("expected feature-b checked out, got %q", got)
			}
			branches, err := gw.ListBranches(ctx)
			if err != nil {
				t.Fatalf("ListBranches: %v", err)
			}
			if len(branches) != 2 {
				t.Fatalf("expected 2 branches, got %#v", branches)
			}
			for _, b := range branches {
				if b.IsHead != (b.Name == "feature-b") {
					t.Fatalf("unexpected head flag on %#v", b)
				}
			}

			testutil.CreateFile(t, repo, "README.md", "# Feature\n")
			testutil.GitCmd(t, repo, "commit", "-am", "feature change")

			if err := gw.Checkout(ctx, "main"); err != nil {
				t.Fatalf("Checkout main: %v", err)
			}
			assertWorktree(t, repo, "main", "# Test\n")
			if err := gw.Checkout(ctx, "feature-b"); err != nil {
				t.Fatalf("Checkout feature-b: %v", err)
			}
			assertWorktree(t, repo, "feature-b", "# Feature\n")

			testutil.CreateFile(t, repo, "README.md", "dirty\n")
			if err := gw.Checkout(ctx, "main"); err == nil {
				t.Fatal("expected checkout over a dirty tree to fail")
			}
			testutil.GitCmd(t, repo, "checkout", "--", "README.md")

			if err := gw.Checkout(ctx, "main"); err != nil {
				t.Fatalf("Checkout main: %v", err)
			}
			if err := gw.DeleteBranch(ctx, git.Branch{Name: "feature-b"}); err != nil {
				t.Fatalf("DeleteBranch: %v", err)
			}
			branches, err = gw.ListBranches(ctx)
			if err != nil {
				t.Fatalf("ListBranches: %v", err)
			}
			if len(branches) != 1 || branches[0].Name != "main" {
				t.Fatalf("expected only main, got %#v", branches)
			}
		})
	}
}

func assertWorktree(t *testing.T, repo, branch, readme string) {
	t.Helper()
	if got := testutil.GitCmd(t, repo, "rev-parse", "--abbrev-ref", "HEAD"); got != branch {
		t.Fatalf("expected %s checked out, got %q", branch, got)
	}
	data, err := os.ReadFile(filepath.Join(repo, "README.md"))
	if err != nil {
		t.Fatalf("read README.md: %v", err)
	}
	if string(data) != readme {
		t.Fatalf("expected README.md %q on %s, got %q", readme, branch, data)
	}
	if status := testutil.GitCmd(t, repo, "status", "--porcelain"); status != "" {
		t.Fatalf("expected clean tree on %s, got %q", branch, status)
	}
}

func TestValidateBranchNameAgreement(t *testing.T) {
	if testing.Short() {
		t.Skip(skipIntegration)
	}
	repo := testutil.NewTestRepo(t)
	ctx := context.Background()
	for name, gw := range openBoth(t, repo) {
		for input, want := range map[string]bool{
			"feature-b":  true,
			"fix/ui":     true,
			"bad..name":  false,
			"trailing/":  false,
			"with space": false,
			"-leading":   false,
		} {
			got, err := gw.ValidateBranchName(ctx, input)
			if err != nil {
				t.Fatalf("%s ValidateBranchName(%q): %v", name, input, err)
			}
			if got != want {
				t.Fatalf("%s ValidateBranchName(%q) = %v, want %v", name, input, got, want)
			}
		}
	}
}

func TestStashLifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip(skipIntegration)
	}
	repo := testutil.NewTestRepo(t)
	gw, err := git.Open(context.Background(), repo, git.BackendCLI)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	ctx := context.Background()

	ok, err := gw.StashWithMessage(ctx, "nothing")
	if err != nil {
		t.Fatalf("StashWithMessage on clean tree: %v", err)
	}
	if ok {
		t.Fatal("expected false on a clean worktree")
	}

	testutil.CreateFile(t, repo, "README.md", "changed\n")
	ok, err = gw.StashWithMessage(ctx, "first")
	if err != nil || !ok {
		t.Fatalf("expected stash to be created, got ok=%v err=%v", ok, err)
	}
	testutil.MakeStash(t, repo, "second")

	stashes, err := gw.ListStashes(ctx)
	if err != nil {
		t.Fatalf("ListStashes: %v", err)
	}
	if len(stashes) != 2 {
		t.Fatalf("expected 2 stashes, got %#v", stashes)
	}
	if stashes[0].StashID != "stash@{0}" || stashes[0].BranchName != "main" || stashes[0].Hash == "" {
		t.Fatalf("unexpected newest stash %#v", stashes[0])
	}

	if err := gw.DropStash(ctx, stashes[1]); err != nil {
		t.Fatalf("DropStash: %v", err)
	}
	if err := gw.PopStash(ctx, stashes[0]); err != nil {
		t.Fatalf("PopStash: %v", err)
	}
	stashes, err = gw.ListStashes(ctx)
	if err != nil {
		t.Fatalf("ListStashes: %v", err)
	}
	if len(stashes) != 0 {
		t.Fatalf("expected no stashes, got %#v", stashes)
	}
}
