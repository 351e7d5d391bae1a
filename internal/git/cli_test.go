package git

import (
	"context"
	"errors"
	"os/exec"
	"slices"
	"strings"
	"testing"
)

const errContainsFmt = "error = %q, want it to contain %q"

// mockRunner implements Runner with a configurable closure for testing.
type mockRunner struct {
	run   func(args ...string) (string, error)
	calls [][]string
}

func (m *mockRunner) Run(_ context.Context, args ...string) (string, error) {
	m.calls = append(m.calls, append([]string(nil), args...))
	return m.run(args...)
}

func assertContains(t *testing.T, err error, substr string) {
	t.Helper()
	if err == nil || !strings.Contains(err.Error(), substr) {
		t.Errorf(errContainsFmt, err, substr)
	}
}

func TestCLICachesBranchesUntilMutation(t *testing.T) {
	r := &mockRunner{run: func(args ...string) (string, error) {
		if args[0] == "branch" && args[1] == "--list" {
			return "* main 1a2b3c4 subject\n  test dbcf785 subject", nil
		}
		return "", nil
	}}
	c := NewCLI("/repo", r)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		branches, err := c.ListBranches(ctx)
		if err != nil {
			t.Fatalf("ListBranches: %v", err)
		}
		if len(branches) != 2 {
			t.Fatalf("expected 2 branches, got %d", len(branches))
		}
	}
	if len(r.calls) != 1 {
		t.Fatalf("expected cached listing, got %d calls", len(r.calls))
	}

	if err := c.DeleteBranch(ctx, Branch{Name: "test"}); err != nil {
		t.Fatalf("DeleteBranch: %v", err)
	}
	if _, err := c.ListBranches(ctx); err != nil {
		t.Fatalf("ListBranches: %v", err)
	}
	if len(r.calls) != 3 {
		t.Fatalf("expected listing to be refetched after delete, got calls %v", r.calls)
	}
	if want := []string{"branch", "-D", "test"}; !slices.Equal(r.calls[1], want) {
		t.Fatalf("expected %v, got %v", want, r.calls[1])
	}
}

func TestCLIFailedMutationKeepsCache(t *testing.T) {
	r := &mockRunner{run: func(args ...string) (string, error) {
		if args[0] == "checkout" {
			return "", &CommandError{Args: args, Output: "error: pathspec 'nope' did not match"}
		}
		return "* main 1a2b3c4 subject", nil
	}}
	c := NewCLI("/repo", r)
	ctx := context.Background()
	if _, err := c.ListBranches(ctx); err != nil {
		t.Fatalf("ListBranches: %v", err)
	}
	err := c.Checkout(ctx, "nope")
	assertContains(t, err, "did not match")
	if _, err := c.ListBranches(ctx); err != nil {
		t.Fatalf("ListBranches: %v", err)
	}
	if len(r.calls) != 2 {
		t.Fatalf("expected cache to survive failed checkout, got calls %v", r.calls)
	}
}

func TestCLICommandArguments(t *testing.T) {
	stash := Stash{Index: 2, StashID: "stash@{2}"}
	tests := []struct {
		name string
		call func(c *CLI) error
		want []string
	}{
		{"checkout", func(c *CLI) error { return c.Checkout(context.Background(), "feature") }, []string{"checkout", "feature"}},
		{"create", func(c *CLI) error { return c.CreateBranch(context.Background(), Branch{Name: "feature"}) }, []string{"checkout", "-b", "feature"}},
		{"apply", func(c *CLI) error { return c.ApplyStash(context.Background(), stash) }, []string{"stash", "apply", "stash@{2}"}},
		{"pop", func(c *CLI) error { return c.PopStash(context.Background(), stash) }, []string{"stash", "pop", "stash@{2}"}},
		{"drop", func(c *CLI) error { return c.DropStash(context.Background(), stash) }, []string{"stash", "drop", "stash@{2}"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &mockRunner{run: func(...string) (string, error) { return "", nil }}
			if err := tt.call(NewCLI("/repo", r)); err != nil {
				t.Fatalf("%s: %v", tt.name, err)
			}
			if len(r.calls) != 1 || !slices.Equal(r.calls[0], tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, r.calls)
			}
		})
	}
}

func TestCLIValidateBranchName(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		want    bool
		wantErr bool
	}{
		{"valid", nil, true, false},
		{"rejected", &CommandError{Err: &exec.ExitError{}}, false, false},
		{"runner_failure", errors.New("exec: git not found"), false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &mockRunner{run: func(...string) (string, error) { return "", tt.err }}
			got, err := NewCLI("/repo", r).ValidateBranchName(context.Background(), "x")
			if (err != nil) != tt.wantErr {
				t.Fatalf("expected error=%v, got %v", tt.wantErr, err)
			}
			if got != tt.want {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestCLIStashWithMessageNothingToSave(t *testing.T) {
	r := &mockRunner{run: func(...string) (string, error) { return "No local changes to save", nil }}
	ok, err := NewCLI("/repo", r).StashWithMessage(context.Background(), "wip")
	if err != nil {
		t.Fatalf("StashWithMessage: %v", err)
	}
	if ok {
		t.Fatal("expected false when nothing was stashed")
	}
	if want := []string{"stash", "push", "-m", "wip"}; !slices.Equal(r.calls[0], want) {
		t.Fatalf("expected %v, got %v", want, r.calls[0])
	}
}

func TestRepoRootWrapsNotARepository(t *testing.T) {
	r := &mockRunner{run: func(args ...string) (string, error) {
		return "", &CommandError{Args: args, Output: "fatal: not a git repository"}
	}}
	_, err := RepoRoot(context.Background(), r)
	if !errors.Is(err, ErrNotARepository) {
		t.Fatalf("expected ErrNotARepository, got %v", err)
	}
}

func TestGitDirTrimsOutput(t *testing.T) {
	r := &mockRunner{run: func(args ...string) (string, error) {
		return "/repo/.git\n", nil
	}}
	dir, err := GitDir(context.Background(), r)
	if err != nil || dir != "/repo/.git" {
		t.Fatalf("expected /repo/.git, got %q (%v)", dir, err)
	}
	if want := []string{"rev-parse", "--absolute-git-dir"}; !slices.Equal(r.calls[0], want) {
		t.Fatalf("expected %v, got %v", want, r.calls[0])
	}
}

func TestCommandErrorMessage(t *testing.T) {
	err := &CommandError{Args: []string{"branch", "-D", "x"}, Output: "error: branch 'x' not found.\n", Err: errors.New("exit status 1")}
	if got, want := err.Error(), "git branch -D x: error: branch 'x' not found."; got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
	empty := &CommandError{Args: []string{"status"}, Err: errors.New("exit status 128")}
	assertContains(t, empty, "exit status 128")
}

func TestParseBackend(t *testing.T) {
	tests := []struct {
		in      string
		want    Backend
		wantErr bool
	}{
		{"", BackendCLI, false},
		{"CLI", BackendCLI, false},
		{"library", BackendLibrary, false},
		{"mock", BackendMock, false},
		{"libgit2", "", true},
	}
	for _, tt := range tests {
		got, err := ParseBackend(tt.in)
		if (err != nil) != tt.wantErr {
			t.Fatalf("ParseBackend(%q) error = %v", tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("ParseBackend(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
