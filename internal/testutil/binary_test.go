package testutil

import (
	"strings"
	"testing"
)

func TestBinaryVersionAndStartupErrors(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping binary build in short mode")
	}
	RequireGit(t)
	bin := BuildBinary(t)

	res := RunBinary(t, bin, t.TempDir(), "--version")
	if res.Code != 0 || !strings.Contains(res.Stdout, "git-branch-control") {
		t.Fatalf("expected version output, got code %d: %q %q", res.Code, res.Stdout, res.Stderr)
	}

	res = RunBinary(t, bin, t.TempDir(), "--view", "tags")
	if res.Code != 2 || !strings.Contains(res.Stderr, "Configuration error") {
		t.Fatalf("expected configuration error, got code %d: %q", res.Code, res.Stderr)
	}

	res = RunBinary(t, bin, t.TempDir())
	if res.Code != 1 || !strings.Contains(res.Stderr, "not in a git repository") {
		t.Fatalf("expected not-a-repository error, got code %d: %q", res.Code, res.Stderr)
	}
}

func TestNewTestRepo(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping repository test in short mode")
	}
	repo := NewTestRepo(t)
	if got := GitCmd(t, repo, "branch", "--show-current"); got != "main" {
		t.Fatalf("expected main, got %q", got)
	}
	MakeStash(t, repo, "wip")
	if got := GitCmd(t, repo, "stash", "list"); !strings.Contains(got, "wip") {
		t.Fatalf("expected stash listed, got %q", got)
	}
}
