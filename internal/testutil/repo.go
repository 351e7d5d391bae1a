package testutil

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// RequireGit skips the calling test when git is not present on PATH.
func RequireGit(t *testing.T) string {
	t.Helper()
	path, err := exec.LookPath("git")
	if err != nil {
		t.Skip("skipping: git binary not available")
	}
	return path
}

// NewTestRepo creates a temporary repository on branch main with a single
// commit. The directory is removed when the test finishes.
func NewTestRepo(t *testing.T) string {
	t.Helper()
	RequireGit(t)

	repo := filepath.Join(t.TempDir(), "test-repo")
	if err := os.MkdirAll(repo, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	GitCmd(t, repo, "init", "-b", "main")
	GitCmd(t, repo, "config", "user.email", "test@test.com")
	GitCmd(t, repo, "config", "user.name", "Test")
	GitCmd(t, repo, "config", "commit.gpgsign", "false")

	CreateFile(t, repo, "README.md", "# Test\n")
	GitCmd(t, repo, "add", ".")
	GitCmd(t, repo, "commit", "-m", "initial commit")
	return repo
}

// CreateFile writes content to name inside dir.
func CreateFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// GitCmd runs git with args inside dir and returns trimmed output.
func GitCmd(t *testing.T, dir string, args ...string) string {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), "GIT_CONFIG_NOSYSTEM=1", "GIT_TERMINAL_PROMPT=0")
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("git %v: %s: %v", args, out, err)
	}
	return strings.TrimSpace(string(out))
}

// MakeStash dirties README.md and stashes the change with message.
func MakeStash(t *testing.T, dir, message string) {
	t.Helper()
	CreateFile(t, dir, "README.md", "# Test\n"+message+"\n")
	GitCmd(t, dir, "stash", "push", "-m", message)
}
