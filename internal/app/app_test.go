package app

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/atomicstack/git-branch-control/internal/git"
	"github.com/atomicstack/git-branch-control/internal/logging"
	"github.com/atomicstack/git-branch-control/internal/testutil"
	"github.com/atomicstack/git-branch-control/internal/ui/action"
)

func testConfig(repo string) Config {
	return Config{
		RepoPath:  repo,
		Backend:   "cli",
		View:      "branches",
		TickRate:  4,
		FrameRate: 30,
		NoColor:   true,
	}
}

func quietLog(t *testing.T) {
	t.Helper()
	logging.Configure(filepath.Join(t.TempDir(), "app.log"))
	t.Cleanup(func() { logging.Configure("") })
}

func TestRateInterval(t *testing.T) {
	cases := []struct {
		rate float64
		want time.Duration
	}{
		{4, 250 * time.Millisecond},
		{30, time.Second / 30},
		{0, 0},
		{-1, 0},
	}
	for _, tc := range cases {
		if got := rateInterval(tc.rate); got != tc.want {
			t.Fatalf("rate %g: expected %s, got %s", tc.rate, tc.want, got)
		}
	}
}

func TestPrepareRejectsUnknownBackend(t *testing.T) {
	cfg := testConfig(t.TempDir())
	cfg.Backend = "svn"
	if _, _, err := Prepare(context.Background(), cfg); err == nil {
		t.Fatal("expected backend error")
	}
}

func TestPrepareOutsideRepository(t *testing.T) {
	testutil.RequireGit(t)
	quietLog(t)
	_, _, err := Prepare(context.Background(), testConfig(t.TempDir()))
	if !errors.Is(err, git.ErrNotARepository) {
		t.Fatalf("expected ErrNotARepository, got %v", err)
	}
}

func TestPrepareMockBackend(t *testing.T) {
	quietLog(t)
	cfg := testConfig("")
	cfg.Backend = "mock"
	model, watcher, err := Prepare(context.Background(), cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer watcher.Stop()
	defer model.Shutdown()
	if model.ActiveView() != action.ListBranches {
		t.Fatalf("expected branches view, got %s", model.ActiveView())
	}
}

func TestPrepareRepository(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping repository test in short mode")
	}
	quietLog(t)
	repo := testutil.NewTestRepo(t)
	cfg := testConfig(repo)
	cfg.Watch = time.Second
	model, watcher, err := Prepare(context.Background(), cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	watcher.Stop()
	model.Shutdown()
	watcher.Wait()
	if model.Err() != nil {
		t.Fatalf("expected no fatal error, got %v", model.Err())
	}
}
