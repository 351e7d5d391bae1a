package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/atomicstack/git-branch-control/internal/backend"
	"github.com/atomicstack/git-branch-control/internal/git"
	"github.com/atomicstack/git-branch-control/internal/keymap"
	"github.com/atomicstack/git-branch-control/internal/theme"
	"github.com/atomicstack/git-branch-control/internal/ui"
	"github.com/atomicstack/git-branch-control/internal/ui/action"
	tea "github.com/charmbracelet/bubbletea"
)

// Config describes user-provided application options.
type Config struct {
	RepoPath    string
	Backend     string
	View        string
	TickRate    float64
	FrameRate   float64
	Watch       time.Duration
	KeymapPath  string
	ConfirmBulk bool
	NoColor     bool
}

// Run resolves the repository, then runs the interactive program until the
// user quits. Startup failures are returned before the terminal is touched.
func Run(ctx context.Context, cfg Config) error {
	model, watcher, err := Prepare(ctx, cfg)
	if err != nil {
		return err
	}
	defer watcher.Stop()
	defer model.Shutdown()

	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err = program.Run()
	if errors.Is(err, tea.ErrProgramKilled) {
		err = nil
	}
	if err != nil {
		return err
	}
	return model.Err()
}

// Prepare opens the repository and builds the model and its watcher.
func Prepare(ctx context.Context, cfg Config) (*ui.Model, *backend.Watcher, error) {
	kind, err := git.ParseBackend(cfg.Backend)
	if err != nil {
		return nil, nil, err
	}
	path := cfg.RepoPath
	if path == "" {
		if path, err = os.Getwd(); err != nil {
			return nil, nil, fmt.Errorf("resolve working directory: %w", err)
		}
	}
	gw, err := git.Open(ctx, path, kind)
	if err != nil {
		return nil, nil, err
	}
	theme.Configure(cfg.NoColor)
	km, err := keymap.LoadFrom(cfg.KeymapPath)
	if err != nil {
		return nil, nil, err
	}

	opts := backend.Options{
		TickInterval:   rateInterval(cfg.TickRate),
		RenderInterval: rateInterval(cfg.FrameRate),
		RepoInterval:   cfg.Watch,
	}
	if kind != git.BackendMock {
		gitDir, err := git.GitDir(ctx, &git.ExecRunner{Dir: gw.Root()})
		if err != nil {
			return nil, nil, err
		}
		opts.GitDir = gitDir
	}
	watcher := backend.NewWatcher(opts)

	model := ui.NewModel(ctx, ui.Options{
		Gateway:     gw,
		Keymap:      km,
		View:        action.ListID(cfg.View),
		Watcher:     watcher,
		ConfirmBulk: cfg.ConfirmBulk,
		Styles:      theme.Default(),
	})
	return model, watcher, nil
}

func rateInterval(perSecond float64) time.Duration {
	if perSecond <= 0 {
		return 0
	}
	return time.Duration(float64(time.Second) / perSecond)
}
