package backend

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// Kind represents the type of event emitted by the watcher.
type Kind int

const (
	KindTick Kind = iota
	KindRender
	KindRepo
)

func (k Kind) String() string {
	switch k {
	case KindTick:
		return "tick"
	case KindRender:
		return "render"
	case KindRepo:
		return "repo"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Event conveys a timer beat, or a repository fingerprint or probe error.
type Event struct {
	Kind Kind
	Data interface{}
	Err  error
}

// Options configures a Watcher. A zero interval disables that poller.
type Options struct {
	TickInterval   time.Duration
	RenderInterval time.Duration
	RepoInterval   time.Duration
	// GitDir is the directory fingerprinted by the repository poller.
	GitDir string
}

// Watcher publishes timer beats and repository fingerprints on one channel.
type Watcher struct {
	opts Options

	ctx    context.Context
	cancel context.CancelFunc

	events chan Event
	wg     sync.WaitGroup
}

const (
	minRepoProbe = 250 * time.Millisecond
	maxRepoProbe = 30 * time.Second
)

// NewWatcher starts the pollers enabled in opts.
func NewWatcher(opts Options) *Watcher {
	ctx, cancel := context.WithCancel(context.Background())
	w := &Watcher{
		opts:   opts,
		ctx:    ctx,
		cancel: cancel,
		events: make(chan Event, 16),
	}

	w.startTimer(KindTick, opts.TickInterval)
	w.startTimer(KindRender, opts.RenderInterval)
	w.startRepoPoller()

	go func() {
		w.wg.Wait()
		close(w.events)
	}()

	return w
}

// Events returns a channel of watcher events.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Stop cancels the watcher. Pollers exit after their current probe
// completes; use Wait if a clean drain is required.
func (w *Watcher) Stop() {
	w.cancel()
}

// Wait blocks until all pollers have exited and the events channel is
// closed.
func (w *Watcher) Wait() {
	w.wg.Wait()
}

func (w *Watcher) startTimer(kind Kind, interval time.Duration) {
	if interval <= 0 {
		return
	}
	w.wg.Add(1)
	go w.poll(kind, interval, false, func(context.Context) (interface{}, error) {
		return nil, nil
	})
}

func (w *Watcher) startRepoPoller() {
	if w.opts.RepoInterval <= 0 || w.opts.GitDir == "" {
		return
	}
	throttle := newThrottle(minRepoProbe, maxRepoProbe)
	w.wg.Add(1)
	go w.poll(KindRepo, w.opts.RepoInterval, true, func(ctx context.Context) (interface{}, error) {
		throttle.wait()
		fp, err := Fingerprint(w.opts.GitDir)
		if err != nil {
			throttle.backoff()
			return nil, err
		}
		throttle.reset()
		return fp, nil
	})
}

func (w *Watcher) poll(kind Kind, interval time.Duration, immediate bool, fetch func(context.Context) (interface{}, error)) {
	defer w.wg.Done()

	emit := func() bool {
		data, err := fetch(w.ctx)
		evt := Event{Kind: kind, Data: data, Err: err}
		select {
		case <-w.ctx.Done():
			return false
		case w.events <- evt:
			return true
		}
	}

	if immediate && !emit() {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-ticker.C:
			if !emit() {
				return
			}
		}
	}
}

// Fingerprint summarizes the parts of a git directory that change when
// branches or stashes do: HEAD, loose refs, packed refs and the stash
// reflog. Missing entries are skipped.
func Fingerprint(gitDir string) (string, error) {
	if _, err := os.Stat(gitDir); err != nil {
		return "", fmt.Errorf("fingerprint %s: %w", gitDir, err)
	}
	var parts []string
	stat := func(rel string) error {
		info, err := os.Stat(filepath.Join(gitDir, rel))
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		if err != nil {
			return err
		}
		parts = append(parts, fmt.Sprintf("%s:%d:%d", rel, info.Size(), info.ModTime().UnixNano()))
		return nil
	}

	head, err := os.ReadFile(filepath.Join(gitDir, "HEAD"))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("fingerprint HEAD: %w", err)
	}
	parts = append(parts, "HEAD="+strings.TrimSpace(string(head)))
	for _, rel := range []string{"packed-refs", filepath.Join("logs", "refs", "stash")} {
		if err := stat(rel); err != nil {
			return "", fmt.Errorf("fingerprint %s: %w", rel, err)
		}
	}

	refs := filepath.Join(gitDir, "refs")
	err = filepath.WalkDir(refs, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(gitDir, path)
		if err != nil {
			return err
		}
		return stat(rel)
	})
	if err != nil {
		return "", fmt.Errorf("fingerprint refs: %w", err)
	}
	sort.Strings(parts[1:])
	return strings.Join(parts, ";"), nil
}
