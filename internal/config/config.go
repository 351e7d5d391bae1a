package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/atomicstack/git-branch-control/internal/app"
	"github.com/atomicstack/git-branch-control/internal/git"
	"github.com/atomicstack/git-branch-control/internal/keymap"
	"github.com/atomicstack/git-branch-control/internal/ui/action"
	"github.com/spf13/pflag"
)

// Config captures runtime configuration for the application.
type Config struct {
	App     app.Config
	Logging Logging
	Flags   map[string]string
	Args    []string
}

type Logging struct {
	FilePath string
	Trace    bool
}

const envPrefix = "GIT_BRANCH_CONTROL_"

const (
	envRepo        = envPrefix + "REPO"
	envBackend     = envPrefix + "BACKEND"
	envView        = envPrefix + "VIEW"
	envTickRate    = envPrefix + "TICK_RATE"
	envFrameRate   = envPrefix + "FRAME_RATE"
	envWatch       = envPrefix + "WATCH"
	envKeymap      = envPrefix + "KEYMAP"
	envConfirmBulk = envPrefix + "CONFIRM_BULK"
	envNoColor     = envPrefix + "NO_COLOR"
	envTrace       = envPrefix + "TRACE"
	envLogFile     = envPrefix + "LOG_FILE"
)

const (
	defaultTickRate  = 4.0
	defaultFrameRate = 30.0
	defaultWatch     = 2 * time.Second
	defaultLogFile   = "git-branch-control.log"
)

// NewFlagSet declares every flag with its environment default.
func NewFlagSet(environ []string) *pflag.FlagSet {
	env := parseEnv(environ)
	fs := pflag.NewFlagSet("git-branch-control", pflag.ContinueOnError)
	fs.SetOutput(new(strings.Builder))

	fs.StringP("repo", "C", envOrDefault(env, envRepo, ""), "path inside the git repository (defaults to the working directory)")
	fs.String("backend", envOrDefault(env, envBackend, string(git.BackendCLI)), "repository backend: cli, library or mock")
	fs.String("view", envOrDefault(env, envView, string(action.ListStashes)), "list shown first: stashes or branches")
	fs.Float64("tick-rate", envOrFloat(env, envTickRate, defaultTickRate), "ticks per second")
	fs.Float64("frame-rate", envOrFloat(env, envFrameRate, defaultFrameRate), "frames per second")
	fs.Duration("watch", envOrDuration(env, envWatch, defaultWatch), "repository poll interval (0 disables)")
	fs.String("keymap", envOrDefault(env, envKeymap, keymap.ConfigPath(environ)), "path to a TOML or YAML keymap file")
	fs.Bool("confirm-bulk", envOrBool(env, envConfirmBulk, false), "ask before deleting all staged items")
	fs.Bool("no-color", envOrBool(env, envNoColor, false), "disable colors")
	fs.Bool("trace", envOrBool(env, envTrace, false), "enable verbose JSON trace logging")
	fs.String("log-file", envOrDefault(env, envLogFile, defaultLogFile), "path to the log file")
	return fs
}

// Load parses configuration from CLI arguments and environment variables.
func Load() (Config, error) {
	return LoadArgs(os.Args[1:], os.Environ())
}

// LoadArgs allows tests to supply specific args/environment.
func LoadArgs(args []string, environ []string) (Config, error) {
	fs := NewFlagSet(environ)
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	if rest := fs.Args(); len(rest) > 0 {
		return Config{}, fmt.Errorf("unexpected arguments: %s", strings.Join(rest, " "))
	}
	cfg, err := FromFlags(fs)
	if err != nil {
		return Config{}, err
	}
	cfg.Args = append([]string(nil), args...)
	return cfg, nil
}

// FromFlags reads a parsed flag set built by NewFlagSet.
func FromFlags(fs *pflag.FlagSet) (Config, error) {
	var errs []error
	str := func(name string) string {
		v, err := fs.GetString(name)
		errs = append(errs, err)
		return v
	}
	boolean := func(name string) bool {
		v, err := fs.GetBool(name)
		errs = append(errs, err)
		return v
	}
	float := func(name string) float64 {
		v, err := fs.GetFloat64(name)
		errs = append(errs, err)
		return v
	}

	watch, err := fs.GetDuration("watch")
	errs = append(errs, err)
	cfg := Config{
		App: app.Config{
			RepoPath:    str("repo"),
			Backend:     str("backend"),
			View:        str("view"),
			TickRate:    float("tick-rate"),
			FrameRate:   float("frame-rate"),
			Watch:       watch,
			KeymapPath:  str("keymap"),
			ConfirmBulk: boolean("confirm-bulk"),
			NoColor:     boolean("no-color"),
		},
		Logging: Logging{
			FilePath: str("log-file"),
			Trace:    boolean("trace"),
		},
	}
	if err := errors.Join(errs...); err != nil {
		return Config{}, err
	}

	cfg.Flags = map[string]string{}
	fs.VisitAll(func(f *pflag.Flag) {
		cfg.Flags[f.Name] = f.Value.String()
	})
	return cfg, nil
}

func parseEnv(environ []string) map[string]string {
	values := make(map[string]string, len(environ))
	for _, entry := range environ {
		key, value, ok := strings.Cut(entry, "=")
		if !ok || key == "" {
			continue
		}
		values[key] = value
	}
	return values
}

func envOrDefault(env map[string]string, key, fallback string) string {
	if v, ok := env[key]; ok {
		return v
	}
	return fallback
}

func envOrFloat(env map[string]string, key string, fallback float64) float64 {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func envOrDuration(env map[string]string, key string, fallback time.Duration) time.Duration {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(strings.TrimSpace(v))
	if err != nil {
		return fallback
	}
	return parsed
}

func envOrBool(env map[string]string, key string, fallback bool) bool {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}

// Validate reports every invalid setting at once.
func Validate(cfg Config) error {
	var errs []error
	if cfg.App.TickRate <= 0 {
		errs = append(errs, fmt.Errorf("tick-rate must be > 0 (got %g)", cfg.App.TickRate))
	}
	if cfg.App.FrameRate <= 0 {
		errs = append(errs, fmt.Errorf("frame-rate must be > 0 (got %g)", cfg.App.FrameRate))
	}
	if cfg.App.Watch < 0 {
		errs = append(errs, fmt.Errorf("watch must be >= 0 (got %s)", cfg.App.Watch))
	}
	if _, err := git.ParseBackend(cfg.App.Backend); err != nil {
		errs = append(errs, err)
	}
	switch action.ListID(cfg.App.View) {
	case action.ListStashes, action.ListBranches:
	default:
		errs = append(errs, fmt.Errorf("unknown view %q (expected stashes or branches)", cfg.App.View))
	}
	return errors.Join(errs...)
}
