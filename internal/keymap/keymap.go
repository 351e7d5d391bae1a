package keymap

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Mode is the application mode a binding table applies to.
type Mode string

const (
	ModeDefault Mode = "default"
	ModeInput   Mode = "input"
	ModeError   Mode = "error"
)

// Action is a loop-level action a key sequence can trigger.
type Action string

const (
	ActionQuit       Action = "quit"
	ActionSuspend    Action = "suspend"
	ActionToggleView Action = "toggle_view"
	ActionRefresh    Action = "refresh"

	// actionUnbind removes a default binding when used in a keymap file.
	actionUnbind Action = "unbind"
)

var knownActions = map[Action]struct{}{
	ActionQuit:       {},
	ActionSuspend:    {},
	ActionToggleView: {},
	ActionRefresh:    {},
}

// Keymap holds per-mode bindings. Keys are key sequences: bubbletea key
// names joined by single spaces, e.g. "ctrl+c" or "g r".
type Keymap struct {
	modes map[Mode]map[string]Action
}

// Default returns the built-in bindings.
func Default() *Keymap {
	return &Keymap{modes: map[Mode]map[string]Action{
		ModeDefault: {
			"q":      ActionQuit,
			"esc":    ActionQuit,
			"ctrl+c": ActionQuit,
			"ctrl+z": ActionSuspend,
			"tab":    ActionToggleView,
			"ctrl+r": ActionRefresh,
			"g r":    ActionRefresh,
		},
		ModeInput: {
			"ctrl+c": ActionQuit,
		},
		ModeError: {
			"ctrl+c": ActionQuit,
		},
	}}
}

// Lookup returns the action bound to seq in mode.
func (k *Keymap) Lookup(mode Mode, seq ...string) (Action, bool) {
	if k == nil || len(seq) == 0 {
		return "", false
	}
	action, ok := k.modes[mode][strings.Join(seq, " ")]
	return action, ok
}

// Bind sets or replaces one binding.
func (k *Keymap) Bind(mode Mode, seq string, action Action) {
	if k.modes == nil {
		k.modes = map[Mode]map[string]Action{}
	}
	if k.modes[mode] == nil {
		k.modes[mode] = map[string]Action{}
	}
	k.modes[mode][normalizeSeq(seq)] = action
}

// Unbind removes a binding.
func (k *Keymap) Unbind(mode Mode, seq string) {
	delete(k.modes[mode], normalizeSeq(seq))
}

// Bindings returns the sequences bound in mode, sorted.
func (k *Keymap) Bindings(mode Mode) []string {
	out := make([]string, 0, len(k.modes[mode]))
	for seq := range k.modes[mode] {
		out = append(out, seq)
	}
	sort.Strings(out)
	return out
}

// ConfigPath returns the default keymap location.
func ConfigPath(environ []string) string {
	for _, kv := range environ {
		if v, ok := strings.CutPrefix(kv, "XDG_CONFIG_HOME="); ok && v != "" {
			return filepath.Join(v, "git-branch-control", "keymap.toml")
		}
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "git-branch-control", "keymap.toml")
}

// LoadFrom reads bindings from path and layers them over the defaults. A
// missing file yields the defaults. Files ending in .yaml or .yml are parsed
// as YAML, anything else as TOML.
func LoadFrom(path string) (*Keymap, error) {
	km := Default()
	if strings.TrimSpace(path) == "" {
		return km, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return km, nil
		}
		return nil, fmt.Errorf("reading keymap: %w", err)
	}

	var raw map[string]map[string]string
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &raw)
	default:
		dec := toml.NewDecoder(bytes.NewReader(data))
		err = dec.Decode(&raw)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing keymap %s: %w", path, err)
	}
	if err := km.apply(raw); err != nil {
		return nil, fmt.Errorf("keymap %s: %w", path, err)
	}
	return km, nil
}

func (k *Keymap) apply(raw map[string]map[string]string) error {
	var errs []error
	for modeName, bindings := range raw {
		mode := Mode(strings.ToLower(modeName))
		switch mode {
		case ModeDefault, ModeInput, ModeError:
		default:
			errs = append(errs, fmt.Errorf("unknown mode %q", modeName))
			continue
		}
		for seq, name := range bindings {
			action := Action(strings.ToLower(strings.TrimSpace(name)))
			if normalizeSeq(seq) == "" {
				errs = append(errs, fmt.Errorf("%s: empty key sequence", mode))
				continue
			}
			if action == actionUnbind {
				k.Unbind(mode, seq)
				continue
			}
			if _, ok := knownActions[action]; !ok {
				errs = append(errs, fmt.Errorf("%s: %q: unknown action %q", mode, seq, name))
				continue
			}
			k.Bind(mode, seq, action)
		}
	}
	return errors.Join(errs...)
}

func normalizeSeq(seq string) string {
	return strings.Join(strings.Fields(seq), " ")
}
