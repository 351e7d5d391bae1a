package keymap

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestDefaultBindings(t *testing.T) {
	km := Default()
	tests := []struct {
		mode Mode
		seq  []string
		want Action
		ok   bool
	}{
		{ModeDefault, []string{"q"}, ActionQuit, true},
		{ModeDefault, []string{"tab"}, ActionToggleView, true},
		{ModeDefault, []string{"g", "r"}, ActionRefresh, true},
		{ModeInput, []string{"q"}, "", false},
		{ModeInput, []string{"ctrl+c"}, ActionQuit, true},
		{ModeError, []string{"tab"}, "", false},
	}
	for _, tt := range tests {
		got, ok := km.Lookup(tt.mode, tt.seq...)
		if ok != tt.ok || got != tt.want {
			t.Fatalf("Lookup(%s, %v) = %q/%v, want %q/%v", tt.mode, tt.seq, got, ok, tt.want, tt.ok)
		}
	}
}

func TestLoadFromMissingFileReturnsDefaults(t *testing.T) {
	km, err := LoadFrom(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if _, ok := km.Lookup(ModeDefault, "q"); !ok {
		t.Fatal("expected default q binding")
	}
}

func TestLoadFromTOML(t *testing.T) {
	path := writeFile(t, "keymap.toml", `
[default]
q = "unbind"
"ctrl+q" = "quit"
"g  g" = "refresh"
`)
	km, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if _, ok := km.Lookup(ModeDefault, "q"); ok {
		t.Fatal("expected q to be unbound")
	}
	if got, _ := km.Lookup(ModeDefault, "ctrl+q"); got != ActionQuit {
		t.Fatalf("expected ctrl+q to quit, got %q", got)
	}
	if got, _ := km.Lookup(ModeDefault, "g", "g"); got != ActionRefresh {
		t.Fatalf("expected g g to refresh, got %q", got)
	}
}

func TestLoadFromYAML(t *testing.T) {
	path := writeFile(t, "keymap.yaml", "input:\n  esc: quit\n")
	km, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if got, _ := km.Lookup(ModeInput, "esc"); got != ActionQuit {
		t.Fatalf("expected esc to quit in input mode, got %q", got)
	}
}

func TestLoadFromCollectsErrors(t *testing.T) {
	path := writeFile(t, "keymap.toml", `
[visual]
v = "quit"

[default]
x = "explode"
`)
	_, err := LoadFrom(path)
	if err == nil {
		t.Fatal("expected error")
	}
	for _, want := range []string{`unknown mode "visual"`, `unknown action "explode"`} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("expected error to mention %s, got %v", want, err)
		}
	}
}

func TestConfigPathPrefersXDG(t *testing.T) {
	got := ConfigPath([]string{"XDG_CONFIG_HOME=/tmp/xdg"})
	want := filepath.Join("/tmp/xdg", "git-branch-control", "keymap.toml")
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}
