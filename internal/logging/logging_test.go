package logging

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func useTempLog(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nested", "app.log")
	Configure(path)
	t.Cleanup(func() {
		Configure("")
		SetTraceEnabled(false)
	})
	return path
}

func TestErrorAppendsToConfiguredFile(t *testing.T) {
	path := useTempLog(t)
	Error(errors.New("boom"))
	Error(nil)
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "boom") {
		t.Fatalf("expected error line in log, got %q", string(data))
	}
	if strings.Count(string(data), "\n") != 1 {
		t.Fatalf("expected exactly one line, got %q", string(data))
	}
}

func TestTraceWritesJSONOnlyWhenEnabled(t *testing.T) {
	path := useTempLog(t)
	Trace("ignored", nil)
	if _, err := os.Stat(path); err == nil {
		t.Fatalf("expected no log file while tracing is disabled")
	}
	SetTraceEnabled(true)
	Trace("list.load", map[string]interface{}{"list": "branches"})
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	var entry struct {
		Event   string                 `json:"event"`
		Payload map[string]interface{} `json:"payload"`
	}
	if err := json.Unmarshal(data, &entry); err != nil {
		t.Fatalf("decode trace entry: %v", err)
	}
	if entry.Event != "list.load" {
		t.Fatalf("expected event list.load, got %q", entry.Event)
	}
	if entry.Payload["list"] != "branches" {
		t.Fatalf("expected payload list=branches, got %#v", entry.Payload)
	}
}

func TestConfigureEmptyFallsBackToDefault(t *testing.T) {
	useTempLog(t)
	Configure("  ")
	if got := Path(); got != defaultLogFile {
		t.Fatalf("expected %q, got %q", defaultLogFile, got)
	}
}
