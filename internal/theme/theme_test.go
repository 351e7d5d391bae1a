package theme

import (
	"testing"

	"github.com/muesli/termenv"
)

func TestConfigureNoColorUsesASCII(t *testing.T) {
	if got := Configure(true); got != termenv.Ascii {
		t.Fatalf("expected ascii profile, got %v", got)
	}
	if out := Default().Staged.Render("x"); out != "x" {
		t.Fatalf("expected unstyled output, got %q", out)
	}
}

func TestConfigureHonoursNoColorEnv(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	if got := Configure(false); got != termenv.Ascii {
		t.Fatalf("expected ascii profile with NO_COLOR, got %v", got)
	}
}
