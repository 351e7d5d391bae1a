package dispatcher

import (
	"errors"
	"testing"

	"github.com/atomicstack/git-branch-control/internal/backend"
	"github.com/atomicstack/git-branch-control/internal/ui/action"
)

func TestTimersMapToActions(t *testing.T) {
	d := New()
	tests := []struct {
		kind backend.Kind
		want action.Action
	}{
		{backend.KindTick, action.Tick{}},
		{backend.KindRender, action.Render{}},
	}
	for _, tc := range tests {
		t.Run(tc.kind.String(), func(t *testing.T) {
			res := d.Handle(backend.Event{Kind: tc.kind})
			if len(res.Actions) != 1 || res.Actions[0] != tc.want {
				t.Fatalf("expected %#v, got %#v", tc.want, res.Actions)
			}
		})
	}
}

func TestRepoChangedOnlyOnFingerprintChange(t *testing.T) {
	d := New()
	repo := func(fp string) Result { return d.Handle(backend.Event{Kind: backend.KindRepo, Data: fp}) }

	if res := repo("a"); len(res.Actions) != 0 {
		t.Fatalf("expected baseline to emit nothing, got %#v", res.Actions)
	}
	if res := repo("a"); len(res.Actions) != 0 {
		t.Fatalf("expected unchanged fingerprint to emit nothing, got %#v", res.Actions)
	}
	res := repo("b")
	if len(res.Actions) != 1 || res.Actions[0] != (action.RepoChanged{}) {
		t.Fatalf("expected RepoChanged, got %#v", res.Actions)
	}
}

func TestProbeErrorsReportedOncePerMessage(t *testing.T) {
	d := New()
	boom := errors.New("permission denied")
	if res := d.Handle(backend.Event{Kind: backend.KindRepo, Err: boom}); res.Err == nil {
		t.Fatal("expected first error reported")
	}
	if res := d.Handle(backend.Event{Kind: backend.KindRepo, Err: boom}); res.Err != nil {
		t.Fatalf("expected repeated error suppressed, got %v", res.Err)
	}
	d.Handle(backend.Event{Kind: backend.KindRepo, Data: "fp"})
	if res := d.Handle(backend.Event{Kind: backend.KindRepo, Err: boom}); res.Err == nil {
		t.Fatal("expected error reported again after recovery")
	}
}
