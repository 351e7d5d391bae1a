package action

import (
	"errors"
	"sync"
	"testing"
)

func TestBusPreservesArrivalOrder(t *testing.T) {
	b := NewBus()
	sent := []Action{SelectNext{}, SelectNext{}, StageForDeletion{}, Error{Message: "x"}}
	for _, a := range sent {
		if err := b.Send(a); err != nil {
			t.Fatalf("send: %v", err)
		}
	}
	got := b.TryReceiveAll()
	if len(got) != len(sent) {
		t.Fatalf("expected %d actions, got %d", len(sent), len(got))
	}
	for i := range sent {
		if got[i] != sent[i] {
			t.Fatalf("position %d: expected %#v, got %#v", i, sent[i], got[i])
		}
	}
	if rest := b.TryReceiveAll(); len(rest) != 0 {
		t.Fatalf("expected empty queue after drain, got %d", len(rest))
	}
}

func TestBusDrainIsBoundedToSnapshot(t *testing.T) {
	b := NewBus()
	_ = b.Send(Refresh{})
	batch := b.TryReceiveAll()
	_ = b.Send(Render{})
	if len(batch) != 1 {
		t.Fatalf("expected snapshot of 1, got %d", len(batch))
	}
	if b.Len() != 1 {
		t.Fatalf("expected later send to remain queued, got %d", b.Len())
	}
}

func TestBusSignalsReady(t *testing.T) {
	b := NewBus()
	_ = b.Send(Tick{})
	_ = b.Send(Tick{})
	select {
	case <-b.Ready():
	default:
		t.Fatal("expected ready signal after send")
	}
}

func TestBusConcurrentProducersNeverDrop(t *testing.T) {
	b := NewBus()
	const producers, each = 8, 250
	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < each; i++ {
				_ = b.Send(Tick{})
			}
		}()
	}
	wg.Wait()
	if got := len(b.TryReceiveAll()); got != producers*each {
		t.Fatalf("expected %d actions, got %d", producers*each, got)
	}
}

func TestBusSendAfterClose(t *testing.T) {
	b := NewBus()
	_ = b.Send(Quit{})
	b.Close()
	if err := b.Send(Render{}); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
	if got := b.TryReceiveAll(); len(got) != 1 {
		t.Fatalf("expected queued action to survive close, got %d", len(got))
	}
	select {
	case <-b.Done():
	default:
		t.Fatal("expected done to be closed")
	}
}

func TestName(t *testing.T) {
	if got := Name(CreateBranch{Name: "x"}); got != "CreateBranch" {
		t.Fatalf("expected CreateBranch, got %q", got)
	}
}
