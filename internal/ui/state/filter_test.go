package state

import (
	"reflect"
	"testing"
)

func TestSetFilterTracksSelectionAndRestoresPosition(t *testing.T) {
	l := newTestList("one", "two", "three")
	l.Select(2)
	l.SetFilter("two")

	snap := l.Snapshot()
	if !reflect.DeepEqual(snap.Visible, []int{1}) {
		t.Fatalf("expected only 'two' visible, got %v", snap.Visible)
	}
	if snap.Selected != 1 {
		t.Fatalf("expected selection on 'two', got %d", snap.Selected)
	}
	if l.Len() != 3 {
		t.Fatalf("expected filter to leave items intact, got %d", l.Len())
	}

	l.SetFilter("")
	if l.SelectedIndex() != 2 {
		t.Fatalf("expected selection restored to 2, got %d", l.SelectedIndex())
	}
}

func TestNavigationStaysInsideFilter(t *testing.T) {
	l := newTestList("main", "feat-a", "fix", "feat-b")
	l.SetFilter("feat")
	l.SelectNext()
	if got := l.SelectedIndex(); got != 3 {
		t.Fatalf("expected feat-b, got %d", got)
	}
	l.SelectNext()
	if got := l.SelectedIndex(); got != 1 {
		t.Fatalf("expected wrap to feat-a, got %d", got)
	}
}

func TestFilterWithNoMatchesHasNoSelection(t *testing.T) {
	l := newTestList("main", "a")
	l.SetFilter("zzz")
	if _, ok := l.Selected(); ok {
		t.Fatal("expected no selection when nothing matches")
	}
	if l.SelectNext() {
		t.Fatal("expected no movement with empty visible set")
	}
}

func TestFilterLabels(t *testing.T) {
	labels := []string{"main", "feature/login", "bugfix"}
	if got := FilterLabels(labels, "  "); !reflect.DeepEqual(got, []int{0, 1, 2}) {
		t.Fatalf("expected all labels for blank query, got %v", got)
	}
	if got := FilterLabels(labels, "flog"); !reflect.DeepEqual(got, []int{1}) {
		t.Fatalf("expected fuzzy match on feature/login, got %v", got)
	}
}

func TestBestMatchIndexPrefersExactThenPrefix(t *testing.T) {
	labels := []string{"feature-b", "feat", "main"}
	if got := BestMatchIndex(labels, "FEAT"); got != 1 {
		t.Fatalf("expected exact match index 1, got %d", got)
	}
	if got := BestMatchIndex(labels, "ma"); got != 2 {
		t.Fatalf("expected prefix match index 2, got %d", got)
	}
	if got := BestMatchIndex(nil, "x"); got != -1 {
		t.Fatalf("expected -1 for no labels, got %d", got)
	}
}
