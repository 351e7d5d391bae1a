package state

import (
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// SetFilter narrows the visible items. Items themselves are untouched.
// The selection jumps to the best match and is restored when the filter
// is cleared.
func (l *List[T]) SetFilter(query string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	trimmed := strings.TrimSpace(query)
	prevTrimmed := strings.TrimSpace(l.filter)
	l.filter = query
	if trimmed != "" && prevTrimmed == "" {
		l.lastCursor = l.selected
	}
	l.visible = l.matching()
	switch {
	case trimmed != "":
		if idx := BestMatchIndex(l.labels(l.visible), trimmed); idx >= 0 {
			l.selected = l.visible[idx]
		}
	case prevTrimmed != "":
		if l.lastCursor >= 0 && l.lastCursor < len(l.items) {
			l.selected = l.lastCursor
		}
		l.lastCursor = -1
	}
	l.settle()
}

// Filter returns the current filter query.
func (l *List[T]) Filter() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.filter
}

func (l *List[T]) labels(indices []int) []string {
	out := make([]string, len(indices))
	for i, idx := range indices {
		out[i] = l.opts.Label(l.items[idx].Item)
	}
	return out
}

func (l *List[T]) matching() []int {
	all := make([]int, len(l.items))
	for i := range l.items {
		all[i] = i
	}
	trimmed := strings.TrimSpace(l.filter)
	if trimmed == "" {
		return all
	}
	matched := FilterLabels(l.labels(all), trimmed)
	out := make([]int, len(matched))
	for i, m := range matched {
		out[i] = all[m]
	}
	return out
}

// FilterLabels returns the indices of labels matching query, in order.
func FilterLabels(labels []string, query string) []int {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		out := make([]int, len(labels))
		for i := range labels {
			out[i] = i
		}
		return out
	}
	ranks := fuzzy.RankFindNormalizedFold(trimmed, labels)
	if len(ranks) > 0 {
		matches := make(map[int]struct{}, len(ranks))
		for _, rank := range ranks {
			matches[rank.OriginalIndex] = struct{}{}
		}
		out := make([]int, 0, len(matches))
		for i := range labels {
			if _, ok := matches[i]; ok {
				out = append(out, i)
			}
		}
		return out
	}
	lower := strings.ToLower(trimmed)
	var out []int
	for i, label := range labels {
		if strings.Contains(strings.ToLower(label), lower) {
			out = append(out, i)
		}
	}
	return out
}

// BestMatchIndex returns the label that best matches query: exact, then
// prefix, then substring, then the closest fuzzy rank.
func BestMatchIndex(labels []string, query string) int {
	if len(labels) == 0 {
		return -1
	}
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return 0
	}
	lower := strings.ToLower(trimmed)
	for i, label := range labels {
		if strings.EqualFold(label, trimmed) {
			return i
		}
	}
	for i, label := range labels {
		if strings.HasPrefix(strings.ToLower(label), lower) {
			return i
		}
	}
	for i, label := range labels {
		if strings.Contains(strings.ToLower(label), lower) {
			return i
		}
	}
	ranks := fuzzy.RankFindNormalizedFold(trimmed, labels)
	if len(ranks) == 0 {
		return 0
	}
	best := ranks[0]
	for _, rank := range ranks[1:] {
		if rank.Distance < best.Distance ||
			(rank.Distance == best.Distance && rank.OriginalIndex < best.OriginalIndex) {
			best = rank
		}
	}
	return best.OriginalIndex
}
