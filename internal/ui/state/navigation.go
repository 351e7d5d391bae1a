package state

// SelectNext moves to the next visible item, wrapping to the first.
func (l *List[T]) SelectNext() bool {
	return l.step(1)
}

// SelectPrevious moves to the previous visible item, wrapping to the last.
func (l *List[T]) SelectPrevious() bool {
	return l.step(-1)
}

func (l *List[T]) step(delta int) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := len(l.visible)
	if n == 0 {
		return false
	}
	pos := l.position()
	if pos < 0 {
		pos = 0
	}
	pos = ((pos+delta)%n + n) % n
	old := l.selected
	l.selected = l.visible[pos]
	return old != l.selected
}

// SelectFirst moves to the first visible item.
func (l *List[T]) SelectFirst() bool {
	return l.moveTo(func(n int) int { return 0 })
}

// SelectLast moves to the last visible item.
func (l *List[T]) SelectLast() bool {
	return l.moveTo(func(n int) int { return n - 1 })
}

// PageUp moves up by one page without wrapping.
func (l *List[T]) PageUp(maxVisible int) bool {
	return l.moveBy(func(n int) int { return -pageSize(n, maxVisible) })
}

// PageDown moves down by one page without wrapping.
func (l *List[T]) PageDown(maxVisible int) bool {
	return l.moveBy(func(n int) int { return pageSize(n, maxVisible) })
}

func (l *List[T]) moveTo(target func(n int) int) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := len(l.visible)
	if n == 0 {
		return false
	}
	old := l.selected
	l.selected = l.visible[target(n)]
	return old != l.selected
}

func (l *List[T]) moveBy(delta func(n int) int) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := len(l.visible)
	if n == 0 {
		return false
	}
	pos := l.position()
	if pos < 0 {
		pos = 0
	}
	pos += delta(n)
	if pos < 0 {
		pos = 0
	}
	if pos >= n {
		pos = n - 1
	}
	old := l.selected
	l.selected = l.visible[pos]
	return old != l.selected
}

func pageSize(total, maxVisible int) int {
	if total == 0 {
		return 0
	}
	size := maxVisible
	if size <= 0 || size > total {
		size = total
	}
	if size < 1 {
		size = 1
	}
	return size
}
