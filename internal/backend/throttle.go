package backend

import (
	"sync"
	"time"
)

// throttle ensures a minimum interval between successive operations. The
// interval doubles on each backoff up to max and returns to base on reset.
type throttle struct {
	base     time.Duration
	max      time.Duration
	interval time.Duration

	mu   sync.Mutex
	next time.Time
}

func newThrottle(interval, max time.Duration) *throttle {
	if interval <= 0 {
		return &throttle{}
	}
	if max < interval {
		max = interval
	}
	return &throttle{base: interval, max: max, interval: interval}
}

func (t *throttle) wait() {
	if t == nil || t.base <= 0 {
		return
	}
	for {
		t.mu.Lock()
		wait := time.Until(t.next)
		if wait <= 0 {
			t.next = time.Now().Add(t.interval)
			t.mu.Unlock()
			return
		}
		interval := t.interval
		t.mu.Unlock()
		if wait > interval {
			wait = interval
		}
		time.Sleep(wait)
	}
}

func (t *throttle) backoff() {
	if t == nil || t.base <= 0 {
		return
	}
	t.mu.Lock()
	t.interval *= 2
	if t.interval > t.max {
		t.interval = t.max
	}
	t.next = time.Now().Add(t.interval)
	t.mu.Unlock()
}

func (t *throttle) reset() {
	if t == nil || t.base <= 0 {
		return
	}
	t.mu.Lock()
	t.interval = t.base
	t.mu.Unlock()
}

func (t *throttle) current() time.Duration {
	if t == nil {
		return 0
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.interval
}
