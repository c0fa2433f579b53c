package backend

import (
	"context"
	"sync"
	"time"
)

// throttle spaces out reparses so a burst of writes to the page (editors
// often save in several steps) turns into one reload.
type throttle struct {
	interval time.Duration
	now      func() time.Time

	mu   sync.Mutex
	next time.Time
}

func newThrottle(interval time.Duration, now func() time.Time) *throttle {
	if now == nil {
		now = time.Now
	}
	if interval <= 0 {
		return &throttle{now: now}
	}
	return &throttle{interval: interval, now: now}
}

// wait blocks until the next slot opens. It returns false if ctx ends first.
func (t *throttle) wait(ctx context.Context) bool {
	if t == nil || t.interval <= 0 {
		return ctx.Err() == nil
	}
	for {
		t.mu.Lock()
		now := t.now()
		wait := t.next.Sub(now)
		if wait <= 0 {
			t.next = now.Add(t.interval)
			t.mu.Unlock()
			return true
		}
		t.mu.Unlock()
		if wait > t.interval {
			wait = t.interval
		}
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return false
		case <-timer.C:
		}
	}
}
