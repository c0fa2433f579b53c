package input

import (
	"sync"
	"time"
)

// DefaultTouchWindow is the interval within which a repeated touch on the same
// target counts as the same gesture.
const DefaultTouchWindow = 300 * time.Millisecond

// Debouncer suppresses a second activation on the same target inside window.
type Debouncer struct {
	window time.Duration

	mu   sync.Mutex
	last map[string]time.Time
}

// NewDebouncer returns a debouncer; a non-positive window disables it.
func NewDebouncer(window time.Duration) *Debouncer {
	return &Debouncer{window: window, last: make(map[string]time.Time)}
}

// Allow records a touch on target at and reports whether it should be
// processed, together with the time since the previous touch on target.
// A suppressed touch does not extend the window.
func (d *Debouncer) Allow(target string, at time.Time) (bool, time.Duration) {
	if d == nil || d.window <= 0 {
		return true, 0
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	prev, seen := d.last[target]
	if seen {
		since := at.Sub(prev)
		if since >= 0 && since < d.window {
			return false, since
		}
		d.last[target] = at
		return true, since
	}
	d.last[target] = at
	return true, 0
}

// Reset forgets all recorded touches.
func (d *Debouncer) Reset() {
	if d == nil {
		return
	}
	d.mu.Lock()
	d.last = make(map[string]time.Time)
	d.mu.Unlock()
}
