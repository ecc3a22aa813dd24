// Package debounce provides trailing-edge debouncing and leading-edge
// throttling for rapid-fire dispatches (search keystrokes, cart quantity
// taps). Both delay or drop invocations; neither cancels work already in
// flight.
package debounce

import (
	"sync"
	"time"
)

// Debouncer executes a function only after the configured quiet period.
// Rapid successive calls reset the timer.
type Debouncer struct {
	mu       sync.Mutex
	timer    *time.Timer
	duration time.Duration
}

// NewDebouncer creates a debouncer with the given quiet period.
func NewDebouncer(duration time.Duration) *Debouncer {
	return &Debouncer{duration: duration}
}

// Do schedules fn after the quiet period, replacing any pending call.
func (d *Debouncer) Do(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.duration, fn)
}

// Cancel drops any pending call.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// Flush runs fn immediately and drops any pending call.
func (d *Debouncer) Flush(fn func()) {
	d.Cancel()
	fn()
}

// Throttler runs a function at most once per interval, on the leading edge.
// Calls inside the cooldown window are dropped.
type Throttler struct {
	mu       sync.Mutex
	last     time.Time
	interval time.Duration
}

// NewThrottler creates a throttler with the given cooldown interval.
func NewThrottler(interval time.Duration) *Throttler {
	return &Throttler{interval: interval}
}

// Do runs fn now unless a call already ran within the interval. Returns
// whether fn was run.
func (t *Throttler) Do(fn func()) bool {
	t.mu.Lock()
	now := time.Now()
	if !t.last.IsZero() && now.Sub(t.last) < t.interval {
		t.mu.Unlock()
		return false
	}
	t.last = now
	t.mu.Unlock()
	fn()
	return true
}
