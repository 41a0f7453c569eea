// Package debounce rate-limits free-text input into one call per settle period.
package debounce

import (
	"sync"
	"time"
)

// DefaultInterval is the settle interval used for catalog search input
const DefaultInterval = 500 * time.Millisecond

// Debouncer owns at most one armed timer. Every OnInput cancels the pending
// timer and arms a new one under the same lock, so a superseded input can
// never fire: the generation check drops a callback whose Stop lost the race.
type Debouncer struct {
	mu       sync.Mutex
	timer    *time.Timer
	pending  string
	gen      uint64
	stopped  bool
	interval time.Duration
	fire     func(text string)
	inflight sync.WaitGroup
}

// New creates a debouncer that calls fire with the latest input once the
// input has been quiet for interval.
func New(interval time.Duration, fire func(text string)) *Debouncer {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Debouncer{
		interval: interval,
		fire:     fire,
	}
}

// OnInput records new input. The empty string is ordinary input.
func (d *Debouncer) OnInput(text string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}

	d.cancelLocked()

	d.gen++
	gen := d.gen
	d.pending = text
	d.inflight.Add(1)
	d.timer = time.AfterFunc(d.interval, func() {
		defer d.inflight.Done()

		d.mu.Lock()
		current := gen == d.gen && !d.stopped
		if current {
			d.timer = nil
		}
		d.mu.Unlock()

		if current {
			d.fire(text)
		}
	})
}

// Pending reports whether an armed timer has not fired yet.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

// Flush runs the pending call now, on the caller's goroutine, instead of
// waiting for the interval. It does nothing when no call is pending.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	if d.stopped || d.timer == nil {
		d.mu.Unlock()
		return
	}
	text := d.pending
	d.cancelLocked()
	d.mu.Unlock()

	d.fire(text)
}

// Cancel drops any pending call.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cancelLocked()
}

// Stop cancels any pending call, refuses further input and waits for a
// callback that is already running to return.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	d.stopped = true
	d.cancelLocked()
	d.mu.Unlock()

	d.inflight.Wait()
}

func (d *Debouncer) cancelLocked() {
	d.gen++
	if d.timer == nil {
		return
	}
	// A timer that was stopped before firing never runs its callback.
	if d.timer.Stop() {
		d.inflight.Done()
	}
	d.timer = nil
}
