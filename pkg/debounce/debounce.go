// Package debounce coalesces bursts of triggers into a single trailing
// invocation after a quiet period.
package debounce

import (
	"sync"
	"time"
)

// Debouncer runs its function once the configured interval has elapsed
// without another Trigger. Safe for concurrent use.
type Debouncer struct {
	interval time.Duration
	fn       func()

	mu    sync.Mutex
	timer *time.Timer
}

// New returns a Debouncer that fires fn after interval of quiet. A
// non-positive interval makes every Trigger fire immediately.
func New(interval time.Duration, fn func()) *Debouncer {
	return &Debouncer{interval: interval, fn: fn}
}

// Trigger arms the timer, replacing any pending fire. Only the trailing
// trigger of a burst results in an invocation.
func (d *Debouncer) Trigger() {
	if d.fn == nil {
		return
	}
	if d.interval <= 0 {
		d.fn()
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.interval, d.fire)
}

func (d *Debouncer) fire() {
	d.mu.Lock()
	armed := d.timer != nil
	d.timer = nil
	d.mu.Unlock()

	if armed {
		d.fn()
	}
}

// Flush fires a pending invocation immediately and disarms the timer.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	armed := d.timer != nil
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.mu.Unlock()

	if armed {
		d.fn()
	}
}

// Cancel disarms a pending invocation without running it.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
