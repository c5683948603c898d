package viewmode

import (
	"sync"
	"time"
)

// DefaultDebounce is the quiet interval before a search term is applied.
const DefaultDebounce = 300 * time.Millisecond

// Debouncer delays a callback until input has been quiet for an interval.
// Each Trigger cancels the pending call and reschedules it. A term equal
// to the last delivered one is dropped.
type Debouncer struct {
	timer     *time.Timer
	fn        func(term string)
	last      string
	interval  time.Duration
	gen       uint64
	delivered bool
	mu        sync.Mutex
}

// NewDebouncer creates a debouncer calling fn. A zero interval uses DefaultDebounce.
func NewDebouncer(interval time.Duration, fn func(term string)) *Debouncer {
	if interval <= 0 {
		interval = DefaultDebounce
	}
	return &Debouncer{interval: interval, fn: fn}
}

// Trigger schedules term, replacing anything pending.
func (d *Debouncer) Trigger(term string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.timer = time.AfterFunc(d.interval, func() {
		d.fire(gen, term)
	})
}

func (d *Debouncer) fire(gen uint64, term string) {
	d.mu.Lock()
	// A timer that fired while Trigger held the lock is stale.
	if gen != d.gen || (d.delivered && term == d.last) {
		d.mu.Unlock()
		return
	}
	d.delivered = true
	d.last = term
	d.mu.Unlock()

	d.fn(term)
}

// Stop cancels any pending call.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.gen++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
