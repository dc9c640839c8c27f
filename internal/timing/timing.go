// Package timing provides debounce and throttle wrappers around a single
// pending timer, plus a context-aware sleep.
//
// Each Debouncer or Throttler owns at most one timer; callers keep one
// instance per call site and route every trigger through it.
package timing

import (
	"context"
	"sync"
	"time"
)

// DefaultWait is the window used when a zero wait is given.
const DefaultWait = 500 * time.Millisecond

// Debouncer collapses a burst of calls into one.
//
// In trailing mode (immediate=false) the function of the last call runs
// once the calls have stopped for wait. In immediate mode the first call of
// a burst runs at once and the rest are dropped until wait has passed
// without calls.
type Debouncer struct {
	wait      time.Duration
	immediate bool

	mu    sync.Mutex
	timer *time.Timer
	gen   uint64
}

// NewDebouncer creates a Debouncer. A zero wait means DefaultWait.
func NewDebouncer(wait time.Duration, immediate bool) *Debouncer {
	if wait <= 0 {
		wait = DefaultWait
	}
	return &Debouncer{wait: wait, immediate: immediate}
}

// Call schedules fn according to the debounce mode. A nil fn still resets
// the window.
func (d *Debouncer) Call(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	pending := d.timer != nil
	if pending {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen

	if d.immediate {
		d.timer = time.AfterFunc(d.wait, func() { d.expire(gen) })
		if !pending && fn != nil {
			go fn()
		}
		return
	}

	d.timer = time.AfterFunc(d.wait, func() {
		if d.expire(gen) && fn != nil {
			fn()
		}
	})
}

// Stop cancels a pending trailing call.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.gen++
}

// expire clears the timer of generation gen. A timer that fired while a
// newer Call replaced it reports false.
func (d *Debouncer) expire(gen uint64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if gen != d.gen {
		return false
	}
	d.timer = nil
	return true
}

// Throttler runs at most one function per window.
//
// In immediate mode the call that opens a window runs at once; otherwise
// it runs when the window closes. Calls made while a window is open are
// dropped.
type Throttler struct {
	wait      time.Duration
	immediate bool

	mu     sync.Mutex
	active bool
}

// NewThrottler creates a Throttler. A zero wait means DefaultWait.
func NewThrottler(wait time.Duration, immediate bool) *Throttler {
	if wait <= 0 {
		wait = DefaultWait
	}
	return &Throttler{wait: wait, immediate: immediate}
}

// Call runs or schedules fn if no window is open and reports whether fn
// was accepted.
func (t *Throttler) Call(fn func()) bool {
	t.mu.Lock()
	if t.active {
		t.mu.Unlock()
		return false
	}
	t.active = true
	t.mu.Unlock()

	if t.immediate {
		if fn != nil {
			go fn()
		}
		time.AfterFunc(t.wait, t.close)
		return true
	}

	time.AfterFunc(t.wait, func() {
		t.close()
		if fn != nil {
			fn()
		}
	})
	return true
}

func (t *Throttler) close() {
	t.mu.Lock()
	t.active = false
	t.mu.Unlock()
}

// Sleep pauses for d or until ctx is done, returning ctx.Err() in the
// latter case.
func Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
