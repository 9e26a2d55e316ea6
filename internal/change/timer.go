package change

import (
	"sync"
	"time"
)

// Timer is a cancellable single-shot timer holding at most one pending
// callback. Scheduling while a callback is pending replaces it.
type Timer struct {
	mu sync.Mutex
	t  *time.Timer
}

// Schedule arranges for fn to run after d, replacing any pending callback.
func (tm *Timer) Schedule(d time.Duration, fn func()) {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	if tm.t != nil {
		tm.t.Stop()
	}
	var t *time.Timer
	t = time.AfterFunc(d, func() {
		tm.mu.Lock()
		// A later Schedule may have replaced this timer between firing and
		// acquiring the lock; only the current one may run its callback.
		current := tm.t == t
		if current {
			tm.t = nil
		}
		tm.mu.Unlock()
		if current {
			fn()
		}
	})
	tm.t = t
}

// Cancel drops the pending callback, if any. It reports whether a callback
// was pending.
func (tm *Timer) Cancel() bool {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	if tm.t == nil {
		return false
	}
	pending := tm.t.Stop()
	tm.t = nil
	return pending
}

// Pending reports whether a callback is scheduled.
func (tm *Timer) Pending() bool {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	return tm.t != nil
}
