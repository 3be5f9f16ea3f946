package app

import (
	"sync"
	"time"
)

// deadlineTimer is a single-shot timer with a fire-once guard: once cancel
// has returned, the callback is guaranteed not to run, even when cancel
// races expiry. Callbacks must still re-check room state because a callback
// that won the race may execute after the caller moved on.
type deadlineTimer struct {
	mu   sync.Mutex
	done bool
	t    *time.Timer
}

func newDeadlineTimer(d time.Duration, fn func()) *deadlineTimer {
	dt := &deadlineTimer{}
	dt.t = time.AfterFunc(d, func() {
		dt.mu.Lock()
		if dt.done {
			dt.mu.Unlock()
			return
		}
		dt.done = true
		dt.mu.Unlock()
		fn()
	})
	return dt
}

func (dt *deadlineTimer) cancel() {
	dt.mu.Lock()
	dt.done = true
	dt.mu.Unlock()
	dt.t.Stop()
}
