package scheduler

import (
	"context"
	"sync"
	"time"
)

// Timer is a recurring interval timer driving one site's scrape job. Stop
// prevents future ticks; it does not interrupt a job already in flight.
// Stop is terminal: a stopped timer never starts again, even when Stop
// lands before Start.
type Timer struct {
	interval time.Duration

	mu      sync.Mutex
	stop    chan struct{}
	stopped bool
}

// NewTimer builds a timer for the given interval.
func NewTimer(interval time.Duration) *Timer {
	return &Timer{interval: interval}
}

// Start begins ticking and invokes job on every tick until Stop or context
// cancellation. Repeated Start calls are no-ops while running.
func (t *Timer) Start(ctx context.Context, job func(time.Time)) {
	if job == nil {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped || t.stop != nil {
		return
	}

	stop := make(chan struct{})
	t.stop = stop

	go func() {
		ticker := time.NewTicker(t.interval)
		defer ticker.Stop()
		for {
			select {
			case tick := <-ticker.C:
				job(tick)
			case <-ctx.Done():
				return
			case <-stop:
				return
			}
		}
	}()
}

// Stop halts the ticker goroutine; safe to call when not started, in which
// case a later Start stays a no-op.
func (t *Timer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopped = true
	if t.stop == nil {
		return
	}
	close(t.stop)
	t.stop = nil
}
