// Package countdown implements the payment-window timer: a fixed number of
// one-second ticks ending in a single expiry callback. It is the in-process
// fallback used when the Redis delayed queue is unavailable; the periodic
// scheduler sweep remains the authoritative backstop either way.
package countdown

import (
	"context"
	"sync"
	"time"
)

type Countdown struct {
	interval time.Duration
	onExpire func()

	mu        sync.Mutex
	remaining int
	fired     bool
}

// New creates a countdown of the given number of ticks. The callback fires
// exactly once, when the count reaches zero.
func New(ticks int, interval time.Duration, onExpire func()) *Countdown {
	if interval <= 0 {
		interval = time.Second
	}
	return &Countdown{
		interval:  interval,
		onExpire:  onExpire,
		remaining: ticks,
	}
}

// Start runs the countdown until it expires or ctx is cancelled. It blocks;
// callers run it in a goroutine.
func (c *Countdown) Start(ctx context.Context) {
	if c.tryFire() {
		return
	}

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if c.tick() {
				return
			}
		}
	}
}

// tick decrements and reports whether the countdown finished.
func (c *Countdown) tick() bool {
	c.mu.Lock()
	if c.remaining > 0 {
		c.remaining--
	}
	c.mu.Unlock()
	return c.tryFire()
}

// tryFire invokes the callback if the count is exhausted, at most once.
func (c *Countdown) tryFire() bool {
	c.mu.Lock()
	if c.remaining > 0 {
		c.mu.Unlock()
		return false
	}
	if c.fired {
		c.mu.Unlock()
		return true
	}
	c.fired = true
	c.mu.Unlock()

	if c.onExpire != nil {
		c.onExpire()
	}
	return true
}

// Remaining returns the number of ticks left.
func (c *Countdown) Remaining() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remaining
}

// Expired reports whether the expiry callback has fired.
func (c *Countdown) Expired() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fired
}
