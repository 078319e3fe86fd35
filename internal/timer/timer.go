// Package timer provides the per-question countdown used by quiz sessions.
package timer

import (
	"sync"
	"time"
)

// Handle cancels a scheduled callback.
type Handle interface {
	Stop() bool
}

// Scheduler runs f once after d. time.AfterFunc is the production implementation.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Handle
}

type realScheduler struct{}

func (realScheduler) AfterFunc(d time.Duration, f func()) Handle {
	return time.AfterFunc(d, f)
}

// Countdown is a restartable single-shot timer. Every Start and Stop advances an epoch
// counter; a callback only runs if its epoch is still current when it fires, so a
// superseded countdown can never expire into the next question.
type Countdown struct {
	mu        sync.Mutex
	scheduler Scheduler
	now       func() time.Time
	epoch     uint64
	handle    Handle
	deadline  time.Time
}

type Option func(*Countdown)

// WithScheduler replaces time.AfterFunc, mainly for tests.
func WithScheduler(s Scheduler) Option {
	return func(c *Countdown) { c.scheduler = s }
}

// WithClock replaces time.Now for Remaining.
func WithClock(now func() time.Time) Option {
	return func(c *Countdown) { c.now = now }
}

func New(opts ...Option) *Countdown {
	c := &Countdown{scheduler: realScheduler{}, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start resets the countdown and schedules onExpire after d. It returns the epoch
// identifying this countdown.
func (c *Countdown) Start(d time.Duration, onExpire func()) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cancelLocked()
	epoch := c.epoch
	c.deadline = c.now().Add(d)
	c.handle = c.scheduler.AfterFunc(d, func() { c.fire(epoch, onExpire) })
	return epoch
}

// Stop cancels the running countdown, if any.
func (c *Countdown) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cancelLocked()
}

// Remaining reports the time left on the current countdown, zero when none is running.
func (c *Countdown) Remaining() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.handle == nil {
		return 0
	}
	if left := c.deadline.Sub(c.now()); left > 0 {
		return left
	}
	return 0
}

// Epoch returns the current epoch. It changes on every Start, Stop and expiry.
func (c *Countdown) Epoch() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.epoch
}

func (c *Countdown) cancelLocked() {
	c.epoch++
	if c.handle != nil {
		c.handle.Stop()
		c.handle = nil
	}
}

func (c *Countdown) fire(epoch uint64, onExpire func()) {
	c.mu.Lock()
	if epoch != c.epoch {
		c.mu.Unlock()
		return
	}
	c.epoch++
	c.handle = nil
	c.mu.Unlock()

	onExpire()
}
