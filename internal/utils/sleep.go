package utils

import (
	"sync/atomic"
	"time"
)

// SleepTick is the granularity at which a cancellable sleep rechecks its running condition.
const SleepTick = 50 * time.Millisecond

// Flag is the shared running flag. The foreground sets or clears it, the worker reads it at
// every suspension point.
type Flag struct {
	v atomic.Bool
}

func (f *Flag) Set()        { f.v.Store(true) }
func (f *Flag) Clear()      { f.v.Store(false) }
func (f *Flag) IsSet() bool { return f.v.Load() }

// TrySet sets the flag only when it was cleared. Returns false when it was already set.
func (f *Flag) TrySet() bool {
	return f.v.CompareAndSwap(false, true)
}

// Clock sleeps in SleepTick slices and returns early as soon as running reports false.
type Clock struct {
	running func() bool
	tick    time.Duration
	sleep   func(time.Duration)
}

func NewClock(running func() bool) *Clock {
	return &Clock{
		running: running,
		tick:    SleepTick,
		sleep:   time.Sleep,
	}
}

// WithSleepFunc replaces the underlying blocking sleep, tests use it to run without wall time.
func (c *Clock) WithSleepFunc(fn func(time.Duration)) *Clock {
	c.sleep = fn
	return c
}

func (c *Clock) Running() bool {
	return c.running()
}

// Sleep blocks for d unless the running condition clears first. It returns true when the full
// duration elapsed.
func (c *Clock) Sleep(d time.Duration) bool {
	if d <= 0 {
		return c.running()
	}

	steps := int(d / c.tick)
	for range steps {
		if !c.running() {
			return false
		}
		c.sleep(c.tick)
	}

	if !c.running() {
		return false
	}
	if rem := d % c.tick; rem > 0 {
		c.sleep(rem)
	}

	return true
}

// SleepSeconds is Sleep for fractional seconds.
func (c *Clock) SleepSeconds(s float64) bool {
	return c.Sleep(time.Duration(s * float64(time.Second)))
}
