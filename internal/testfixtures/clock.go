package testfixtures

import (
	"sync"
	"time"
)

// Clock is a settable time source for services under test. Readings are truncated to whole
// seconds because the store persists Unix seconds, so a value read back from SQLite compares
// equal to the value the clock handed out.
type Clock struct {
	mu   sync.Mutex
	now  time.Time
	step time.Duration
}

// NewClock starts at start, or at ReferenceTime when start is zero.
func NewClock(start time.Time) *Clock {
	if start.IsZero() {
		start = ReferenceTime()
	}
	return &Clock{now: start.UTC().Truncate(time.Second)}
}

// Now returns the current reading and then moves the clock by the configured step.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	current := c.now
	c.now = c.now.Add(c.step)
	return current
}

// NowFunc returns Now for injection into services; a nil clock falls back to time.Now.
func (c *Clock) NowFunc() func() time.Time {
	if c == nil {
		return time.Now
	}
	return c.Now
}

// Advance moves the clock forward by d and returns the new reading.
func (c *Clock) Advance(d time.Duration) time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d).Truncate(time.Second)
	return c.now
}

// AutoAdvance makes every Now call move the clock by step, which gives consecutive scores
// and action items distinct timestamps.
func (c *Clock) AutoAdvance(step time.Duration) *Clock {
	c.mu.Lock()
	c.step = step.Truncate(time.Second)
	c.mu.Unlock()
	return c
}
