package session

import "sync/atomic"

// Clock is a monotonic logical clock for message ordering.
//
// Messages are stamped with strictly increasing seq numbers instead of
// wall-clock timestamps, so stored history replays in an unambiguous
// order regardless of when or where it was recorded.
//
// Thread-safety: safe for concurrent use (atomic operations), though a
// Session serializes callers anyway.
type Clock struct {
	seq atomic.Int64
}

// NewClock creates a clock starting at 0; the first Next returns 1.
func NewClock() *Clock {
	return &Clock{}
}

// NewClockAt creates a clock resuming from a specific sequence number.
// Used when reattaching to a stored session.
func NewClockAt(start int64) *Clock {
	c := &Clock{}
	c.seq.Store(start)
	return c
}

// Next returns the next sequence number and increments the clock.
func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the current sequence number without incrementing.
func (c *Clock) Current() int64 {
	return c.seq.Load()
}
