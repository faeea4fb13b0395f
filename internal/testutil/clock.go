package testutil

import (
	"sync"
	"time"

	"github.com/roach88/minelog/internal/record"
)

// DefaultEpoch is the first instant returned by a clock built with NewClock.
var DefaultEpoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// DeterministicClock is a thread-safe fake clock for tests.
//
// Each call to Now returns the next instant, advancing by a fixed step, so a
// scenario produces the same timestamps on every run.
type DeterministicClock struct {
	mu    sync.Mutex
	start time.Time
	step  time.Duration
	calls int64
}

// NewDeterministicClock creates a clock whose first Now() returns start and
// each later call returns the previous value plus step.
func NewDeterministicClock(start time.Time, step time.Duration) *DeterministicClock {
	return &DeterministicClock{start: start, step: step}
}

// NewClock creates a clock starting at DefaultEpoch with a one-second step.
func NewClock() *DeterministicClock {
	return NewDeterministicClock(DefaultEpoch, time.Second)
}

// Now returns the next instant. Its signature matches time.Now.
func (c *DeterministicClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.start.Add(time.Duration(c.calls) * c.step)
	c.calls++
	return t
}

// Timestamp returns the next instant formatted as a record timestamp.
func (c *DeterministicClock) Timestamp() string {
	return record.FormatTimestamp(c.Now())
}

// Calls returns how many instants have been handed out.
func (c *DeterministicClock) Calls() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

// Reset rewinds the clock so the next Now() returns start again.
func (c *DeterministicClock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = 0
}
