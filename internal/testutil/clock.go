package testutil

import (
	"sync"
	"time"
)

// Epoch is the first instant returned by a SteppingClock.
var Epoch = time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)

// SteppingClock is a deterministic wall clock for tests: each call to Now
// returns one second later than the previous one, starting at Epoch.
//
// Thread-safety: all methods are safe for concurrent use.
type SteppingClock struct {
	mu    sync.Mutex
	ticks int64
}

// NewSteppingClock creates a clock whose first Now is Epoch.
func NewSteppingClock() *SteppingClock {
	return &SteppingClock{}
}

// Now returns the next instant.
func (c *SteppingClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := Epoch.Add(time.Duration(c.ticks) * time.Second)
	c.ticks++
	return t
}

// Reset makes the next Now return Epoch again.
func (c *SteppingClock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ticks = 0
}
