// ABOUTME: Monotonic timestamp source shared by the content services
// ABOUTME: Guarantees UpdatedAt strictly increases across consecutive writes

package content

import (
	"sync"
	"time"
)

// clock hands out strictly increasing UTC timestamps.
type clock struct {
	mu   sync.Mutex
	now  func() time.Time
	last time.Time
}

func newClock() *clock {
	return &clock{now: time.Now}
}

// stamp returns the current time, or one microsecond past the previous stamp when
// the wall clock has not advanced.
func (c *clock) stamp() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	t := c.now().UTC()
	if !t.After(c.last) {
		t = c.last.Add(time.Microsecond)
	}
	c.last = t
	return t
}

// current returns the wall-clock time without advancing the stamp sequence.
func (c *clock) current() time.Time {
	return c.now()
}
