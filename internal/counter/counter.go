package counter

import "sync"

// Counter is a small thread-safe tally. The archive pipeline itself is
// sequential, but the TTY render loop reads counts from another goroutine.
type Counter struct {
	mu    sync.Mutex
	total int
}

func NewCounter() *Counter {
	return &Counter{}
}

// Add adds a value to the counter safely
func (c *Counter) Add(value int) {
	c.mu.Lock()
	c.total += value
	c.mu.Unlock()
}

// Count returns the current count safely
func (c *Counter) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.total
}
