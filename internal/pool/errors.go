package pool

import "sync"

// ErrorCollector keeps the first non-nil error reported by concurrent tasks.
// The zero value is ready to use.
type ErrorCollector struct {
	once sync.Once
	mu   sync.RWMutex
	err  error
}

// SetError records err if it is the first non-nil error.
func (c *ErrorCollector) SetError(err error) {
	if err == nil {
		return
	}
	c.once.Do(func() {
		c.mu.Lock()
		c.err = err
		c.mu.Unlock()
	})
}

// Err returns the recorded error, or nil.
func (c *ErrorCollector) Err() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.err
}
