package exchange

import (
	"errors"
	"fmt"
	"maps"
	"sort"
	"sync"
)

// Container is a thread-safe registry of clients keyed by account name,
// for programs that trade with several API keys at once.
type Container struct {
	mu        sync.RWMutex
	exchanges map[string]Exchange
}

// NewContainer creates and returns a new empty container.
func NewContainer() *Container {
	return &Container{
		exchanges: make(map[string]Exchange),
	}
}

// Register adds a client under name. An existing entry is replaced and returned.
func (c *Container) Register(name string, ex Exchange) Exchange {
	c.mu.Lock()
	defer c.mu.Unlock()
	prev := c.exchanges[name]
	c.exchanges[name] = ex
	return prev
}

// Get retrieves a client by name.
func (c *Container) Get(name string) (Exchange, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	ex, exists := c.exchanges[name]
	if !exists {
		return nil, fmt.Errorf("account %q not found", name)
	}
	return ex, nil
}

// Names returns the registered names in sorted order.
func (c *Container) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, 0, len(c.exchanges))
	for name := range c.exchanges {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Snapshot returns a copy of the registry for iteration without holding the lock.
func (c *Container) Snapshot() map[string]Exchange {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return maps.Clone(c.exchanges)
}

// Unregister removes a client without closing it.
func (c *Container) Unregister(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.exchanges, name)
}

// Exists checks whether a client is registered under name.
func (c *Container) Exists(name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, exists := c.exchanges[name]
	return exists
}

// Close closes every client and empties the container.
func (c *Container) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var errs []error
	for name, ex := range c.exchanges {
		if err := ex.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s: %w", name, err))
		}
	}
	c.exchanges = make(map[string]Exchange)
	return errors.Join(errs...)
}
