package services

import "sync"

// NameCache is a best-effort cache of decrypted customer display names
// keyed by customer id. It is purely an optimization for listing paths:
// a nil cache, a miss, or an eviction at any moment only costs another
// decrypt-and-fetch.
type NameCache struct {
	mu    sync.RWMutex
	names map[string]string
}

func NewNameCache() *NameCache {
	return &NameCache{names: make(map[string]string)}
}

func (c *NameCache) Get(customerID string) (string, bool) {
	if c == nil {
		return "", false
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	name, ok := c.names[customerID]
	return name, ok
}

func (c *NameCache) Put(customerID string, name string) {
	if c == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.names[customerID] = name
}

func (c *NameCache) Evict() {
	if c == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.names = make(map[string]string)
}
