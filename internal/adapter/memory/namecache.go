package memory

import (
	"sync"
	"time"
)

// NameCache is a mutex-guarded user id -> display name cache with a TTL.
// It only exists to avoid hammering the user lookup API when the same
// authors show up across mention events; callers must tolerate misses.
type NameCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]entry
	now     func() time.Time
}

type entry struct {
	name     string
	storedAt time.Time
}

func NewNameCache(ttl time.Duration) *NameCache {
	return &NameCache{
		ttl:     ttl,
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

func (c *NameCache) Get(userID string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[userID]
	if !ok {
		return "", false
	}
	if c.ttl > 0 && c.now().Sub(e.storedAt) > c.ttl {
		delete(c.entries, userID)
		return "", false
	}
	return e.name, true
}

func (c *NameCache) Put(userID, name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[userID] = entry{name: name, storedAt: c.now()}
}
