package session

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps encoded sessions in process with a sliding TTL.
type MemoryStore struct {
	mu  sync.RWMutex
	ttl time.Duration
	m   map[string]entry
}

type entry struct {
	val []byte
	exp time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	return &MemoryStore{
		ttl: ttl,
		m:   make(map[string]entry),
	}
}

func (c *MemoryStore) Load(_ context.Context, id string) (*Session, error) {
	now := time.Now()
	c.mu.RLock()
	e, ok := c.m[id]
	c.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}

	if now.After(e.exp) {
		c.mu.Lock()
		delete(c.m, id)
		c.mu.Unlock()
		return nil, ErrNotFound
	}

	return decode(e.val)
}

func (c *MemoryStore) Save(_ context.Context, s *Session) error {
	b, err := encode(s)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.m[s.ID] = entry{val: b, exp: time.Now().Add(c.ttl)}
	c.mu.Unlock()

	s.MarkSaved()
	return nil
}

func (c *MemoryStore) Delete(_ context.Context, id string) error {
	c.mu.Lock()
	delete(c.m, id)
	c.mu.Unlock()
	return nil
}

func (c *MemoryStore) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.m)
}
