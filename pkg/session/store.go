package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/matzehuels/tornado/pkg/cache"
)

// MemoryStore keeps sessions in a map guarded by a mutex.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]*Session)}
}

// Get returns a copy of the stored session.
func (m *MemoryStore) Get(_ context.Context, id string) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok || s.IsExpired() {
		return nil, ErrNotFound
	}
	cp := *s
	return &cp, nil
}

// Set stores a copy of s.
func (m *MemoryStore) Set(_ context.Context, s *Session) error {
	cp := *s
	m.mu.Lock()
	m.sessions[s.ID] = &cp
	m.mu.Unlock()
	return nil
}

// Delete removes a session.
func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
	return nil
}

// Cleanup removes expired sessions.
func (m *MemoryStore) Cleanup(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, s := range m.sessions {
		if s.IsExpired() {
			delete(m.sessions, id)
		}
	}
	return nil
}

// Len returns the number of stored sessions, expired ones included.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// CacheStore keeps sessions as JSON in a cache backend. Expiry is delegated
// to the backend through the entry TTL.
type CacheStore struct {
	cache cache.Cache
	keyer cache.Keyer
}

// NewCacheStore stores sessions in c under keys from keyer. A nil keyer
// means [cache.DefaultKeyer].
func NewCacheStore(c cache.Cache, keyer cache.Keyer) *CacheStore {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	return &CacheStore{cache: c, keyer: keyer}
}

// Get loads and decodes a session.
func (c *CacheStore) Get(ctx context.Context, id string) (*Session, error) {
	data, ok, err := c.cache.Get(ctx, c.keyer.SessionKey(id))
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	if !ok {
		return nil, ErrNotFound
	}
	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse session: %w", err)
	}
	if s.IsExpired() {
		return nil, ErrNotFound
	}
	return &s, nil
}

// Set encodes and stores a session until its expiry time.
func (c *CacheStore) Set(ctx context.Context, s *Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	ttl := time.Until(s.ExpiresAt)
	if ttl <= 0 {
		return c.Delete(ctx, s.ID)
	}
	return c.cache.Set(ctx, c.keyer.SessionKey(s.ID), data, ttl)
}

// Delete removes a session.
func (c *CacheStore) Delete(ctx context.Context, id string) error {
	return c.cache.Delete(ctx, c.keyer.SessionKey(id))
}

// Cleanup is a no-op; the cache backend expires entries itself.
func (c *CacheStore) Cleanup(context.Context) error { return nil }

var (
	_ Store = (*MemoryStore)(nil)
	_ Store = (*CacheStore)(nil)
)
