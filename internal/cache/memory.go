package cache

import (
	"context"
	"sync"
	"time"

	"github.com/saviobatista/launch-tracker/internal/types"
)

type entry struct {
	resp      types.CachedResponse
	expiresAt time.Time
}

// Memory is a process-local response cache with per-entry expiry
type Memory struct {
	entries map[string]entry
	now     func() time.Time
	mu      sync.RWMutex
}

// NewMemory creates an empty in-memory cache
func NewMemory() *Memory {
	return &Memory{
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// GetResponse returns the cached response for path, or nil when absent or expired
func (m *Memory) GetResponse(ctx context.Context, path string) (*types.CachedResponse, error) {
	m.mu.RLock()
	e, ok := m.entries[path]
	m.mu.RUnlock()

	if !ok {
		return nil, nil
	}
	if !e.expiresAt.IsZero() && !m.now().Before(e.expiresAt) {
		m.mu.Lock()
		delete(m.entries, path)
		m.mu.Unlock()
		return nil, nil
	}

	resp := e.resp
	resp.Body = append([]byte(nil), e.resp.Body...)
	return &resp, nil
}

// StoreResponse caches resp for ttl. A non-positive ttl never expires.
func (m *Memory) StoreResponse(ctx context.Context, resp *types.CachedResponse, ttl time.Duration) error {
	e := entry{resp: *resp}
	e.resp.Body = append([]byte(nil), resp.Body...)
	if ttl > 0 {
		e.expiresAt = m.now().Add(ttl)
	}

	m.mu.Lock()
	m.entries[resp.Path] = e
	m.mu.Unlock()
	return nil
}

// Len returns the number of entries, expired ones included
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// Close drops every entry
func (m *Memory) Close() error {
	m.mu.Lock()
	m.entries = make(map[string]entry)
	m.mu.Unlock()
	return nil
}
