package store

import (
	"context"
	"sync"
	"time"
)

// MemoryKV supports unit tests and local runs without Redis.
type MemoryKV struct {
	mu    sync.RWMutex
	items map[string]memoryItem
}

type memoryItem struct {
	value     string
	expiresAt time.Time // zero means no expiry
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{items: map[string]memoryItem{}}
}

var _ KV = (*MemoryKV)(nil)

func (m *MemoryKV) Get(_ context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	item, ok := m.items[key]
	if !ok {
		return "", ErrMiss
	}
	if !item.expiresAt.IsZero() && time.Now().After(item.expiresAt) {
		return "", ErrMiss
	}
	return item.value, nil
}

func (m *MemoryKV) Set(_ context.Context, key, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	item := memoryItem{value: value}
	if ttl > 0 {
		item.expiresAt = time.Now().Add(ttl)
	}
	m.items[key] = item
	return nil
}

func (m *MemoryKV) Del(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, key)
	return nil
}
