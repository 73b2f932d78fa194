package cache

import (
	"context"
	"sync"
)

// Memory is a process-local page cache used when no Redis host is
// configured, and by tests. Entries never expire on their own; the crawler
// treats anything past the TTL as stale.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

func NewMemory() *Memory {
	return &Memory{entries: make(map[string]Entry)}
}

func (m *Memory) Get(_ context.Context, url string) (*Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	entry, ok := m.entries[Key(url)]
	if !ok {
		return nil, ErrMiss
	}
	return &entry, nil
}

func (m *Memory) Set(_ context.Context, url string, entry *Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[Key(url)] = *entry
	return nil
}

func (m *Memory) Delete(_ context.Context, url string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, Key(url))
	return nil
}

func (m *Memory) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = make(map[string]Entry)
	return nil
}

// Len reports the number of cached entries.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
