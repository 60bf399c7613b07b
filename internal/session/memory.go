package session

import (
	"context"
	"sync"
	"time"
)

// Memory is a process local Store. Expired entries are dropped lazily, at
// most once per sweep interval.
type Memory struct {
	mu         sync.RWMutex
	ttl        time.Duration
	sweepEvery time.Duration
	lastSweep  time.Time
	now        func() time.Time
	entries    map[string]memoryEntry
}

type memoryEntry struct {
	entry   Entry
	expires time.Time
}

// NewMemory returns a store keeping entries for ttl. A ttl <= 0 keeps them
// forever.
func NewMemory(ttl time.Duration) *Memory {
	return &Memory{
		ttl:        ttl,
		sweepEvery: ttl,
		now:        time.Now,
		entries:    make(map[string]memoryEntry),
	}
}

func (m *Memory) Save(_ context.Context, id string, e Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	var expires time.Time
	if m.ttl > 0 {
		expires = now.Add(m.ttl)
	}
	m.entries[id] = memoryEntry{entry: e, expires: expires}
	if m.sweepEvery > 0 && now.Sub(m.lastSweep) >= m.sweepEvery {
		m.sweep()
		m.lastSweep = now
	}
	return nil
}

func (m *Memory) Load(_ context.Context, id string) (Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	me, ok := m.entries[id]
	if !ok || m.expired(me) {
		return Entry{}, ErrNotFound
	}
	return me.entry, nil
}

func (m *Memory) Close() error {
	return nil
}

func (m *Memory) expired(me memoryEntry) bool {
	return !me.expires.IsZero() && !m.now().Before(me.expires)
}

// sweep must be called with the write lock held.
func (m *Memory) sweep() {
	for id, me := range m.entries {
		if m.expired(me) {
			delete(m.entries, id)
		}
	}
}
