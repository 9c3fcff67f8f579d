package cache

import (
	"context"
	"sync"
	"time"

	"skycast/internal/metrics"
)

type entry struct {
	value  []byte
	expiry time.Time
	size   int
}

// Memory is a size- and TTL-bounded in-memory cache. Entry sizes are the
// serialized byte lengths; when an insert would push the total over maxBytes,
// entries are evicted soonest-expiry-first until it fits. Expired entries are
// dropped lazily on Get and by the periodic Cleanup sweep.
type Memory struct {
	mu sync.RWMutex

	entries    map[string]entry
	totalBytes int

	maxBytes   int
	defaultTTL time.Duration
}

// NewMemory creates a Memory cache with the given byte budget and default
// TTL. maxBytes <= 0 is treated as unlimited.
func NewMemory(maxBytes int, defaultTTL time.Duration) *Memory {
	return &Memory{
		entries:    make(map[string]entry),
		maxBytes:   maxBytes,
		defaultTTL: defaultTTL,
	}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	if !ok {
		return nil, false
	}
	if time.Now().After(e.expiry) {
		m.remove(key)
		return nil, false
	}
	return e.value, true
}

func (m *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) {
	if ttl <= 0 {
		ttl = m.defaultTTL
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// Overwrites must not leak the old entry's accounted size.
	m.remove(key)
	m.ensureSpace(len(value))

	m.entries[key] = entry{
		value:  value,
		expiry: time.Now().Add(ttl),
		size:   len(value),
	}
	m.totalBytes += len(value)
}

func (m *Memory) Delete(_ context.Context, key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.remove(key)
}

func (m *Memory) Clear(_ context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = make(map[string]entry)
	m.totalBytes = 0
}

func (m *Memory) Size(_ context.Context) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// MemoryUsage returns the accounted byte total of all stored entries.
func (m *Memory) MemoryUsage() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.totalBytes
}

// Cleanup removes all expired entries. Expiry is otherwise lazy, so a
// periodic sweep keeps long-idle caches from pinning memory.
func (m *Memory) Cleanup() {
	now := time.Now()

	m.mu.Lock()
	defer m.mu.Unlock()

	for key, e := range m.entries {
		if now.After(e.expiry) {
			m.remove(key)
		}
	}
}

// remove deletes key and releases its accounted size. Callers hold mu.
func (m *Memory) remove(key string) {
	e, ok := m.entries[key]
	if !ok {
		return
	}
	delete(m.entries, key)
	m.totalBytes -= e.size
}

// ensureSpace evicts entries, soonest expiry first, until requiredSize fits
// within the budget. A single entry larger than the whole budget is admitted
// once the cache is empty; refusing it outright would make the key
// uncacheable forever. Callers hold mu.
func (m *Memory) ensureSpace(requiredSize int) {
	if m.maxBytes <= 0 {
		return
	}
	for m.totalBytes+requiredSize > m.maxBytes && len(m.entries) > 0 {
		m.evictSoonest()
	}
}

func (m *Memory) evictSoonest() {
	var victim string
	var victimExpiry time.Time
	first := true

	for key, e := range m.entries {
		if first || e.expiry.Before(victimExpiry) {
			victim = key
			victimExpiry = e.expiry
			first = false
		}
	}

	if !first {
		m.remove(victim)
		metrics.CacheEvictionsTotal.Inc()
	}
}

var _ Cache = (*Memory)(nil)
