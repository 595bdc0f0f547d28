package cache

import "sync"

// memoryTier is the bounded in-process tier. It is the durability floor for
// the lifetime of the process: writes always land here, entries carry no TTL
// and leave only through capacity-based eviction.
type memoryTier struct {
	mu       sync.Mutex
	capacity int
	entries  map[string][]byte
	order    []string // insertion order, oldest first
}

func newMemoryTier(capacity int) *memoryTier {
	if capacity <= 0 {
		capacity = DefaultMaxEntries
	}
	return &memoryTier{
		capacity: capacity,
		entries:  make(map[string][]byte),
	}
}

func (m *memoryTier) get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.entries[key]
	return v, ok
}

// set inserts a value, evicting the oldest 25% of entries by insertion order
// when the tier is at capacity. Overwrites keep the key's original position.
func (m *memoryTier) set(key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.entries[key]; ok {
		m.entries[key] = value
		return
	}

	if len(m.entries) >= m.capacity {
		n := m.capacity / 4
		if n < 1 {
			n = 1
		}
		if n > len(m.order) {
			n = len(m.order)
		}
		for _, k := range m.order[:n] {
			delete(m.entries, k)
		}
		m.order = m.order[n:]
	}

	m.entries[key] = value
	m.order = append(m.order, key)
}

func (m *memoryTier) len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

func (m *memoryTier) clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = make(map[string][]byte)
	m.order = nil
}
