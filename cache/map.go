package cache

import (
	"sync"

	"mew/observability"
)

// Map mirrors a table with one row per primary key, such as per-user settings
type Map[K comparable, V any] struct {
	name  string
	clone func(V) V

	mu    sync.RWMutex
	items map[K]V
}

// NewMap creates an empty map cache. clone deep-copies records that hold
// pointers; nil means plain assignment is enough.
func NewMap[K comparable, V any](name string, clone func(V) V) *Map[K, V] {
	if clone == nil {
		clone = func(v V) V { return v }
	}
	return &Map[K, V]{name: name, clone: clone, items: make(map[K]V)}
}

// Name returns the cache name used in metrics and logs
func (m *Map[K, V]) Name() string {
	return m.name
}

// Get returns a copy of the record stored under k
func (m *Map[K, V]) Get(k K) (V, bool) {
	m.mu.RLock()
	v, ok := m.items[k]
	if ok {
		v = m.clone(v)
	}
	m.mu.RUnlock()

	if ok {
		observability.CacheHitsTotal.WithLabelValues(m.name).Inc()
	} else {
		observability.CacheMissesTotal.WithLabelValues(m.name).Inc()
	}
	return v, ok
}

// Put stores a copy of v under k
func (m *Map[K, V]) Put(k K, v V) {
	v = m.clone(v)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[k] = v
	m.updateSize()
}

// Delete removes the record under k and reports whether one was present
func (m *Map[K, V]) Delete(k K) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.items[k]; !ok {
		return false
	}
	delete(m.items, k)
	m.updateSize()
	return true
}

// Filter returns copies of every record matching pred, in no particular order
func (m *Map[K, V]) Filter(pred func(K, V) bool) []V {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []V
	for k, v := range m.items {
		if pred(k, v) {
			out = append(out, m.clone(v))
		}
	}
	return out
}

// All returns a deep copy of the whole map
func (m *Map[K, V]) All() map[K]V {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[K]V, len(m.items))
	for k, v := range m.items {
		out[k] = m.clone(v)
	}
	return out
}

// Len returns the number of cached records
func (m *Map[K, V]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}

// Reload replaces the cache contents with rows keyed by keyOf
func (m *Map[K, V]) Reload(rows []V, keyOf func(*V) K) {
	items := make(map[K]V, len(rows))
	for i := range rows {
		items[keyOf(&rows[i])] = m.clone(rows[i])
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = items
	m.updateSize()
}

func (m *Map[K, V]) updateSize() {
	observability.CacheEntries.WithLabelValues(m.name).Set(float64(len(m.items)))
}
