package cache

import (
	"sync"

	"mew/observability"
)

// Singleton mirrors a table that holds at most one row
type Singleton[V any] struct {
	name  string
	clone func(V) V

	mu    sync.RWMutex
	value *V
}

// NewSingleton creates an empty singleton cache. clone copies values that
// hold references, such as maps; nil means plain assignment is enough.
func NewSingleton[V any](name string, clone func(V) V) *Singleton[V] {
	if clone == nil {
		clone = func(v V) V { return v }
	}
	return &Singleton[V]{name: name, clone: clone}
}

// Name returns the cache name used in metrics and logs
func (s *Singleton[V]) Name() string {
	return s.name
}

// Get returns a copy of the cached row
func (s *Singleton[V]) Get() (V, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.value == nil {
		observability.CacheMissesTotal.WithLabelValues(s.name).Inc()
		var zero V
		return zero, false
	}
	observability.CacheHitsTotal.WithLabelValues(s.name).Inc()
	return s.clone(*s.value), true
}

// Set replaces the cached row
func (s *Singleton[V]) Set(v V) {
	v = s.clone(v)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.value = &v
	observability.CacheEntries.WithLabelValues(s.name).Set(1)
}

// Clear empties the cache and reports whether a row was present
func (s *Singleton[V]) Clear() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	had := s.value != nil
	s.value = nil
	observability.CacheEntries.WithLabelValues(s.name).Set(0)
	return had
}

// Reload replaces or clears the cached row with what the store returned
func (s *Singleton[V]) Reload(v *V) {
	if v == nil {
		s.Clear()
		return
	}
	s.Set(*v)
}
