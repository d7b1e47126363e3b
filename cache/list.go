// Package cache holds the in-memory mirrors of the store tables.
//
// Every cache owns its indexes. Records are cloned on the way in and on the
// way out, so nothing outside the package can change a cached record, not even
// through a pointer field, without going through a cache method.
package cache

import (
	"slices"
	"sync"

	"mew/observability"
)

// List keeps records in insertion order alongside a primary index keyed by
// natural key and a per-owner index. All three reference the same *V, so an
// update through one is visible through the others.
//
// Reload replaces the list and leaves the indexes empty. The next lookup sees
// an empty index over a non-empty list and rebuilds both before answering.
type List[K comparable, V any] struct {
	name    string
	keyOf   func(*V) K
	ownerOf func(*V) int64
	clone   func(V) V

	mu     sync.RWMutex
	items  []*V
	index  map[K]*V
	owners map[int64][]*V
}

// NewList creates an empty list cache. clone deep-copies records that hold
// pointers; nil means plain assignment is enough.
func NewList[K comparable, V any](name string, keyOf func(*V) K, ownerOf func(*V) int64, clone func(V) V) *List[K, V] {
	if clone == nil {
		clone = func(v V) V { return v }
	}
	return &List[K, V]{
		name:    name,
		keyOf:   keyOf,
		ownerOf: ownerOf,
		clone:   clone,
		index:   make(map[K]*V),
		owners:  make(map[int64][]*V),
	}
}

// Name returns the cache name used in metrics and logs
func (l *List[K, V]) Name() string {
	return l.name
}

// indexStale reports the reload sentinel: records present but no index yet
func (l *List[K, V]) indexStale() bool {
	return len(l.index) == 0 && len(l.items) > 0
}

// rebuildLocked recomputes both indexes from the list. Caller holds mu.
func (l *List[K, V]) rebuildLocked() {
	l.index = make(map[K]*V, len(l.items))
	l.owners = make(map[int64][]*V)
	for _, p := range l.items {
		l.index[l.keyOf(p)] = p
		owner := l.ownerOf(p)
		l.owners[owner] = append(l.owners[owner], p)
	}
	observability.CacheIndexRebuildsTotal.WithLabelValues(l.name).Inc()
}

// rlock takes the read lock, rebuilding the indexes first when they are stale
func (l *List[K, V]) rlock() {
	l.mu.RLock()
	if !l.indexStale() {
		return
	}
	l.mu.RUnlock()

	l.mu.Lock()
	if l.indexStale() {
		l.rebuildLocked()
	}
	l.mu.Unlock()
	l.mu.RLock()
}

// lockForWrite takes the write lock with indexes in sync with the list
func (l *List[K, V]) lockForWrite() {
	l.mu.Lock()
	if l.indexStale() {
		l.rebuildLocked()
	}
}

// Get returns a copy of the record stored under k
func (l *List[K, V]) Get(k K) (V, bool) {
	l.rlock()
	defer l.mu.RUnlock()

	p, ok := l.index[k]
	if !ok && len(l.index) == 0 {
		// A reload landed between rebuild and read, fall back to a scan
		for _, item := range l.items {
			if l.keyOf(item) == k {
				p, ok = item, true
				break
			}
		}
	}
	l.record(ok)
	if !ok {
		var zero V
		return zero, false
	}
	return l.clone(*p), true
}

// Put stores v under its natural key, replacing any previous record in place
func (l *List[K, V]) Put(v V) {
	l.lockForWrite()
	defer l.mu.Unlock()
	l.putLocked(v)
}

func (l *List[K, V]) putLocked(v V) {
	v = l.clone(v)
	k := l.keyOf(&v)
	if p, ok := l.index[k]; ok {
		oldOwner := l.ownerOf(p)
		*p = v
		if newOwner := l.ownerOf(p); newOwner != oldOwner {
			l.removeOwnerLocked(oldOwner, p)
			l.owners[newOwner] = append(l.owners[newOwner], p)
		}
		return
	}
	p := &v
	l.items = append(l.items, p)
	l.index[k] = p
	owner := l.ownerOf(p)
	l.owners[owner] = append(l.owners[owner], p)
	l.updateSize()
}

// Delete removes the record under k and reports whether one was present
func (l *List[K, V]) Delete(k K) bool {
	l.lockForWrite()
	defer l.mu.Unlock()

	p, ok := l.index[k]
	if !ok {
		return false
	}
	l.removeLocked(k, p)
	l.updateSize()
	return true
}

// DeleteOwner removes every record owned by owner and returns how many went
func (l *List[K, V]) DeleteOwner(owner int64) int {
	l.lockForWrite()
	defer l.mu.Unlock()

	owned := l.owners[owner]
	if len(owned) == 0 {
		return 0
	}
	gone := make(map[*V]struct{}, len(owned))
	for _, p := range owned {
		gone[p] = struct{}{}
		delete(l.index, l.keyOf(p))
	}
	l.items = slices.DeleteFunc(l.items, func(p *V) bool {
		_, ok := gone[p]
		return ok
	})
	delete(l.owners, owner)
	l.updateSize()
	return len(gone)
}

func (l *List[K, V]) removeLocked(k K, p *V) {
	delete(l.index, k)
	if i := slices.Index(l.items, p); i >= 0 {
		l.items = slices.Delete(l.items, i, i+1)
	}
	l.removeOwnerLocked(l.ownerOf(p), p)
}

func (l *List[K, V]) removeOwnerLocked(owner int64, p *V) {
	owned := l.owners[owner]
	if i := slices.Index(owned, p); i >= 0 {
		owned = slices.Delete(owned, i, i+1)
	}
	if len(owned) == 0 {
		delete(l.owners, owner)
		return
	}
	l.owners[owner] = owned
}

// Owned returns copies of the records owned by owner in insertion order
func (l *List[K, V]) Owned(owner int64) []V {
	l.rlock()
	defer l.mu.RUnlock()

	owned := l.owners[owner]
	if len(owned) == 0 && len(l.index) == 0 {
		return l.filterLocked(func(v *V) bool { return l.ownerOf(v) == owner })
	}
	out := make([]V, 0, len(owned))
	for _, p := range owned {
		out = append(out, l.clone(*p))
	}
	return out
}

// Filter returns copies of every record matching pred. pred sees the cached
// record itself and must not modify it.
func (l *List[K, V]) Filter(pred func(*V) bool) []V {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.filterLocked(pred)
}

func (l *List[K, V]) filterLocked(pred func(*V) bool) []V {
	var out []V
	for _, p := range l.items {
		if pred(p) {
			out = append(out, l.clone(*p))
		}
	}
	return out
}

// All returns copies of every record in insertion order
func (l *List[K, V]) All() []V {
	return l.Filter(func(*V) bool { return true })
}

// Len returns the number of cached records
func (l *List[K, V]) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.items)
}

// Reload replaces the cache contents with rows. The indexes are rebuilt on the next lookup.
func (l *List[K, V]) Reload(rows []V) {
	items := make([]*V, 0, len(rows))
	for i := range rows {
		v := l.clone(rows[i])
		items = append(items, &v)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = items
	clear(l.index)
	clear(l.owners)
	l.updateSize()
}

func (l *List[K, V]) record(hit bool) {
	if hit {
		observability.CacheHitsTotal.WithLabelValues(l.name).Inc()
	} else {
		observability.CacheMissesTotal.WithLabelValues(l.name).Inc()
	}
}

func (l *List[K, V]) updateSize() {
	observability.CacheEntries.WithLabelValues(l.name).Set(float64(len(l.items)))
}
