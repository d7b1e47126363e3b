package service

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"sync"

	"mew/cache"
	"mew/observability"

	log "github.com/sirupsen/logrus"
)

// Every write in this package follows the same order: the store statement
// runs first and the cache is only touched with the row the store returned.
// A failed store call leaves the cache exactly as it was.

// keyedMutex serializes writers of the same natural key so the last cache
// write always belongs to the last committed store write. A reload takes the
// exclusive side and waits for in-flight writers, so it never replaces the
// cache with a snapshot older than a write that already reached the cache.
type keyedMutex[K comparable] struct {
	all   sync.RWMutex
	mu    sync.Mutex
	locks map[K]*refMutex
}

type refMutex struct {
	sync.Mutex
	refs int
}

// Lock locks k and returns the matching unlock
func (m *keyedMutex[K]) Lock(k K) func() {
	m.all.RLock()

	m.mu.Lock()
	if m.locks == nil {
		m.locks = make(map[K]*refMutex)
	}
	l, ok := m.locks[k]
	if !ok {
		l = &refMutex{}
		m.locks[k] = l
	}
	l.refs++
	m.mu.Unlock()

	l.Lock()
	return func() {
		l.Unlock()
		m.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(m.locks, k)
		}
		m.mu.Unlock()
		m.all.RUnlock()
	}
}

// LockAll excludes every writer and returns the matching unlock
func (m *keyedMutex[K]) LockAll() func() {
	m.all.Lock()
	return m.all.Unlock
}

// writeThrough runs store and hands its result to apply only on success
func writeThrough[T any](ctx context.Context, domain, op string, key fmt.Stringer, store func(context.Context) (T, error), apply func(T)) (T, error) {
	v, err := store(ctx)
	if err != nil {
		observability.StoreErrorsTotal.WithLabelValues(domain, op).Inc()
		log.WithFields(log.Fields{
			"domain":    domain,
			"operation": op,
			"key":       key.String(),
		}).WithError(err).Error("Store write failed, cache left untouched")
		var zero T
		return zero, err
	}
	apply(v)
	return v, nil
}

// storeRead wraps a failed store read the same way writes are logged
func storeRead[T any](ctx context.Context, domain string, key fmt.Stringer, read func(context.Context) (T, error)) (T, error) {
	v, err := read(ctx)
	if err != nil {
		observability.StoreErrorsTotal.WithLabelValues(domain, "get").Inc()
		log.WithFields(log.Fields{
			"domain": domain,
			"key":    key.String(),
		}).WithError(err).Warn("Store read failed")
	}
	return v, err
}

// Drift lists the keys on which a cache and the store disagree
type Drift struct {
	Missing []string // stored but not cached
	Stale   []string // cached with different values
	Phantom []string // cached without a backing row
}

// Total returns the number of divergent keys
func (d Drift) Total() int {
	return len(d.Missing) + len(d.Stale) + len(d.Phantom)
}

// Empty reports whether cache and store agree
func (d Drift) Empty() bool {
	return d.Total() == 0
}

// ReloadResult describes one domain reload
type ReloadResult struct {
	Rows  int
	Drift Drift
}

// Reloadable is a cache that can be rebuilt from the store
type Reloadable interface {
	Name() string
	Reload(ctx context.Context) (ReloadResult, error)
	Audit(ctx context.Context) (Drift, error)
}

func diffRecords[K comparable, V any](cached, stored []V, keyOf func(*V) K) Drift {
	want := make(map[K]*V, len(stored))
	for i := range stored {
		want[keyOf(&stored[i])] = &stored[i]
	}

	var d Drift
	seen := make(map[K]struct{}, len(cached))
	for i := range cached {
		k := keyOf(&cached[i])
		seen[k] = struct{}{}
		s, ok := want[k]
		switch {
		case !ok:
			d.Phantom = append(d.Phantom, fmt.Sprint(k))
		case !reflect.DeepEqual(cached[i], *s):
			d.Stale = append(d.Stale, fmt.Sprint(k))
		}
	}
	for k := range want {
		if _, ok := seen[k]; !ok {
			d.Missing = append(d.Missing, fmt.Sprint(k))
		}
	}
	sort.Strings(d.Missing)
	sort.Strings(d.Stale)
	sort.Strings(d.Phantom)
	return d
}

// stringKey lets plain keys go through writeThrough's logging
type stringKey string

func (k stringKey) String() string { return string(k) }

func keyString[K comparable](k K) stringKey { return stringKey(fmt.Sprint(k)) }

// listDomain ties a list cache to the store table it mirrors
type listDomain[K comparable, V any] struct {
	cache *cache.List[K, V]
	locks keyedMutex[K]
	keyOf func(*V) K
	fetch func(ctx context.Context) ([]V, error)
}

func newListDomain[K comparable, V any](name string, keyOf func(*V) K, ownerOf func(*V) int64, clone func(V) V, fetch func(context.Context) ([]V, error)) *listDomain[K, V] {
	return &listDomain[K, V]{
		cache: cache.NewList(name, keyOf, ownerOf, clone),
		keyOf: keyOf,
		fetch: fetch,
	}
}

// Name returns the cache name
func (d *listDomain[K, V]) Name() string {
	return d.cache.Name()
}

// Reload replaces the cache with the full table
func (d *listDomain[K, V]) Reload(ctx context.Context) (ReloadResult, error) {
	unlock := d.locks.LockAll()
	defer unlock()

	rows, err := d.fetch(ctx)
	if err != nil {
		return ReloadResult{}, err
	}
	drift := diffRecords(d.cache.All(), rows, d.keyOf)
	d.cache.Reload(rows)
	return ReloadResult{Rows: len(rows), Drift: drift}, nil
}

// Audit compares the cache with the full table without changing either
func (d *listDomain[K, V]) Audit(ctx context.Context) (Drift, error) {
	unlock := d.locks.LockAll()
	defer unlock()

	rows, err := d.fetch(ctx)
	if err != nil {
		return Drift{}, err
	}
	return diffRecords(d.cache.All(), rows, d.keyOf), nil
}

func (d *listDomain[K, V]) put(ctx context.Context, op string, key K, store func(context.Context) (*V, error)) (*V, error) {
	unlock := d.locks.Lock(key)
	defer unlock()

	return writeThrough(ctx, d.Name(), op, keyString(key), store, func(v *V) {
		if v != nil {
			d.cache.Put(*v)
		} else {
			// The store no longer has the row
			d.cache.Delete(key)
		}
	})
}

func (d *listDomain[K, V]) delete(ctx context.Context, key K, store func(context.Context) (bool, error)) (bool, error) {
	unlock := d.locks.Lock(key)
	defer unlock()

	return writeThrough(ctx, d.Name(), "delete", keyString(key), store, func(bool) {
		d.cache.Delete(key)
	})
}

// get answers from the cache and falls back to the store on a miss,
// back-filling the cache with what it finds
func (d *listDomain[K, V]) get(ctx context.Context, key K, store func(context.Context) (*V, error)) (*V, error) {
	if v, ok := d.cache.Get(key); ok {
		return &v, nil
	}

	unlock := d.locks.Lock(key)
	defer unlock()

	v, err := storeRead(ctx, d.Name(), keyString(key), store)
	if err != nil || v == nil {
		return nil, err
	}
	d.cache.Put(*v)
	return v, nil
}

// lockAll and dropUser let a user purge exclude writers and clear the user's rows
func (d *listDomain[K, V]) lockAll() func() {
	return d.locks.LockAll()
}

func (d *listDomain[K, V]) dropUser(userID int64) int {
	return d.cache.DeleteOwner(userID)
}

// mapDomain ties a map cache to a table with one row per primary key
type mapDomain[K comparable, V any] struct {
	cache *cache.Map[K, V]
	locks keyedMutex[K]
	keyOf func(*V) K
	fetch func(ctx context.Context) ([]V, error)
}

func newMapDomain[K comparable, V any](name string, keyOf func(*V) K, clone func(V) V, fetch func(context.Context) ([]V, error)) *mapDomain[K, V] {
	return &mapDomain[K, V]{
		cache: cache.NewMap[K, V](name, clone),
		keyOf: keyOf,
		fetch: fetch,
	}
}

// Name returns the cache name
func (d *mapDomain[K, V]) Name() string {
	return d.cache.Name()
}

func (d *mapDomain[K, V]) snapshot() []V {
	all := d.cache.All()
	out := make([]V, 0, len(all))
	for _, v := range all {
		out = append(out, v)
	}
	return out
}

// Reload replaces the cache with the full table
func (d *mapDomain[K, V]) Reload(ctx context.Context) (ReloadResult, error) {
	unlock := d.locks.LockAll()
	defer unlock()

	rows, err := d.fetch(ctx)
	if err != nil {
		return ReloadResult{}, err
	}
	drift := diffRecords(d.snapshot(), rows, d.keyOf)
	d.cache.Reload(rows, d.keyOf)
	return ReloadResult{Rows: len(rows), Drift: drift}, nil
}

// Audit compares the cache with the full table without changing either
func (d *mapDomain[K, V]) Audit(ctx context.Context) (Drift, error) {
	unlock := d.locks.LockAll()
	defer unlock()

	rows, err := d.fetch(ctx)
	if err != nil {
		return Drift{}, err
	}
	return diffRecords(d.snapshot(), rows, d.keyOf), nil
}

func (d *mapDomain[K, V]) put(ctx context.Context, op string, key K, store func(context.Context) (*V, error)) (*V, error) {
	unlock := d.locks.Lock(key)
	defer unlock()

	return writeThrough(ctx, d.Name(), op, keyString(key), store, func(v *V) {
		d.cache.Put(key, *v)
	})
}

func (d *mapDomain[K, V]) delete(ctx context.Context, key K, store func(context.Context) (bool, error)) (bool, error) {
	unlock := d.locks.Lock(key)
	defer unlock()

	return writeThrough(ctx, d.Name(), "delete", keyString(key), store, func(bool) {
		d.cache.Delete(key)
	})
}

func (d *mapDomain[K, V]) get(ctx context.Context, key K, store func(context.Context) (*V, error)) (*V, error) {
	if v, ok := d.cache.Get(key); ok {
		return &v, nil
	}

	unlock := d.locks.Lock(key)
	defer unlock()

	v, err := storeRead(ctx, d.Name(), keyString(key), store)
	if err != nil || v == nil {
		return nil, err
	}
	d.cache.Put(key, *v)
	return v, nil
}

func (d *mapDomain[K, V]) lockAll() func() {
	return d.locks.LockAll()
}

// singletonDomain ties a singleton cache to a one-row table. All writes
// share one lock since there is only one key.
type singletonDomain[V any] struct {
	cache *cache.Singleton[V]
	mu    sync.Mutex
	fetch func(ctx context.Context) (*V, error)
}

func newSingletonDomain[V any](name string, clone func(V) V, fetch func(context.Context) (*V, error)) *singletonDomain[V] {
	return &singletonDomain[V]{
		cache: cache.NewSingleton(name, clone),
		fetch: fetch,
	}
}

// Name returns the cache name
func (d *singletonDomain[V]) Name() string {
	return d.cache.Name()
}

func (d *singletonDomain[V]) snapshot() []V {
	if v, ok := d.cache.Get(); ok {
		return []V{v}
	}
	return nil
}

func rowsOf[V any](v *V) []V {
	if v == nil {
		return nil
	}
	return []V{*v}
}

func singletonKey[V any](*V) string { return "singleton" }

// Reload replaces the cache with the stored row
func (d *singletonDomain[V]) Reload(ctx context.Context) (ReloadResult, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	v, err := d.fetch(ctx)
	if err != nil {
		return ReloadResult{}, err
	}
	rows := rowsOf(v)
	drift := diffRecords(d.snapshot(), rows, singletonKey[V])
	d.cache.Reload(v)
	return ReloadResult{Rows: len(rows), Drift: drift}, nil
}

// Audit compares the cache with the stored row
func (d *singletonDomain[V]) Audit(ctx context.Context) (Drift, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	v, err := d.fetch(ctx)
	if err != nil {
		return Drift{}, err
	}
	return diffRecords(d.snapshot(), rowsOf(v), singletonKey[V]), nil
}

func (d *singletonDomain[V]) set(ctx context.Context, op string, store func(context.Context) (*V, error)) (*V, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	return writeThrough(ctx, d.Name(), op, stringKey(d.Name()), store, func(v *V) {
		d.cache.Reload(v)
	})
}

func (d *singletonDomain[V]) clear(ctx context.Context, store func(context.Context) (bool, error)) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	return writeThrough(ctx, d.Name(), "clear", stringKey(d.Name()), store, func(bool) {
		d.cache.Clear()
	})
}
