package gcmap

import (
	"iter"
	"runtime"

	"github.com/ValentinKolb/gcmap/lib/collector"
	"github.com/ValentinKolb/gcmap/lib/store"
	"github.com/ValentinKolb/gcmap/lib/store/tstore"
)

// SortedMap is a Map backed by a B-tree ordered by a comparator.
// Put, Get, Remove and Contains are O(log n), traversal is in ascending key order.
//
// The tree is not safe for concurrent use, not even for single operations.
// Concurrent callers must hold Sync.
type SortedMap[K any, V any] struct {
	Map[K, V]
}

// NewSortedMap creates an empty scoped sorted map ordered by compare, which
// returns a negative number if a < b, zero if a == b and a positive number if a > b.
// The store is reclaimed by c (collector.Default() if nil) once no copy of the map is reachable.
func NewSortedMap[K any, V any](c collector.ICollector, compare func(a, b K) int, opts ...tstore.Option) (SortedMap[K, V], error) {
	return newSortedMap[K, V](c, collector.ScopeScoped, compare, nil, opts)
}

// NewStaticSortedMap creates an empty permanent sorted map. Its store lives until c shuts down.
func NewStaticSortedMap[K any, V any](c collector.ICollector, compare func(a, b K) int, opts ...tstore.Option) (SortedMap[K, V], error) {
	return newSortedMap[K, V](c, collector.ScopePermanent, compare, nil, opts)
}

// NewSortedMapFrom creates a scoped sorted map holding the pairs of seq.
// Duplicate keys resolve last-occurrence-wins.
func NewSortedMapFrom[K any, V any](c collector.ICollector, compare func(a, b K) int, seq iter.Seq2[K, V], opts ...tstore.Option) (SortedMap[K, V], error) {
	return newSortedMap(c, collector.ScopeScoped, compare, seq, opts)
}

// NewStaticSortedMapFrom creates a permanent sorted map holding the pairs of seq.
// Duplicate keys resolve last-occurrence-wins.
func NewStaticSortedMapFrom[K any, V any](c collector.ICollector, compare func(a, b K) int, seq iter.Seq2[K, V], opts ...tstore.Option) (SortedMap[K, V], error) {
	return newSortedMap(c, collector.ScopePermanent, compare, seq, opts)
}

func newSortedMap[K any, V any](c collector.ICollector, scope collector.Scope, compare func(a, b K) int, seq iter.Seq2[K, V], opts []tstore.Option) (SortedMap[K, V], error) {
	if compare == nil {
		return SortedMap[K, V]{}, ErrNilComparator
	}
	h, err := newHandle(c, scope, store.ImplTree, store.IStore[K, V](tstore.NewTreeStore[K, V](compare, opts...)), seq)
	if err != nil {
		return SortedMap[K, V]{}, err
	}
	return SortedMap[K, V]{Map[K, V]{h: h}}, nil
}

// ordered returns the handle and its tree store or panics if m is null
func (m SortedMap[K, V]) ordered(op string) (*handle[K, V], store.IOrderedStore[K, V]) {
	h := m.deref(op)
	return h, h.store.(store.IOrderedStore[K, V])
}

// --------------------------------------------------------------------------
// Ordered Operations
// --------------------------------------------------------------------------

// Min returns the mapping with the smallest key.
func (m SortedMap[K, V]) Min() (K, V, bool) {
	h, st := m.ordered("Min")
	e, ok := st.Min()
	runtime.KeepAlive(h)
	return e.Key, e.Value, ok
}

// Max returns the mapping with the largest key.
func (m SortedMap[K, V]) Max() (K, V, bool) {
	h, st := m.ordered("Max")
	e, ok := st.Max()
	runtime.KeepAlive(h)
	return e.Key, e.Value, ok
}

// Ascend returns a sequence over the mappings with from <= key < to in ascending order.
func (m SortedMap[K, V]) Ascend(from, to K) iter.Seq2[K, V] {
	h, st := m.ordered("Ascend")
	return func(yield func(K, V) bool) {
		st.AscendRange(from, to, yield)
		runtime.KeepAlive(h)
	}
}

// AscendFrom returns a sequence over the mappings with key >= pivot in ascending order.
func (m SortedMap[K, V]) AscendFrom(pivot K) iter.Seq2[K, V] {
	h, st := m.ordered("AscendFrom")
	return func(yield func(K, V) bool) {
		st.AscendFrom(pivot, yield)
		runtime.KeepAlive(h)
	}
}

// RemoveRange removes every mapping with from <= key < to. It returns the key
// following the removed span, ok is false if no key follows.
// An empty range (from >= to) removes nothing and returns the first key >= from.
func (m SortedMap[K, V]) RemoveRange(from, to K) (next K, ok bool) {
	h, st := m.ordered("RemoveRange")
	removed, e, ok := st.DeleteRange(from, to)
	runtime.KeepAlive(h)
	if removed > 0 {
		plog.Debugf("removed %d entries from sorted map %d", removed, h.regID)
	}
	return e.Key, ok
}
