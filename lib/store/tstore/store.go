package tstore

import (
	"github.com/ValentinKolb/gcmap/lib/store"
	"github.com/google/btree"
)

// --------------------------------------------------------------------------
// Constants
// --------------------------------------------------------------------------

const (
	defaultDegree = 32 // Default B-tree degree (fan-out)
)

// --------------------------------------------------------------------------
// Options
// --------------------------------------------------------------------------

// Options configures a tree store during initialization
type Options struct {
	Degree int // B-tree degree (0 = use default: 32)
}

// Option modifies Options
type Option func(*Options)

// WithDegree sets the B-tree degree
func WithDegree(degree int) Option {
	return func(o *Options) {
		o.Degree = degree
	}
}

// --------------------------------------------------------------------------
// Tree store
// --------------------------------------------------------------------------

// storeImpl is an ordered store backed by a B-tree of entries ordered by key
type storeImpl[K any, V any] struct {
	tree    *btree.BTreeG[store.Entry[K, V]]
	compare func(a, b K) int
	degree  int
}

// NewTreeStore creates a new empty tree store ordered by compare.
// compare must define a total order and return a negative number when a < b,
// zero when a == b and a positive number when a > b (like cmp.Compare).
//
// Thread-safety: the returned store is not thread-safe.
func NewTreeStore[K any, V any](compare func(a, b K) int, opts ...Option) store.IOrderedStore[K, V] {
	o := &Options{Degree: defaultDegree}
	for _, opt := range opts {
		opt(o)
	}
	if o.Degree < 2 {
		o.Degree = defaultDegree
	}

	less := func(a, b store.Entry[K, V]) bool {
		return compare(a.Key, b.Key) < 0
	}

	return &storeImpl[K, V]{
		tree:    btree.NewG[store.Entry[K, V]](o.Degree, less),
		compare: compare,
		degree:  o.Degree,
	}
}

// probe creates a search entry for key
func probe[K any, V any](key K) store.Entry[K, V] {
	return store.Entry[K, V]{Key: key}
}

// --------------------------------------------------------------------------
// Interface Methods (docu see store/interface.go)
// --------------------------------------------------------------------------

func (s *storeImpl[K, V]) Put(key K, value V) {
	s.tree.ReplaceOrInsert(store.Entry[K, V]{Key: key, Value: value})
}

func (s *storeImpl[K, V]) Delete(key K) bool {
	_, deleted := s.tree.Delete(probe[K, V](key))
	return deleted
}

func (s *storeImpl[K, V]) Clear() {
	s.tree.Clear(true)
}

func (s *storeImpl[K, V]) Get(key K) (V, bool) {
	e, ok := s.tree.Get(probe[K, V](key))
	return e.Value, ok
}

func (s *storeImpl[K, V]) Has(key K) bool {
	return s.tree.Has(probe[K, V](key))
}

func (s *storeImpl[K, V]) Len() int {
	return s.tree.Len()
}

func (s *storeImpl[K, V]) Range(fn func(key K, value V) bool) {
	s.tree.Ascend(func(e store.Entry[K, V]) bool {
		return fn(e.Key, e.Value)
	})
}

func (s *storeImpl[K, V]) GetInfo() store.StoreInfo {
	meta := &struct {
		Degree int `json:"degree"`
	}{
		Degree: s.degree,
	}

	return store.StoreInfo{
		Type:     store.ImplTree,
		Len:      s.tree.Len(),
		Metadata: meta,
	}
}

// Destroy drops all entries without keeping the nodes on the freelist.
func (s *storeImpl[K, V]) Destroy() {
	s.tree.Clear(false)
}

// --------------------------------------------------------------------------
// Ordered Operations
// --------------------------------------------------------------------------

func (s *storeImpl[K, V]) Min() (store.Entry[K, V], bool) {
	return s.tree.Min()
}

func (s *storeImpl[K, V]) Max() (store.Entry[K, V], bool) {
	return s.tree.Max()
}

func (s *storeImpl[K, V]) AscendRange(from, to K, fn func(key K, value V) bool) {
	if s.compare(from, to) >= 0 {
		return
	}
	s.tree.AscendRange(probe[K, V](from), probe[K, V](to), func(e store.Entry[K, V]) bool {
		return fn(e.Key, e.Value)
	})
}

func (s *storeImpl[K, V]) AscendFrom(pivot K, fn func(key K, value V) bool) {
	s.tree.AscendGreaterOrEqual(probe[K, V](pivot), func(e store.Entry[K, V]) bool {
		return fn(e.Key, e.Value)
	})
}

// DeleteRange removes all entries in [from, to). For an empty span (from >= to)
// nothing is removed and next is the first entry with key >= from.
func (s *storeImpl[K, V]) DeleteRange(from, to K) (int, store.Entry[K, V], bool) {
	if s.compare(from, to) >= 0 {
		next, ok := s.first(from)
		return 0, next, ok
	}

	// collect first, the tree must not be modified while iterating
	var keys []K
	s.tree.AscendRange(probe[K, V](from), probe[K, V](to), func(e store.Entry[K, V]) bool {
		keys = append(keys, e.Key)
		return true
	})
	for _, k := range keys {
		s.tree.Delete(probe[K, V](k))
	}

	next, ok := s.first(to)
	return len(keys), next, ok
}

// first returns the first entry with key >= pivot
func (s *storeImpl[K, V]) first(pivot K) (store.Entry[K, V], bool) {
	var (
		next  store.Entry[K, V]
		found bool
	)
	s.tree.AscendGreaterOrEqual(probe[K, V](pivot), func(e store.Entry[K, V]) bool {
		next, found = e, true
		return false
	})
	return next, found
}
