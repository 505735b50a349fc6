package hstore

import (
	"github.com/ValentinKolb/gcmap/lib/store"
	"github.com/puzpuzpuz/xsync/v3"
)

// --------------------------------------------------------------------------
// Options
// --------------------------------------------------------------------------

// Options configures a hash store during initialization
type Options[K comparable] struct {
	Hasher  func(key K, seed uint64) uint64 // Custom hash function (nil = xsync default)
	Presize int                             // Expected number of entries (0 = no presizing)
}

// Option modifies Options
type Option[K comparable] func(*Options[K])

// WithHasher sets a custom hash function. Keys are still compared with ==,
// so the hasher must return equal hashes for equal keys.
func WithHasher[K comparable](hasher func(key K, seed uint64) uint64) Option[K] {
	return func(o *Options[K]) {
		o.Hasher = hasher
	}
}

// WithPresize presizes the table for n entries
func WithPresize[K comparable](n int) Option[K] {
	return func(o *Options[K]) {
		o.Presize = n
	}
}

// --------------------------------------------------------------------------
// Hash store
// --------------------------------------------------------------------------

// storeImpl is an unordered store backed by xsync.MapOf
type storeImpl[K comparable, V any] struct {
	data   *xsync.MapOf[K, V]
	custom bool // whether a custom hasher is used
}

// NewHashStore creates a new empty hash store.
//
// Thread-safety: single calls on the returned store are thread-safe,
// sequences of calls are not atomic.
func NewHashStore[K comparable, V any](opts ...Option[K]) store.IStore[K, V] {
	o := &Options[K]{}
	for _, opt := range opts {
		opt(o)
	}

	var mapOpts []func(*xsync.MapConfig)
	if o.Presize > 0 {
		mapOpts = append(mapOpts, xsync.WithPresize(o.Presize))
	}

	s := &storeImpl[K, V]{custom: o.Hasher != nil}
	if o.Hasher != nil {
		s.data = xsync.NewMapOfWithHasher[K, V](o.Hasher, mapOpts...)
	} else {
		s.data = xsync.NewMapOf[K, V](mapOpts...)
	}
	return s
}

// --------------------------------------------------------------------------
// Interface Methods (docu see store/interface.go)
// --------------------------------------------------------------------------

func (s *storeImpl[K, V]) Put(key K, value V) {
	s.data.Store(key, value)
}

func (s *storeImpl[K, V]) Delete(key K) bool {
	_, deleted := s.data.LoadAndDelete(key)
	return deleted
}

func (s *storeImpl[K, V]) Clear() {
	s.data.Clear()
}

func (s *storeImpl[K, V]) Get(key K) (V, bool) {
	return s.data.Load(key)
}

func (s *storeImpl[K, V]) Has(key K) bool {
	_, ok := s.data.Load(key)
	return ok
}

func (s *storeImpl[K, V]) Len() int {
	return s.data.Size()
}

func (s *storeImpl[K, V]) Range(fn func(key K, value V) bool) {
	s.data.Range(fn)
}

func (s *storeImpl[K, V]) GetInfo() store.StoreInfo {
	stats := s.data.Stats()

	meta := &struct {
		RootBuckets  int     `json:"root_buckets"`
		TotalBuckets int     `json:"total_buckets"`
		Capacity     int     `json:"capacity"`
		LoadFactor   float64 `json:"load_factor"`
		CustomHasher bool    `json:"custom_hasher"`
	}{
		RootBuckets:  stats.RootBuckets,
		TotalBuckets: stats.TotalBuckets,
		Capacity:     stats.Capacity,
		CustomHasher: s.custom,
	}
	if stats.Capacity > 0 {
		meta.LoadFactor = float64(stats.Size) / float64(stats.Capacity)
	}

	return store.StoreInfo{
		Type:     store.ImplHash,
		Len:      stats.Size,
		Metadata: meta,
	}
}

// Destroy drops all entries. The store stays usable (and empty) afterwards,
// a handle that outlives its collector sees an empty map.
func (s *storeImpl[K, V]) Destroy() {
	s.data.Clear()
}
