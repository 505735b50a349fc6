package gcmap

import (
	"iter"

	"github.com/ValentinKolb/gcmap/lib/collector"
	"github.com/ValentinKolb/gcmap/lib/store"
	"github.com/ValentinKolb/gcmap/lib/store/hstore"
)

// HashMap is a Map backed by a hash table. Keys are compared with ==,
// the hash function can be replaced with hstore.WithHasher.
// Put, Get, Remove and Contains are O(1) on average.
type HashMap[K comparable, V any] struct {
	Map[K, V]
}

// NewHashMap creates an empty scoped hash map. Its store is reclaimed by c
// (collector.Default() if nil) once no copy of the map is reachable.
func NewHashMap[K comparable, V any](c collector.ICollector, opts ...hstore.Option[K]) (HashMap[K, V], error) {
	return newHashMap[K, V](c, collector.ScopeScoped, nil, opts)
}

// NewStaticHashMap creates an empty permanent hash map. Its store lives until c shuts down.
func NewStaticHashMap[K comparable, V any](c collector.ICollector, opts ...hstore.Option[K]) (HashMap[K, V], error) {
	return newHashMap[K, V](c, collector.ScopePermanent, nil, opts)
}

// NewHashMapFrom creates a scoped hash map holding the pairs of seq.
// Duplicate keys resolve last-occurrence-wins.
func NewHashMapFrom[K comparable, V any](c collector.ICollector, seq iter.Seq2[K, V], opts ...hstore.Option[K]) (HashMap[K, V], error) {
	return newHashMap(c, collector.ScopeScoped, seq, opts)
}

// NewStaticHashMapFrom creates a permanent hash map holding the pairs of seq.
// Duplicate keys resolve last-occurrence-wins.
func NewStaticHashMapFrom[K comparable, V any](c collector.ICollector, seq iter.Seq2[K, V], opts ...hstore.Option[K]) (HashMap[K, V], error) {
	return newHashMap(c, collector.ScopePermanent, seq, opts)
}

func newHashMap[K comparable, V any](c collector.ICollector, scope collector.Scope, seq iter.Seq2[K, V], opts []hstore.Option[K]) (HashMap[K, V], error) {
	h, err := newHandle(c, scope, store.ImplHash, hstore.NewHashStore[K, V](opts...), seq)
	if err != nil {
		return HashMap[K, V]{}, err
	}
	return HashMap[K, V]{Map[K, V]{h: h}}, nil
}
