// Package store defines the backing stores used by the gcmap handles.
//
// A store is the physical mapping of keys to values. It knows nothing about
// handles, aliasing or the collector: it only provides the container
// primitives (insert, find, erase, size, traversal) with the complexity
// bounds of its implementation.
//
// Key Components:
//
//   - IStore Interface: The operations every backing store supports.
//     Put overwrites existing keys, Get reports whether a key was found,
//     Destroy is reserved for the collector that owns the store.
//
//   - IOrderedStore Interface: An IStore whose keys are totally ordered by a
//     comparator. It adds Min, Max, range traversal and range deletion.
//
//   - Entry and Pairs: A transient key-value pair and a helper that turns a
//     list of pairs into an iter.Seq2 for bulk insertion.
//
// Implementations:
//
//   - Hash Store (hstore): Unordered, backed by xsync.MapOf. Average O(1)
//     operations, safe for concurrent single calls.
//
//   - Tree Store (tstore): Ordered, backed by a B-tree from google/btree.
//     O(log n) operations, not safe for concurrent use without external locking.
//
// The testing package (github.com/ValentinKolb/gcmap/lib/store/testing)
// provides a conformance suite every implementation runs in its tests.
package store
