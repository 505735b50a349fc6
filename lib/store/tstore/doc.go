// Package tstore provides the ordered backing store of gcmap.SortedMap.
//
// Entries are kept in a B-tree (github.com/google/btree) ordered by a
// user supplied comparator. Put, Get, Delete and Has are O(log n), traversal
// visits keys in ascending order.
//
// The store is not thread-safe. Concurrent access must be guarded by the
// lock of the map handle.
package tstore
