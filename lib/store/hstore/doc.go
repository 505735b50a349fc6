// Package hstore provides the unordered backing store of gcmap.HashMap.
//
// The store is a thin layer over xsync.MapOf, a concurrent hash table that
// shards its buckets internally. Keys are compared with == and hashed with
// either the xsync default hasher or a custom seeded hash function
// (see StringHasher and Uint64Hasher, both murmur3 based).
//
// Put, Get, Delete and Has are average O(1) and safe to call concurrently.
// Compound sequences (check-then-put) are not atomic and must be guarded by
// the lock of the map handle.
package hstore
