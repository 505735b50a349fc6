package store

import "iter"

// --------------------------------------------------------------------------
// Helper Types
// --------------------------------------------------------------------------

type Implementation string

const (
	ImplHash Implementation = "hash"
	ImplTree Implementation = "tree"
)

// Entry is a single key-value pair. Entries are only produced transiently
// (bulk insertion, range construction, cursors) and never stored on their own.
type Entry[K any, V any] struct {
	Key   K
	Value V
}

// StoreInfo describes the current state of a store.
type StoreInfo struct {
	Type     Implementation `json:"type"`
	Len      int            `json:"len"`
	Metadata interface{}    `json:"metadata"`
}

// Pairs returns a sequence yielding the given entries in slice order.
// Duplicate keys are yielded as they are, consumers resolve them.
func Pairs[K any, V any](entries ...Entry[K, V]) iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for _, e := range entries {
			if !yield(e.Key, e.Value) {
				return
			}
		}
	}
}

// --------------------------------------------------------------------------
// Store Interfaces
// --------------------------------------------------------------------------

// IStore is the physical mapping behind a map handle.
// Keys are unique, a Put on an existing key overwrites the old value.
// None of the implementations synchronize compound operations; how safe a
// single call is under concurrent use depends on the implementation.
type IStore[K any, V any] interface {

	// --------------------------------------------------------------------------
	// Write Operations
	// --------------------------------------------------------------------------

	// Put inserts or updates the value for key.
	Put(key K, value V)

	// Delete removes the entry for key. Returns whether an entry was removed.
	Delete(key K) (deleted bool)

	// Clear removes all entries.
	Clear()

	// --------------------------------------------------------------------------
	// Query Operations
	// --------------------------------------------------------------------------

	// Get returns the value for key. The boolean return value indicates whether a value was found.
	Get(key K) (value V, loaded bool)

	// Has returns whether an entry for key exists.
	Has(key K) (loaded bool)

	// Len returns the exact number of entries.
	Len() int

	// Range calls fn for every entry until fn returns false.
	// Ordered implementations visit entries in key order.
	Range(fn func(key K, value V) bool)

	// GetInfo returns information about the store.
	GetInfo() (info StoreInfo)

	// --------------------------------------------------------------------------
	// Lifecycle
	// --------------------------------------------------------------------------

	// Destroy releases all entries of the store. It is called by the collector
	// that owns the store and must never be called by a handle.
	Destroy()
}

// IOrderedStore is an IStore whose entries are totally ordered by key.
type IOrderedStore[K any, V any] interface {
	IStore[K, V]

	// Min returns the entry with the smallest key.
	Min() (entry Entry[K, V], ok bool)

	// Max returns the entry with the largest key.
	Max() (entry Entry[K, V], ok bool)

	// AscendRange calls fn for every entry with from <= key < to, in order, until fn returns false.
	AscendRange(from, to K, fn func(key K, value V) bool)

	// AscendFrom calls fn for every entry with key >= pivot, in order, until fn returns false.
	AscendFrom(pivot K, fn func(key K, value V) bool)

	// DeleteRange removes every entry with from <= key < to.
	// It returns the number of removed entries and the first entry following the removed span (if any).
	DeleteRange(from, to K) (removed int, next Entry[K, V], ok bool)
}
