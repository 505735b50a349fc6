package gcmap

import (
	"iter"
	"math"
	"runtime"

	"github.com/ValentinKolb/gcmap/lib/lockmgr"
	"github.com/ValentinKolb/gcmap/lib/store"
)

// Map is a copyable reference to a collector owned store.
// Copies alias the same store, a mutation through one copy is visible through
// all of them. The zero Map is null: every operation except IsNull and Equals
// panics with a *NullReferenceError.
//
// Single operations inherit the thread-safety of the backing store, compound
// sequences must be guarded with Sync or WithLock.
type Map[K any, V any] struct {
	h *handle[K, V]
}

// deref returns the handle or panics if m is null
func (m Map[K, V]) deref(op string) *handle[K, V] {
	if m.h == nil {
		panic(&NullReferenceError{Op: op})
	}
	return m.h
}

// --------------------------------------------------------------------------
// Write Operations
// --------------------------------------------------------------------------

// Put inserts or overwrites the value for key.
func (m Map[K, V]) Put(key K, value V) {
	h := m.deref("Put")
	h.store.Put(key, value)
	runtime.KeepAlive(h)
}

// PutAll applies Put for every pair of seq in iteration order.
// Duplicate keys resolve last-write-wins.
func (m Map[K, V]) PutAll(seq iter.Seq2[K, V]) {
	h := m.deref("PutAll")
	for k, v := range seq {
		h.store.Put(k, v)
	}
	runtime.KeepAlive(h)
}

// Remove deletes the mapping for key and reports whether one was present.
func (m Map[K, V]) Remove(key K) bool {
	h := m.deref("Remove")
	removed := h.store.Delete(key)
	runtime.KeepAlive(h)
	return removed
}

// RemoveFunc deletes every mapping for which pred returns true and returns
// the number of removed mappings.
func (m Map[K, V]) RemoveFunc(pred func(key K, value V) bool) int {
	h := m.deref("RemoveFunc")

	var keys []K
	h.store.Range(func(key K, value V) bool {
		if pred(key, value) {
			keys = append(keys, key)
		}
		return true
	})

	removed := 0
	for _, key := range keys {
		if h.store.Delete(key) {
			removed++
		}
	}
	runtime.KeepAlive(h)
	return removed
}

// Clear removes every mapping.
func (m Map[K, V]) Clear() {
	h := m.deref("Clear")
	h.store.Clear()
	runtime.KeepAlive(h)
}

// --------------------------------------------------------------------------
// Query Operations
// --------------------------------------------------------------------------

// Get returns the value for key or the zero value of V if key is absent.
func (m Map[K, V]) Get(key K) V {
	h := m.deref("Get")
	value, _ := h.store.Get(key)
	runtime.KeepAlive(h)
	return value
}

// Lookup returns the value for key and whether it was present.
func (m Map[K, V]) Lookup(key K) (V, bool) {
	h := m.deref("Lookup")
	value, ok := h.store.Get(key)
	runtime.KeepAlive(h)
	return value, ok
}

// Contains reports whether a mapping for key exists.
func (m Map[K, V]) Contains(key K) bool {
	h := m.deref("Contains")
	ok := h.store.Has(key)
	runtime.KeepAlive(h)
	return ok
}

// Size returns the number of mappings, clamped to math.MaxInt32.
func (m Map[K, V]) Size() int32 {
	h := m.deref("Size")
	n := h.store.Len()
	runtime.KeepAlive(h)
	if n > math.MaxInt32 {
		return math.MaxInt32
	}
	return int32(n)
}

// --------------------------------------------------------------------------
// Identity
// --------------------------------------------------------------------------

// HashCode returns an identity code of the backing store. Two maps report the
// same code if they alias the same store. The code is unique as long as fewer
// than 2^32 maps have been created in the process.
// It says nothing about the content of the map.
func (m Map[K, V]) HashCode() int32 {
	tok := m.deref("HashCode").token
	return int32(uint32(tok) ^ uint32(tok>>32))
}

// Equals reports whether m and o alias the same store. Two null maps are equal.
func (m Map[K, V]) Equals(o Map[K, V]) bool {
	return m.h == o.h
}

// IsNull reports whether m has no backing store.
func (m Map[K, V]) IsNull() bool {
	return m.h == nil
}

// RegistrationID returns the collector registration of the backing store.
func (m Map[K, V]) RegistrationID() uint64 {
	return m.deref("RegistrationID").regID
}

// --------------------------------------------------------------------------
// Synchronization
// --------------------------------------------------------------------------

// Sync returns the lock shared by all copies of m.
// No operation of Map acquires it, callers lock it around compound sequences.
func (m Map[K, V]) Sync() lockmgr.ILock {
	return m.deref("Sync").lock
}

// WithLock runs fn while holding the lock of m.
// The lock is released when fn returns or panics.
func (m Map[K, V]) WithLock(fn func() error) error {
	h := m.deref("WithLock")
	err := h.lock.WithLock(fn)
	runtime.KeepAlive(h)
	return err
}

// --------------------------------------------------------------------------
// Traversal
// --------------------------------------------------------------------------

// All returns a sequence over all mappings. Sorted maps yield keys in
// ascending order. The map must not be modified while the sequence runs,
// use Iter to remove during traversal.
func (m Map[K, V]) All() iter.Seq2[K, V] {
	h := m.deref("All")
	return func(yield func(K, V) bool) {
		h.store.Range(yield)
		runtime.KeepAlive(h)
	}
}

// Keys returns a sequence over all keys, see All.
func (m Map[K, V]) Keys() iter.Seq[K] {
	h := m.deref("Keys")
	return func(yield func(K) bool) {
		h.store.Range(func(key K, _ V) bool {
			return yield(key)
		})
		runtime.KeepAlive(h)
	}
}

// Values returns a sequence over all values, see All.
func (m Map[K, V]) Values() iter.Seq[V] {
	h := m.deref("Values")
	return func(yield func(V) bool) {
		h.store.Range(func(_ K, value V) bool {
			return yield(value)
		})
		runtime.KeepAlive(h)
	}
}

// Iter returns a cursor over a snapshot of the current mappings.
func (m Map[K, V]) Iter() *Cursor[K, V] {
	h := m.deref("Iter")
	entries := make([]store.Entry[K, V], 0, h.store.Len())
	h.store.Range(func(key K, value V) bool {
		entries = append(entries, store.Entry[K, V]{Key: key, Value: value})
		return true
	})
	return &Cursor[K, V]{h: h, entries: entries, pos: -1}
}
