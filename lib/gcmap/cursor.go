package gcmap

import (
	"runtime"

	"github.com/ValentinKolb/gcmap/lib/store"
)

// Cursor walks a snapshot of the mappings a map held when Iter was called.
// Removing through the cursor deletes the mapping from the map, Next then
// continues with the element that followed the removed one.
//
// Usage:
//
//	for c := m.Iter(); c.Next(); {
//	    if c.Value() < 0 {
//	        c.Remove()
//	    }
//	}
type Cursor[K any, V any] struct {
	h       *handle[K, V]
	entries []store.Entry[K, V]
	pos     int
}

// Next advances to the next element and reports whether there is one.
func (c *Cursor[K, V]) Next() bool {
	if c.pos < len(c.entries) {
		c.pos++
	}
	return c.pos < len(c.entries)
}

// Key returns the key of the current element.
func (c *Cursor[K, V]) Key() K {
	return c.current().Key
}

// Value returns the value of the current element as seen by the snapshot.
func (c *Cursor[K, V]) Value() V {
	return c.current().Value
}

// Remove deletes the mapping of the current element from the map and reports
// whether it was still present.
func (c *Cursor[K, V]) Remove() bool {
	removed := c.h.store.Delete(c.current().Key)
	runtime.KeepAlive(c.h)
	return removed
}

func (c *Cursor[K, V]) current() store.Entry[K, V] {
	if c.pos < 0 || c.pos >= len(c.entries) {
		panic("gcmap: cursor is not positioned on an element")
	}
	return c.entries[c.pos]
}
