// Package gcmap provides generic maps whose backing storage is owned by a
// collector (see package collector).
//
// A Map is a small value holding a pointer to a shared handle. Copying a Map
// aliases the same store, so a Put through one copy is visible through all of
// them, and HashCode and Equals report store identity, never content.
// No map is ever destroyed explicitly:
//
//   - Scoped maps (NewHashMap, NewSortedMap, ...From) are reclaimed by the
//     collector once no copy of the map is reachable.
//   - Static maps (NewStaticHashMap, NewStaticSortedMap, ...From) are retained
//     by the collector and destroyed when it shuts down.
//
// Two flavors are available:
//
//   - HashMap: hash table (xsync.MapOf), keys compared with ==.
//   - SortedMap: B-tree ordered by a comparator, with Min, Max, Ascend and RemoveRange.
//
// Usage Example:
//
//	m, err := gcmap.NewHashMap[string, int](nil)  // nil = collector.Default()
//	if err != nil {
//	    // the collector is shut down
//	}
//
//	m.Put("a", 1)
//	alias := m
//	alias.Get("a")      // 1
//	alias.Get("b")      // 0, absent keys yield the zero value
//	m.Remove("a")       // true
//
//	// compound sequences must be locked by the caller
//	_ = m.WithLock(func() error {
//	    if !m.Contains("a") {
//	        m.Put("a", 2)
//	    }
//	    return nil
//	})
//
// The zero Map is null. Every operation on it, except IsNull and Equals,
// panics with a *NullReferenceError that matches ErrNullReference.
package gcmap
