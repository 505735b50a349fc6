package testing

import (
	"fmt"
	"sync"
	"testing"

	"github.com/ValentinKolb/gcmap/lib/store"
)

// StoreFactory is a function that creates a new instance of an IStore implementation
type StoreFactory func() store.IStore[string, int]

// OrderedStoreFactory is a function that creates a new instance of an IOrderedStore implementation
type OrderedStoreFactory func() store.IOrderedStore[int, string]

// RunStoreTests runs a comprehensive test suite for an IStore implementation.
func RunStoreTests(t *testing.T, name string, factory StoreFactory) {
	t.Run(name, func(t *testing.T) {
		t.Run("Put&Get", func(t *testing.T) {
			testPutGet(t, factory())
		})

		t.Run("Delete", func(t *testing.T) {
			testDelete(t, factory())
		})

		t.Run("Has", func(t *testing.T) {
			testHas(t, factory())
		})

		t.Run("Len", func(t *testing.T) {
			testLen(t, factory())
		})

		t.Run("Range", func(t *testing.T) {
			testRange(t, factory())
		})

		t.Run("ClearDestroy", func(t *testing.T) {
			testClearDestroy(t, factory())
		})

		t.Run("Info", func(t *testing.T) {
			testInfo(t, factory())
		})

		t.Run("RealisticUsage", func(t *testing.T) {
			testRealisticUsage(t, factory())
		})
	})
}

// RunOrderedStoreTests runs the ordering specific tests for an IOrderedStore implementation.
func RunOrderedStoreTests(t *testing.T, name string, factory OrderedStoreFactory) {
	t.Run(name, func(t *testing.T) {
		t.Run("Order", func(t *testing.T) {
			testOrder(t, factory())
		})

		t.Run("MinMax", func(t *testing.T) {
			testMinMax(t, factory())
		})

		t.Run("AscendRange", func(t *testing.T) {
			testAscendRange(t, factory())
		})

		t.Run("DeleteRange", func(t *testing.T) {
			testDeleteRange(t, factory())
		})
	})
}

// --------------------------------------------------------------------------
// IStore test functions
// --------------------------------------------------------------------------

func testPutGet(t *testing.T, s store.IStore[string, int]) {
	defer s.Destroy()

	s.Put("test-key", 1)

	value, loaded := s.Get("test-key")
	if !loaded {
		t.Errorf("Expected key test-key to exist after Put")
	}
	if value != 1 {
		t.Errorf("Expected value 1, got %d", value)
	}

	s.Put("test-key", 2)

	value, loaded = s.Get("test-key")
	if !loaded {
		t.Errorf("Expected key test-key to exist after second Put")
	}
	if value != 2 {
		t.Errorf("Expected overwritten value 2, got %d", value)
	}

	value, loaded = s.Get("nonexistent-key")
	if loaded {
		t.Errorf("Expected nonexistent key to return loaded=false")
	}
	if value != 0 {
		t.Errorf("Expected zero value for nonexistent key, got %d", value)
	}

	s.Put("", 3)
	if value, _ := s.Get(""); value != 3 {
		t.Errorf("Expected empty key to be a regular key, got %d", value)
	}
}

func testDelete(t *testing.T, s store.IStore[string, int]) {
	defer s.Destroy()

	s.Put("delete-key", 1)

	if !s.Delete("delete-key") {
		t.Errorf("Expected Delete to report a removal for an existing key")
	}
	if s.Has("delete-key") {
		t.Errorf("Expected key delete-key to not exist after Delete")
	}
	if s.Delete("delete-key") {
		t.Errorf("Expected second Delete to report no removal")
	}
	if s.Delete("nonexistent-key") {
		t.Errorf("Expected Delete of a nonexistent key to report no removal")
	}
}

func testHas(t *testing.T, s store.IStore[string, int]) {
	defer s.Destroy()

	if s.Has("has-key") {
		t.Errorf("Expected Has to return false for nonexistent key")
	}

	s.Put("has-key", 0)

	if !s.Has("has-key") {
		t.Errorf("Expected Has to return true after Put of a zero value")
	}
}

func testLen(t *testing.T, s store.IStore[string, int]) {
	defer s.Destroy()

	if s.Len() != 0 {
		t.Errorf("Expected new store to be empty, got %d", s.Len())
	}

	numKeys := 1000
	for i := 0; i < numKeys; i++ {
		s.Put(fmt.Sprintf("key-%d", i), i)
	}
	// duplicates must not change the size
	for i := 0; i < numKeys/2; i++ {
		s.Put(fmt.Sprintf("key-%d", i), -i)
	}

	if s.Len() != numKeys {
		t.Errorf("Expected %d entries, got %d", numKeys, s.Len())
	}

	s.Delete("key-0")
	if s.Len() != numKeys-1 {
		t.Errorf("Expected %d entries after Delete, got %d", numKeys-1, s.Len())
	}
}

func testRange(t *testing.T, s store.IStore[string, int]) {
	defer s.Destroy()

	want := map[string]int{"a": 1, "b": 2, "c": 3}
	for k, v := range want {
		s.Put(k, v)
	}

	got := make(map[string]int)
	s.Range(func(key string, value int) bool {
		got[key] = value
		return true
	})

	if len(got) != len(want) {
		t.Errorf("Expected Range to visit %d entries, visited %d", len(want), len(got))
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("Expected Range to yield %s=%d, got %d", k, v, got[k])
		}
	}

	visited := 0
	s.Range(func(string, int) bool {
		visited++
		return false
	})
	if visited != 1 {
		t.Errorf("Expected Range to stop after fn returned false, visited %d", visited)
	}
}

func testClearDestroy(t *testing.T, s store.IStore[string, int]) {
	for i := 0; i < 100; i++ {
		s.Put(fmt.Sprintf("key-%d", i), i)
	}

	s.Clear()
	if s.Len() != 0 {
		t.Errorf("Expected Clear to remove all entries, got %d", s.Len())
	}

	s.Put("after-clear", 1)
	if !s.Has("after-clear") {
		t.Errorf("Expected store to be usable after Clear")
	}

	s.Destroy()
	if s.Len() != 0 {
		t.Errorf("Expected Destroy to remove all entries, got %d", s.Len())
	}
	if _, loaded := s.Get("after-clear"); loaded {
		t.Errorf("Expected destroyed store to be empty")
	}
}

func testInfo(t *testing.T, s store.IStore[string, int]) {
	defer s.Destroy()

	s.Put("a", 1)
	s.Put("b", 2)

	info := s.GetInfo()
	if info.Len != 2 {
		t.Errorf("Expected info to report 2 entries, got %d", info.Len)
	}
	if info.Type != store.ImplHash && info.Type != store.ImplTree {
		t.Errorf("Unexpected implementation type %q", info.Type)
	}
}

func testRealisticUsage(t *testing.T, s store.IStore[string, int]) {
	defer s.Destroy()

	// term -> document frequency, built like an indexer would
	docs := [][]string{
		{"lucene", "map", "hash"},
		{"map", "tree", "sorted"},
		{"hash", "map", "collector"},
	}

	for _, doc := range docs {
		for _, term := range doc {
			freq, _ := s.Get(term)
			s.Put(term, freq+1)
		}
	}

	expected := map[string]int{"lucene": 1, "map": 3, "hash": 2, "tree": 1, "sorted": 1, "collector": 1}
	for term, freq := range expected {
		if got, _ := s.Get(term); got != freq {
			t.Errorf("Expected frequency %d for term %s, got %d", freq, term, got)
		}
	}
	if s.Len() != len(expected) {
		t.Errorf("Expected %d terms, got %d", len(expected), s.Len())
	}

	// drop rare terms
	var rare []string
	s.Range(func(term string, freq int) bool {
		if freq == 1 {
			rare = append(rare, term)
		}
		return true
	})
	for _, term := range rare {
		s.Delete(term)
	}
	if s.Len() != 2 {
		t.Errorf("Expected 2 terms after pruning, got %d", s.Len())
	}
}

// RunConcurrentStoreTests checks that single calls of a thread-safe store can be
// issued from many goroutines. Stores without that guarantee must not run it.
func RunConcurrentStoreTests(t *testing.T, name string, factory StoreFactory) {
	t.Run(name+"/Concurrent", func(t *testing.T) {
		s := factory()
		defer s.Destroy()

		const numWorkers = 8
		const keysPerWorker = 500

		var wg sync.WaitGroup
		wg.Add(numWorkers)
		for w := 0; w < numWorkers; w++ {
			go func(worker int) {
				defer wg.Done()
				for i := 0; i < keysPerWorker; i++ {
					key := fmt.Sprintf("w%d-k%d", worker, i)
					s.Put(key, i)
					if !s.Has(key) {
						t.Errorf("Key %s not found after Put", key)
					}
				}
			}(w)
		}
		wg.Wait()

		if s.Len() != numWorkers*keysPerWorker {
			t.Errorf("Expected %d entries, got %d", numWorkers*keysPerWorker, s.Len())
		}
	})
}

// --------------------------------------------------------------------------
// IOrderedStore test functions
// --------------------------------------------------------------------------

func testOrder(t *testing.T, s store.IOrderedStore[int, string]) {
	defer s.Destroy()

	for _, k := range []int{3, 1, 2, 5, 4} {
		s.Put(k, fmt.Sprint(k))
	}

	var keys []int
	s.Range(func(key int, _ string) bool {
		keys = append(keys, key)
		return true
	})

	for i, k := range keys {
		if k != i+1 {
			t.Errorf("Expected key %d at position %d, got %d (%v)", i+1, i, k, keys)
			break
		}
	}
}

func testMinMax(t *testing.T, s store.IOrderedStore[int, string]) {
	defer s.Destroy()

	if _, ok := s.Min(); ok {
		t.Errorf("Expected Min of an empty store to report ok=false")
	}
	if _, ok := s.Max(); ok {
		t.Errorf("Expected Max of an empty store to report ok=false")
	}

	for _, k := range []int{42, -7, 13} {
		s.Put(k, fmt.Sprint(k))
	}

	if e, ok := s.Min(); !ok || e.Key != -7 || e.Value != "-7" {
		t.Errorf("Expected Min -7, got %v (ok=%v)", e, ok)
	}
	if e, ok := s.Max(); !ok || e.Key != 42 {
		t.Errorf("Expected Max 42, got %v (ok=%v)", e, ok)
	}
}

func testAscendRange(t *testing.T, s store.IOrderedStore[int, string]) {
	defer s.Destroy()

	for i := 0; i < 10; i++ {
		s.Put(i, fmt.Sprint(i))
	}

	var keys []int
	s.AscendRange(3, 6, func(key int, _ string) bool {
		keys = append(keys, key)
		return true
	})
	if len(keys) != 3 || keys[0] != 3 || keys[2] != 5 {
		t.Errorf("Expected keys [3 4 5], got %v", keys)
	}

	keys = keys[:0]
	s.AscendRange(6, 3, func(key int, _ string) bool {
		keys = append(keys, key)
		return true
	})
	if len(keys) != 0 {
		t.Errorf("Expected empty range for from > to, got %v", keys)
	}

	keys = keys[:0]
	s.AscendFrom(8, func(key int, _ string) bool {
		keys = append(keys, key)
		return true
	})
	if len(keys) != 2 || keys[0] != 8 || keys[1] != 9 {
		t.Errorf("Expected keys [8 9], got %v", keys)
	}
}

func testDeleteRange(t *testing.T, s store.IOrderedStore[int, string]) {
	defer s.Destroy()

	for i := 0; i < 10; i++ {
		s.Put(i, fmt.Sprint(i))
	}

	removed, next, ok := s.DeleteRange(2, 5)
	if removed != 3 {
		t.Errorf("Expected 3 removed entries, got %d", removed)
	}
	if !ok || next.Key != 5 {
		t.Errorf("Expected next entry 5, got %v (ok=%v)", next, ok)
	}
	if s.Len() != 7 {
		t.Errorf("Expected 7 remaining entries, got %d", s.Len())
	}
	for k := 2; k < 5; k++ {
		if s.Has(k) {
			t.Errorf("Expected key %d to be removed", k)
		}
	}

	removed, _, ok = s.DeleteRange(8, 100)
	if removed != 2 {
		t.Errorf("Expected 2 removed entries at the tail, got %d", removed)
	}
	if ok {
		t.Errorf("Expected no entry after the removed tail")
	}

	removed, next, ok = s.DeleteRange(6, 6)
	if removed != 0 {
		t.Errorf("Expected empty span to remove nothing, removed %d", removed)
	}
	if !ok || next.Key != 6 {
		t.Errorf("Expected next entry 6 for an empty span, got %v (ok=%v)", next, ok)
	}
}
