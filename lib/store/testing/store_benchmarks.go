package testing

import (
	"math/rand"
	"strconv"
	"testing"
)

// RunStoreBenchmarks runs all benchmarks for a store implementation.
// The benchmarks are sequential so that stores without concurrency guarantees can run them.
func RunStoreBenchmarks(b *testing.B, name string, factory StoreFactory) {
	b.Run(name+"/Put", func(b *testing.B) {
		benchmarkPut(b, factory)
	})

	b.Run(name+"/PutExisting", func(b *testing.B) {
		benchmarkPutExisting(b, factory)
	})

	b.Run(name+"/Get", func(b *testing.B) {
		benchmarkGet(b, factory)
	})

	b.Run(name+"/Has(not)", func(b *testing.B) {
		benchmarkHasNot(b, factory)
	})

	b.Run(name+"/Delete", func(b *testing.B) {
		benchmarkDelete(b, factory)
	})

	b.Run(name+"/MixedUsage", func(b *testing.B) {
		benchmarkMixedUsage(b, factory)
	})
}

// --------------------------------------------------------------------------
// Helper functions
// --------------------------------------------------------------------------

// benchKeys returns n distinct keys
func benchKeys(n int) []string {
	keys := make([]string, n)
	for i := range keys {
		keys[i] = "bench-key-" + strconv.Itoa(i)
	}
	return keys
}

const benchKeySpread = 10_000

// --------------------------------------------------------------------------
// Benchmark functions
// --------------------------------------------------------------------------

func benchmarkPut(b *testing.B, factory StoreFactory) {
	s := factory()
	b.Cleanup(s.Destroy)
	keys := benchKeys(b.N)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.Put(keys[i], i)
	}
}

func benchmarkPutExisting(b *testing.B, factory StoreFactory) {
	s := factory()
	b.Cleanup(s.Destroy)
	keys := benchKeys(benchKeySpread)
	for i, k := range keys {
		s.Put(k, i)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.Put(keys[i%benchKeySpread], i)
	}
}

func benchmarkGet(b *testing.B, factory StoreFactory) {
	s := factory()
	b.Cleanup(s.Destroy)
	keys := benchKeys(benchKeySpread)
	for i, k := range keys {
		s.Put(k, i)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.Get(keys[i%benchKeySpread])
	}
}

func benchmarkHasNot(b *testing.B, factory StoreFactory) {
	s := factory()
	b.Cleanup(s.Destroy)
	keys := benchKeys(benchKeySpread)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.Has(keys[i%benchKeySpread])
	}
}

func benchmarkDelete(b *testing.B, factory StoreFactory) {
	s := factory()
	b.Cleanup(s.Destroy)
	keys := benchKeys(b.N)
	for i, k := range keys {
		s.Put(k, i)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.Delete(keys[i])
	}
}

func benchmarkMixedUsage(b *testing.B, factory StoreFactory) {
	s := factory()
	b.Cleanup(s.Destroy)
	keys := benchKeys(benchKeySpread)
	rnd := rand.New(rand.NewSource(42))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		key := keys[rnd.Intn(benchKeySpread)]
		switch op := rnd.Intn(10); {
		case op < 6: // 60% reads
			s.Get(key)
		case op < 9: // 30% writes
			s.Put(key, i)
		default: // 10% deletes
			s.Delete(key)
		}
	}
}
