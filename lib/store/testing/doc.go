// Package testing provides standardized tests for implementations of the
// store.IStore and store.IOrderedStore interfaces.
//
//   - RunStoreTests: the basic contract (overwrite, default on miss, removal, size, traversal)
//   - RunOrderedStoreTests: ordering, min/max, range traversal and range deletion
//   - RunConcurrentStoreTests: concurrent single calls, only for thread-safe stores
//   - RunStoreBenchmarks: performance benchmarks for comparing implementations
package testing
