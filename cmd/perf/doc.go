// Package perf implements the "gcmap perf" command, which benchmarks the hash
// and sorted map flavors with parallel workers (testing.Benchmark) and
// optionally exports the results as CSV.
package perf
