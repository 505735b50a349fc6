// Package cmd implements the command-line interface of gcmap.
//
// The package is organized into several subpackages:
//
//   - perf: Parallel benchmarks of the hash and sorted map flavors
//   - collect: Allocates and drops maps to show scoped and permanent reclamation
//   - util: Shared utilities for command-line processing and configuration (internal use)
//
// Every flag can also be set with an environment variable GCMAP_<FLAG>
// (dashes replaced by underscores), .env and .env.local are loaded on startup.
//
// See gcmap -help for a list of all commands.
package cmd
