// Package collector implements the reclaiming service that owns the backing
// stores of all gcmap handles.
//
// The collector keeps two registries:
//
//   - Scoped: objects are destroyed once their root (the handle that all map
//     copies share) is unreachable. Reachability is observed with
//     runtime.AddCleanup: the cleanup of a root only pushes the registration id
//     into an unbounded queue, the sweeper goroutine destroys the objects in
//     batches. Scoped entries never reference their root.
//
//   - Permanent: objects and their roots are retained until Shutdown, which
//     destroys them. This models process-lifetime ("static") registrations.
//
// Nothing else destroys an object: handles never call Destroy, and a reachable
// root is never swept because its cleanup has not run.
//
// Usage Example:
//
//	c := collector.NewCollector(nil)
//	defer c.Shutdown()
//
//	root := &myHandle{store: s}
//	id, err := collector.Attach(c, collector.ScopeScoped, root, s)
//	if err != nil {
//	    // the collector is shut down
//	}
//
//	// root and everything referencing it are dropped...
//	c.Collect()            // force a GC and sweep what has been released so far
//	_, ok := c.Lookup(id)  // false once the store has been reclaimed
//
// Metrics:
//
//	Every collector owns a VictoriaMetrics set with registration, reclaim and
//	destroy counters plus live gauges per scope (WritePrometheus). Sweep
//	durations and the entry counts of reclaimed objects are tracked with
//	go-metrics and reported by Stats.
//
// Thread Safety:
//
//	All methods are safe for concurrent use. Register and Shutdown are
//	mutually exclusive, so an object is either registered before the shutdown
//	(and handled by it) or rejected with ErrCollectorClosed.
package collector
