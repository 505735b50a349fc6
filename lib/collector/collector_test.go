package collector

import (
	"bytes"
	"errors"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

// testObject records whether the collector destroyed it
type testObject struct {
	entries   int
	destroyed atomic.Bool
}

func (o *testObject) Len() int { return o.entries }
func (o *testObject) Destroy() { o.destroyed.Store(true) }

// testRoot stands in for a map handle
type testRoot struct {
	name string
	obj  *testObject
}

// attachDropped registers obj with a fresh root that is unreachable after the call
//
//go:noinline
func attachDropped(t *testing.T, c ICollector, scope Scope, obj *testObject) uint64 {
	id, err := Attach(c, scope, &testRoot{name: "dropped"}, obj)
	if err != nil {
		t.Fatalf("Attach failed: %v", err)
	}
	return id
}

// waitFor runs cond until it returns true or the timeout expires
func waitFor(t *testing.T, timeout time.Duration, step func(), cond func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		step()
		if cond() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return false
}

// --------------------------------------------------------------------------
// Tests
// --------------------------------------------------------------------------

func TestRegisterLookup(t *testing.T) {
	c := NewCollector(nil)
	defer c.Shutdown()

	scopedRoot := &testRoot{name: "scoped"}
	scopedID, err := Attach(c, ScopeScoped, scopedRoot, &testObject{})
	if err != nil {
		t.Fatalf("Attach(scoped) failed: %v", err)
	}
	permanentID, err := Attach(c, ScopePermanent, &testRoot{name: "permanent"}, &testObject{})
	if err != nil {
		t.Fatalf("Attach(permanent) failed: %v", err)
	}

	if scopedID == permanentID {
		t.Errorf("Expected distinct registration ids, got %d twice", scopedID)
	}
	if scope, ok := c.Lookup(scopedID); !ok || scope != ScopeScoped {
		t.Errorf("Expected scoped registration, got %v (ok=%v)", scope, ok)
	}
	if scope, ok := c.Lookup(permanentID); !ok || scope != ScopePermanent {
		t.Errorf("Expected permanent registration, got %v (ok=%v)", scope, ok)
	}
	if _, ok := c.Lookup(permanentID + 100); ok {
		t.Errorf("Expected unknown id to not be registered")
	}

	stats := c.Stats()
	if stats.Scoped != 1 || stats.Permanent != 1 || stats.Registered != 2 {
		t.Errorf("Unexpected stats after two registrations: %+v", stats)
	}

	runtime.KeepAlive(scopedRoot)
}

func TestScopedReclaim(t *testing.T) {
	c := NewCollector(nil)
	defer c.Shutdown()

	obj := &testObject{entries: 7}
	id := attachDropped(t, c, ScopeScoped, obj)

	reclaimed := waitFor(t, 5*time.Second, c.Collect, func() bool {
		_, ok := c.Lookup(id)
		return !ok
	})
	if !reclaimed {
		t.Fatalf("Expected unreachable scoped root to be reclaimed")
	}
	if !obj.destroyed.Load() {
		t.Errorf("Expected the collector to destroy the reclaimed object")
	}

	stats := c.Stats()
	if stats.Reclaimed != 1 {
		t.Errorf("Expected 1 reclaimed object, got %d", stats.Reclaimed)
	}
	if stats.Sweeps < 1 {
		t.Errorf("Expected at least one sweep, got %d", stats.Sweeps)
	}
	if stats.ReclaimedEntriesMean != 7 {
		t.Errorf("Expected mean reclaimed entry count 7, got %f", stats.ReclaimedEntriesMean)
	}
}

func TestReachableNotReclaimed(t *testing.T) {
	c := NewCollector(nil)
	defer c.Shutdown()

	obj := &testObject{}
	root := &testRoot{name: "reachable", obj: nil}
	id, err := Attach(c, ScopeScoped, root, obj)
	if err != nil {
		t.Fatalf("Attach failed: %v", err)
	}

	for i := 0; i < 5; i++ {
		c.Collect()
		time.Sleep(5 * time.Millisecond)
	}

	if _, ok := c.Lookup(id); !ok {
		t.Errorf("Expected reachable scoped registration to survive collections")
	}
	if obj.destroyed.Load() {
		t.Errorf("Expected reachable object to not be destroyed")
	}

	runtime.KeepAlive(root)
}

func TestPermanentSurvives(t *testing.T) {
	c := NewCollector(nil)

	obj := &testObject{}
	id := attachDropped(t, c, ScopePermanent, obj)

	for i := 0; i < 5; i++ {
		c.Collect()
		time.Sleep(5 * time.Millisecond)
	}

	if scope, ok := c.Lookup(id); !ok || scope != ScopePermanent {
		t.Errorf("Expected permanent registration to survive without reachable roots")
	}
	if obj.destroyed.Load() {
		t.Errorf("Expected permanent object to not be destroyed before shutdown")
	}

	if err := c.Shutdown(); err != nil {
		t.Fatalf("Shutdown failed: %v", err)
	}
	if !obj.destroyed.Load() {
		t.Errorf("Expected Shutdown to destroy permanent objects")
	}
	if _, ok := c.Lookup(id); ok {
		t.Errorf("Expected permanent registration to be gone after shutdown")
	}
	if stats := c.Stats(); stats.Destroyed != 1 || !stats.Closed {
		t.Errorf("Unexpected stats after shutdown: %+v", stats)
	}
}

func TestShutdown(t *testing.T) {
	c := NewCollector(nil)

	obj := &testObject{}
	root := &testRoot{name: "live"}
	if _, err := Attach(c, ScopeScoped, root, obj); err != nil {
		t.Fatalf("Attach failed: %v", err)
	}

	if err := c.Shutdown(); err != nil {
		t.Fatalf("Shutdown failed: %v", err)
	}
	if err := c.Shutdown(); err != nil {
		t.Errorf("Expected second Shutdown to be a no-op, got %v", err)
	}

	if obj.destroyed.Load() {
		t.Errorf("Expected reachable scoped object to be detached, not destroyed")
	}
	if stats := c.Stats(); stats.Detached != 1 || stats.Scoped != 0 {
		t.Errorf("Unexpected stats after shutdown: %+v", stats)
	}

	_, err := Attach(c, ScopeScoped, &testRoot{}, &testObject{})
	if !errors.Is(err, ErrCollectorClosed) {
		t.Errorf("Expected ErrCollectorClosed after shutdown, got %v", err)
	}

	// a late release must not panic
	c.Release(12345)

	runtime.KeepAlive(root)
}

func TestBackgroundSweeper(t *testing.T) {
	c := NewCollector(&Options{Name: "sweeper", SweepInterval: 10 * time.Millisecond})
	defer c.Shutdown()

	objects := make([]*testObject, 10)
	for i := range objects {
		objects[i] = &testObject{}
		attachDropped(t, c, ScopeScoped, objects[i])
	}

	// only run the runtime GC, the sweeper goroutine has to do the rest
	reclaimed := waitFor(t, 5*time.Second, runtime.GC, func() bool {
		return c.Stats().Reclaimed == uint64(len(objects))
	})
	if !reclaimed {
		t.Fatalf("Expected the sweeper to reclaim all objects, stats: %+v", c.Stats())
	}
	for i, obj := range objects {
		if !obj.destroyed.Load() {
			t.Errorf("Expected object %d to be destroyed", i)
		}
	}
}

func TestConcurrentRegister(t *testing.T) {
	c := NewCollector(nil)
	defer c.Shutdown()

	const numWorkers = 8
	const perWorker = 100

	roots := make([][]*testRoot, numWorkers)
	var wg sync.WaitGroup
	wg.Add(numWorkers)
	for w := 0; w < numWorkers; w++ {
		go func(worker int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				root := &testRoot{name: "concurrent"}
				roots[worker] = append(roots[worker], root)
				if _, err := Attach(c, ScopeScoped, root, &testObject{}); err != nil {
					t.Errorf("Attach failed: %v", err)
				}
			}
		}(w)
	}
	wg.Wait()

	if stats := c.Stats(); stats.Scoped != numWorkers*perWorker {
		t.Errorf("Expected %d scoped registrations, got %d", numWorkers*perWorker, stats.Scoped)
	}

	runtime.KeepAlive(roots)
}

func TestInvalidRegistrations(t *testing.T) {
	c := NewCollector(nil)
	defer c.Shutdown()

	if _, err := Attach[testRoot](c, ScopeScoped, nil, &testObject{}); !errors.Is(err, ErrNilRoot) {
		t.Errorf("Expected ErrNilRoot, got %v", err)
	}
	if _, err := Attach(c, Scope(42), &testRoot{}, &testObject{}); !errors.Is(err, ErrInvalidScope) {
		t.Errorf("Expected ErrInvalidScope, got %v", err)
	}
	if _, err := c.Register(ScopePermanent, nil, nil); !errors.Is(err, ErrNilObject) {
		t.Errorf("Expected ErrNilObject, got %v", err)
	}
	if s := Scope(42).String(); s != "Scope(42)" {
		t.Errorf("Unexpected string for unknown scope: %s", s)
	}
}

func TestWritePrometheus(t *testing.T) {
	c := NewCollector(&Options{Name: "prom"})
	defer c.Shutdown()

	if _, err := Attach(c, ScopePermanent, &testRoot{}, &testObject{}); err != nil {
		t.Fatalf("Attach failed: %v", err)
	}

	var buf bytes.Buffer
	c.WritePrometheus(&buf)
	out := buf.String()

	for _, want := range []string{
		`gcmap_collector_registered_total{collector="prom",scope="permanent"} 1`,
		`gcmap_collector_live{collector="prom",scope="permanent"} 1`,
		`gcmap_collector_live{collector="prom",scope="scoped"} 0`,
		`gcmap_collector_reclaimed_total{collector="prom",scope="scoped"} 0`,
		`gcmap_collector_pending{collector="prom"}`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected metrics output to contain %q, got:\n%s", want, out)
		}
	}
}

func TestDefault(t *testing.T) {
	if Default() != Default() {
		t.Errorf("Expected Default to return the same collector")
	}
}
