package collector

import (
	"fmt"
	"io"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ValentinKolb/gcmap/lib/common"
	"github.com/ValentinKolb/gcmap/lib/util"
	"github.com/VictoriaMetrics/metrics"
	"github.com/lni/dragonboat/v4/logger"
	"github.com/puzpuzpuz/xsync/v3"
	gometrics "github.com/rcrowley/go-metrics"
)

// --------------------------------------------------------------------------
// Constants
// --------------------------------------------------------------------------

const (
	defaultSweepInterval = 100 * time.Millisecond // Default delay between a release and its sweep
	defaultName          = "default"              // Default collector name (metrics label)
	sampleSize           = 1028                   // Reservoir size of the reclaimed-size histogram
)

// --------------------------------------------------------------------------
// Options
// --------------------------------------------------------------------------

// Options configures the collector behavior during initialization
type Options struct {
	Name          string        // Name used as metrics label ("" = use default: "default")
	SweepInterval time.Duration // Time between the first pending release and its sweep (0 = use default: 100ms)
}

// DefaultOptions returns the default collector options
func DefaultOptions() *Options {
	return &Options{
		Name:          defaultName,
		SweepInterval: defaultSweepInterval,
	}
}

// --------------------------------------------------------------------------
// Core collector structure
// --------------------------------------------------------------------------

// entry is a single registration
type entry struct {
	obj  Object
	root any // only set for permanent registrations
}

// collectorImpl implements ICollector with one registry per scope and a background sweeper
type collectorImpl struct {
	name       string
	nextID     atomic.Uint64
	registries [2]*xsync.MapOf[uint64, *entry] // indexed by Scope
	releases   *util.Queue[uint64]             // ids of scoped roots that became unreachable

	// lifecycle
	mu            sync.RWMutex // Register holds it shared, Shutdown exclusive
	closed        atomic.Bool
	sweepInterval time.Duration
	sweepMu       sync.Mutex // serializes sweeps of the sweeper and Collect
	stop          chan struct{}
	done          chan struct{}

	// metrics
	set            *metrics.Set
	registered     [2]*metrics.Counter
	reclaimed      *metrics.Counter
	destroyed      *metrics.Counter
	detached       *metrics.Counter
	sweepTimer     gometrics.Timer
	reclaimedSizes gometrics.Histogram

	log logger.ILogger
}

var (
	defaultOnce      sync.Once
	defaultCollector ICollector
)

// Default returns the process-wide collector, starting it on first use.
// It is never shut down by this package.
func Default() ICollector {
	defaultOnce.Do(func() {
		defaultCollector = NewCollector(nil)
	})
	return defaultCollector
}

// NewCollector creates and starts a new collector with the specified options (optional)
func NewCollector(opts *Options) ICollector {
	if opts == nil {
		opts = DefaultOptions()
	}
	name := opts.Name
	if name == "" {
		name = defaultName
	}
	interval := opts.SweepInterval
	if interval <= 0 {
		interval = defaultSweepInterval
	}

	c := &collectorImpl{
		name:           name,
		releases:       util.NewQueue[uint64](),
		sweepInterval:  interval,
		stop:           make(chan struct{}),
		done:           make(chan struct{}),
		set:            metrics.NewSet(),
		sweepTimer:     gometrics.NewTimer(),
		reclaimedSizes: gometrics.NewHistogram(gometrics.NewUniformSample(sampleSize)),
		log:            logger.GetLogger(common.LoggerCollector),
	}

	for _, scope := range []Scope{ScopeScoped, ScopePermanent} {
		s := scope
		c.registries[s] = xsync.NewMapOf[uint64, *entry]()
		c.registered[s] = c.set.NewCounter(c.metricName("gcmap_collector_registered_total", s))
		c.set.NewGauge(c.metricName("gcmap_collector_live", s), func() float64 {
			return float64(c.registries[s].Size())
		})
	}
	c.reclaimed = c.set.NewCounter(c.metricName("gcmap_collector_reclaimed_total", ScopeScoped))
	c.destroyed = c.set.NewCounter(c.metricName("gcmap_collector_destroyed_total", ScopePermanent))
	c.detached = c.set.NewCounter(c.metricName("gcmap_collector_detached_total", ScopeScoped))
	c.set.NewGauge(fmt.Sprintf(`gcmap_collector_pending{collector=%q}`, c.name), func() float64 {
		return float64(c.releases.Len())
	})

	go c.sweeper()

	c.log.Debugf("collector %s started (sweep interval %s)", c.name, c.sweepInterval)
	return c
}

// metricName builds a metric name with the collector and scope labels
func (c *collectorImpl) metricName(name string, scope Scope) string {
	return fmt.Sprintf(`%s{collector=%q,scope=%q}`, name, c.name, scope.String())
}

// --------------------------------------------------------------------------
// Interface Methods (docu see collector/interface.go)
// --------------------------------------------------------------------------

func (c *collectorImpl) Register(scope Scope, obj Object, root any) (uint64, error) {
	if scope != ScopeScoped && scope != ScopePermanent {
		return 0, ErrInvalidScope
	}
	if obj == nil {
		return 0, ErrNilObject
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.closed.Load() {
		return 0, ErrCollectorClosed
	}

	e := &entry{obj: obj}
	if scope == ScopePermanent {
		e.root = root
	}

	id := c.nextID.Add(1)
	c.registries[scope].Store(id, e)
	c.registered[scope].Inc()

	return id, nil
}

func (c *collectorImpl) Release(id uint64) {
	// a closed queue means Shutdown already detached the registration
	c.releases.Push(id)
}

func (c *collectorImpl) Lookup(id uint64) (Scope, bool) {
	for _, scope := range []Scope{ScopeScoped, ScopePermanent} {
		if _, ok := c.registries[scope].Load(id); ok {
			return scope, true
		}
	}
	return 0, false
}

func (c *collectorImpl) Collect() {
	runtime.GC()
	c.sweep()
}

func (c *collectorImpl) Stats() Stats {
	return Stats{
		Scoped:               c.registries[ScopeScoped].Size(),
		Permanent:            c.registries[ScopePermanent].Size(),
		Pending:              c.releases.Len(),
		Registered:           c.registered[ScopeScoped].Get() + c.registered[ScopePermanent].Get(),
		Reclaimed:            c.reclaimed.Get(),
		Destroyed:            c.destroyed.Get(),
		Detached:             c.detached.Get(),
		Sweeps:               c.sweepTimer.Count(),
		SweepMean:            time.Duration(c.sweepTimer.Mean()),
		ReclaimedEntriesMean: c.reclaimedSizes.Mean(),
		Closed:               c.closed.Load(),
	}
}

func (c *collectorImpl) WritePrometheus(w io.Writer) {
	c.set.WritePrometheus(w)
}

func (c *collectorImpl) Shutdown() error {
	c.mu.Lock()
	if c.closed.Load() {
		c.mu.Unlock()
		return nil
	}
	c.closed.Store(true)
	c.mu.Unlock()

	// stop the sweeper and take over the pending releases
	close(c.stop)
	<-c.done
	c.releases.Close()
	reclaimed := c.sweep()

	var destroyed, detached int
	c.registries[ScopePermanent].Range(func(id uint64, e *entry) bool {
		c.registries[ScopePermanent].Delete(id)
		e.obj.Destroy()
		destroyed++
		return true
	})
	c.registries[ScopeScoped].Range(func(id uint64, _ *entry) bool {
		c.registries[ScopeScoped].Delete(id)
		detached++
		return true
	})
	c.destroyed.Add(destroyed)
	c.detached.Add(detached)
	c.sweepTimer.Stop()

	c.log.Infof("collector %s shut down (reclaimed %d, destroyed %d permanent, detached %d scoped)",
		c.name, reclaimed, destroyed, detached)
	return nil
}

// --------------------------------------------------------------------------
// Sweeping
// --------------------------------------------------------------------------

// sweeper waits for releases and sweeps them in batches, one sweepInterval
// after the first release of a batch arrived.
// WARNING: this method should only be started once by NewCollector!
func (c *collectorImpl) sweeper() {
	defer close(c.done)

	timer := time.NewTimer(c.sweepInterval)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-c.releases.Notify():
		}

		// batch releases arriving within the interval
		timer.Reset(c.sweepInterval)
		select {
		case <-c.stop:
			return
		case <-timer.C:
		}

		c.sweep()
	}
}

// sweep destroys the objects of all released scoped registrations.
// Returns the number of destroyed objects.
//
// Thread-safety: This method is thread-safe, concurrent sweeps are serialized.
func (c *collectorImpl) sweep() int {
	c.sweepMu.Lock()
	defer c.sweepMu.Unlock()

	ids := c.releases.Drain()
	if len(ids) == 0 {
		return 0
	}

	start := time.Now()
	count := 0
	for _, id := range ids {
		e, ok := c.registries[ScopeScoped].LoadAndDelete(id)
		if !ok {
			continue // already detached
		}
		c.reclaimedSizes.Update(int64(e.obj.Len()))
		e.obj.Destroy()
		count++
	}
	c.reclaimed.Add(count)
	c.sweepTimer.UpdateSince(start)

	c.log.Debugf("collector %s swept %d of %d released objects", c.name, count, len(ids))
	return count
}
