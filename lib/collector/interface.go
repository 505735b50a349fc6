package collector

import (
	"fmt"
	"io"
	"time"

	"github.com/pkg/errors"
)

// --------------------------------------------------------------------------
// Helper Types
// --------------------------------------------------------------------------

// Scope is the lifetime class of a registered object
type Scope int

const (
	ScopeScoped    Scope = iota // Reclaimed once its root is unreachable
	ScopePermanent              // Retained until the collector shuts down
)

func (s Scope) String() string {
	switch s {
	case ScopeScoped:
		return "scoped"
	case ScopePermanent:
		return "permanent"
	default:
		return fmt.Sprintf("Scope(%d)", int(s))
	}
}

// Object is anything the collector can own. Backing stores implement it.
type Object interface {
	// Len reports the number of entries (used for statistics only)
	Len() int
	// Destroy releases the contents of the object
	Destroy()
}

// Stats is a snapshot of the collector state
type Stats struct {
	Scoped               int           `json:"scoped"`                 // live scoped registrations
	Permanent            int           `json:"permanent"`              // live permanent registrations
	Pending              int           `json:"pending"`                // unreachable roots not yet swept
	Registered           uint64        `json:"registered"`             // total registrations
	Reclaimed            uint64        `json:"reclaimed"`              // scoped objects destroyed after their root became unreachable
	Destroyed            uint64        `json:"destroyed"`              // permanent objects destroyed by Shutdown
	Detached             uint64        `json:"detached"`               // scoped objects still reachable at Shutdown
	Sweeps               int64         `json:"sweeps"`                 // number of non-empty sweeps
	SweepMean            time.Duration `json:"sweep_mean"`             // mean duration of a sweep
	ReclaimedEntriesMean float64       `json:"reclaimed_entries_mean"` // mean entry count of reclaimed objects
	Closed               bool          `json:"closed"`
}

// --------------------------------------------------------------------------
// Errors
// --------------------------------------------------------------------------

var (
	ErrCollectorClosed = errors.New("collector is shut down")
	ErrInvalidScope    = errors.New("invalid registration scope")
	ErrNilObject       = errors.New("cannot register nil object")
	ErrNilRoot         = errors.New("cannot attach nil root")
)

// --------------------------------------------------------------------------
// Collector Interface
// --------------------------------------------------------------------------

// ICollector owns registered objects and is the only party that destroys them.
// It keeps two registries: scoped objects are destroyed once their root is
// unreachable, permanent objects are destroyed when the collector shuts down.
//
// Implementations must be safe for concurrent use.
type ICollector interface {

	// Register adds obj to the registry of the given scope and returns its id.
	// root is retained for permanent registrations only (so that it never becomes
	// unreachable), scoped registrations never hold their root.
	// Use Attach to register an object together with its reachability tracking.
	Register(scope Scope, obj Object, root any) (id uint64, err error)

	// Release reports that the root of a scoped registration became unreachable.
	// It never blocks and is safe to call from runtime cleanup functions.
	// The object is destroyed by the next sweep.
	Release(id uint64)

	// Lookup returns the scope of a live registration.
	Lookup(id uint64) (scope Scope, ok bool)

	// Collect runs a garbage collection and sweeps all releases reported so far.
	// Runtime cleanups run asynchronously, so roots that became unreachable
	// during this call may only be swept by a later Collect or sweep.
	Collect()

	// Stats returns a snapshot of the registries and counters.
	Stats() (stats Stats)

	// WritePrometheus writes the collector metrics in Prometheus text format.
	WritePrometheus(w io.Writer)

	// Shutdown stops the sweeper, destroys all permanent objects and detaches
	// the scoped ones that are still reachable. Further registrations fail with
	// ErrCollectorClosed. Calling Shutdown more than once is a no-op.
	Shutdown() (err error)
}
