package lockmgr

import (
	"context"
	"time"
)

// ILock is the synchronization handle of a single store identity.
// Callers acquire it around compound sequences (check-then-put); the map
// operations themselves never take it.
type ILock interface {
	// Lock blocks until the lock is acquired.
	Lock()

	// Unlock releases a lock acquired with Lock or TryLock.
	// Unlocking an unlocked lock panics.
	Unlock()

	// TryLock tries to acquire the lock within timeout (0 = don't wait).
	// Returns whether the lock was acquired.
	TryLock(timeout time.Duration) (ok bool)

	// Acquire blocks until the lock is acquired or ctx is done.
	// The returned owner ID identifies this acquisition for Release and HoldsLock.
	Acquire(ctx context.Context) (ownerID []byte, err error)

	// Release releases the lock if it is held by ownerID.
	// Returns whether the lock was released.
	Release(ownerID []byte) (ok bool)

	// HoldsLock reports whether the lock is currently held by ownerID.
	HoldsLock(ownerID []byte) (ok bool)

	// Locked reports whether the lock is held by anyone.
	Locked() (ok bool)

	// WithLock runs fn while holding the lock. The lock is released when fn
	// returns or panics.
	WithLock(fn func() error) (err error)

	// Wait releases the lock, waits for NotifyAll or the timeout (0 = no timeout)
	// and reacquires the lock before returning. The caller must hold the lock.
	// Returns false if the timeout expired.
	Wait(timeout time.Duration) (notified bool)

	// NotifyAll wakes all goroutines blocked in Wait.
	NotifyAll()
}
