// Package lockmgr implements the synchronization handle that every store
// identity carries. All copies of a map share the same lock, so any holder
// can guard a compound sequence against every other holder.
//
// The lock is never taken by the single map operations (put, get, remove...).
// It exists for callers that need a read-modify-write sequence to be atomic.
//
// Core Functionality:
//   - Plain mutual exclusion (Lock, Unlock, TryLock with timeout)
//   - Scoped acquisition (WithLock) that releases on return and on panic
//   - Owner-verified acquisition (Acquire, Release, HoldsLock) with context cancellation
//   - Condition-style waiting (Wait, NotifyAll)
//
// Implementation Approach:
//
//	The lock is a channel with a single slot: sending a token acquires it,
//	receiving the token releases it. This makes timeouts and context
//	cancellation a plain select. Acquire additionally records a randomly
//	generated owner ID, and Release only succeeds for the recorded owner.
//
//	Wait captures the current notification channel before releasing the lock,
//	so a NotifyAll issued between the release and the wait is not lost.
//	NotifyAll closes that channel and installs a new one.
//
// Usage Example:
//
//	lock := m.Sync()
//
//	err := lock.WithLock(func() error {
//	    if !m.Contains(key) {
//	        m.Put(key, value)
//	    }
//	    return nil
//	})
//
//	ownerID, err := lock.Acquire(ctx)
//	if err != nil {
//	    // ctx was cancelled
//	}
//	defer lock.Release(ownerID)
package lockmgr
