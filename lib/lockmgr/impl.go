package lockmgr

import (
	"bytes"
	"context"
	"sync"
	"time"

	"github.com/ValentinKolb/gcmap/lib/common"
	"github.com/lni/dragonboat/v4/logger"
)

var plog = logger.GetLogger(common.LoggerLock)

// lockImpl is a mutex built on a one slot channel, which allows waiting with timeouts and contexts
type lockImpl struct {
	sem chan struct{} // holds one token while locked

	mu    sync.Mutex    // guards owner and event
	owner []byte        // owner of an Acquire, nil for Lock/TryLock
	event chan struct{} // closed and replaced by NotifyAll
}

// NewLock creates a new unlocked lock
func NewLock() ILock {
	return &lockImpl{
		sem:   make(chan struct{}, 1),
		event: make(chan struct{}),
	}
}

func (l *lockImpl) Lock() {
	l.sem <- struct{}{}
}

func (l *lockImpl) Unlock() {
	l.mu.Lock()
	l.owner = nil
	l.mu.Unlock()

	select {
	case <-l.sem:
	default:
		panic("lockmgr: unlock of unlocked lock")
	}
}

func (l *lockImpl) TryLock(timeout time.Duration) bool {
	if timeout <= 0 {
		select {
		case l.sem <- struct{}{}:
			return true
		default:
			return false
		}
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case l.sem <- struct{}{}:
		return true
	case <-timer.C:
		return false
	}
}

func (l *lockImpl) Acquire(ctx context.Context) ([]byte, error) {
	ownerID, err := generateOwnerID()
	if err != nil {
		return nil, err
	}

	select {
	case l.sem <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	l.mu.Lock()
	l.owner = ownerID
	l.mu.Unlock()

	return ownerID, nil
}

func (l *lockImpl) Release(ownerID []byte) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	// Check if the lock is owned by the caller
	if l.owner == nil || !bytes.Equal(l.owner, ownerID) {
		return false
	}

	l.owner = nil
	<-l.sem
	return true
}

func (l *lockImpl) HoldsLock(ownerID []byte) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.owner != nil && bytes.Equal(l.owner, ownerID)
}

func (l *lockImpl) Locked() bool {
	return len(l.sem) == 1
}

func (l *lockImpl) WithLock(fn func() error) error {
	l.Lock()
	defer l.Unlock()
	return fn()
}

func (l *lockImpl) Wait(timeout time.Duration) bool {
	// capture the event before unlocking, a NotifyAll after Unlock is not lost
	l.mu.Lock()
	event := l.event
	owner := l.owner
	l.mu.Unlock()

	l.Unlock()

	notified := true
	if timeout > 0 {
		timer := time.NewTimer(timeout)
		select {
		case <-event:
		case <-timer.C:
			notified = false
		}
		timer.Stop()
	} else {
		<-event
	}

	l.Lock()
	if owner != nil {
		l.mu.Lock()
		l.owner = owner
		l.mu.Unlock()
	}

	if !notified {
		plog.Debugf("wait timed out after %s", timeout)
	}
	return notified
}

func (l *lockImpl) NotifyAll() {
	l.mu.Lock()
	defer l.mu.Unlock()

	close(l.event)
	l.event = make(chan struct{})
}
