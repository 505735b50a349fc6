package lockmgr

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestLockUnlock(t *testing.T) {
	l := NewLock()

	l.Lock()
	if !l.Locked() {
		t.Errorf("Expected lock to be held after Lock")
	}
	if l.TryLock(0) {
		t.Errorf("Expected TryLock on a held lock to fail")
	}
	l.Unlock()

	if l.Locked() {
		t.Errorf("Expected lock to be free after Unlock")
	}
	if !l.TryLock(0) {
		t.Errorf("Expected TryLock on a free lock to succeed")
	}
	l.Unlock()
}

func TestUnlockUnlockedPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("Expected Unlock of an unlocked lock to panic")
		}
	}()
	NewLock().Unlock()
}

func TestTryLockTimeout(t *testing.T) {
	l := NewLock()
	l.Lock()

	start := time.Now()
	if l.TryLock(20 * time.Millisecond) {
		t.Fatalf("Expected TryLock to time out on a held lock")
	}
	if time.Since(start) < 20*time.Millisecond {
		t.Errorf("Expected TryLock to wait for the timeout")
	}

	go func() {
		time.Sleep(10 * time.Millisecond)
		l.Unlock()
	}()
	if !l.TryLock(time.Second) {
		t.Errorf("Expected TryLock to acquire the lock once it is released")
	}
	l.Unlock()
}

func TestAcquireRelease(t *testing.T) {
	l := NewLock()
	ctx := context.Background()

	ownerID, err := l.Acquire(ctx)
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	if len(ownerID) != ownerIDLength {
		t.Errorf("Expected owner ID of %d bytes, got %d", ownerIDLength, len(ownerID))
	}
	if !l.HoldsLock(ownerID) {
		t.Errorf("Expected HoldsLock to report the acquiring owner")
	}
	if l.HoldsLock([]byte("someone-else")) {
		t.Errorf("Expected HoldsLock to reject another owner")
	}
	if l.Release([]byte("someone-else")) {
		t.Errorf("Expected Release by another owner to fail")
	}
	if !l.Release(ownerID) {
		t.Errorf("Expected Release by the owner to succeed")
	}
	if l.Release(ownerID) {
		t.Errorf("Expected second Release to fail")
	}
	if l.Locked() {
		t.Errorf("Expected lock to be free after Release")
	}
}

func TestAcquireContext(t *testing.T) {
	l := NewLock()
	l.Lock()
	defer l.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := l.Acquire(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Expected context.DeadlineExceeded, got %v", err)
	}
}

func TestWithLockReleasesOnPanic(t *testing.T) {
	l := NewLock()

	func() {
		defer func() {
			if recover() == nil {
				t.Errorf("Expected panic to propagate out of WithLock")
			}
		}()
		_ = l.WithLock(func() error {
			panic("boom")
		})
	}()

	if l.Locked() {
		t.Errorf("Expected WithLock to release the lock after a panic")
	}

	wantErr := errors.New("failed")
	if err := l.WithLock(func() error { return wantErr }); err != wantErr {
		t.Errorf("Expected WithLock to return the error of fn, got %v", err)
	}
	if l.Locked() {
		t.Errorf("Expected WithLock to release the lock after an error")
	}
}

func TestMutualExclusion(t *testing.T) {
	l := NewLock()

	const numWorkers = 8
	const increments = 1000
	counter := 0

	var wg sync.WaitGroup
	wg.Add(numWorkers)
	for w := 0; w < numWorkers; w++ {
		go func() {
			defer wg.Done()
			for i := 0; i < increments; i++ {
				_ = l.WithLock(func() error {
					counter++
					return nil
				})
			}
		}()
	}
	wg.Wait()

	if counter != numWorkers*increments {
		t.Errorf("Expected counter %d, got %d", numWorkers*increments, counter)
	}
}

func TestWaitNotifyAll(t *testing.T) {
	l := NewLock()

	const numWaiters = 4
	ready := make(chan struct{}, numWaiters)
	woken := make(chan bool, numWaiters)

	for i := 0; i < numWaiters; i++ {
		go func() {
			l.Lock()
			ready <- struct{}{}
			woken <- l.Wait(5 * time.Second)
			l.Unlock()
		}()
	}

	// every waiter signals ready while holding the lock, once we get the lock
	// back the waiter released it in Wait
	for i := 0; i < numWaiters; i++ {
		<-ready
	}
	l.Lock()
	l.NotifyAll()
	l.Unlock()

	for i := 0; i < numWaiters; i++ {
		select {
		case ok := <-woken:
			if !ok {
				t.Errorf("Expected waiter to be notified, it timed out")
			}
		case <-time.After(5 * time.Second):
			t.Fatalf("Timeout waiting for waiters")
		}
	}
}

func TestWaitTimeout(t *testing.T) {
	l := NewLock()

	ownerID, err := l.Acquire(context.Background())
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}

	if l.Wait(10 * time.Millisecond) {
		t.Errorf("Expected Wait without a notification to time out")
	}
	if !l.HoldsLock(ownerID) {
		t.Errorf("Expected Wait to restore the owner when reacquiring")
	}
	if !l.Release(ownerID) {
		t.Errorf("Expected owner to release after Wait")
	}
}
