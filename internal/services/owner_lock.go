package services

import (
	"context"
	"sync"
)

// ownerLocks serializes cart mutations per owner. Entries are reference
// counted and dropped once nobody holds or waits on them.
type ownerLocks struct {
	mu    sync.Mutex
	locks map[string]*ownerLock
}

type ownerLock struct {
	sem  chan struct{}
	refs int
}

func newOwnerLocks() *ownerLocks {
	return &ownerLocks{locks: make(map[string]*ownerLock)}
}

// acquire blocks until owner's lock is held or ctx is done.
func (l *ownerLocks) acquire(ctx context.Context, owner string) (func(), error) {
	l.mu.Lock()
	lk, ok := l.locks[owner]
	if !ok {
		lk = &ownerLock{sem: make(chan struct{}, 1)}
		l.locks[owner] = lk
	}
	lk.refs++
	l.mu.Unlock()

	select {
	case lk.sem <- struct{}{}:
	case <-ctx.Done():
		l.release(owner, lk)
		return nil, ctx.Err()
	}

	return func() {
		<-lk.sem
		l.release(owner, lk)
	}, nil
}

func (l *ownerLocks) release(owner string, lk *ownerLock) {
	l.mu.Lock()
	defer l.mu.Unlock()

	lk.refs--
	if lk.refs == 0 {
		delete(l.locks, owner)
	}
}

func (l *ownerLocks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
