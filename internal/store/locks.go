package store

import "sync"

// ownerLocks serializes read-modify-write sequences per owner so that
// unrelated users never contend on the same mutex. Locks are created on
// first use and kept for the life of the process; the per-user footprint
// is a single mutex.
type ownerLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newOwnerLocks() *ownerLocks {
	return &ownerLocks{locks: make(map[string]*sync.Mutex)}
}

func (l *ownerLocks) get(owner string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()

	m, ok := l.locks[owner]
	if !ok {
		m = &sync.Mutex{}
		l.locks[owner] = m
	}
	return m
}
