package lifecycle

import "sync"

// unitLocks provides per-unit advisory locks so transitions against the same
// unit id serialize. Locks are created on demand and kept for the process
// lifetime; the unit population is small enough that reaping is unnecessary.
type unitLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newUnitLocks() *unitLocks {
	return &unitLocks{locks: make(map[string]*sync.Mutex)}
}

func (l *unitLocks) lock(unitID string) func() {
	l.mu.Lock()
	m, ok := l.locks[unitID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[unitID] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
