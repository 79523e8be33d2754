package reservation

import "sync"

// resourceLocks hands out one mutex per resource name. The catalog is small
// and fixed, so entries are never evicted.
type resourceLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newResourceLocks() *resourceLocks {
	return &resourceLocks{locks: make(map[string]*sync.Mutex)}
}

func (l *resourceLocks) lock(resource string) func() {
	l.mu.Lock()
	m, ok := l.locks[resource]
	if !ok {
		m = &sync.Mutex{}
		l.locks[resource] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
