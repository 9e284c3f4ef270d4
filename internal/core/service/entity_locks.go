package service

import "sync"

// LockRegistry serializes mutations per entity id. One registry is shared
// by every writer (API operations, simulation ticks, job workers) so that
// two writers on the same shipment or vehicle never interleave, while
// distinct entities proceed in parallel.
//
// Lock ordering: callers touching both a shipment and its vehicle acquire
// the shipment lock first. Entries are never reclaimed; the active entity
// population is small and bounded for this platform.
type LockRegistry struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewLockRegistry() *LockRegistry {
	return &LockRegistry{locks: make(map[string]*sync.Mutex)}
}

// Lock acquires the mutex for id and returns its unlock function.
func (r *LockRegistry) Lock(id string) func() {
	r.mu.Lock()
	m, ok := r.locks[id]
	if !ok {
		m = &sync.Mutex{}
		r.locks[id] = m
	}
	r.mu.Unlock()

	m.Lock()
	return m.Unlock
}
