// Package locks provides an in-process mutex keyed by an arbitrary string.
//
// The dispatch engine uses it to serialize the search-then-create sequence for
// a driver's package on a given service date. The database's unique constraint
// remains the authoritative guard; the keyed mutex keeps concurrent callers in
// the same process from routinely racing into constraint violations.
package locks

import "sync"

// KeyedMutex serializes critical sections that share the same key.
// Sections with different keys proceed independently.
type KeyedMutex struct {
	mu    sync.Mutex
	locks map[string]*keyLock
}

type keyLock struct {
	mu   sync.Mutex
	refs int
}

// NewKeyedMutex creates an empty KeyedMutex.
func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{locks: make(map[string]*keyLock)}
}

// Lock acquires the mutex for key, blocking while another caller holds it.
// The returned function releases the lock and must be called exactly once,
// typically via defer.
func (k *KeyedMutex) Lock(key string) func() {
	k.mu.Lock()
	l, ok := k.locks[key]
	if !ok {
		l = &keyLock{}
		k.locks[key] = l
	}
	l.refs++
	k.mu.Unlock()

	l.mu.Lock()

	return func() {
		l.mu.Unlock()

		k.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}
