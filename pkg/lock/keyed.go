// Package lock provides per-key mutual exclusion. Booking and release for
// one showtime must never interleave, while different showtimes stay fully
// concurrent, so the locker hands out one mutex per key instead of a single
// global lock.
package lock

import (
	"sync"

	"github.com/google/uuid"
)

// KeyedMutex serializes critical sections per key.
type KeyedMutex struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*entry
}

type entry struct {
	mu   sync.Mutex
	refs int
}

func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{
		locks: make(map[uuid.UUID]*entry),
	}
}

// Lock acquires the mutex for key, creating it on first use. Entries are
// reference counted so the map does not grow with every showtime ever seen.
func (k *KeyedMutex) Lock(key uuid.UUID) {
	k.mu.Lock()
	e, ok := k.locks[key]
	if !ok {
		e = &entry{}
		k.locks[key] = e
	}
	e.refs++
	k.mu.Unlock()

	e.mu.Lock()
}

// Unlock releases the mutex for key. Must pair with a prior Lock on the
// same key.
func (k *KeyedMutex) Unlock(key uuid.UUID) {
	k.mu.Lock()
	e, ok := k.locks[key]
	if !ok {
		k.mu.Unlock()
		panic("lock: unlock of unlocked key " + key.String())
	}
	e.refs--
	if e.refs == 0 {
		delete(k.locks, key)
	}
	k.mu.Unlock()

	e.mu.Unlock()
}
