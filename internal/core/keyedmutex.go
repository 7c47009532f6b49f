// AngelaMos | 2026
// keyedmutex.go

package core

import (
	"sync"
)

// KeyedMutex serializes read-then-write critical sections per key. Used
// for the reveal check-then-increment (keyed by client+agent) and the
// publish allow-then-consume (keyed by agent).
type KeyedMutex struct {
	locks sync.Map
}

// Lock acquires the mutex for key, creating it on first use. The caller
// must call Unlock on the returned mutex.
func (k *KeyedMutex) Lock(key string) *sync.Mutex {
	entry, _ := k.locks.LoadOrStore(key, &sync.Mutex{})
	mu, ok := entry.(*sync.Mutex)
	if !ok {
		panic("core: invalid keyed mutex entry type")
	}
	mu.Lock()
	return mu
}
