package services

import "sync"

// keyedMutex serializes writers per key. The allocation headroom check
// for a budget reads the current categories and then writes a new one;
// without serialization two concurrent creations against the same budget
// could both pass the check and overallocate. Budget updates do not use
// this: they rely on the storage-level version-token compare-and-swap.
type keyedMutex struct {
	locks sync.Map // key -> *sync.Mutex
}

// lock acquires the mutex for key and returns its unlock function.
func (k *keyedMutex) lock(key string) func() {
	v, _ := k.locks.LoadOrStore(key, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}
