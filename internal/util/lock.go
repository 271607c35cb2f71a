package util

import "sync"

// KeyedMutex serializes work per key while letting distinct keys proceed in
// parallel. The conversation engine uses it to guarantee at most one
// in-flight mutation of a given user's usage state and session log.
type KeyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{locks: make(map[string]*sync.Mutex)}
}

// Lock acquires the mutex for key, creating it on first use. Entries are
// never removed; the key space is bounded by the user population.
func (k *KeyedMutex) Lock(key string) {
	k.mu.Lock()
	m, ok := k.locks[key]
	if !ok {
		m = &sync.Mutex{}
		k.locks[key] = m
	}
	k.mu.Unlock()
	m.Lock()
}

func (k *KeyedMutex) Unlock(key string) {
	k.mu.Lock()
	m := k.locks[key]
	k.mu.Unlock()
	if m != nil {
		m.Unlock()
	}
}
