package engine

import (
	"sync"

	"capacityengine/helpers"
)

// StripedLock serializes work per region key while letting distinct regions
// proceed concurrently.
type StripedLock struct {
	capacity int
	sLock    sync.Mutex
	locks    []*sync.Mutex
}

func NewStripedLock(capacity int) *StripedLock {
	if capacity <= 0 {
		panic("invalid striped lock capacity")
	}
	return &StripedLock{
		capacity: capacity,
		locks:    make([]*sync.Mutex, capacity),
	}
}

func (sl *StripedLock) GetLock(key string) *sync.Mutex {
	idx := helpers.FNVHash(key) % uint32(sl.capacity)
	sl.sLock.Lock()
	if sl.locks[idx] == nil {
		sl.locks[idx] = &sync.Mutex{}
	}
	sl.sLock.Unlock()
	return sl.locks[idx]
}
