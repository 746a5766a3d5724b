package lifecycle

import (
	"sync"
)

// eventLocks serializes state-changing operations per event id. Different
// events never contend; the same event's join/leave/approve/cancel run one
// at a time. Locks are never removed; the map grows with the number of
// events ever touched, which stays small for a campus portal.
type eventLocks struct {
	mu    sync.Mutex
	locks map[uint]*sync.Mutex
}

func newEventLocks() *eventLocks {
	return &eventLocks{locks: make(map[uint]*sync.Mutex)}
}

// lock acquires the mutex for the event and returns its release func.
func (l *eventLocks) lock(eventID uint) func() {
	l.mu.Lock()
	m, ok := l.locks[eventID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[eventID] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
