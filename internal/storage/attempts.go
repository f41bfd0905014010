package storage

import (
	"sync"
	"time"
)

type entry[T any] struct {
	value    T
	lastSeen time.Time
}

// SessionStorage keeps in-progress quiz attempts in memory, one per user.
// Nothing here is persisted: dropping an entry discards the attempt.
type SessionStorage[T any] struct {
	mu    sync.RWMutex
	items map[int64]entry[T]
	now   func() time.Time
}

// NewSessionStorage creates a new SessionStorage.
func NewSessionStorage[T any]() *SessionStorage[T] {
	return &SessionStorage[T]{
		items: make(map[int64]entry[T]),
		now:   time.Now,
	}
}

// Store saves value for userID, replacing any previous one.
func (s *SessionStorage[T]) Store(userID int64, value T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[userID] = entry[T]{value: value, lastSeen: s.now()}
}

// Get returns the value stored for userID and marks it as recently used.
func (s *SessionStorage[T]) Get(userID int64) (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.items[userID]
	if !ok {
		var zero T
		return zero, false
	}

	e.lastSeen = s.now()
	s.items[userID] = e
	return e.value, true
}

// Delete removes the value stored for userID.
func (s *SessionStorage[T]) Delete(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, userID)
}

// Len returns the number of stored values.
func (s *SessionStorage[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Sweep drops values not used for longer than idle and returns how many
// were removed. Values for which keep returns true stay stored. keep is
// called without the storage lock held, so it may lock the value itself.
func (s *SessionStorage[T]) Sweep(idle time.Duration, keep func(T) bool) int {
	cutoff := s.now().Add(-idle)

	s.mu.RLock()
	stale := make(map[int64]entry[T])
	for id, e := range s.items {
		if e.lastSeen.Before(cutoff) {
			stale[id] = e
		}
	}
	s.mu.RUnlock()

	removed := 0
	for id, e := range stale {
		if keep != nil && keep(e.value) {
			continue
		}

		s.mu.Lock()
		// Skip entries stored or used again since the scan.
		if cur, ok := s.items[id]; ok && cur.lastSeen.Equal(e.lastSeen) {
			delete(s.items, id)
			removed++
		}
		s.mu.Unlock()
	}
	return removed
}
