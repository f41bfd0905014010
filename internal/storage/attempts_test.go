package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionStorage_StoreGetDelete(t *testing.T) {
	s := NewSessionStorage[string]()

	_, ok := s.Get(1)
	assert.False(t, ok)

	s.Store(1, "first")
	s.Store(1, "second")
	s.Store(2, "other")

	v, ok := s.Get(1)
	require.True(t, ok)
	assert.Equal(t, "second", v)
	assert.Equal(t, 2, s.Len())

	s.Delete(1)
	_, ok = s.Get(1)
	assert.False(t, ok)
	assert.Equal(t, 1, s.Len())
}

func TestSessionStorage_Sweep(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	s := NewSessionStorage[int]()
	s.now = func() time.Time { return now }

	s.Store(1, 10)
	s.Store(2, 20)

	now = now.Add(90 * time.Minute)
	_, _ = s.Get(2) // touch

	now = now.Add(time.Minute)
	removed := s.Sweep(time.Hour, nil)
	assert.Equal(t, 1, removed)

	_, ok := s.Get(1)
	assert.False(t, ok)
	v, ok := s.Get(2)
	require.True(t, ok)
	assert.Equal(t, 20, v)
}

func TestSessionStorage_SweepKeep(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	s := NewSessionStorage[int]()
	s.now = func() time.Time { return now }

	s.Store(1, 10)
	s.Store(2, 20)
	s.Store(3, 30)

	now = now.Add(3 * time.Hour)
	var seen []int
	removed := s.Sweep(time.Hour, func(v int) bool {
		seen = append(seen, v)
		return v == 20
	})
	assert.Equal(t, 2, removed)
	assert.ElementsMatch(t, []int{10, 20, 30}, seen)

	v, ok := s.Get(2)
	require.True(t, ok)
	assert.Equal(t, 20, v)
	assert.Equal(t, 1, s.Len())
}

func TestSessionStorage_SweepSkipsReplaced(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	s := NewSessionStorage[int]()
	s.now = func() time.Time { return now }

	s.Store(1, 10)
	now = now.Add(2 * time.Hour)

	removed := s.Sweep(time.Hour, func(int) bool {
		// A new attempt arrives while the sweep is running.
		s.Store(1, 11)
		return false
	})
	assert.Zero(t, removed)

	v, ok := s.Get(1)
	require.True(t, ok)
	assert.Equal(t, 11, v)
}
