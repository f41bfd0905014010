package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/aliskhannn/uniportal/internal/domain/entities"
)

type fakeSweeper struct {
	idle  []time.Duration
	count int
}

func (f *fakeSweeper) Sweep(idle time.Duration, _ func(*ActiveAttempt) bool) int {
	f.idle = append(f.idle, idle)
	return f.count
}

func TestAttemptJanitor_Sweep(t *testing.T) {
	sweeper := &fakeSweeper{count: 3}
	j := NewAttemptJanitor(sweeper, 2*time.Hour, "@every 10m", zap.NewNop())

	assert.Equal(t, 3, j.sweep())
	assert.Equal(t, []time.Duration{2 * time.Hour}, sweeper.idle)
}

func TestAttemptJanitor_BadSchedule(t *testing.T) {
	j := NewAttemptJanitor(&fakeSweeper{}, time.Hour, "not a schedule", zap.NewNop())

	done := make(chan struct{})
	go func() {
		j.Start(context.Background())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Start did not return on an invalid schedule")
	}
}

func TestAttemptJanitor_StopsOnCancel(t *testing.T) {
	j := NewAttemptJanitor(&fakeSweeper{}, time.Hour, "@every 1h", zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		j.Start(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Start did not return after cancel")
	}
}

func TestAttemptJanitor_KeepsUnsavedAttempt(t *testing.T) {
	f := newQuizFixture(t)
	ctx := context.Background()
	f.store.failures = 1

	_, err := f.svc.StartAttempt(ctx, 7, entities.QuestionFilter{SubjectID: 10, ChapterIDs: []int64{100}})
	require.NoError(t, err)
	answerAll(t, f.svc, 7, 2)

	_, err = f.svc.Finish(ctx, 7)
	var persistErr *PersistenceError
	require.ErrorAs(t, err, &persistErr)

	_, err = f.svc.StartAttempt(ctx, 8, entities.QuestionFilter{SubjectID: 20, ChapterIDs: []int64{200}})
	require.NoError(t, err)

	// A negative idle timeout makes every attempt stale.
	j := NewAttemptJanitor(f.active, -time.Minute, "@every 10m", zap.NewNop())
	assert.Equal(t, 1, j.sweep())

	_, err = f.svc.Active(8)
	assert.ErrorIs(t, err, ErrNoActiveAttempt)

	retried, err := f.svc.Retry(ctx, 7)
	require.NoError(t, err)
	assert.True(t, retried.Recorded)
	assert.Equal(t, 2*15, f.store.xp[7])
	assert.Len(t, f.store.attempts, 1)
}
