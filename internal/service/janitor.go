package service

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// IdleSweeper drops attempts not used for longer than idle, except those
// for which keep returns true.
type IdleSweeper interface {
	Sweep(idle time.Duration, keep func(*ActiveAttempt) bool) int
}

// AttemptJanitor periodically discards in-progress attempts that were
// abandoned without /quit. Finished attempts whose save failed are kept
// until the user retries or starts a new attempt.
type AttemptJanitor struct {
	attempts IdleSweeper
	idle     time.Duration
	schedule string
	logger   *zap.Logger
}

func NewAttemptJanitor(attempts IdleSweeper, idle time.Duration, schedule string, logger *zap.Logger) *AttemptJanitor {
	return &AttemptJanitor{
		attempts: attempts,
		idle:     idle,
		schedule: schedule,
		logger:   logger,
	}
}

// Start runs the sweep on schedule until ctx is cancelled.
func (j *AttemptJanitor) Start(ctx context.Context) {
	c := cron.New(cron.WithLocation(time.UTC))

	_, err := c.AddFunc(j.schedule, func() { j.sweep() })
	if err != nil {
		j.logger.Error("failed to add cron job", zap.String("schedule", j.schedule), zap.Error(err))
		return
	}

	c.Start()
	j.logger.Info("attempt janitor started", zap.String("schedule", j.schedule))

	<-ctx.Done()

	<-c.Stop().Done()
	j.logger.Info("attempt janitor stopped")
}

func (j *AttemptJanitor) sweep() int {
	n := j.attempts.Sweep(j.idle, j.keepUnsaved)
	if n > 0 {
		j.logger.Info("dropped idle attempts", zap.Int("count", n), zap.Duration("idle", j.idle))
	}
	return n
}

func (j *AttemptJanitor) keepUnsaved(a *ActiveAttempt) bool {
	attempt, xp, ok := a.Unsaved()
	if !ok {
		return false
	}

	j.logger.Warn("keeping idle unsaved attempt",
		zap.Int64("user_id", a.UserID),
		zap.String("attempt_id", attempt.ID.String()),
		zap.Int("xp", xp),
	)
	return true
}
