package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/aliskhannn/uniportal/internal/domain/entities"
	"github.com/aliskhannn/uniportal/internal/infra/postgres"
)

type attemptAppender interface {
	Append(ctx context.Context, a *entities.Attempt) (bool, error)
}

type xpStore interface {
	GetTotalXP(ctx context.Context, userID int64) (int, error)
	IncrementXP(ctx context.Context, userID int64, delta int) (int, error)
}

// AttemptRecorder persists a finished attempt and its XP award in one
// transaction.
type AttemptRecorder struct {
	tx *postgres.Transactor
}

func NewAttemptRecorder(tx *postgres.Transactor) *AttemptRecorder {
	return &AttemptRecorder{tx: tx}
}

// Record appends the attempt and adds xp to the user's total. When the
// attempt was already stored (a resubmit after a lost reply) the XP is
// not added again. It returns the user's total XP after the write.
func (r *AttemptRecorder) Record(ctx context.Context, a *entities.Attempt, xp int) (int, error) {
	var total int

	err := r.tx.WithinTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		var err error
		total, err = record(ctx, NewAttemptRepository(tx), NewProgressionRepository(tx), a, xp)
		return err
	})
	if err != nil {
		return 0, err
	}

	return total, nil
}

func record(ctx context.Context, attempts attemptAppender, progress xpStore, a *entities.Attempt, xp int) (int, error) {
	inserted, err := attempts.Append(ctx, a)
	if err != nil {
		return 0, err
	}

	if !inserted {
		return progress.GetTotalXP(ctx, a.UserID)
	}

	return progress.IncrementXP(ctx, a.UserID, xp)
}
