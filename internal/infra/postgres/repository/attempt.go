package repository

import (
	"context"
	"fmt"

	"github.com/aliskhannn/uniportal/internal/domain/entities"
	"github.com/aliskhannn/uniportal/internal/infra/postgres"
)

// AttemptRepository stores the append-only quiz attempt history.
type AttemptRepository struct {
	db postgres.DBTX
}

func NewAttemptRepository(db postgres.DBTX) *AttemptRepository {
	return &AttemptRepository{db: db}
}

// Append inserts an attempt. Re-sending an attempt with the same ID is a
// no-op and reports inserted=false.
func (r *AttemptRepository) Append(ctx context.Context, a *entities.Attempt) (bool, error) {
	if err := a.Validate(); err != nil {
		return false, err
	}

	query := `
		INSERT INTO quiz_attempts (
			id, user_id, subject_id, score, total_questions,
			duration_seconds, is_mastery_mode, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO NOTHING
	`

	tag, err := r.db.Exec(
		ctx,
		query,
		a.ID,
		a.UserID,
		a.SubjectID,
		a.Score,
		a.TotalQuestions,
		a.DurationSeconds,
		a.IsMasteryMode,
		a.CreatedAt,
	)
	if err != nil {
		return false, fmt.Errorf("append attempt: %w", err)
	}

	return tag.RowsAffected() == 1, nil
}

// ListByUser returns the full attempt history of a user, newest first.
// Rows that break the attempt invariants are rejected.
func (r *AttemptRepository) ListByUser(ctx context.Context, userID int64) ([]entities.Attempt, error) {
	query := `
		SELECT id, user_id, subject_id, score, total_questions,
		       duration_seconds, is_mastery_mode, created_at
		FROM quiz_attempts
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list attempts: %w", err)
	}
	defer rows.Close()

	var attempts []entities.Attempt
	for rows.Next() {
		var a entities.Attempt
		if err := rows.Scan(
			&a.ID,
			&a.UserID,
			&a.SubjectID,
			&a.Score,
			&a.TotalQuestions,
			&a.DurationSeconds,
			&a.IsMasteryMode,
			&a.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan attempt: %w", err)
		}
		if err := a.Validate(); err != nil {
			return nil, fmt.Errorf("attempt %s: %w", a.ID, err)
		}
		attempts = append(attempts, a)
	}

	return attempts, rows.Err()
}
