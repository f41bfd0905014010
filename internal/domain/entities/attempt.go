package entities

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var ErrInvalidAttempt = errors.New("invalid attempt")

// Attempt is one completed quiz session. Attempts are append-only:
// created once when the quiz is finished and never modified afterwards.
type Attempt struct {
	ID              uuid.UUID
	UserID          int64
	SubjectID       int64
	Score           int       // number of correctly answered questions
	TotalQuestions  int       // number of questions in the attempt, always > 0
	DurationSeconds int       // wall time from start to finish
	IsMasteryMode   bool      // subject-wide exam rather than a chapter quiz
	CreatedAt       time.Time // completion timestamp
}

// NewAttempt creates an attempt record with a fresh identifier.
func NewAttempt(userID, subjectID int64, score, total int, duration time.Duration, mastery bool, createdAt time.Time) *Attempt {
	seconds := int(duration / time.Second)
	if seconds < 0 {
		seconds = 0
	}

	return &Attempt{
		ID:              uuid.New(),
		UserID:          userID,
		SubjectID:       subjectID,
		Score:           score,
		TotalQuestions:  total,
		DurationSeconds: seconds,
		IsMasteryMode:   mastery,
		CreatedAt:       createdAt,
	}
}

// Validate checks the attempt invariants. Rows read from the store go
// through Validate so the aggregation code never sees broken records.
func (a *Attempt) Validate() error {
	switch {
	case a.TotalQuestions <= 0:
		return fmt.Errorf("%w: total questions must be positive, got %d", ErrInvalidAttempt, a.TotalQuestions)
	case a.Score < 0:
		return fmt.Errorf("%w: negative score %d", ErrInvalidAttempt, a.Score)
	case a.Score > a.TotalQuestions:
		return fmt.Errorf("%w: score %d exceeds total %d", ErrInvalidAttempt, a.Score, a.TotalQuestions)
	case a.DurationSeconds < 0:
		return fmt.Errorf("%w: negative duration %d", ErrInvalidAttempt, a.DurationSeconds)
	}
	return nil
}

// IsPerfect reports whether every question was answered correctly.
func (a *Attempt) IsPerfect() bool {
	return a.TotalQuestions > 0 && a.Score == a.TotalQuestions
}
