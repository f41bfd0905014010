package service

import (
	"context"

	"github.com/aliskhannn/uniportal/internal/domain/entities"
)

type UserRepository interface {
	Save(ctx context.Context, user *entities.User) (bool, error)
}

// SubjectCatalog reads subjects and their chapters.
type SubjectCatalog interface {
	List(ctx context.Context) ([]entities.Subject, error)
	GetByID(ctx context.Context, id int64) (*entities.Subject, error)
	ListChapters(ctx context.Context, subjectID int64) ([]entities.Chapter, error)
}

// QuestionSource seeds attempts with questions.
type QuestionSource interface {
	FetchQuestions(ctx context.Context, filter entities.QuestionFilter) ([]entities.Question, error)
}

// AttemptHistory reads the append-only attempt log.
type AttemptHistory interface {
	ListByUser(ctx context.Context, userID int64) ([]entities.Attempt, error)
}

// ProgressionReader reads XP totals.
type ProgressionReader interface {
	GetTotalXP(ctx context.Context, userID int64) (int, error)
	Top(ctx context.Context, limit int) ([]entities.LeaderboardEntry, error)
}

// AttemptRecorder appends an attempt and adds its XP award as one unit.
// It returns the user's total XP after the write.
type AttemptRecorder interface {
	Record(ctx context.Context, attempt *entities.Attempt, xp int) (int, error)
}

// ActiveAttemptStorage holds in-progress attempts, one per user.
type ActiveAttemptStorage interface {
	Store(userID int64, attempt *ActiveAttempt)
	Get(userID int64) (*ActiveAttempt, bool)
	Delete(userID int64)
}
