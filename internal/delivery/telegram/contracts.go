package telegram

import (
	"context"

	"github.com/aliskhannn/uniportal/internal/domain/entities"
	"github.com/aliskhannn/uniportal/internal/progression"
	"github.com/aliskhannn/uniportal/internal/service"
)

type UserService interface {
	EnsureUser(ctx context.Context, userID, chatID int64, firstName, username string) error
}

type SubjectService interface {
	List(ctx context.Context) ([]entities.Subject, error)
	Get(ctx context.Context, id int64) (*entities.Subject, error)
	Chapters(ctx context.Context, subjectID int64) ([]entities.Chapter, error)
}

type QuizService interface {
	StartAttempt(ctx context.Context, userID int64, filter entities.QuestionFilter) (*service.ActiveAttempt, error)
	Active(userID int64) (*service.ActiveAttempt, error)
	ToggleOption(userID int64, question, option int) (service.QuestionView, error)
	CheckAnswer(userID int64, question int) (progression.CheckResult, error)
	Advance(userID int64) (service.QuestionView, bool, error)
	Finish(ctx context.Context, userID int64) (*service.FinishResult, error)
	Retry(ctx context.Context, userID int64) (*service.FinishResult, error)
	Abandon(userID int64) error
}

type ProgressService interface {
	RankStatus(ctx context.Context, userID int64) (progression.RankStatus, error)
	Dashboard(ctx context.Context, userID int64) (*service.Dashboard, error)
	WeakSubjects(ctx context.Context, userID int64) ([]entities.SubjectWeakness, error)
}

type LeaderboardService interface {
	Top(ctx context.Context) ([]entities.LeaderboardEntry, error)
}
