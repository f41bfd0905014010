package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/aliskhannn/uniportal/internal/domain/entities"
	"github.com/aliskhannn/uniportal/internal/progression"
)

// Dashboard is the user's progress overview.
type Dashboard struct {
	Rank    progression.RankStatus
	Summary progression.Summary
}

type ProgressService struct {
	history     AttemptHistory
	progression ProgressionReader
	subjects    SubjectCatalog
	resolver    *progression.Resolver
	policy      progression.WeaknessPolicy
	logger      *zap.Logger
}

func NewProgressService(
	history AttemptHistory,
	progressionReader ProgressionReader,
	subjects SubjectCatalog,
	resolver *progression.Resolver,
	policy progression.WeaknessPolicy,
	logger *zap.Logger,
) *ProgressService {
	return &ProgressService{
		history:     history,
		progression: progressionReader,
		subjects:    subjects,
		resolver:    resolver,
		policy:      policy,
		logger:      logger,
	}
}

// RankStatus returns the user's current rank. A user with no XP yet is at
// the lowest tier.
func (s *ProgressService) RankStatus(ctx context.Context, userID int64) (progression.RankStatus, error) {
	total, err := s.progression.GetTotalXP(ctx, userID)
	if err != nil {
		return progression.RankStatus{}, fmt.Errorf("get total xp: %w", err)
	}

	return s.resolver.Resolve(entities.UserProgression{UserID: userID, TotalXP: total})
}

// Dashboard combines the rank with the attempt history rollup.
func (s *ProgressService) Dashboard(ctx context.Context, userID int64) (*Dashboard, error) {
	rank, err := s.RankStatus(ctx, userID)
	if err != nil {
		return nil, err
	}

	attempts, err := s.history.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list attempts: %w", err)
	}

	catalog, err := s.catalog(ctx)
	if err != nil {
		return nil, err
	}

	summary := progression.Summarize(attempts, catalog, s.policy)
	s.logger.Debug("dashboard built",
		zap.Int64("user_id", userID),
		zap.Int("attempts", summary.Attempts),
		zap.Int("weak_subjects", len(summary.WeakSubjects)),
	)

	return &Dashboard{
		Rank:    rank,
		Summary: summary,
	}, nil
}

// WeakSubjects returns the subjects the user struggles with, worst first.
func (s *ProgressService) WeakSubjects(ctx context.Context, userID int64) ([]entities.SubjectWeakness, error) {
	attempts, err := s.history.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list attempts: %w", err)
	}

	catalog, err := s.catalog(ctx)
	if err != nil {
		return nil, err
	}

	return progression.WeakSubjects(attempts, catalog, s.policy), nil
}

func (s *ProgressService) catalog(ctx context.Context) (map[int64]entities.Subject, error) {
	subjects, err := s.subjects.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list subjects: %w", err)
	}

	catalog := make(map[int64]entities.Subject, len(subjects))
	for _, subj := range subjects {
		catalog[subj.ID] = subj
	}
	return catalog, nil
}
