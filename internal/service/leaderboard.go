package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/aliskhannn/uniportal/internal/domain/entities"
	"github.com/aliskhannn/uniportal/internal/progression"
)

type LeaderboardService struct {
	progression ProgressionReader
	resolver    *progression.Resolver
	size        int
	logger      *zap.Logger
}

func NewLeaderboardService(progressionReader ProgressionReader, resolver *progression.Resolver, size int, logger *zap.Logger) *LeaderboardService {
	return &LeaderboardService{
		progression: progressionReader,
		resolver:    resolver,
		size:        size,
		logger:      logger,
	}
}

// Top returns the highest-XP users with their tiers resolved.
func (s *LeaderboardService) Top(ctx context.Context) ([]entities.LeaderboardEntry, error) {
	entries, err := s.progression.Top(ctx, s.size)
	if err != nil {
		return nil, fmt.Errorf("get leaderboard: %w", err)
	}

	for i := range entries {
		tier, err := s.resolver.CurrentTier(entries[i].TotalXP)
		if err != nil {
			return nil, err
		}
		entries[i].Tier = tier
	}

	s.logger.Debug("leaderboard loaded", zap.Int("entries", len(entries)))
	return entries, nil
}
