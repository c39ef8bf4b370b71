package services

import (
	"context"
	"fmt"

	"callboard/internal/models"
	"callboard/internal/repository"
)

// LeaderboardService ranks users by accumulated points
type LeaderboardService struct {
	repo *repository.Repository
}

// NewLeaderboardService creates a new LeaderboardService
func NewLeaderboardService(repo *repository.Repository) *LeaderboardService {
	return &LeaderboardService{repo: repo}
}

// Leaderboard returns one entry per user ordered by total points descending,
// ties broken by username ascending. PredictionsCount covers every status.
func (s *LeaderboardService) Leaderboard(ctx context.Context) ([]models.LeaderboardEntry, error) {
	entries, err := s.repo.GetLeaderboard(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to build leaderboard: %w", err)
	}
	return entries, nil
}
