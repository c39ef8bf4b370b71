package services

import (
	"context"
	"testing"
	"time"

	"callboard/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLeaderboardRanksByPoints(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	p1 := env.submit(t, "user1", 10, -time.Hour)
	_, err := env.predictions.Resolve(ctx, p1.ID, models.PredictionOutcomeSuccess)
	require.NoError(t, err)

	p2 := env.submit(t, "user2", 15, -time.Hour)
	_, err = env.predictions.Resolve(ctx, p2.ID, models.PredictionOutcomeFail)
	require.NoError(t, err)

	// Open predictions count too.
	env.submit(t, "user2", 5, time.Hour)
	env.submit(t, "user3", 5, time.Hour)

	entries, err := env.leaderboard.Leaderboard(ctx)
	require.NoError(t, err)

	assert.Equal(t, []models.LeaderboardEntry{
		{Username: "user1", TotalPoints: 10, PredictionsCount: 1},
		{Username: "user3", TotalPoints: 0, PredictionsCount: 1},
		{Username: "user2", TotalPoints: -15, PredictionsCount: 2},
	}, entries)
}

func TestLeaderboardTieBreaksByUsername(t *testing.T) {
	env := setupTestEnv(t)

	for _, name := range []string{"carol", "alice", "bob"} {
		env.submit(t, name, 10, time.Hour)
	}

	entries, err := env.leaderboard.Leaderboard(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "alice", entries[0].Username)
	assert.Equal(t, "bob", entries[1].Username)
	assert.Equal(t, "carol", entries[2].Username)
}

func TestLeaderboardCountsUserWithoutPredictions(t *testing.T) {
	env := setupTestEnv(t)
	require.NoError(t, env.db.Create(&models.User{Username: "lurker", TotalPoints: 3}).Error)

	entries, err := env.leaderboard.Leaderboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []models.LeaderboardEntry{{Username: "lurker", TotalPoints: 3, PredictionsCount: 0}}, entries)
}

func TestLeaderboardEmpty(t *testing.T) {
	env := setupTestEnv(t)

	entries, err := env.leaderboard.Leaderboard(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, entries)
	assert.Empty(t, entries)
}
