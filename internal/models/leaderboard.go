package models

// LeaderboardEntry is one ranked row of the leaderboard
type LeaderboardEntry struct {
	Username         string `json:"username"`
	TotalPoints      int64  `json:"total_points"`
	PredictionsCount int64  `json:"predictions_count"`
}
