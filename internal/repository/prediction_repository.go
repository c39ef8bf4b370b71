package repository

import (
	"context"
	"time"

	"callboard/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PredictionFilter narrows a prediction listing. Nil fields are unrestricted.
type PredictionFilter struct {
	Status   *models.PredictionStatus
	Username *string
}

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx runs fn inside a transaction. The Repository passed to fn is bound
// to the transaction; fn must not use the outer Repository.
func (r *Repository) WithTx(ctx context.Context, fn func(tx *Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Repository{db: tx})
	})
}

// EnsureUser creates a user with zero points unless one already exists
func (r *Repository) EnsureUser(ctx context.Context, username string) error {
	user := models.User{Username: username}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "username"}},
		DoNothing: true,
	}).Create(&user).Error
}

// GetUserByUsername retrieves a user by username
func (r *Repository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// AddPoints applies delta to a user's total. It reports false when no such user exists.
func (r *Repository) AddPoints(ctx context.Context, username string, delta int64) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("username = ?", username).
		Update("total_points", gorm.Expr("total_points + ?", delta))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// CreatePrediction creates a new prediction
func (r *Repository) CreatePrediction(ctx context.Context, prediction *models.Prediction) error {
	return r.db.WithContext(ctx).Create(prediction).Error
}

// GetPredictionByID retrieves a prediction by ID
func (r *Repository) GetPredictionByID(ctx context.Context, id uint) (*models.Prediction, error) {
	var prediction models.Prediction
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&prediction).Error
	if err != nil {
		return nil, err
	}
	return &prediction, nil
}

// GetPredictionForUpdate retrieves a prediction and locks its row until the
// surrounding transaction ends. SQLite ignores the lock clause.
func (r *Repository) GetPredictionForUpdate(ctx context.Context, id uint) (*models.Prediction, error) {
	var prediction models.Prediction
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&prediction).Error
	if err != nil {
		return nil, err
	}
	return &prediction, nil
}

// MarkResolved flips an open prediction to resolved. It reports false when
// the prediction was no longer open.
func (r *Repository) MarkResolved(ctx context.Context, prediction *models.Prediction) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Prediction{}).
		Where("id = ? AND status = ?", prediction.ID, models.PredictionStatusOpen).
		Updates(map[string]interface{}{
			"status":      prediction.Status,
			"outcome":     prediction.Outcome,
			"resolved_at": prediction.ResolvedAt,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// ListPredictions retrieves predictions matching filter in id order
func (r *Repository) ListPredictions(ctx context.Context, filter PredictionFilter) ([]models.Prediction, error) {
	query := r.db.WithContext(ctx).Model(&models.Prediction{})

	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Username != nil {
		query = query.Where("username = ?", *filter.Username)
	}

	predictions := []models.Prediction{}
	if err := query.Order("id ASC").Find(&predictions).Error; err != nil {
		return nil, err
	}
	return predictions, nil
}

// GetExpiredOpenPredictions retrieves open predictions whose expiry is at or before now
func (r *Repository) GetExpiredOpenPredictions(ctx context.Context, now time.Time, limit int) ([]models.Prediction, error) {
	predictions := []models.Prediction{}
	err := r.db.WithContext(ctx).
		Where("status = ? AND expires_at <= ?", models.PredictionStatusOpen, now).
		Order("expires_at ASC, id ASC").
		Limit(limit).
		Find(&predictions).Error
	return predictions, err
}

// GetLeaderboard returns one row per user with their prediction count,
// ranked by points descending then username ascending.
func (r *Repository) GetLeaderboard(ctx context.Context) ([]models.LeaderboardEntry, error) {
	entries := []models.LeaderboardEntry{}
	err := r.db.WithContext(ctx).
		Table("users AS u").
		Select("u.username AS username, u.total_points AS total_points, COUNT(p.id) AS predictions_count").
		Joins("LEFT JOIN predictions AS p ON p.username = u.username").
		Group("u.id, u.username, u.total_points").
		Order("u.total_points DESC, u.username ASC").
		Scan(&entries).Error
	return entries, err
}
