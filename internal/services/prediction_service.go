package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"strings"
	"time"

	"callboard/internal/models"
	"callboard/internal/repository"

	"github.com/jonboulle/clockwork"
	"gorm.io/gorm"
)

// awaitingResolutionLimit caps a single AwaitingResolution scan
const awaitingResolutionLimit = 500

// SubmitInput carries a new prediction. ExpiresAt must already be parsed.
type SubmitInput struct {
	Username  string
	Title     string
	Category  *string
	Stake     int64
	ExpiresAt time.Time
}

// PredictionService owns the prediction lifecycle and the point accounting
// that resolution triggers.
type PredictionService struct {
	repo  *repository.Repository
	clock clockwork.Clock
}

// NewPredictionService creates a new PredictionService
func NewPredictionService(repo *repository.Repository, clock clockwork.Clock) *PredictionService {
	return &PredictionService{
		repo:  repo,
		clock: clock,
	}
}

func (s *PredictionService) now() time.Time {
	return models.NormalizeTime(s.clock.Now())
}

// Submit records a new open prediction, creating its user on first use
func (s *PredictionService) Submit(ctx context.Context, in SubmitInput) (*models.Prediction, error) {
	if strings.TrimSpace(in.Username) == "" {
		return nil, invalid("username", "must not be empty")
	}
	if strings.TrimSpace(in.Title) == "" {
		return nil, invalid("title", "must not be empty")
	}
	if in.Stake <= 0 {
		return nil, invalid("stake", "must be greater than 0")
	}
	if in.ExpiresAt.IsZero() {
		return nil, invalid("expires_at", "is required")
	}

	prediction := &models.Prediction{
		Title:     in.Title,
		Category:  in.Category,
		Stake:     in.Stake,
		ExpiresAt: models.NormalizeTime(in.ExpiresAt),
		Status:    models.PredictionStatusOpen,
		Username:  in.Username,
		CreatedAt: s.now(),
	}

	err := s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		if err := tx.EnsureUser(ctx, in.Username); err != nil {
			return fmt.Errorf("failed to ensure user: %w", err)
		}
		if err := tx.CreatePrediction(ctx, prediction); err != nil {
			return fmt.Errorf("failed to create prediction: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[PredictionService] Prediction %d submitted by %s (stake=%d, expires=%s)",
		prediction.ID, prediction.Username, prediction.Stake, models.FormatTimestamp(prediction.ExpiresAt))
	return prediction, nil
}

// List returns predictions matching filter in ascending id order
func (s *PredictionService) List(ctx context.Context, filter repository.PredictionFilter) ([]models.Prediction, error) {
	if filter.Status != nil && !filter.Status.Valid() {
		return nil, invalid("status", fmt.Sprintf("unknown status %q", *filter.Status))
	}

	predictions, err := s.repo.ListPredictions(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list predictions: %w", err)
	}
	return predictions, nil
}

// Resolve records the outcome of an expired open prediction and moves the
// stake into or out of the owner's total. Checks and writes run in one
// transaction with the prediction row locked, so concurrent resolutions of
// the same prediction apply the stake once.
func (s *PredictionService) Resolve(ctx context.Context, id uint, outcome models.PredictionOutcome) (*models.Prediction, error) {
	if !outcome.Valid() {
		return nil, invalid("outcome", fmt.Sprintf("unknown outcome %q", outcome))
	}

	var resolved *models.Prediction
	err := s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		prediction, err := tx.GetPredictionForUpdate(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPredictionNotFound
			}
			return fmt.Errorf("failed to get prediction: %w", err)
		}

		if !prediction.IsOpen() {
			return ErrAlreadyResolved
		}

		now := s.now()
		if !prediction.Expired(now) {
			return ErrNotYetExpired
		}

		delta := models.Delta(prediction.Stake, outcome)
		owner, err := tx.GetUserByUsername(ctx, prediction.Username)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to get user: %w", err)
		}
		if owner != nil && !canAdd(owner.TotalPoints, delta) {
			return ErrPointsOverflow
		}

		prediction.Status = models.PredictionStatusResolved
		prediction.Outcome = &outcome
		prediction.ResolvedAt = &now

		updated, err := tx.MarkResolved(ctx, prediction)
		if err != nil {
			return fmt.Errorf("failed to update prediction: %w", err)
		}
		if !updated {
			return ErrAlreadyResolved
		}

		found, err := tx.AddPoints(ctx, prediction.Username, delta)
		if err != nil {
			return fmt.Errorf("failed to update user points: %w", err)
		}
		if !found {
			log.Printf("[PredictionService] User %s not found while resolving prediction %d; points unchanged",
				prediction.Username, prediction.ID)
		}

		resolved = prediction
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[PredictionService] Prediction %d resolved as %s (%s %+d)",
		resolved.ID, outcome, resolved.Username, models.Delta(resolved.Stake, outcome))
	return resolved, nil
}

// canAdd reports whether total+delta fits in an int64
func canAdd(total, delta int64) bool {
	if delta > 0 {
		return total <= math.MaxInt64-delta
	}
	return total >= math.MinInt64-delta
}

// AwaitingResolution returns open predictions whose expiry has passed,
// oldest expiry first.
func (s *PredictionService) AwaitingResolution(ctx context.Context) ([]models.Prediction, error) {
	predictions, err := s.repo.GetExpiredOpenPredictions(ctx, s.now(), awaitingResolutionLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to get expired predictions: %w", err)
	}
	return predictions, nil
}
