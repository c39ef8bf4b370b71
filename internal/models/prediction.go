package models

import (
	"time"
)

// PredictionStatus is the lifecycle state of a prediction
type PredictionStatus string

const (
	PredictionStatusOpen     PredictionStatus = "open"
	PredictionStatusResolved PredictionStatus = "resolved"
)

// Valid reports whether s is a known status
func (s PredictionStatus) Valid() bool {
	return s == PredictionStatusOpen || s == PredictionStatusResolved
}

// PredictionOutcome is the result recorded at resolution
type PredictionOutcome string

const (
	PredictionOutcomeSuccess PredictionOutcome = "success"
	PredictionOutcomeFail    PredictionOutcome = "fail"
)

// Valid reports whether o is a known outcome
func (o PredictionOutcome) Valid() bool {
	return o == PredictionOutcomeSuccess || o == PredictionOutcomeFail
}

// DefaultStake is applied when a submission omits the stake
const DefaultStake = 10

// Prediction represents a user's call with a point stake and an expiry
type Prediction struct {
	ID         uint               `gorm:"primaryKey" json:"id"`
	Title      string             `gorm:"size:500;not null" json:"title"`
	Category   *string            `gorm:"size:100" json:"category"`
	Stake      int64              `gorm:"not null;default:10" json:"stake"`
	ExpiresAt  time.Time          `gorm:"not null;index" json:"expires_at"`
	Status     PredictionStatus   `gorm:"size:20;not null;default:open;index" json:"status"`
	Outcome    *PredictionOutcome `gorm:"size:20" json:"outcome"`
	Username   string             `gorm:"size:255;not null;index" json:"username"`
	CreatedAt  time.Time          `gorm:"not null" json:"created_at"`
	ResolvedAt *time.Time         `json:"resolved_at"`
}

// TableName specifies the table name for Prediction model
func (Prediction) TableName() string {
	return "predictions"
}

// IsOpen reports whether the prediction can still be resolved
func (p *Prediction) IsOpen() bool {
	return p.Status == PredictionStatusOpen
}

// Expired reports whether resolution is permitted at now
func (p *Prediction) Expired(now time.Time) bool {
	return !now.Before(p.ExpiresAt)
}

// Delta returns the signed change to the owner's total for the given outcome
func Delta(stake int64, outcome PredictionOutcome) int64 {
	if outcome == PredictionOutcomeSuccess {
		return stake
	}
	return -stake
}

// CreatePredictionRequest is the body of POST /predictions
type CreatePredictionRequest struct {
	Title     string  `json:"title" binding:"required"`
	Category  *string `json:"category"`
	Stake     *int64  `json:"stake"`
	ExpiresAt string  `json:"expires_at" binding:"required"`
	Username  string  `json:"username" binding:"required"`
}

// ResolvePredictionRequest is the body of POST /predictions/:id/resolve
type ResolvePredictionRequest struct {
	Outcome PredictionOutcome `json:"outcome" binding:"required,oneof=success fail"`
}

// PredictionResponse is the wire representation of a prediction
type PredictionResponse struct {
	ID         uint               `json:"id"`
	Title      string             `json:"title"`
	Category   *string            `json:"category"`
	Stake      int64              `json:"stake"`
	ExpiresAt  string             `json:"expires_at"`
	Status     PredictionStatus   `json:"status"`
	Outcome    *PredictionOutcome `json:"outcome"`
	Username   string             `json:"username"`
	CreatedAt  string             `json:"created_at"`
	ResolvedAt *string            `json:"resolved_at"`
}

// ToResponse converts a Prediction to its wire form
func (p *Prediction) ToResponse() PredictionResponse {
	resp := PredictionResponse{
		ID:        p.ID,
		Title:     p.Title,
		Category:  p.Category,
		Stake:     p.Stake,
		ExpiresAt: FormatTimestamp(p.ExpiresAt),
		Status:    p.Status,
		Outcome:   p.Outcome,
		Username:  p.Username,
		CreatedAt: FormatTimestamp(p.CreatedAt),
	}
	if p.ResolvedAt != nil {
		resolvedAt := FormatTimestamp(*p.ResolvedAt)
		resp.ResolvedAt = &resolvedAt
	}
	return resp
}
