package services

import (
	"errors"
	"fmt"
)

var (
	// ErrPredictionNotFound is returned when no prediction has the requested id
	ErrPredictionNotFound = errors.New("prediction not found")
	// ErrAlreadyResolved is returned when resolving a prediction that is no longer open
	ErrAlreadyResolved = errors.New("prediction already resolved")
	// ErrNotYetExpired is returned when resolving before the prediction's expiry
	ErrNotYetExpired = errors.New("prediction has not expired yet")
	// ErrPointsOverflow is returned when applying a stake would push a user's
	// total outside the int64 range
	ErrPointsOverflow = errors.New("points total out of range")
)

// ValidationError reports input the engine refuses to act on
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalid(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
