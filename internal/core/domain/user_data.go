package domain

import (
	"context"
	"errors"
)

var (
	ErrDataNotFound     = errors.New("user data not found")
	ErrStoreUnavailable = errors.New("user data store unavailable")
	ErrInvalidUserID    = errors.New("invalid user id")
)

// Data keys under which a user's documents are stored.
const (
	KeyWorkouts       = "workouts"
	KeyDailyLogs      = "dailyLogs"
	KeyNutritionGoals = "nutritionGoals"
	KeyStreakSnapshot = "streakSnapshot"
)

// UserDataRepository stores one JSON document per (user, data key).
type UserDataRepository interface {
	// Get returns the raw document, or ErrDataNotFound when nothing is stored.
	Get(ctx context.Context, userID, key string) ([]byte, error)

	// Set creates or replaces the document.
	Set(ctx context.Context, userID, key string, value []byte) error
}
