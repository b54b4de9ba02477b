package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	json "github.com/goccy/go-json"

	"github.com/comitanigiacomo/kanso-fit/internal/core/domain"
)

// StreakEnqueuer schedules a background streak recompute for a user.
type StreakEnqueuer interface {
	Enqueue(userID string)
}

func loadDocument[T any](ctx context.Context, repo domain.UserDataRepository, userID, key string, fallback T) (T, error) {
	if userID == "" {
		return fallback, domain.ErrInvalidUserID
	}

	raw, err := repo.Get(ctx, userID, key)
	if errors.Is(err, domain.ErrDataNotFound) {
		return fallback, nil
	}
	if err != nil {
		return fallback, fmt.Errorf("load %s: %w", key, err)
	}

	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		return fallback, fmt.Errorf("decode %s: %w", key, err)
	}
	return out, nil
}

func saveDocument(ctx context.Context, repo domain.UserDataRepository, userID, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := repo.Set(ctx, userID, key, raw); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// userLocks serializes read-modify-write cycles on one user's documents.
type userLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newUserLocks() *userLocks {
	return &userLocks{locks: make(map[string]*sync.Mutex)}
}

func (l *userLocks) lock(userID string) func() {
	l.mu.Lock()
	m, ok := l.locks[userID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[userID] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}

func enqueue(q StreakEnqueuer, userID string) {
	if q != nil {
		q.Enqueue(userID)
	}
}
