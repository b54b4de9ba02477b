package repository

import (
	"context"
	"sync"

	"github.com/comitanigiacomo/kanso-fit/internal/core/domain"
)

var _ domain.UserDataRepository = (*InMemoryUserDataRepository)(nil)

type InMemoryUserDataRepository struct {
	store map[string]map[string][]byte

	mu sync.RWMutex
}

func NewInMemoryUserDataRepository() *InMemoryUserDataRepository {
	return &InMemoryUserDataRepository{
		store: make(map[string]map[string][]byte),
	}
}

func (r *InMemoryUserDataRepository) Get(ctx context.Context, userID, key string) ([]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	val, ok := r.store[userID][key]
	if !ok {
		return nil, domain.ErrDataNotFound
	}
	return append([]byte(nil), val...), nil
}

func (r *InMemoryUserDataRepository) Set(ctx context.Context, userID, key string, value []byte) error {
	if userID == "" {
		return domain.ErrInvalidUserID
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.store[userID]; !ok {
		r.store[userID] = make(map[string][]byte)
	}
	r.store[userID][key] = append([]byte(nil), value...)
	return nil
}
