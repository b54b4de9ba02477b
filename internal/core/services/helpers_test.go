package services_test

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/comitanigiacomo/kanso-fit/internal/adapters/repository"
	"github.com/comitanigiacomo/kanso-fit/internal/core/domain"
)

// 2024-01-20 is a Saturday.
var asOf = time.Date(2024, 1, 20, 15, 30, 0, 0, time.UTC)

func daysAgo(n int) string {
	return asOf.AddDate(0, 0, -n).Format(domain.DateLayout)
}

func ptr[T any](v T) *T {
	return &v
}

type recordingQueue struct {
	mu    sync.Mutex
	users []string
}

func (q *recordingQueue) Enqueue(userID string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.users = append(q.users, userID)
}

func (q *recordingQueue) count() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.users)
}

type MockUserDataRepo struct {
	mock.Mock
}

func (m *MockUserDataRepo) Get(ctx context.Context, userID, key string) ([]byte, error) {
	args := m.Called(ctx, userID, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockUserDataRepo) Set(ctx context.Context, userID, key string, value []byte) error {
	args := m.Called(ctx, userID, key, value)
	return args.Error(0)
}

func newRepo() *repository.InMemoryUserDataRepository {
	return repository.NewInMemoryUserDataRepository()
}

func workoutOn(date string, names ...string) domain.Workout {
	w := domain.Workout{Date: date}
	for _, n := range names {
		w.Exercises = append(w.Exercises, domain.Exercise{
			Name: n,
			Sets: []domain.ExerciseSet{{Reps: 10, Weight: 50}},
		})
	}
	return w
}
