package services

import (
	"context"
	"time"

	"github.com/comitanigiacomo/kanso-fit/internal/core/domain"
	"github.com/comitanigiacomo/kanso-fit/internal/core/streaks"
)

type StreakService struct {
	repo     domain.UserDataRepository
	calendar streaks.Calendar
	window   int
	clock    domain.Clock
}

func NewStreakService(repo domain.UserDataRepository, calendar streaks.Calendar, window int, clock domain.Clock) *StreakService {
	if window <= 0 {
		window = streaks.DefaultConsistencyWindow
	}
	if clock == nil {
		clock = domain.SystemClock{}
	}
	return &StreakService{
		repo:     repo,
		calendar: calendar,
		window:   window,
		clock:    clock,
	}
}

func (s *StreakService) Now() time.Time {
	return s.clock.Now()
}

func (s *StreakService) Calendar() streaks.Calendar {
	return s.calendar
}

func (s *StreakService) resolve(asOf time.Time) time.Time {
	if asOf.IsZero() {
		return s.clock.Now()
	}
	return asOf
}

type trackedData struct {
	workouts []domain.Workout
	logs     []domain.DailyLog
	goals    domain.NutritionGoals
}

func loadTracked(ctx context.Context, repo domain.UserDataRepository, userID string) (*trackedData, error) {
	workouts, err := loadDocument(ctx, repo, userID, domain.KeyWorkouts, []domain.Workout{})
	if err != nil {
		return nil, err
	}
	logs, err := loadDocument(ctx, repo, userID, domain.KeyDailyLogs, []domain.DailyLog{})
	if err != nil {
		return nil, err
	}
	goals, err := loadDocument(ctx, repo, userID, domain.KeyNutritionGoals, domain.DefaultNutritionGoals())
	if err != nil {
		return nil, err
	}
	return &trackedData{workouts: workouts, logs: logs, goals: goals}, nil
}

// Overview computes all three streak summaries. A zero asOf means now.
func (s *StreakService) Overview(ctx context.Context, userID string, asOf time.Time) (*domain.StreakOverview, error) {
	data, err := loadTracked(ctx, s.repo, userID)
	if err != nil {
		return nil, err
	}
	overview := s.calendar.Overview(data.workouts, data.logs, data.goals, s.window, s.resolve(asOf))
	return &overview, nil
}

func (s *StreakService) Detail(ctx context.Context, userID string, d domain.StreakDomain, asOf time.Time) (*domain.StreakDetail, error) {
	if _, err := domain.ParseStreakDomain(string(d)); err != nil {
		return nil, err
	}

	data, err := loadTracked(ctx, s.repo, userID)
	if err != nil {
		return nil, err
	}
	days := streaks.QualifyingDays(d, data.workouts, data.logs, data.goals)
	detail := s.calendar.Detail(d, days, s.window, s.resolve(asOf))
	return &detail, nil
}

// Snapshot returns the last overview persisted by the worker, or
// ErrDataNotFound when none was computed yet.
func (s *StreakService) Snapshot(ctx context.Context, userID string) (*domain.StreakSnapshot, error) {
	var empty *domain.StreakSnapshot
	snap, err := loadDocument(ctx, s.repo, userID, domain.KeyStreakSnapshot, empty)
	if err != nil {
		return nil, err
	}
	if snap == nil {
		return nil, domain.ErrDataNotFound
	}
	return snap, nil
}

func (s *StreakService) SaveSnapshot(ctx context.Context, snap domain.StreakSnapshot) error {
	if snap.UserID == "" {
		return domain.ErrInvalidUserID
	}
	return saveDocument(ctx, s.repo, snap.UserID, domain.KeyStreakSnapshot, snap)
}
