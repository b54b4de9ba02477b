package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/comitanigiacomo/kanso-fit/internal/core/domain"
)

type NutritionService struct {
	repo  domain.UserDataRepository
	queue StreakEnqueuer
	locks *userLocks
}

func NewNutritionService(repo domain.UserDataRepository, queue StreakEnqueuer) *NutritionService {
	return &NutritionService{
		repo:  repo,
		queue: queue,
		locks: newUserLocks(),
	}
}

func (s *NutritionService) loadLogs(ctx context.Context, userID string) ([]domain.DailyLog, error) {
	return loadDocument(ctx, s.repo, userID, domain.KeyDailyLogs, []domain.DailyLog{})
}

func (s *NutritionService) saveLogs(ctx context.Context, userID string, logs []domain.DailyLog) error {
	sort.SliceStable(logs, func(i, j int) bool { return logs[i].Date > logs[j].Date })
	if err := saveDocument(ctx, s.repo, userID, domain.KeyDailyLogs, logs); err != nil {
		return err
	}
	enqueue(s.queue, userID)
	return nil
}

func normalizeDate(date string) (string, error) {
	t, err := domain.ParseDay(date)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}
	return t.Format(domain.DateLayout), nil
}

// GetLog returns the log of one day, or an empty log when nothing was recorded.
func (s *NutritionService) GetLog(ctx context.Context, userID, date string) (*domain.DailyLog, error) {
	day, err := normalizeDate(date)
	if err != nil {
		return nil, err
	}

	logs, err := s.loadLogs(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, l := range logs {
		if l.Date == day {
			out := l.Clone()
			return &out, nil
		}
	}
	return &domain.DailyLog{Date: day, Meals: []domain.Meal{}}, nil
}

// ListLogs returns logs newest first, optionally bounded by from/to (inclusive).
func (s *NutritionService) ListLogs(ctx context.Context, userID, from, to string) ([]domain.DailyLog, error) {
	var err error
	if from != "" {
		if from, err = normalizeDate(from); err != nil {
			return nil, err
		}
	}
	if to != "" {
		if to, err = normalizeDate(to); err != nil {
			return nil, err
		}
	}

	logs, err := s.loadLogs(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]domain.DailyLog, 0, len(logs))
	for _, l := range logs {
		if from != "" && l.Date < from {
			continue
		}
		if to != "" && l.Date > to {
			continue
		}
		out = append(out, l.Clone())
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	return out, nil
}

// mutateLog runs fn on a copy of the day's log (created when missing) and
// persists the result.
func (s *NutritionService) mutateLog(ctx context.Context, userID, date string, fn func(*domain.DailyLog) error) (*domain.DailyLog, error) {
	day, err := normalizeDate(date)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.lock(userID)
	defer unlock()

	logs, err := s.loadLogs(ctx, userID)
	if err != nil {
		return nil, err
	}

	idx := -1
	for i, l := range logs {
		if l.Date == day {
			idx = i
			break
		}
	}

	var target domain.DailyLog
	if idx >= 0 {
		target = logs[idx].Clone()
	} else {
		target = domain.DailyLog{Date: day, Meals: []domain.Meal{}}
	}

	if err := fn(&target); err != nil {
		return nil, err
	}

	if idx >= 0 {
		logs[idx] = target
	} else {
		logs = append(logs, target)
	}

	if err := s.saveLogs(ctx, userID, logs); err != nil {
		return nil, err
	}
	out := target.Clone()
	return &out, nil
}

func (s *NutritionService) AddFoodItems(ctx context.Context, userID, date string, meal domain.MealType, items []domain.FoodItem) (*domain.DailyLog, error) {
	if _, err := domain.ParseMealType(string(meal)); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: at least one food item is required", domain.ErrValidation)
	}
	for i := range items {
		if err := items[i].Validate(); err != nil {
			return nil, err
		}
	}

	return s.mutateLog(ctx, userID, date, func(l *domain.DailyLog) error {
		m := findMeal(l, meal)
		if m == nil {
			l.Meals = append(l.Meals, domain.Meal{ID: uuid.NewString(), Name: meal, Items: []domain.FoodItem{}})
			m = &l.Meals[len(l.Meals)-1]
		}
		for _, item := range items {
			if item.ID == "" {
				item.ID = uuid.NewString()
			}
			m.Items = append(m.Items, item)
		}
		return nil
	})
}

func (s *NutritionService) UpdateFoodItem(ctx context.Context, userID, date string, meal domain.MealType, itemID string, item domain.FoodItem) (*domain.DailyLog, error) {
	if err := item.Validate(); err != nil {
		return nil, err
	}

	return s.mutateLog(ctx, userID, date, func(l *domain.DailyLog) error {
		m := findMeal(l, meal)
		if m == nil {
			return domain.ErrFoodItemNotFound
		}
		for i := range m.Items {
			if m.Items[i].ID == itemID {
				item.ID = itemID
				m.Items[i] = item
				return nil
			}
		}
		return domain.ErrFoodItemNotFound
	})
}

func (s *NutritionService) RemoveFoodItem(ctx context.Context, userID, date string, meal domain.MealType, itemID string) (*domain.DailyLog, error) {
	return s.mutateLog(ctx, userID, date, func(l *domain.DailyLog) error {
		m := findMeal(l, meal)
		if m == nil {
			return domain.ErrFoodItemNotFound
		}
		for i := range m.Items {
			if m.Items[i].ID == itemID {
				m.Items = append(m.Items[:i], m.Items[i+1:]...)
				return nil
			}
		}
		return domain.ErrFoodItemNotFound
	})
}

// AddWater adds amount ml (negative to correct a mistake); the total never drops below zero.
func (s *NutritionService) AddWater(ctx context.Context, userID, date string, amount int) (*domain.DailyLog, error) {
	return s.mutateLog(ctx, userID, date, func(l *domain.DailyLog) error {
		total := max(l.Water()+amount, 0)
		l.WaterIntake = &total
		return nil
	})
}

// GetGoals returns the stored goals, or the defaults when none were saved.
func (s *NutritionService) GetGoals(ctx context.Context, userID string) (domain.NutritionGoals, error) {
	return loadDocument(ctx, s.repo, userID, domain.KeyNutritionGoals, domain.DefaultNutritionGoals())
}

func (s *NutritionService) SetGoals(ctx context.Context, userID string, goals domain.NutritionGoals) (domain.NutritionGoals, error) {
	if err := goals.Validate(); err != nil {
		return domain.NutritionGoals{}, err
	}
	if userID == "" {
		return domain.NutritionGoals{}, domain.ErrInvalidUserID
	}
	if err := saveDocument(ctx, s.repo, userID, domain.KeyNutritionGoals, goals); err != nil {
		return domain.NutritionGoals{}, err
	}
	enqueue(s.queue, userID)
	return goals, nil
}

func findMeal(l *domain.DailyLog, meal domain.MealType) *domain.Meal {
	for i := range l.Meals {
		if l.Meals[i].Name == meal {
			return &l.Meals[i]
		}
	}
	return nil
}
