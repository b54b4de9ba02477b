package services

import (
	"context"
	"time"

	"github.com/comitanigiacomo/kanso-fit/internal/core/domain"
	"github.com/comitanigiacomo/kanso-fit/internal/core/streaks"
)

type DashboardService struct {
	repo    domain.UserDataRepository
	streaks *StreakService
}

func NewDashboardService(repo domain.UserDataRepository, streakService *StreakService) *DashboardService {
	return &DashboardService{
		repo:    repo,
		streaks: streakService,
	}
}

// Summary reports today's intake against goals, recent training and the
// streak overview. A zero asOf means now.
func (s *DashboardService) Summary(ctx context.Context, userID string, asOf time.Time) (*domain.Dashboard, error) {
	asOf = s.streaks.resolve(asOf)
	cal := s.streaks.Calendar()

	data, err := loadTracked(ctx, s.repo, userID)
	if err != nil {
		return nil, err
	}

	today := cal.DayOf(asOf)
	todayKey := today.String()
	var todays domain.DailyLog
	for _, l := range data.logs {
		if key, ok := cal.Key(l.Date); ok && key == todayKey {
			todays = l
			break
		}
	}

	totals := todays.Totals()
	dash := &domain.Dashboard{
		Date:     todayKey,
		Calories: domain.NewProgress(totals.Calories, data.goals.Calories),
		Protein:  domain.NewProgress(totals.Protein, data.goals.Protein),
		Carbs:    domain.NewProgress(totals.Carbs, data.goals.Carbs),
		Fat:      domain.NewProgress(totals.Fat, data.goals.Fat),
		Water:    domain.NewProgress(float64(todays.Water()), data.goals.WaterGoal),
		Streaks:  cal.Overview(data.workouts, data.logs, data.goals, s.streaks.window, asOf),
	}

	workouts := append([]domain.Workout(nil), data.workouts...)
	sortNewestFirst(workouts)
	if len(workouts) > 0 {
		latest := workouts[0].Clone().Summarize()
		dash.LatestWorkout = &latest
	}

	// the week runs Monday to Sunday
	weekday := (int(today.Time().Weekday()) + 6) % 7
	weekStart := today - streaks.Day(weekday)
	for _, w := range workouts {
		if d, ok := cal.Normalize(w.Date); ok && d >= weekStart && d <= today {
			dash.WorkoutsThisWeek++
		}
	}

	return dash, nil
}
