package services

import (
	"context"
	"fmt"

	"github.com/comitanigiacomo/kanso-fit/internal/core/domain"
	"github.com/comitanigiacomo/kanso-fit/internal/core/streaks"
)

type StatsService struct {
	repo     domain.UserDataRepository
	calendar streaks.Calendar
}

func NewStatsService(repo domain.UserDataRepository, calendar streaks.Calendar) *StatsService {
	return &StatsService{
		repo:     repo,
		calendar: calendar,
	}
}

func (s *StatsService) GetWeeklyStats(ctx context.Context, input domain.StatsInput) (*domain.WeeklyStats, error) {
	startDate, err := normalizeDate(input.StartDate)
	if err != nil {
		return nil, err
	}
	endDate, err := normalizeDate(input.EndDate)
	if err != nil {
		return nil, err
	}

	start, _ := s.calendar.Normalize(startDate)
	end, _ := s.calendar.Normalize(endDate)
	if end < start {
		return nil, fmt.Errorf("%w: %w: end_date before start_date", domain.ErrValidation, domain.ErrInvalidRange)
	}
	if int(end-start)+1 > domain.MaxStatsRangeDays {
		return nil, fmt.Errorf("%w: %w: at most %d days", domain.ErrValidation, domain.ErrInvalidRange, domain.MaxStatsRangeDays)
	}

	data, err := loadTracked(ctx, s.repo, input.UserID)
	if err != nil {
		return nil, err
	}

	stats := &domain.WeeklyStats{
		StartDate:    startDate,
		EndDate:      endDate,
		TotalDomains: len(domain.StreakDomains),
		DomainStats:  make([]domain.DomainStat, 0, len(domain.StreakDomains)),
	}

	totalDaysPossible := 0
	totalDaysCompleted := 0

	for _, d := range domain.StreakDomains {
		qualified := make(map[streaks.Day]bool)
		for _, day := range s.calendar.Days(streaks.QualifyingDays(d, data.workouts, data.logs, data.goals)) {
			qualified[day] = true
		}

		dStat := domain.DomainStat{
			Domain:        d,
			DailyProgress: make([]bool, 0, int(end-start)+1),
		}

		daysInPeriod := 0
		for day := start; day <= end; day++ {
			done := qualified[day]
			dStat.DailyProgress = append(dStat.DailyProgress, done)
			if done {
				dStat.DaysCompleted++
				totalDaysCompleted++
			}
			daysInPeriod++
			totalDaysPossible++
		}

		if daysInPeriod > 0 {
			dStat.CompletionRate = float64(dStat.DaysCompleted) / float64(daysInPeriod) * 100
		}
		stats.DomainStats = append(stats.DomainStats, dStat)
	}

	if totalDaysPossible > 0 {
		stats.OverallRate = float64(totalDaysCompleted) / float64(totalDaysPossible) * 100
	}

	return stats, nil
}
