package streaks

import (
	"time"

	"github.com/comitanigiacomo/kanso-fit/internal/core/domain"
)

// Summarize computes every figure shown for one domain from its qualifying days.
func (c Calendar) Summarize(d domain.StreakDomain, dates []string, window int, asOf time.Time) domain.StreakSummary {
	days := c.Days(dates)
	today := c.DayOf(asOf)
	res := calculate(days, today)

	return domain.StreakSummary{
		Domain:            d,
		Current:           res.Current,
		Longest:           res.Longest,
		Consistency:       consistency(days, window, today),
		ConsistencyWindow: window,
		NextMilestone:     NextMilestone(res.Current),
		DaysToMilestone:   DaysToMilestone(res.Current),
		MilestoneProgress: MilestoneProgress(res.Current),
	}
}

// Overview summarizes the workout, nutrition and water domains.
func (c Calendar) Overview(workouts []domain.Workout, logs []domain.DailyLog, goals domain.NutritionGoals, window int, asOf time.Time) domain.StreakOverview {
	return domain.StreakOverview{
		AsOf:      c.DayOf(asOf).String(),
		Workout:   c.Summarize(domain.DomainWorkout, WorkoutDays(workouts), window, asOf),
		Nutrition: c.Summarize(domain.DomainNutrition, NutritionDays(logs, goals), window, asOf),
		Water:     c.Summarize(domain.DomainWater, WaterDays(logs, goals), window, asOf),
	}
}

// Detail is Summarize plus the normalized qualifying days, oldest first.
func (c Calendar) Detail(d domain.StreakDomain, dates []string, window int, asOf time.Time) domain.StreakDetail {
	return domain.StreakDetail{
		StreakSummary: c.Summarize(d, dates, window, asOf),
		Days:          c.DayKeys(dates),
	}
}
