package streaks

import "github.com/comitanigiacomo/kanso-fit/internal/core/domain"

// WorkoutDays lists the date of every workout. Any workout qualifies its day.
func WorkoutDays(workouts []domain.Workout) []string {
	days := make([]string, 0, len(workouts))
	for _, w := range workouts {
		days = append(days, w.Date)
	}
	return days
}

// NutritionDays lists the days whose logged calories fall within ±10% of the
// calorie goal, bounds included. A goal <= 0 never qualifies.
func NutritionDays(logs []domain.DailyLog, goals domain.NutritionGoals) []string {
	days := make([]string, 0, len(logs))
	for _, l := range logs {
		if withinCalorieBand(l.TotalCalories(), goals.Calories) {
			days = append(days, l.Date)
		}
	}
	return days
}

// WaterDays lists the days whose water intake reached the water goal.
func WaterDays(logs []domain.DailyLog, goals domain.NutritionGoals) []string {
	days := make([]string, 0, len(logs))
	for _, l := range logs {
		if l.Water() >= goals.WaterGoal {
			days = append(days, l.Date)
		}
	}
	return days
}

// Compared as 10*total against 9*goal and 11*goal so that boundary values
// such as exactly 1.1*goal are not lost to floating point rounding.
func withinCalorieBand(total float64, goal int) bool {
	if goal <= 0 {
		return false
	}
	scaled := total * 10
	return scaled >= float64(goal*9) && scaled <= float64(goal*11)
}

// QualifyingDays dispatches to the rule of the given domain.
func QualifyingDays(d domain.StreakDomain, workouts []domain.Workout, logs []domain.DailyLog, goals domain.NutritionGoals) []string {
	switch d {
	case domain.DomainNutrition:
		return NutritionDays(logs, goals)
	case domain.DomainWater:
		return WaterDays(logs, goals)
	default:
		return WorkoutDays(workouts)
	}
}
