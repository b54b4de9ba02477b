package domain

import "errors"

// MaxStatsRangeDays bounds the range accepted by weekly stats.
const MaxStatsRangeDays = 366

var ErrInvalidRange = errors.New("invalid date range")

type WeeklyStats struct {
	StartDate    string       `json:"start_date"`
	EndDate      string       `json:"end_date"`
	TotalDomains int          `json:"total_domains"`
	OverallRate  float64      `json:"overall_completion_rate"`
	DomainStats  []DomainStat `json:"domains"`
}

type DomainStat struct {
	Domain         StreakDomain `json:"domain"`
	CompletionRate float64      `json:"completion_rate"`
	DaysCompleted  int          `json:"days_completed"`
	DailyProgress  []bool       `json:"daily_progress"`
}

// StatsInput bounds are YYYY-MM-DD dates, both inclusive.
type StatsInput struct {
	UserID    string
	StartDate string
	EndDate   string
}

// Progress compares a logged amount against its goal. Percent is capped at
// 100 and is 0 when no goal is set.
type Progress struct {
	Value   float64 `json:"value"`
	Goal    int     `json:"goal"`
	Percent float64 `json:"percent"`
}

func NewProgress(value float64, goal int) Progress {
	p := Progress{Value: value, Goal: goal}
	if goal > 0 {
		p.Percent = min(value/float64(goal)*100, 100)
	}
	if p.Percent < 0 {
		p.Percent = 0
	}
	return p
}

type Dashboard struct {
	Date             string          `json:"date"`
	Calories         Progress        `json:"calories"`
	Protein          Progress        `json:"protein"`
	Carbs            Progress        `json:"carbs"`
	Fat              Progress        `json:"fat"`
	Water            Progress        `json:"water"`
	LatestWorkout    *WorkoutSummary `json:"latest_workout"`
	WorkoutsThisWeek int             `json:"workouts_this_week"`
	Streaks          StreakOverview  `json:"streaks"`
}
