package domain

import (
	"errors"
	"time"
)

var ErrInvalidDomain = errors.New("invalid streak domain (must be workout, nutrition or water)")

type StreakDomain string

const (
	DomainWorkout   StreakDomain = "workout"
	DomainNutrition StreakDomain = "nutrition"
	DomainWater     StreakDomain = "water"
)

var StreakDomains = []StreakDomain{DomainWorkout, DomainNutrition, DomainWater}

func ParseStreakDomain(s string) (StreakDomain, error) {
	for _, d := range StreakDomains {
		if string(d) == s {
			return d, nil
		}
	}
	return "", ErrInvalidDomain
}

type StreakResult struct {
	Current int `json:"current"`
	Longest int `json:"longest"`
}

type StreakSummary struct {
	Domain            StreakDomain `json:"domain"`
	Current           int          `json:"current"`
	Longest           int          `json:"longest"`
	Consistency       int          `json:"consistency"`
	ConsistencyWindow int          `json:"consistency_window"`
	NextMilestone     int          `json:"next_milestone"`
	DaysToMilestone   int          `json:"days_to_milestone"`
	MilestoneProgress float64      `json:"milestone_progress"`
}

type StreakOverview struct {
	AsOf      string        `json:"as_of"`
	Workout   StreakSummary `json:"workout"`
	Nutrition StreakSummary `json:"nutrition"`
	Water     StreakSummary `json:"water"`
}

func (o StreakOverview) Summary(d StreakDomain) StreakSummary {
	switch d {
	case DomainNutrition:
		return o.Nutrition
	case DomainWater:
		return o.Water
	default:
		return o.Workout
	}
}

// SameStreaks reports whether both overviews carry identical streak numbers,
// ignoring the evaluation date.
func (o StreakOverview) SameStreaks(other StreakOverview) bool {
	return o.Workout == other.Workout && o.Nutrition == other.Nutrition && o.Water == other.Water
}

type StreakDetail struct {
	StreakSummary
	Days []string `json:"days"`
}

type StreakSnapshot struct {
	UserID     string         `json:"user_id"`
	Overview   StreakOverview `json:"overview"`
	ComputedAt time.Time      `json:"computed_at"`
}

type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock always returns the same instant.
type FixedClock time.Time

func (c FixedClock) Now() time.Time { return time.Time(c) }
