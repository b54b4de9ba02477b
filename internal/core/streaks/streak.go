package streaks

import (
	"time"

	"github.com/comitanigiacomo/kanso-fit/internal/core/domain"
)

// Calculate returns the current and longest runs of consecutive days.
// The current run is live only when the most recent day is today or
// yesterday relative to asOf.
func (c Calendar) Calculate(dates []string, asOf time.Time) domain.StreakResult {
	return calculate(c.Days(dates), c.DayOf(asOf))
}

// calculate expects unique days sorted most recent first.
func calculate(days []Day, today Day) domain.StreakResult {
	if len(days) == 0 {
		return domain.StreakResult{}
	}

	current := 0
	if mostRecent := days[0]; mostRecent == today || mostRecent == today-1 {
		current = 1
		for i := 0; i < len(days)-1; i++ {
			if days[i]-days[i+1] != 1 {
				break
			}
			current++
		}
	}

	longest := 0
	run := 1
	for i := 0; i < len(days)-1; i++ {
		if days[i]-days[i+1] == 1 {
			run++
			continue
		}
		if run > longest {
			longest = run
		}
		run = 1
	}
	if run > longest {
		longest = run
	}

	return domain.StreakResult{Current: current, Longest: longest}
}
