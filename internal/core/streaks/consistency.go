package streaks

import (
	"math"
	"time"
)

const DefaultConsistencyWindow = 30

// Consistency is the percentage (0-100) of the windowDays calendar days
// ending at asOf, inclusive, that appear in dates.
func (c Calendar) Consistency(dates []string, windowDays int, asOf time.Time) int {
	return consistency(c.Days(dates), windowDays, c.DayOf(asOf))
}

func consistency(days []Day, windowDays int, today Day) int {
	if windowDays <= 0 || len(days) == 0 {
		return 0
	}

	first := today - Day(windowDays-1)
	count := 0
	for _, d := range days {
		if d >= first && d <= today {
			count++
		}
	}

	return int(math.Round(100 * float64(count) / float64(windowDays)))
}
