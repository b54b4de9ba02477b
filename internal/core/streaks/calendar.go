// Package streaks turns dated activity records into streak, consistency and
// milestone figures. Every function is pure: "now" is always passed in.
package streaks

import (
	"fmt"
	"sort"
	"time"
	_ "time/tzdata"

	"github.com/comitanigiacomo/kanso-fit/internal/core/domain"
)

const secondsPerDay = 24 * 60 * 60

// Day is a calendar date counted in days since 1970-01-01. Adjacent dates
// always differ by exactly one, whatever the DST rules of the calendar.
type Day int

func civilDay(y int, m time.Month, d int) Day {
	return Day(time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / secondsPerDay)
}

// Time returns midnight UTC of the day.
func (d Day) Time() time.Time {
	return time.Unix(int64(d)*secondsPerDay, 0).UTC()
}

func (d Day) String() string {
	return d.Time().Format(domain.DateLayout)
}

// Calendar decides which calendar day an instant belongs to. Every input and
// the evaluation instant are read in the same location.
type Calendar struct {
	loc *time.Location
}

// UTC is the calendar used when no timezone is configured.
var UTC = NewCalendar(time.UTC)

func NewCalendar(loc *time.Location) Calendar {
	if loc == nil {
		loc = time.UTC
	}
	return Calendar{loc: loc}
}

// LoadCalendar builds a calendar from an IANA zone name ("" means UTC).
func LoadCalendar(name string) (Calendar, error) {
	if name == "" {
		return UTC, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return Calendar{}, fmt.Errorf("streaks: unknown timezone %q: %w", name, err)
	}
	return NewCalendar(loc), nil
}

func (c Calendar) Location() *time.Location {
	if c.loc == nil {
		return time.UTC
	}
	return c.loc
}

// DayOf returns the calendar day of t in the calendar's location.
func (c Calendar) DayOf(t time.Time) Day {
	return civilDay(t.In(c.Location()).Date())
}

// Instant returns noon of d in the calendar's location, an instant that
// DayOf maps back to d.
func (c Calendar) Instant(d Day) time.Time {
	y, m, dd := d.Time().Date()
	return time.Date(y, m, dd, 12, 0, 0, 0, c.Location())
}

// Normalize maps an ISO-8601 timestamp or a YYYY-MM-DD date to its day.
// Timestamps with an offset are converted into the calendar's location;
// zoneless input is taken as already local. ok is false for unparseable input.
func (c Calendar) Normalize(dateLike string) (Day, bool) {
	t, zoned, ok := domain.ParseDateLike(dateLike)
	if !ok {
		return 0, false
	}
	if zoned {
		return c.DayOf(t), true
	}
	return civilDay(t.Date()), true
}

// Key is Normalize rendered as YYYY-MM-DD.
func (c Calendar) Key(dateLike string) (string, bool) {
	d, ok := c.Normalize(dateLike)
	if !ok {
		return "", false
	}
	return d.String(), true
}

// Days normalizes, deduplicates and sorts the inputs, most recent first.
// Unparseable entries are dropped.
func (c Calendar) Days(dates []string) []Day {
	seen := make(map[Day]struct{}, len(dates))
	days := make([]Day, 0, len(dates))
	for _, s := range dates {
		d, ok := c.Normalize(s)
		if !ok {
			continue
		}
		if _, dup := seen[d]; dup {
			continue
		}
		seen[d] = struct{}{}
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool {
		return days[i] > days[j]
	})
	return days
}

// DayKeys is Days rendered as YYYY-MM-DD, oldest first.
func (c Calendar) DayKeys(dates []string) []string {
	days := c.Days(dates)
	keys := make([]string, len(days))
	for i, d := range days {
		keys[len(days)-1-i] = d.String()
	}
	return keys
}
