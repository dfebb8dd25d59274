package calendar

import (
	"fmt"
	"time"

	"admissions/config"
)

// DateLayout and SlotLayout are the wire formats used across the booking
// flow; the original corpus and the storage layer both key on them.
const (
	DateLayout = "2006-01-02"
	SlotLayout = "15:04"
)

// Calendar computes the consultation slot grid and the rolling date horizon.
// It is pure: outputs depend only on the inputs and the immutable settings,
// so it is safe under unbounded concurrent use.
type Calendar struct {
	loc        *time.Location
	dayStart   int // minutes from midnight
	dayEnd     int
	lunchStart int
	lunchEnd   int
	step       int
	horizon    int
}

// New builds a Calendar from the application config.
func New(cfg config.Config) (*Calendar, error) {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", cfg.Timezone, err)
	}

	c := &Calendar{loc: loc, step: cfg.SlotStepMin, horizon: cfg.WorkDaysAhead}
	for _, f := range []struct {
		dst  *int
		name string
		val  string
	}{
		{&c.dayStart, "DAY_START", cfg.DayStart},
		{&c.dayEnd, "DAY_END", cfg.DayEnd},
		{&c.lunchStart, "LUNCH_START", cfg.LunchStart},
		{&c.lunchEnd, "LUNCH_END", cfg.LunchEnd},
	} {
		m, err := parseMinutes(f.val)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", f.name, err)
		}
		*f.dst = m
	}

	if c.step <= 0 {
		return nil, fmt.Errorf("slot step must be positive, got %d", c.step)
	}
	if c.dayStart >= c.dayEnd {
		return nil, fmt.Errorf("day start %s is not before day end %s", cfg.DayStart, cfg.DayEnd)
	}
	return c, nil
}

func parseMinutes(s string) (int, error) {
	t, err := time.Parse(SlotLayout, s)
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}

// SlotsForDate returns the full slot grid for a date in chronological order:
// fixed step from opening, skipping starts inside the lunch interval,
// stopping strictly before closing. The grid itself does not depend on the
// date; the date is validated so malformed input fails loudly.
func (c *Calendar) SlotsForDate(date string) ([]string, error) {
	if _, err := time.ParseInLocation(DateLayout, date, c.loc); err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", date, err)
	}

	var slots []string
	for m := c.dayStart; m < c.dayEnd; m += c.step {
		if m >= c.lunchStart && m < c.lunchEnd {
			continue
		}
		slots = append(slots, fmt.Sprintf("%02d:%02d", m/60, m%60))
	}
	return slots, nil
}

// BookableDates returns the next horizon of calendar days starting at today,
// excluding Sundays, in chronological order.
func (c *Calendar) BookableDates(today time.Time) []string {
	day := today.In(c.loc)
	dates := make([]string, 0, c.horizon)
	for i := 0; i < c.horizon; i++ {
		d := day.AddDate(0, 0, i)
		if d.Weekday() != time.Sunday {
			dates = append(dates, d.Format(DateLayout))
		}
	}
	return dates
}

// Location exposes the calendar's timezone for callers that need "today".
func (c *Calendar) Location() *time.Location {
	return c.loc
}
