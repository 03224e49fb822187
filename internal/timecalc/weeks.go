package timecalc

import (
	"fmt"
	"time"
)

// Month identifies a calendar month independent of any time zone.
type Month struct {
	Year  int
	Month time.Month
}

// MonthOf returns the calendar month of t in t's location.
func MonthOf(t time.Time) Month {
	return Month{Year: t.Year(), Month: t.Month()}
}

// ParseMonth parses "YYYY-MM".
func ParseMonth(s string) (Month, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return Month{}, fmt.Errorf("invalid month %q (expected YYYY-MM): %w", s, err)
	}
	return MonthOf(t), nil
}

// Contains reports whether t falls in the month, judged in t's location.
func (m Month) Contains(t time.Time) bool {
	return t.Year() == m.Year && t.Month() == m.Month
}

// First returns noon on the first day of the month in loc.
func (m Month) First(loc *time.Location) time.Time {
	return time.Date(m.Year, m.Month, 1, 12, 0, 0, 0, loc)
}

// Last returns noon on the last day of the month in loc.
func (m Month) Last(loc *time.Location) time.Time {
	return time.Date(m.Year, m.Month+1, 0, 12, 0, 0, 0, loc)
}

func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

// Week is seven consecutive calendar days, Monday first, each at noon local time.
type Week [7]time.Time

// Monday returns the first day of the week.
func (w Week) Monday() time.Time { return w[0] }

// Sunday returns the last day of the week.
func (w Week) Sunday() time.Time { return w[6] }

// Label returns the ISO week label, e.g. "2026-W09".
func (w Week) Label() string { return ISOWeekLabel(w[0]) }

// WeeksForMonth returns the Monday-start weeks whose union covers every day of
// date's month. Edge weeks include days of the neighbouring months; callers
// filter those out when they need month-scoped figures.
func WeeksForMonth(date time.Time) []Week {
	loc := date.Location()
	month := MonthOf(date)
	last := month.Last(loc)

	var weeks []Week
	for monday := NormalizeDay(MondayOf(month.First(loc))); !monday.After(last); monday = monday.AddDate(0, 0, 7) {
		var w Week
		for i := range w {
			w[i] = NormalizeDay(monday.AddDate(0, 0, i))
		}
		weeks = append(weeks, w)
	}
	return weeks
}
