package compensation

import (
	"sort"
	"time"

	"github.com/Tiliavir/worktime/internal/model"
	"github.com/Tiliavir/worktime/internal/timecalc"
)

// EntriesForDay returns the entries logged on a calendar day, in any order.
type EntriesForDay func(day time.Time) []model.TimeEntry

// IndexByDay groups entries by the calendar day of their start time, judged
// in loc. The returned lookup is read-only and safe for concurrent use.
func IndexByDay(entries []model.TimeEntry, loc *time.Location) EntriesForDay {
	index := make(map[string][]model.TimeEntry)
	for _, e := range entries {
		key := timecalc.DayKey(e.Start.In(loc))
		index[key] = append(index[key], e)
	}
	return func(day time.Time) []model.TimeEntry {
		return index[timecalc.DayKey(day.In(loc))]
	}
}

// FilterMonth restricts a lookup to the days of month.
func FilterMonth(entriesForDay EntriesForDay, month timecalc.Month) EntriesForDay {
	return func(day time.Time) []model.TimeEntry {
		if !month.Contains(day) {
			return nil
		}
		return lookup(entriesForDay, day)
	}
}

// WeekCompensatedHours sums compensated minutes over the days of week and
// converts the week total to hours once. With monthFilter set, days outside
// that month are skipped. Nil settings yield 0.
func WeekCompensatedHours(week timecalc.Week, entriesForDay EntriesForDay, settings *model.EffectiveSettings, monthFilter *timecalc.Month) float64 {
	if settings == nil {
		return 0
	}
	var minutes float64
	for _, day := range week {
		if monthFilter != nil && !monthFilter.Contains(day) {
			continue
		}
		for _, e := range chronological(lookup(entriesForDay, day)) {
			minutes += EntryMinutes(e, *settings)
		}
	}
	return minutes / 60
}

// MonthCompensatedHours sums the month-filtered week totals of weeks.
func MonthCompensatedHours(weeks []timecalc.Week, entriesForDay EntriesForDay, settings *model.EffectiveSettings, month timecalc.Month) float64 {
	if settings == nil {
		return 0
	}
	var hours float64
	for _, w := range weeks {
		hours += WeekCompensatedHours(w, entriesForDay, settings, &month)
	}
	return hours
}

// MonthPassengerHoursRaw sums PassengerTimeHours, without any percentage, over
// every day of every week. It does not filter by month; pass a lookup wrapped
// with FilterMonth when only one month should count.
func MonthPassengerHoursRaw(weeks []timecalc.Week, entriesForDay EntriesForDay) float64 {
	var hours float64
	for _, w := range weeks {
		for _, day := range w {
			for _, e := range chronological(lookup(entriesForDay, day)) {
				hours += e.PassengerTimeHours
			}
		}
	}
	return hours
}

// DayCompensatedMinutes sums compensated minutes over one day's entries.
func DayCompensatedMinutes(entries []model.TimeEntry, settings *model.EffectiveSettings) float64 {
	if settings == nil {
		return 0
	}
	var minutes float64
	for _, e := range chronological(entries) {
		minutes += EntryMinutes(e, *settings)
	}
	return minutes
}

func lookup(entriesForDay EntriesForDay, day time.Time) []model.TimeEntry {
	if entriesForDay == nil {
		return nil
	}
	return entriesForDay(day)
}

// chronological returns a start-ordered copy so float sums do not depend on
// the order the store happened to return.
func chronological(entries []model.TimeEntry) []model.TimeEntry {
	if len(entries) < 2 {
		return entries
	}
	sorted := make([]model.TimeEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].Start.Equal(sorted[j].Start) {
			return sorted[i].Start.Before(sorted[j].Start)
		}
		return sorted[i].ID < sorted[j].ID
	})
	return sorted
}
