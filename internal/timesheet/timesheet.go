// Package timesheet builds the monthly view consumed by the report preview,
// the exporter and the HTTP API, so all three render the same numbers.
package timesheet

import (
	"sort"
	"time"

	"github.com/Tiliavir/worktime/internal/compensation"
	"github.com/Tiliavir/worktime/internal/model"
	"github.com/Tiliavir/worktime/internal/timecalc"
)

// Row is one entry with its compensated duration.
type Row struct {
	Entry              model.TimeEntry `json:"entry"`
	CompensatedMinutes float64         `json:"compensated_minutes"`
}

// Day is one in-month calendar day of a week.
type Day struct {
	Date    time.Time `json:"date"`
	Rows    []Row     `json:"rows"`
	Minutes float64   `json:"minutes"`
}

// Week is one Monday-start week of the month. Days outside the month are
// left out of Days and of Hours.
type Week struct {
	Label      string    `json:"label"`
	Monday     time.Time `json:"monday"`
	Sunday     time.Time `json:"sunday"`
	Days       []Day     `json:"days"`
	Hours      float64   `json:"hours"`
	HasContent bool      `json:"has_content"`
}

// Timesheet is the monthly view.
type Timesheet struct {
	Month   timecalc.Month              `json:"-"`
	Weeks   []Week                      `json:"weeks"`
	Summary compensation.MonthlySummary `json:"-"`
}

// Figures are the summary values rendered with two decimals.
type Figures struct {
	Month                   string `json:"month"`
	TotalHours              string `json:"total_hours"`
	RawPassengerHours       string `json:"raw_passenger_hours"`
	ConvertedPassengerHours string `json:"converted_passenger_hours"`
	TotalAfterConversion    string `json:"total_after_conversion"`
	ExpectedHours           string `json:"expected_hours"`
	Overtime                string `json:"overtime"`
}

// Build assembles the timesheet for month in loc. Nil settings produce the
// week grid with zero figures.
func Build(month timecalc.Month, loc *time.Location, entriesForDay compensation.EntriesForDay, settings *model.EffectiveSettings) Timesheet {
	ts := Timesheet{
		Month:   month,
		Summary: compensation.SummarizeMonth(month, loc, entriesForDay, settings),
	}

	for _, w := range timecalc.WeeksForMonth(month.First(loc)) {
		week := Week{
			Label:  w.Label(),
			Monday: w.Monday(),
			Sunday: w.Sunday(),
			Hours:  compensation.WeekCompensatedHours(w, entriesForDay, settings, &month),
		}
		for _, d := range w {
			if !month.Contains(d) {
				continue
			}
			entries := sortedByStart(lookup(entriesForDay, d))
			day := Day{Date: d}
			for _, e := range entries {
				var minutes float64
				if settings != nil {
					minutes = compensation.EntryMinutes(e, *settings)
				}
				day.Rows = append(day.Rows, Row{Entry: e, CompensatedMinutes: minutes})
			}
			day.Minutes = compensation.DayCompensatedMinutes(entries, settings)
			if len(entries) > 0 || d.Weekday() != time.Sunday {
				week.HasContent = true
			}
			week.Days = append(week.Days, day)
		}
		ts.Weeks = append(ts.Weeks, week)
	}
	return ts
}

// VisibleWeeks returns the weeks a rendered preview shows.
func (t Timesheet) VisibleWeeks() []Week {
	var out []Week
	for _, w := range t.Weeks {
		if w.HasContent {
			out = append(out, w)
		}
	}
	return out
}

// Figures formats the summary for display.
func (t Timesheet) Figures() Figures {
	s := t.Summary
	return Figures{
		Month:                   t.Month.String(),
		TotalHours:              compensation.FormatHours(s.TotalHours),
		RawPassengerHours:       compensation.FormatHours(s.RawPassengerHours),
		ConvertedPassengerHours: compensation.FormatHours(s.ConvertedPassengerHours),
		TotalAfterConversion:    compensation.FormatHours(s.TotalAfterConversion),
		ExpectedHours:           compensation.FormatHours(s.ExpectedHours),
		Overtime:                compensation.FormatHours(s.Overtime),
	}
}

func lookup(entriesForDay compensation.EntriesForDay, day time.Time) []model.TimeEntry {
	if entriesForDay == nil {
		return nil
	}
	return entriesForDay(day)
}

func sortedByStart(entries []model.TimeEntry) []model.TimeEntry {
	out := make([]model.TimeEntry, len(entries))
	copy(out, entries)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out
}
