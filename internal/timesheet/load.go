package timesheet

import (
	"fmt"
	"time"

	"github.com/Tiliavir/worktime/internal/compensation"
	"github.com/Tiliavir/worktime/internal/model"
	"github.com/Tiliavir/worktime/internal/timecalc"
)

// RangeLoader supplies the entries of an inclusive day range.
type RangeLoader interface {
	LoadRange(from, to time.Time) ([]model.TimeEntry, error)
}

// ForMonth loads every day the month's weeks touch and builds the timesheet.
func ForMonth(src RangeLoader, month timecalc.Month, loc *time.Location, settings *model.EffectiveSettings) (Timesheet, error) {
	weeks := timecalc.WeeksForMonth(month.First(loc))
	from, to := weeks[0].Monday(), weeks[len(weeks)-1].Sunday()

	entries, err := src.LoadRange(from, to)
	if err != nil {
		return Timesheet{}, fmt.Errorf("loading %s: %w", month, err)
	}
	return Build(month, loc, compensation.IndexByDay(entries, loc), settings), nil
}
