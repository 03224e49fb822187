// Package compensation turns raw time entries into compensated figures: per
// entry, per week, per month, plus expected hours and overtime. Every function
// is pure and safe for concurrent use; settings are always passed in.
package compensation

import (
	"math"

	"github.com/Tiliavir/worktime/internal/model"
)

// CompensatedMinutes converts one entry into compensated minutes.
//
//   - TIME_OFF_IN_LIEU is always 0.
//   - Duration-only entries count their DurationMinutes as-is.
//   - SICK_LEAVE, PTO and BANK_HOLIDAY intervals count the raw elapsed time.
//   - Ordinary intervals subtract the pause and add driver and passenger time
//     at their percentages.
//   - Open entries (no end, no duration) count 0.
//
// The result is never negative.
func CompensatedMinutes(e model.TimeEntry, driverPercent, passengerPercent float64) float64 {
	if e.Location == model.LocationTimeOffInLieu {
		return 0
	}
	if e.DurationMinutes != nil {
		return math.Max(*e.DurationMinutes, 0)
	}
	if e.End == nil {
		return 0
	}

	work := e.End.Sub(e.Start).Minutes()
	if model.IsSpecialLocation(e.Location) {
		return math.Max(work, 0)
	}

	compensated := work - e.PauseMinutes +
		e.DriverTimeHours*60*driverPercent/100 +
		e.PassengerTimeHours*60*passengerPercent/100
	return math.Max(compensated, 0)
}

// EntryMinutes is CompensatedMinutes with the percentages taken from settings.
func EntryMinutes(e model.TimeEntry, settings model.EffectiveSettings) float64 {
	return CompensatedMinutes(e, settings.DriverCompensationPercent, settings.PassengerCompensationPercent)
}

// RawMinutes is the elapsed interval (or the stated duration) without any
// compensation rule applied. Open entries count 0.
func RawMinutes(e model.TimeEntry) float64 {
	if e.DurationMinutes != nil {
		return math.Max(*e.DurationMinutes, 0)
	}
	if e.End == nil {
		return 0
	}
	return math.Max(e.End.Sub(e.Start).Minutes(), 0)
}
