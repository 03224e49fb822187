package suggest

import "time"

// Pause thresholds on total activity (work plus travel).
const (
	LongDayThreshold  = 9 * time.Hour
	ShortDayThreshold = 6 * time.Hour

	LongDayPauseMinutes  = 45
	ShortDayPauseMinutes = 30
)

// SuggestPause proposes a default pause for a prospective entry. It reports
// false when the day is short enough to need none.
func SuggestPause(start, end time.Time, travelMinutes float64) (int, bool) {
	total := end.Sub(start) + time.Duration(travelMinutes*float64(time.Minute))
	switch {
	case total > LongDayThreshold:
		return LongDayPauseMinutes, true
	case total > ShortDayThreshold:
		return ShortDayPauseMinutes, true
	default:
		return 0, false
	}
}

// TravelMinutes converts driver and passenger hours into travel minutes.
func TravelMinutes(driverHours, passengerHours float64) float64 {
	return (driverHours + passengerHours) * 60
}
