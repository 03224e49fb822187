package model

import (
	"time"

	"github.com/google/uuid"
)

// Special location keys. Entries logged against one of these are compensated
// by fixed rules instead of the pause/driver/passenger formula.
const (
	LocationSickLeave     = "SICK_LEAVE"
	LocationPTO           = "PTO"
	LocationBankHoliday   = "BANK_HOLIDAY"
	LocationTimeOffInLieu = "TIME_OFF_IN_LIEU"
)

// SpecialLocations lists the reserved location keys in display order.
var SpecialLocations = []string{
	LocationSickLeave,
	LocationPTO,
	LocationBankHoliday,
	LocationTimeOffInLieu,
}

// IsSpecialLocation reports whether loc is one of the reserved location keys.
func IsSpecialLocation(loc string) bool {
	switch loc {
	case LocationSickLeave, LocationPTO, LocationBankHoliday, LocationTimeOffInLieu:
		return true
	}
	return false
}

// TimeEntry is one logged unit of time.
//
// Interval entries carry End. Duration-only entries carry DurationMinutes and a
// Start on the right calendar day (midday by convention); only its date matters.
// An entry with neither End nor DurationMinutes is an open timer.
type TimeEntry struct {
	ID                 string     `json:"id"`
	UserID             string     `json:"user_id"`
	ExternalID         string     `json:"external_id,omitempty"`
	Location           string     `json:"location"`
	Start              time.Time  `json:"start"`
	End                *time.Time `json:"end,omitempty"`
	DurationMinutes    *float64   `json:"duration_minutes,omitempty"`
	PauseMinutes       float64    `json:"pause_minutes"`
	DriverTimeHours    float64    `json:"driver_time_hours"`
	PassengerTimeHours float64    `json:"passenger_time_hours"`
	Source             string     `json:"source"`
}

// IsDurationOnly reports whether the entry is expressed as a minute count.
func (e TimeEntry) IsDurationOnly() bool {
	return e.DurationMinutes != nil
}

// IsOpen reports whether the entry is a running timer.
func (e TimeEntry) IsOpen() bool {
	return e.End == nil && e.DurationMinutes == nil
}

// DayFile is the top-level structure stored in each daily JSON file.
type DayFile struct {
	Date    string      `json:"date"`
	Entries []TimeEntry `json:"entries"`
}

// NewEntryID returns a fresh random entry identifier.
func NewEntryID() string {
	return uuid.NewString()
}

// Midday returns 12:00 local time on t's calendar day. Duration-only entries
// are anchored there so DST shifts never move them to a neighbouring day.
func Midday(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 12, 0, 0, 0, t.Location())
}

// NewDurationEntry builds a duration-only entry on the given day.
func NewDurationEntry(location string, day time.Time, minutes float64) TimeEntry {
	m := minutes
	return TimeEntry{
		ID:              NewEntryID(),
		Location:        location,
		Start:           Midday(day),
		DurationMinutes: &m,
		Source:          "manual",
	}
}
