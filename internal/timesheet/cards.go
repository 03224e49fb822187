package timesheet

import (
	"time"

	"github.com/Tiliavir/worktime/internal/compensation"
	"github.com/Tiliavir/worktime/internal/model"
	"github.com/Tiliavir/worktime/internal/timecalc"
)

// Card is the display form of a single entry.
type Card struct {
	ID       string `json:"id"`
	Location string `json:"location"`
	Start    string `json:"start,omitempty"`
	End      string `json:"end,omitempty"`
	// Compensated is the credited time as HH:MM:SS.
	Compensated        string  `json:"compensated"`
	CompensatedMinutes float64 `json:"compensated_minutes"`
	Open               bool    `json:"open"`
	// Elapsed is the wall-clock time of a running timer as HH:MM:SS.
	Elapsed string `json:"elapsed,omitempty"`
}

// Cards renders entries in start order. Running timers are credited 0 and
// carry their elapsed time separately.
func Cards(entries []model.TimeEntry, settings model.EffectiveSettings, now time.Time) []Card {
	sorted := sortedByStart(entries)
	cards := make([]Card, 0, len(sorted))
	for _, e := range sorted {
		minutes := compensation.EntryMinutes(e, settings)
		c := Card{
			ID:                 e.ID,
			Location:           e.Location,
			Compensated:        timecalc.FormatMinutesHHMMSS(minutes),
			CompensatedMinutes: minutes,
			Open:               e.IsOpen(),
		}
		if !e.IsDurationOnly() {
			c.Start = timecalc.FormatClock(e.Start)
		}
		if e.End != nil {
			c.End = timecalc.FormatClock(*e.End)
		}
		if c.Open {
			c.Elapsed = timecalc.FormatDurationHHMMSS(int64(now.Sub(e.Start).Seconds()))
		}
		cards = append(cards, c)
	}
	return cards
}
