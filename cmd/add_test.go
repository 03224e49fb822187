package cmd

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tiliavir/worktime/internal/model"
	"github.com/Tiliavir/worktime/internal/timecalc"
)

func TestBuildEntry(t *testing.T) {
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	t.Run("interval gets suggested pause", func(t *testing.T) {
		e, suggested, err := buildEntry(entryInput{Location: "Office", Day: day, Start: "08:00", End: "17:30"})
		require.NoError(t, err)
		assert.True(t, suggested)
		assert.Equal(t, 45.0, e.PauseMinutes)
		require.NotNil(t, e.End)
		assert.Equal(t, "17:30", timecalc.FormatClock(*e.End))
		assert.Equal(t, "manual", e.Source)
	})

	t.Run("explicit zero pause is kept", func(t *testing.T) {
		e, suggested, err := buildEntry(entryInput{Location: "Office", Day: day, Start: "08:00", End: "17:30", HasPause: true})
		require.NoError(t, err)
		assert.False(t, suggested)
		assert.Equal(t, 0.0, e.PauseMinutes)
	})

	t.Run("travel counts towards the pause", func(t *testing.T) {
		e, suggested, err := buildEntry(entryInput{Location: "Client", Day: day, Start: "08:00", End: "13:00", Driver: 1.5})
		require.NoError(t, err)
		assert.True(t, suggested)
		assert.Equal(t, 30.0, e.PauseMinutes)
		assert.Equal(t, 1.5, e.DriverTimeHours)
	})

	t.Run("duration", func(t *testing.T) {
		e, _, err := buildEntry(entryInput{Location: "Home", Day: day, Minutes: 90, HasMinutes: true})
		require.NoError(t, err)
		require.NotNil(t, e.DurationMinutes)
		assert.Equal(t, 90.0, *e.DurationMinutes)
		assert.Equal(t, 12, e.Start.Hour())
	})

	t.Run("special location defaults to work hours", func(t *testing.T) {
		e, _, err := buildEntry(entryInput{Location: model.LocationPTO, Day: day, DefaultMinutes: 480})
		require.NoError(t, err)
		require.NotNil(t, e.DurationMinutes)
		assert.Equal(t, 480.0, *e.DurationMinutes)
		assert.Equal(t, "2026-03-02", timecalc.DayKey(e.Start))
	})

	t.Run("special location ignores travel", func(t *testing.T) {
		e, suggested, err := buildEntry(entryInput{Location: model.LocationSickLeave, Day: day, Start: "08:00", End: "18:00", Passenger: 2})
		require.NoError(t, err)
		assert.False(t, suggested)
		assert.Equal(t, 0.0, e.PassengerTimeHours)
		assert.Equal(t, 0.0, e.PauseMinutes)
	})
}

func TestBuildEntryErrors(t *testing.T) {
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	tests := map[string]entryInput{
		"missing location":  {Day: day, Start: "08:00", End: "09:00"},
		"end before start":  {Location: "Office", Day: day, Start: "10:00", End: "09:00"},
		"times and minutes": {Location: "Office", Day: day, Start: "08:00", End: "09:00", Minutes: 60, HasMinutes: true},
		"no times":          {Location: "Office", Day: day},
		"negative driver":   {Location: "Office", Day: day, Start: "08:00", End: "09:00", Driver: -1},
		"only start":        {Location: "Office", Day: day, Start: "08:00"},
	}
	for name, in := range tests {
		t.Run(name, func(t *testing.T) {
			_, _, err := buildEntry(in)
			require.Error(t, err)
			var ee *exitError
			require.True(t, errors.As(err, &ee))
			assert.Equal(t, exitUser, ee.code)
		})
	}
}

func TestBuildEntryInvalidTime(t *testing.T) {
	_, _, err := buildEntry(entryInput{Location: "Office", Day: time.Now(), Start: "25:00", End: "17:00"})
	assert.True(t, errors.Is(err, timecalc.ErrInvalidTimeFormat))
}

func TestAddHelpListsSpecialLocations(t *testing.T) {
	for _, loc := range model.SpecialLocations {
		assert.Contains(t, addCmd.Long, loc)
	}
	assert.Contains(t, addCmd.Long, "--location SICK_LEAVE|PTO|BANK_HOLIDAY|TIME_OFF_IN_LIEU.")
}
