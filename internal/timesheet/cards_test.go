package timesheet_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tiliavir/worktime/internal/model"
	"github.com/Tiliavir/worktime/internal/timesheet"
)

func TestCards(t *testing.T) {
	now := clock(2026, 3, 2, 18, 15)
	open := model.TimeEntry{ID: "open", Location: "Office", Start: clock(2026, 3, 2, 17, 30)}
	entries := append(fixture()[:1], open, model.TimeEntry{
		ID: "til", Location: model.LocationTimeOffInLieu, Start: clock(2026, 3, 2, 8, 0), End: ptr(clock(2026, 3, 2, 9, 0)),
	})

	cards := timesheet.Cards(entries, *settings(), now)
	require.Len(t, cards, 3)

	assert.Equal(t, "til", cards[0].ID, "sorted by start")
	assert.Equal(t, "00:00:00", cards[0].Compensated)

	assert.Equal(t, timesheet.Card{
		ID: "a", Location: "Office", Start: "09:00", End: "17:00",
		Compensated: "08:00:00", CompensatedMinutes: 480,
	}, cards[1])

	assert.True(t, cards[2].Open)
	assert.Equal(t, "00:00:00", cards[2].Compensated, "running timers are not credited")
	assert.Equal(t, "00:45:00", cards[2].Elapsed)
}

func TestCardsDurationOnly(t *testing.T) {
	sick := fixture()[3]
	cards := timesheet.Cards([]model.TimeEntry{sick}, *settings(), time.Now())
	require.Len(t, cards, 1)
	assert.Empty(t, cards[0].Start)
	assert.Empty(t, cards[0].End)
	assert.Equal(t, "08:00:00", cards[0].Compensated)
}

type sliceLoader struct {
	entries  []model.TimeEntry
	from, to time.Time
	err      error
}

func (l *sliceLoader) LoadRange(from, to time.Time) ([]model.TimeEntry, error) {
	l.from, l.to = from, to
	return l.entries, l.err
}

func TestForMonth(t *testing.T) {
	src := &sliceLoader{entries: fixture()}
	ts, err := timesheet.ForMonth(src, march, time.UTC, settings())
	require.NoError(t, err)

	assert.Equal(t, "2026-02-23", src.from.Format("2006-01-02"), "first Monday of the grid")
	assert.Equal(t, "2026-04-05", src.to.Format("2006-01-02"), "last Sunday of the grid")
	assert.Equal(t, build(t).Figures(), ts.Figures())
}

func TestForMonthError(t *testing.T) {
	_, err := timesheet.ForMonth(&sliceLoader{err: errors.New("disk gone")}, march, time.UTC, settings())
	assert.ErrorContains(t, err, "disk gone")
}

func ptr(t time.Time) *time.Time { return &t }
