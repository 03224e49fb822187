package cmd

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tiliavir/worktime/internal/model"
)

func TestGroupByDayUsesDisplayLocation(t *testing.T) {
	berlin := time.FixedZone("CEST", 2*60*60)
	entries := []model.TimeEntry{
		// Stored with a UTC offset, but already Mar 3 in the display zone.
		{ID: "late", Location: "Office", Start: time.Date(2026, 3, 2, 23, 0, 0, 0, time.UTC)},
		{ID: "morning", Location: "Office", Start: time.Date(2026, 3, 3, 8, 0, 0, 0, berlin)},
		{ID: "next", Location: "Home", Start: time.Date(2026, 3, 4, 9, 0, 0, 0, berlin)},
	}

	order, byDay := groupByDay(entries, berlin)
	assert.Equal(t, []string{"2026-03-03", "2026-03-04"}, order)
	require.Len(t, byDay["2026-03-03"], 2)
	assert.Equal(t, "late", byDay["2026-03-03"][0].ID)
	assert.Equal(t, "morning", byDay["2026-03-03"][1].ID)

	order, _ = groupByDay(entries, time.UTC)
	assert.Equal(t, []string{"2026-03-02", "2026-03-03", "2026-03-04"}, order)
}
