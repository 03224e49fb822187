// Package suggest ranks historical entry values for data-entry autocomplete.
//
// Rankings are recomputed on every call from the entries passed in. Ties are
// resolved by an explicit key (count, then last use, then first appearance),
// never by map iteration order.
package suggest

import (
	"sort"
	"strings"
	"time"

	"github.com/Tiliavir/worktime/internal/model"
	"github.com/Tiliavir/worktime/internal/timecalc"
)

const (
	DefaultLocationLimit = 5
	DefaultTimeLimit     = 3
)

// LocationOptions controls SuggestLocations.
type LocationOptions struct {
	Limit       int  // 0 means DefaultLocationLimit
	RecentFirst bool // rank by last use only
	FilterText  string
}

// TimeOptions controls SuggestStartTimes and SuggestEndTimes.
type TimeOptions struct {
	Location  string        // exact match; empty means any
	DayOfWeek *time.Weekday // nil means any day
	Limit     int           // 0 means DefaultTimeLimit
}

type candidate struct {
	value    string
	count    int
	lastUsed time.Time
	order    int
}

type tally struct {
	byValue map[string]*candidate
	list    []*candidate
}

func newTally() *tally {
	return &tally{byValue: make(map[string]*candidate)}
}

func (t *tally) add(value string, used time.Time) {
	c, ok := t.byValue[value]
	if !ok {
		c = &candidate{value: value, order: len(t.list)}
		t.byValue[value] = c
		t.list = append(t.list, c)
	}
	c.count++
	if used.After(c.lastUsed) {
		c.lastUsed = used
	}
}

// ranked sorts candidates and returns at most limit values.
func (t *tally) ranked(limit int, recentOnly bool) []string {
	sort.SliceStable(t.list, func(i, j int) bool {
		a, b := t.list[i], t.list[j]
		if !recentOnly && a.count != b.count {
			return a.count > b.count
		}
		if !a.lastUsed.Equal(b.lastUsed) {
			return a.lastUsed.After(b.lastUsed)
		}
		return a.order < b.order
	})
	if limit > len(t.list) {
		limit = len(t.list)
	}
	out := make([]string, 0, limit)
	for _, c := range t.list[:limit] {
		out = append(out, c.value)
	}
	return out
}

// SuggestLocations ranks distinct locations by frequency, then most recent use.
// With RecentFirst the ranking is by most recent use only. FilterText keeps
// locations containing it, case-insensitively.
func SuggestLocations(entries []model.TimeEntry, opts LocationOptions) []string {
	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultLocationLimit
	}
	filter := strings.ToLower(opts.FilterText)

	t := newTally()
	for _, e := range entries {
		if strings.TrimSpace(e.Location) == "" {
			continue
		}
		if filter != "" && !strings.Contains(strings.ToLower(e.Location), filter) {
			continue
		}
		t.add(e.Location, e.Start)
	}
	return t.ranked(limit, opts.RecentFirst)
}

// SuggestStartTimes ranks "HH:mm" start times of interval entries by
// frequency, then most recent use.
func SuggestStartTimes(entries []model.TimeEntry, opts TimeOptions) []string {
	return suggestTimes(entries, opts, func(e model.TimeEntry) (time.Time, bool) {
		return e.Start, true
	})
}

// SuggestEndTimes is SuggestStartTimes for end times; entries without an end
// are ignored and the weekday filter applies to the end time.
func SuggestEndTimes(entries []model.TimeEntry, opts TimeOptions) []string {
	return suggestTimes(entries, opts, func(e model.TimeEntry) (time.Time, bool) {
		if e.End == nil {
			return time.Time{}, false
		}
		return *e.End, true
	})
}

func suggestTimes(entries []model.TimeEntry, opts TimeOptions, pick func(model.TimeEntry) (time.Time, bool)) []string {
	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultTimeLimit
	}

	t := newTally()
	for _, e := range entries {
		if e.IsDurationOnly() {
			continue
		}
		if opts.Location != "" && e.Location != opts.Location {
			continue
		}
		ts, ok := pick(e)
		if !ok {
			continue
		}
		if opts.DayOfWeek != nil && ts.Weekday() != *opts.DayOfWeek {
			continue
		}
		t.add(timecalc.FormatClock(ts), ts)
	}
	return t.ranked(limit, false)
}
