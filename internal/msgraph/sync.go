package msgraph

import (
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/Tiliavir/worktime/internal/compensation"
	"github.com/Tiliavir/worktime/internal/model"
	"github.com/Tiliavir/worktime/internal/storage"
	"github.com/Tiliavir/worktime/internal/timecalc"
)

// SourceOutlook marks entries imported from the calendar.
const SourceOutlook = "outlook"

// SyncResult holds counters for a sync operation.
type SyncResult struct {
	Imported int
	Skipped  int
	Updated  int
	Errors   int
}

// MapOptions controls how events become entries.
type MapOptions struct {
	// Timezone is the IANA zone the event times are expressed in.
	Timezone string
	// DefaultLocation is used for events without a location.
	DefaultLocation string
	// DefaultWorkHours is credited per day of an all-day out-of-office event.
	DefaultWorkHours float64
}

// SyncOptions configures a sync run.
type SyncOptions struct {
	MapOptions
	DryRun bool
	// Out receives one progress line per event; nil discards them.
	Out io.Writer
}

// parseGraphTime parses a Graph API dateTime string in the given timezone.
// Graph returns times like "2026-02-27T09:00:00.0000000" without a zone suffix
// when a Prefer: outlook.timezone header is set.
func parseGraphTime(dt, tz string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, dt); err == nil {
		return t, nil
	}

	loc := time.UTC
	if tz != "" {
		if l, err := time.LoadLocation(tz); err == nil {
			loc = l
		}
	}

	for _, layout := range []string{
		"2006-01-02T15:04:05.0000000",
		"2006-01-02T15:04:05",
	} {
		if t, err := time.ParseInLocation(layout, dt, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse graph time %q", dt)
}

// isOutOfOffice reports whether the event marks the user as away.
func isOutOfOffice(event CalendarEvent) bool {
	return event.ShowAs == "oof"
}

// shouldSkip returns true if the event should not be imported.
func shouldSkip(event CalendarEvent) bool {
	switch {
	case event.IsCancelled:
		return true
	case event.IsAllDay && !isOutOfOffice(event):
		return true
	case event.Sensitivity == "private":
		return true
	case event.ShowAs == "free":
		return true
	case event.Start.DateTime == "" || event.End.DateTime == "":
		return true
	}
	return false
}

// MapEventToEntries converts a Graph CalendarEvent into time entries.
//
// Timed events become one interval entry at the event location. Out-of-office
// events are logged as PTO. An all-day out-of-office event yields one
// duration-only PTO entry per weekday it covers, credited with the default
// work hours.
func MapEventToEntries(event CalendarEvent, opts MapOptions) ([]model.TimeEntry, error) {
	start, err := parseGraphTime(event.Start.DateTime, opts.Timezone)
	if err != nil {
		return nil, fmt.Errorf("parsing start time: %w", err)
	}
	end, err := parseGraphTime(event.End.DateTime, opts.Timezone)
	if err != nil {
		return nil, fmt.Errorf("parsing end time: %w", err)
	}
	if end.Before(start) {
		return nil, fmt.Errorf("event ends before it starts")
	}

	if event.IsAllDay {
		var entries []model.TimeEntry
		for d := timecalc.StartOfDay(start); d.Before(end); d = d.AddDate(0, 0, 1) {
			if d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
				continue
			}
			e := model.NewDurationEntry(model.LocationPTO, d, opts.DefaultWorkHours*60)
			e.ExternalID = event.ID + "@" + timecalc.DayKey(d)
			e.Source = SourceOutlook
			entries = append(entries, e)
		}
		return entries, nil
	}

	location := event.Location.DisplayName
	if location == "" {
		location = opts.DefaultLocation
	}
	if isOutOfOffice(event) {
		location = model.LocationPTO
	}
	return []model.TimeEntry{{
		ID:         model.NewEntryID(),
		ExternalID: event.ID,
		Location:   location,
		Start:      start,
		End:        &end,
		Source:     SourceOutlook,
	}}, nil
}

// findByExternalID searches loaded entries for one with the given external id.
func findByExternalID(entries []model.TimeEntry, externalID string) *model.TimeEntry {
	for i := range entries {
		if entries[i].ExternalID == externalID {
			return &entries[i]
		}
	}
	return nil
}

func sameImport(a, b model.TimeEntry) bool {
	if a.Location != b.Location || !a.Start.Equal(b.Start) {
		return false
	}
	if (a.End == nil) != (b.End == nil) || (a.End != nil && !a.End.Equal(*b.End)) {
		return false
	}
	if (a.DurationMinutes == nil) != (b.DurationMinutes == nil) ||
		(a.DurationMinutes != nil && *a.DurationMinutes != *b.DurationMinutes) {
		return false
	}
	return true
}

// SyncEvents maps events to entries and persists them in store. Entries are
// matched by external id, so re-running a sync updates instead of duplicating
// and never touches manually created entries.
func SyncEvents(store storage.Store, events []CalendarEvent, opts SyncOptions, logger *zap.Logger) (SyncResult, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	out := opts.Out
	if out == nil {
		out = io.Discard
	}

	var result SyncResult
	for _, event := range events {
		if shouldSkip(event) {
			logger.Debug("skipping event", zap.String("id", event.ID), zap.String("show_as", event.ShowAs))
			continue
		}

		entries, err := MapEventToEntries(event, opts.MapOptions)
		if err != nil {
			fmt.Fprintf(out, "  ! Error mapping event %q: %v\n", event.Subject, err)
			logger.Warn("mapping event", zap.String("id", event.ID), zap.Error(err))
			result.Errors++
			continue
		}

		for _, entry := range entries {
			existing, err := store.LoadRange(entry.Start, entry.Start)
			if err != nil {
				fmt.Fprintf(out, "  ! Error loading day for %q: %v\n", event.Subject, err)
				logger.Error("loading day", zap.String("day", timecalc.DayKey(entry.Start)), zap.Error(err))
				result.Errors++
				continue
			}

			updated := false
			if found := findByExternalID(existing, entry.ExternalID); found != nil {
				if sameImport(*found, entry) {
					fmt.Fprintf(out, "  – Skipped:  %s (already exists)\n", event.Subject)
					result.Skipped++
					continue
				}
				// Preserve the original ID but update the content.
				entry.ID = found.ID
				entry.UserID = found.UserID
				updated = true
			}

			if !opts.DryRun {
				if err := store.Save(entry); err != nil {
					fmt.Fprintf(out, "  ! Error saving %q: %v\n", event.Subject, err)
					logger.Error("saving entry", zap.String("external_id", entry.ExternalID), zap.Error(err))
					result.Errors++
					continue
				}
			}

			if updated {
				fmt.Fprintf(out, "  ↑ Updated:  %s [%s] (%s)\n", event.Subject, entry.Location, describe(entry))
				result.Updated++
			} else {
				fmt.Fprintf(out, "  ✓ Imported: %s [%s] (%s)\n", event.Subject, entry.Location, describe(entry))
				result.Imported++
			}
		}
	}
	return result, nil
}

func describe(e model.TimeEntry) string {
	length := timecalc.FormatDuration(int64(compensation.RawMinutes(e) * 60))
	if e.DurationMinutes != nil {
		return timecalc.DayKey(e.Start) + ", " + length
	}
	return timecalc.FormatClock(e.Start) + "–" + timecalc.FormatClock(*e.End) + ", " + length
}
