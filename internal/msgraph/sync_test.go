package msgraph_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/Tiliavir/worktime/internal/model"
	"github.com/Tiliavir/worktime/internal/msgraph"
	"github.com/Tiliavir/worktime/internal/storage"
)

func makeEvent(id, subject, start, end string) msgraph.CalendarEvent {
	return msgraph.CalendarEvent{
		ID:          id,
		Subject:     subject,
		Sensitivity: "normal",
		ShowAs:      "busy",
		Start:       msgraph.GraphTime{DateTime: start, TimeZone: "UTC"},
		End:         msgraph.GraphTime{DateTime: end, TimeZone: "UTC"},
	}
}

var mapOpts = msgraph.MapOptions{Timezone: "UTC", DefaultLocation: "Meetings", DefaultWorkHours: 8}

func loadDay(t *testing.T, s *storage.FileStore, day time.Time) []model.TimeEntry {
	t.Helper()
	df, err := s.LoadDay(day)
	if err != nil {
		t.Fatalf("LoadDay: %v", err)
	}
	return df.Entries
}

func TestMapEventToEntries(t *testing.T) {
	event := makeEvent("ext-id-1", "Sprint Planning", "2026-02-27T09:00:00", "2026-02-27T10:30:00")
	entries, err := msgraph.MapEventToEntries(event, mapOpts)
	if err != nil {
		t.Fatalf("MapEventToEntries: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(entries))
	}
	entry := entries[0]
	if entry.ExternalID != "ext-id-1" {
		t.Errorf("ExternalID = %q, want %q", entry.ExternalID, "ext-id-1")
	}
	if entry.Location != "Meetings" {
		t.Errorf("Location = %q, want default %q", entry.Location, "Meetings")
	}
	if entry.Source != msgraph.SourceOutlook {
		t.Errorf("Source = %q, want %q", entry.Source, msgraph.SourceOutlook)
	}
	if entry.End == nil || entry.End.Sub(entry.Start) != 90*time.Minute {
		t.Errorf("End = %v, want 90 minutes after start", entry.End)
	}
	if entry.IsDurationOnly() {
		t.Error("timed event must not be duration-only")
	}
}

func TestMapEventToEntries_Location(t *testing.T) {
	event := makeEvent("ext-id-2", "Workshop", "2026-02-27T10:00:00", "2026-02-27T12:00:00")
	event.Location.DisplayName = "Client HQ"

	entries, err := msgraph.MapEventToEntries(event, mapOpts)
	if err != nil {
		t.Fatalf("MapEventToEntries: %v", err)
	}
	if entries[0].Location != "Client HQ" {
		t.Errorf("Location = %q, want %q", entries[0].Location, "Client HQ")
	}
}

func TestMapEventToEntries_OutOfOffice(t *testing.T) {
	event := makeEvent("oof-1", "Doctor", "2026-02-27T08:00:00", "2026-02-27T11:00:00")
	event.ShowAs = "oof"
	event.Location.DisplayName = "Clinic"

	entries, err := msgraph.MapEventToEntries(event, mapOpts)
	if err != nil {
		t.Fatalf("MapEventToEntries: %v", err)
	}
	if entries[0].Location != model.LocationPTO {
		t.Errorf("Location = %q, want %q", entries[0].Location, model.LocationPTO)
	}
}

func TestMapEventToEntries_AllDayOutOfOffice(t *testing.T) {
	// Friday to Monday inclusive; the weekend is not credited.
	event := makeEvent("vac-1", "Vacation", "2026-02-27T00:00:00.0000000", "2026-03-03T00:00:00.0000000")
	event.IsAllDay = true
	event.ShowAs = "oof"

	entries, err := msgraph.MapEventToEntries(event, mapOpts)
	if err != nil {
		t.Fatalf("MapEventToEntries: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2 (Fri, Mon)", len(entries))
	}
	wantIDs := []string{"vac-1@2026-02-27", "vac-1@2026-03-02"}
	for i, e := range entries {
		if e.ExternalID != wantIDs[i] {
			t.Errorf("entries[%d].ExternalID = %q, want %q", i, e.ExternalID, wantIDs[i])
		}
		if e.Location != model.LocationPTO {
			t.Errorf("entries[%d].Location = %q, want PTO", i, e.Location)
		}
		if e.DurationMinutes == nil || *e.DurationMinutes != 480 {
			t.Errorf("entries[%d].DurationMinutes = %v, want 480", i, e.DurationMinutes)
		}
		if e.Start.Hour() != 12 {
			t.Errorf("entries[%d] anchored at %v, want midday", i, e.Start)
		}
	}
}

func TestMapEventToEntries_Invalid(t *testing.T) {
	bad := makeEvent("x", "Broken", "yesterday", "2026-02-27T10:00:00")
	if _, err := msgraph.MapEventToEntries(bad, mapOpts); err == nil {
		t.Error("expected error for unparseable start")
	}
	reversed := makeEvent("y", "Reversed", "2026-02-27T10:00:00", "2026-02-27T09:00:00")
	if _, err := msgraph.MapEventToEntries(reversed, mapOpts); err == nil {
		t.Error("expected error for event ending before it starts")
	}
}

func TestSyncEvents_Import(t *testing.T) {
	s := storage.NewFileStore(t.TempDir(), nil)
	events := []msgraph.CalendarEvent{
		makeEvent("ext-1", "Architecture Board", "2026-02-27T09:00:00", "2026-02-27T10:30:00"),
	}
	var out bytes.Buffer
	opts := msgraph.SyncOptions{MapOptions: mapOpts, Out: &out}

	result, err := msgraph.SyncEvents(s, events, opts, zap.NewNop())
	if err != nil {
		t.Fatalf("SyncEvents: %v", err)
	}
	if result.Imported != 1 || result.Skipped != 0 {
		t.Errorf("result = %+v, want 1 imported", result)
	}
	if !strings.Contains(out.String(), "Imported: Architecture Board [Meetings] (09:00–10:30, 1h 30m)") {
		t.Errorf("unexpected progress output %q", out.String())
	}

	entries := loadDay(t, s, time.Date(2026, 2, 27, 0, 0, 0, 0, time.UTC))
	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(entries))
	}
	if entries[0].ExternalID != "ext-1" {
		t.Errorf("ExternalID = %q, want %q", entries[0].ExternalID, "ext-1")
	}
}

func TestSyncEvents_Idempotent(t *testing.T) {
	s := storage.NewFileStore(t.TempDir(), nil)
	events := []msgraph.CalendarEvent{
		makeEvent("ext-1", "Architecture Board", "2026-02-27T09:00:00", "2026-02-27T10:30:00"),
	}
	opts := msgraph.SyncOptions{MapOptions: mapOpts}

	r1, err := msgraph.SyncEvents(s, events, opts, nil)
	if err != nil {
		t.Fatalf("first SyncEvents: %v", err)
	}
	if r1.Imported != 1 {
		t.Errorf("first sync: Imported = %d, want 1", r1.Imported)
	}

	r2, err := msgraph.SyncEvents(s, events, opts, nil)
	if err != nil {
		t.Fatalf("second SyncEvents: %v", err)
	}
	if r2.Imported != 0 || r2.Skipped != 1 {
		t.Errorf("second sync: %+v, want 0 imported and 1 skipped", r2)
	}

	if n := len(loadDay(t, s, time.Date(2026, 2, 27, 0, 0, 0, 0, time.UTC))); n != 1 {
		t.Fatalf("entries = %d after 2 syncs, want 1", n)
	}
}

func TestSyncEvents_Update(t *testing.T) {
	s := storage.NewFileStore(t.TempDir(), nil)
	event := makeEvent("ext-1", "Architecture Board", "2026-02-27T09:00:00", "2026-02-27T10:30:00")
	opts := msgraph.SyncOptions{MapOptions: mapOpts}

	if _, err := msgraph.SyncEvents(s, []msgraph.CalendarEvent{event}, opts, nil); err != nil {
		t.Fatalf("first SyncEvents: %v", err)
	}
	day := time.Date(2026, 2, 27, 0, 0, 0, 0, time.UTC)
	originalID := loadDay(t, s, day)[0].ID

	event.End.DateTime = "2026-02-27T11:00:00"
	event.Location.DisplayName = "Room 4"

	r2, err := msgraph.SyncEvents(s, []msgraph.CalendarEvent{event}, opts, nil)
	if err != nil {
		t.Fatalf("second SyncEvents: %v", err)
	}
	if r2.Updated != 1 {
		t.Errorf("Updated = %d, want 1", r2.Updated)
	}

	entries := loadDay(t, s, day)
	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(entries))
	}
	if entries[0].ID != originalID {
		t.Errorf("ID changed from %q to %q", originalID, entries[0].ID)
	}
	if entries[0].Location != "Room 4" || entries[0].End.Hour() != 11 {
		t.Errorf("entry not updated: %+v", entries[0])
	}
}

func TestSyncEvents_SkipFiltered(t *testing.T) {
	s := storage.NewFileStore(t.TempDir(), nil)
	opts := msgraph.SyncOptions{MapOptions: mapOpts}

	tests := []struct {
		name   string
		mutate func(e *msgraph.CalendarEvent)
	}{
		{"cancelled", func(e *msgraph.CalendarEvent) { e.IsCancelled = true }},
		{"all-day", func(e *msgraph.CalendarEvent) { e.IsAllDay = true }},
		{"private", func(e *msgraph.CalendarEvent) { e.Sensitivity = "private" }},
		{"free", func(e *msgraph.CalendarEvent) { e.ShowAs = "free" }},
		{"no end", func(e *msgraph.CalendarEvent) { e.End.DateTime = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := makeEvent("skip-"+tt.name, tt.name, "2026-02-27T09:00:00", "2026-02-27T10:00:00")
			tt.mutate(&e)
			r, err := msgraph.SyncEvents(s, []msgraph.CalendarEvent{e}, opts, nil)
			if err != nil {
				t.Fatalf("SyncEvents: %v", err)
			}
			if r != (msgraph.SyncResult{}) {
				t.Errorf("expected nothing processed for %s event, got %+v", tt.name, r)
			}
		})
	}
}

func TestSyncEvents_DryRun(t *testing.T) {
	s := storage.NewFileStore(t.TempDir(), nil)
	events := []msgraph.CalendarEvent{
		makeEvent("ext-dry", "Dry Run Event", "2026-02-27T09:00:00", "2026-02-27T10:00:00"),
	}
	opts := msgraph.SyncOptions{MapOptions: mapOpts, DryRun: true}

	result, err := msgraph.SyncEvents(s, events, opts, nil)
	if err != nil {
		t.Fatalf("SyncEvents dry-run: %v", err)
	}
	if result.Imported != 1 {
		t.Errorf("dry-run Imported = %d, want 1", result.Imported)
	}
	if n := len(loadDay(t, s, time.Date(2026, 2, 27, 0, 0, 0, 0, time.UTC))); n != 0 {
		t.Errorf("dry-run wrote %d entries, want 0", n)
	}
}

func TestSyncEvents_ExternalIDPreservesManualEntries(t *testing.T) {
	s := storage.NewFileStore(t.TempDir(), nil)
	day := time.Date(2026, 2, 27, 9, 0, 0, 0, time.UTC)
	end := day.Add(time.Hour)

	manual := model.TimeEntry{ID: "manual-1", Location: "Office", Start: day, End: &end, Source: "manual"}
	if err := s.Save(manual); err != nil {
		t.Fatalf("inserting manual entry: %v", err)
	}

	events := []msgraph.CalendarEvent{
		makeEvent("ext-1", "Meeting", "2026-02-27T11:00:00", "2026-02-27T12:00:00"),
	}
	if _, err := msgraph.SyncEvents(s, events, msgraph.SyncOptions{MapOptions: mapOpts}, nil); err != nil {
		t.Fatalf("SyncEvents: %v", err)
	}

	entries := loadDay(t, s, day)
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2 (manual + imported)", len(entries))
	}
	var found bool
	for _, e := range entries {
		if e.ID == "manual-1" {
			found = true
			if e.Source != "manual" {
				t.Errorf("manual entry source changed to %q", e.Source)
			}
		}
	}
	if !found {
		t.Error("manual entry not found after sync")
	}
}

func TestSyncEvents_AllDayOutOfOfficeCreditsDefaultHours(t *testing.T) {
	s := storage.NewFileStore(t.TempDir(), nil)
	event := makeEvent("vac", "Vacation", "2026-03-02T00:00:00", "2026-03-03T00:00:00")
	event.IsAllDay = true
	event.ShowAs = "oof"

	opts := msgraph.SyncOptions{MapOptions: msgraph.MapOptions{Timezone: "UTC", DefaultWorkHours: 7.5}}
	r, err := msgraph.SyncEvents(s, []msgraph.CalendarEvent{event}, opts, nil)
	if err != nil {
		t.Fatalf("SyncEvents: %v", err)
	}
	if r.Imported != 1 {
		t.Fatalf("Imported = %d, want 1", r.Imported)
	}
	entries := loadDay(t, s, time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC))
	if len(entries) != 1 || *entries[0].DurationMinutes != 450 {
		t.Errorf("entries = %+v, want one 450-minute PTO entry", entries)
	}
}
