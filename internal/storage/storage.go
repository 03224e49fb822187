package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/Tiliavir/worktime/internal/model"
	"github.com/Tiliavir/worktime/internal/timecalc"
)

// ErrEntryNotFound is returned when an entry id does not exist on the given day.
var ErrEntryNotFound = errors.New("entry not found")

// Store persists time entries. Entries belong to the local calendar day of
// their start time.
type Store interface {
	// LoadRange returns all entries whose day lies in [from, to], ordered by start.
	LoadRange(from, to time.Time) ([]model.TimeEntry, error)
	// Save inserts or replaces an entry by id.
	Save(entry model.TimeEntry) error
	// Delete removes the entry with id from day.
	Delete(id string, day time.Time) error
	// FindActive returns the most recent open entry started in the week up
	// to asOf, or nil.
	FindActive(asOf time.Time) (*model.TimeEntry, error)
	Close() error
}

// Open returns the store for driver ("files" or "sqlite") rooted at path.
func Open(driver, path string, logger *zap.Logger) (Store, error) {
	switch driver {
	case "", DriverFiles:
		return NewFileStore(path, logger), nil
	case DriverSQLite:
		return OpenSQLite(path, logger)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", driver)
	}
}

const (
	DriverFiles  = "files"
	DriverSQLite = "sqlite"
)

// ActiveLookbackDays bounds how far back FindActive looks for a running timer.
const ActiveLookbackDays = 7

// BaseDir returns the root data directory (~/.worktime).
func BaseDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".worktime"), nil
}

// FileStore keeps one JSON file per calendar day under Base.
type FileStore struct {
	Base   string
	logger *zap.Logger
}

// NewFileStore returns a FileStore rooted at base.
func NewFileStore(base string, logger *zap.Logger) *FileStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileStore{Base: base, logger: logger}
}

// dayFilePath returns the path for the given date's JSON file.
func (s *FileStore) dayFilePath(t time.Time) string {
	return filepath.Join(s.Base, t.Format("2006"), t.Format("01"), t.Format("02")+".json")
}

// LoadDay loads the DayFile for the given date. Returns an empty DayFile if not found.
func (s *FileStore) LoadDay(t time.Time) (model.DayFile, error) {
	path := s.dayFilePath(t)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return model.DayFile{Date: timecalc.DayKey(t), Entries: []model.TimeEntry{}}, nil
	}
	if err != nil {
		return model.DayFile{}, fmt.Errorf("storage error reading %s: %w", path, err)
	}

	var df model.DayFile
	if err := json.Unmarshal(data, &df); err != nil {
		// Back up corrupt file and abort.
		backupPath := path + ".corrupt"
		_ = os.Rename(path, backupPath)
		s.logger.Warn("corrupt day file backed up", zap.String("path", path), zap.String("backup", backupPath), zap.Error(err))
		return model.DayFile{}, fmt.Errorf("corrupt JSON in %s (backed up to %s): %w", path, backupPath, err)
	}
	return df, nil
}

// SaveDay atomically writes a DayFile for the given date.
func (s *FileStore) SaveDay(t time.Time, df model.DayFile) error {
	path := s.dayFilePath(t)
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("storage error creating directories: %w", err)
	}

	data, err := json.MarshalIndent(df, "", "  ")
	if err != nil {
		return fmt.Errorf("storage error marshalling JSON: %w", err)
	}

	// Atomic write: write to temp file then rename.
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o600); err != nil {
		return fmt.Errorf("storage error writing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("storage error renaming temp file: %w", err)
	}
	s.logger.Debug("day file written", zap.String("path", path), zap.Int("entries", len(df.Entries)))
	return nil
}

// Save replaces or appends an entry in the DayFile of its start day.
func (s *FileStore) Save(entry model.TimeEntry) error {
	day := entry.Start
	df, err := s.LoadDay(day)
	if err != nil {
		return err
	}
	for i, e := range df.Entries {
		if e.ID == entry.ID {
			df.Entries[i] = entry
			return s.SaveDay(day, df)
		}
	}
	df.Entries = append(df.Entries, entry)
	return s.SaveDay(day, df)
}

// Delete removes an entry from the given day's file.
func (s *FileStore) Delete(id string, day time.Time) error {
	df, err := s.LoadDay(day)
	if err != nil {
		return err
	}
	for i, e := range df.Entries {
		if e.ID == id {
			df.Entries = append(df.Entries[:i], df.Entries[i+1:]...)
			return s.SaveDay(day, df)
		}
	}
	return fmt.Errorf("%w: %s on %s", ErrEntryNotFound, id, timecalc.DayKey(day))
}

// FindActive searches the week of day files up to asOf (most recent first)
// for an open entry.
func (s *FileStore) FindActive(asOf time.Time) (*model.TimeEntry, error) {
	// Check the past few days to handle crash-recovery across midnight.
	for i := 0; i < ActiveLookbackDays; i++ {
		df, err := s.LoadDay(asOf.AddDate(0, 0, -i))
		if err != nil {
			return nil, err
		}
		for j := len(df.Entries) - 1; j >= 0; j-- {
			if df.Entries[j].IsOpen() {
				e := df.Entries[j]
				return &e, nil
			}
		}
	}
	return nil, nil
}

// LoadRange loads all entries in [from, to] inclusive.
func (s *FileStore) LoadRange(from, to time.Time) ([]model.TimeEntry, error) {
	var entries []model.TimeEntry
	last := timecalc.StartOfDay(to)
	for d := timecalc.StartOfDay(from); !d.After(last); d = d.AddDate(0, 0, 1) {
		df, err := s.LoadDay(d)
		if err != nil {
			return nil, err
		}
		entries = append(entries, df.Entries...)
	}
	sortByStart(entries)
	return entries, nil
}

// Close is a no-op for file storage.
func (s *FileStore) Close() error { return nil }

func sortByStart(entries []model.TimeEntry) {
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Start.Before(entries[j].Start) })
}
